// Package validate checks externally supplied date/time strings and
// sanitizes note text before it reaches the repository.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/aldenvik/dagbok/internal/apperr"
)

// DateLayout is the canonical calendar date form. It sorts
// lexicographically in chronological order, which the range queries
// rely on.
const DateLayout = "2006-01-02"

// timePattern intentionally checks shape only, not hour/minute ranges:
// "99:99" passes. Tightening this would change the accepted key space,
// so it stays a product decision.
var timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// Date parses s as a canonical YYYY-MM-DD calendar date. Non-existent
// days (e.g. 2024-04-31) are rejected along with malformed input.
func Date(s string) (time.Time, error) {
	if err := validation.Validate(s,
		validation.Required,
		validation.Date(DateLayout),
	); err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q: %s", apperr.ErrInvalidInput, s, err)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q: %s", apperr.ErrInvalidInput, s, err)
	}
	return t, nil
}

// Time checks that s matches the HH:MM shape.
func Time(s string) error {
	if err := validation.Validate(s,
		validation.Required,
		validation.Match(timePattern),
	); err != nil {
		return fmt.Errorf("%w: time %q: %s", apperr.ErrInvalidInput, s, err)
	}
	return nil
}

// textEscaper maps markup-significant characters to numeric character
// references so stored text is inert when rendered as HTML later.
var textEscaper = strings.NewReplacer(
	"&", "&#38;",
	"<", "&#60;",
	">", "&#62;",
	`"`, "&#34;",
	"'", "&#39;",
	"`", "&#96;",
	"=", "&#61;",
	"/", "&#47;",
)

// SanitizeText escapes & < > " ' ` = / to numeric character references.
func SanitizeText(s string) string {
	return textEscaper.Replace(s)
}
