package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

type validatedConfig struct {
	Port int `yaml:"port"`
}

func (c *validatedConfig) Validate() error {
	if c.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "name: dagbok\nport: 8080\n")

	var cfg testConfig
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Name != "dagbok" || cfg.Port != 8080 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TEST_APP_NAME", "from-env")
	path := writeFile(t, "name: ${TEST_APP_NAME}\nport: 1\n")

	var cfg testConfig
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Name != "from-env" {
		t.Errorf("name = %q, want env expansion", cfg.Name)
	}
}

func TestLoadRunsValidator(t *testing.T) {
	path := writeFile(t, "port: -1\n")

	var cfg validatedConfig
	if err := Load(path, &cfg); err == nil {
		t.Error("load with failing validator = nil error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	var cfg testConfig
	if err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err == nil {
		t.Error("load missing file = nil error")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeFile(t, "name: [unclosed\n")

	var cfg testConfig
	if err := Load(path, &cfg); err == nil {
		t.Error("load malformed yaml = nil error")
	}
}

func TestLoadIfExists(t *testing.T) {
	cfg := testConfig{Name: "default", Port: 1234}
	if err := LoadIfExists(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if cfg.Name != "default" || cfg.Port != 1234 {
		t.Errorf("defaults clobbered: %+v", cfg)
	}

	path := writeFile(t, "name: loaded\nport: 9\n")
	if err := LoadIfExists(path, &cfg); err != nil {
		t.Fatalf("existing file: %v", err)
	}
	if cfg.Name != "loaded" || cfg.Port != 9 {
		t.Errorf("cfg = %+v", cfg)
	}
}
