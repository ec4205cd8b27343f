package sse

import (
	"strings"
	"testing"
	"time"
)

func TestBroker_SubscribeUnsubscribe(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	if n := b.ClientCount(); n != 0 {
		t.Fatalf("initial client count = %d", n)
	}

	ch1 := b.Subscribe()
	ch2 := b.Subscribe()
	if n := b.ClientCount(); n != 2 {
		t.Fatalf("client count after subscribe = %d, want 2", n)
	}

	b.Unsubscribe(ch1)
	if n := b.ClientCount(); n != 1 {
		t.Fatalf("client count after unsubscribe = %d, want 1", n)
	}
	if _, ok := <-ch1; ok {
		t.Error("unsubscribed channel not closed")
	}

	b.Unsubscribe(ch2)
	if n := b.ClientCount(); n != 0 {
		t.Fatalf("client count = %d, want 0", n)
	}
}

func TestBroker_PublishNoteEvent(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ch := b.Subscribe()
	b.PublishNoteEvent("created", "2024-03-11", "09:00")

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.HasPrefix(s, "event: note.created\n") {
			t.Errorf("event frame = %q", s)
		}
		if !strings.Contains(s, `"date":"2024-03-11"`) || !strings.Contains(s, `"time":"09:00"`) {
			t.Errorf("event data = %q", s)
		}
		if !strings.HasSuffix(s, "\n\n") {
			t.Errorf("frame not terminated by blank line: %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestBroker_EventKinds(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ch := b.Subscribe()
	for _, kind := range []string{"created", "updated", "deleted"} {
		b.PublishNoteEvent(kind, "2024-03-11", "09:00")
		select {
		case msg := <-ch:
			want := "event: note." + kind + "\n"
			if !strings.HasPrefix(string(msg), want) {
				t.Errorf("kind %s: frame = %q", kind, msg)
			}
		case <-time.After(time.Second):
			t.Fatalf("kind %s: no event delivered", kind)
		}
	}
}

func TestBroker_PublishReachesAllClients(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ch1 := b.Subscribe()
	ch2 := b.Subscribe()

	b.Publish(Event{Type: "ping", Data: map[string]string{"n": "1"}})

	for i, ch := range []chan []byte{ch1, ch2} {
		select {
		case msg := <-ch:
			if !strings.HasPrefix(string(msg), "event: ping\n") {
				t.Errorf("client %d frame = %q", i, msg)
			}
		case <-time.After(time.Second):
			t.Fatalf("client %d got no event", i)
		}
	}
}

func TestBroker_CloseShutsDownClients(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()

	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("client channel delivered data after close")
		}
	case <-time.After(time.Second):
		t.Fatal("client channel not closed")
	}

	// Operations after close are no-ops.
	b.PublishNoteEvent("created", "2024-03-11", "09:00")
	if n := b.ClientCount(); n != 0 {
		t.Errorf("client count after close = %d", n)
	}
	if _, ok := <-b.Subscribe(); ok {
		t.Error("subscribe after close returned an open channel")
	}
}
