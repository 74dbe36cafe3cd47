package memstore

import (
	"errors"
	"testing"
)

func TestSetGetCopies(t *testing.T) {
	s := New()

	in := []byte("light")
	if err := s.Set("theme", in); err != nil {
		t.Fatalf("Set: %v", err)
	}
	in[0] = 'X'

	got, err := s.Get("theme")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "light" {
		t.Errorf("Get = %q, want light", got)
	}

	got[0] = 'Y'
	again, _ := s.Get("theme")
	if string(again) != "light" {
		t.Errorf("stored value mutated through Get: %q", again)
	}
}

func TestGetMissing(t *testing.T) {
	got, err := New().Get("tasks")
	if err != nil || got != nil {
		t.Errorf("Get = %q, %v; want nil, nil", got, err)
	}
}

func TestFailWrites(t *testing.T) {
	s := New()
	boom := errors.New("quota exceeded")

	s.FailWrites(boom)
	if err := s.Set("tasks", []byte("[]")); !errors.Is(err, boom) {
		t.Fatalf("Set error = %v, want %v", err, boom)
	}
	if s.Writes() != 0 {
		t.Errorf("Writes = %d, want 0", s.Writes())
	}

	s.FailWrites(nil)
	if err := s.Set("tasks", []byte("[]")); err != nil {
		t.Fatalf("Set after recovery: %v", err)
	}
	if s.Writes() != 1 {
		t.Errorf("Writes = %d, want 1", s.Writes())
	}
}
