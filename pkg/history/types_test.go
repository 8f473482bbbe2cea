package history

import (
	"errors"
	"testing"
	"time"

	"mdnav-hq/mdnav/pkg/tql/value"
)

func TestNewEntry(t *testing.T) {
	a := NewEntry(".h1", "README.md")
	b := NewEntry(".h1", "README.md")

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected unique IDs, got %q and %q", a.ID, b.ID)
	}
	if a.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt should be UTC, got %v", a.CreatedAt.Location())
	}
	if a.Query != ".h1" || a.Source != "README.md" {
		t.Errorf("unexpected entry: %+v", a)
	}
}

func TestEntrySucceedAndFail(t *testing.T) {
	tests := []struct {
		name       string
		apply      func(*Entry)
		wantStatus string
		wantError  string
		wantCount  int
	}{
		{
			name:       "success",
			apply:      func(e *Entry) { e.Succeed(3, time.Millisecond) },
			wantStatus: StatusSuccess,
			wantCount:  3,
		},
		{
			name:       "failure",
			apply:      func(e *Entry) { e.Fail(errors.New("boom"), "parse_error", time.Millisecond) },
			wantStatus: StatusError,
			wantError:  "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEntry("q", "-")
			tt.apply(e)
			if e.Status != tt.wantStatus || e.Error != tt.wantError || e.ResultCount != tt.wantCount {
				t.Errorf("entry = %+v", e)
			}
			if e.Duration != time.Millisecond {
				t.Errorf("Duration = %v", e.Duration)
			}
		})
	}
}

func TestEntryValue(t *testing.T) {
	e := NewEntry(".code | count", "notes.md")
	e.Succeed(2, 1500*time.Microsecond)

	obj, ok := e.Value().(*value.Object)
	if !ok {
		t.Fatalf("Value() = %T, want *value.Object", e.Value())
	}

	want := []string{"id", "created_at", "query", "source", "status", "results", "duration_ms"}
	keys := obj.Keys()
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
	if v, _ := obj.Get("duration_ms"); v != value.Number(1.5) {
		t.Errorf("duration_ms = %v, want 1.5", v)
	}

	e.Fail(errors.New("bad"), "", 0)
	if !e.Value().(*value.Object).Has("error") {
		t.Error("failed entry should carry an error key")
	}
}

func TestStorageErrorUnwrap(t *testing.T) {
	err := NewStorageError("memory", "record", ErrClosed)
	if !errors.Is(err, ErrClosed) {
		t.Error("StorageError should unwrap to its cause")
	}
	retErr := &RetentionError{RetentionDays: 1, Cause: err}
	if !errors.Is(retErr, ErrClosed) {
		t.Error("RetentionError should unwrap to its cause")
	}
}
