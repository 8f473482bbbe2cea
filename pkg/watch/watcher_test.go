package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestNew(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "doc.md")
	if err := os.WriteFile(file, []byte("# Title\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "existing file", config: Config{Path: file}},
		{name: "empty path", config: Config{}, wantErr: true},
		{name: "missing directory", config: Config{Path: filepath.Join(dir, "nope", "doc.md")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := New(tt.config, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if w != nil {
				if w.config.Debounce != 100*time.Millisecond {
					t.Errorf("default debounce = %v", w.config.Debounce)
				}
				w.watcher.Close()
			}
		})
	}
}

func TestShouldProcessEvent(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "doc.md")
	os.WriteFile(file, []byte("x"), 0o644)

	w, err := New(Config{Path: file}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.watcher.Close()

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write to target", fsnotify.Event{Name: file, Op: fsnotify.Write}, true},
		{"create of target", fsnotify.Event{Name: file, Op: fsnotify.Create}, true},
		{"chmod of target", fsnotify.Event{Name: file, Op: fsnotify.Chmod}, false},
		{"remove of target", fsnotify.Event{Name: file, Op: fsnotify.Remove}, false},
		{"write to sibling", fsnotify.Event{Name: filepath.Join(dir, "other.md"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.shouldProcessEvent(tt.event); got != tt.want {
				t.Errorf("shouldProcessEvent(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func TestWatch_RerunsOnWrite(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "doc.md")
	if err := os.WriteFile(file, []byte("# One\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(Config{Path: file, Debounce: 30 * time.Millisecond}, nil)
	if err != nil {
		t.Fatal(err)
	}

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func() error {
			calls.Add(1)
			return errors.New("callback errors are logged, not fatal")
		})
	}()

	// Give the loop a moment to start, then write a burst.
	time.Sleep(50 * time.Millisecond)
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(file, []byte("# Two\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if calls.Load() == 0 {
		t.Fatal("callback was not called after write")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch() error = %v", err)
	}
}

func TestWatch_AlreadyRunning(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "doc.md")
	os.WriteFile(file, []byte("x"), 0o644)

	w, err := New(Config{Path: file}, nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx, func() error { return nil }) }()

	deadline := time.Now().Add(time.Second)
	for {
		w.mu.Lock()
		running := w.running
		w.mu.Unlock()
		if running || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := w.Watch(ctx, func() error { return nil }); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Watch() error = %v, want ErrAlreadyRunning", err)
	}
	cancel()
	<-done
}

func TestDebouncer(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var calls atomic.Int32
	for i := 0; i < 5; i++ {
		d.Trigger(func() { calls.Add(1) })
	}
	time.Sleep(150 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Errorf("callback ran %d times, want 1", got)
	}

	d.Trigger(func() { calls.Add(1) })
	d.Stop()
	d.Trigger(func() { calls.Add(1) })
	time.Sleep(100 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Errorf("callback ran after Stop: %d calls", got)
	}
}
