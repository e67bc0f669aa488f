package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "record.yaml")
	if err := os.WriteFile(path, []byte("web_server: nginx\n"), 0600); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := zerolog.New(nil).Level(zerolog.Disabled)
	w := NewWatcher(NewLoader(), logger)
	w.SetDebounce(20 * time.Millisecond)

	reloaded := make(chan Record, 4)
	if err := w.Watch(ctx, path, func(r Record, err error) {
		if err == nil {
			reloaded <- r
		}
	}); err != nil {
		t.Fatalf("failed to watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("web_server: mern\nyarn: true\n"), 0600); err != nil {
		t.Fatalf("failed to rewrite: %v", err)
	}

	select {
	case r := <-reloaded:
		if r.WebServer != "mern" || !r.InstallYarn {
			t.Errorf("unexpected reloaded record: %+v", r)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "record.yaml")
	if err := os.WriteFile(path, []byte("web_server: nginx\n"), 0600); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewWatcher(NewLoader(), zerolog.New(nil).Level(zerolog.Disabled))
	w.SetDebounce(10 * time.Millisecond)

	calls := make(chan struct{}, 4)
	if err := w.Watch(ctx, path, func(Record, error) { calls <- struct{}{} }); err != nil {
		t.Fatalf("failed to watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0600); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	select {
	case <-calls:
		t.Error("reload fired for an unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}
