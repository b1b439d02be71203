package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestTokenWatcherPublishesRotatedToken(t *testing.T) {
	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "token")
	if err := os.WriteFile(tokenFile, []byte("initial"), 0o600); err != nil {
		t.Fatal(err)
	}

	tokens := make(chan string, 4)
	tw, err := NewTokenWatcher(tokenFile, 10*time.Millisecond, func(token string) {
		tokens <- token
	}, nil)
	if err != nil {
		t.Fatalf("NewTokenWatcher() error: %v", err)
	}

	if err := tw.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer tw.Stop()

	if !tw.IsRunning() {
		t.Fatal("watcher not running after Start()")
	}

	// fsnotify needs mtime to move forward for the change check.
	time.Sleep(20 * time.Millisecond)
	if err := os.WriteFile(tokenFile, []byte("rotated\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case token := <-tokens:
		if token != "rotated" {
			t.Errorf("published token = %q, want %q", token, "rotated")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("rotated token was never published")
	}
}

func TestTokenWatcherIgnoresEmptyFile(t *testing.T) {
	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "token")
	if err := os.WriteFile(tokenFile, []byte("initial"), 0o600); err != nil {
		t.Fatal(err)
	}

	tokens := make(chan string, 4)
	tw, err := NewTokenWatcher(tokenFile, 10*time.Millisecond, func(token string) {
		tokens <- token
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := tw.Start(); err != nil {
		t.Fatal(err)
	}
	defer tw.Stop()

	time.Sleep(20 * time.Millisecond)
	if err := os.WriteFile(tokenFile, []byte(""), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case token := <-tokens:
		t.Errorf("empty file published token %q", token)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestTokenWatcherRequiresFile(t *testing.T) {
	if _, err := NewTokenWatcher("", time.Second, func(string) {}, nil); err == nil {
		t.Error("NewTokenWatcher accepted an empty path")
	}
}

func TestTokenWatcherDoubleStart(t *testing.T) {
	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "token")
	if err := os.WriteFile(tokenFile, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	tw, err := NewTokenWatcher(tokenFile, time.Second, func(string) {}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := tw.Start(); err != nil {
		t.Fatal(err)
	}
	defer tw.Stop()

	if err := tw.Start(); err == nil {
		t.Error("second Start() did not fail")
	}
}
