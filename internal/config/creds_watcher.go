package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"careerpilot/internal/errors"
)

// TokenWatcher watches the API token file and pushes new tokens to a callback
// so long-running flows pick up rotated credentials without a restart.
type TokenWatcher struct {
	mu sync.RWMutex

	tokenFile   string
	lastModTime time.Time

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}

	onToken func(token string)
	logger  *errors.Logger

	running bool
}

// NewTokenWatcher creates a watcher for the given token file. onToken receives
// the trimmed file contents after each debounced change.
func NewTokenWatcher(tokenFile string, debounceDelay time.Duration, onToken func(token string), logger *errors.Logger) (*TokenWatcher, error) {
	if tokenFile == "" {
		return nil, fmt.Errorf("token file is required")
	}
	if debounceDelay == 0 {
		debounceDelay = time.Second
	}

	return &TokenWatcher{
		tokenFile:     tokenFile,
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1), // Buffered to prevent blocking
		onToken:       onToken,
		logger:        logger,
	}, nil
}

// Start begins watching the token file for changes
func (tw *TokenWatcher) Start() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.running {
		return fmt.Errorf("token watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	tw.fsWatcher = watcher

	if stat, err := os.Stat(tw.tokenFile); err == nil {
		tw.lastModTime = stat.ModTime()
	}

	if err := tw.addTokenFileToWatcher(); err != nil {
		tw.fsWatcher.Close()
		return err
	}

	tw.running = true
	go tw.watchLoop()

	if tw.logger != nil {
		tw.logger.Info("API token file watcher started",
			"file", tw.tokenFile,
			"debounce_delay", tw.debounceDelay)
	}
	return nil
}

// Stop stops the token file watcher
func (tw *TokenWatcher) Stop() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if !tw.running {
		return nil
	}

	close(tw.stopChan)

	if tw.debounceTimer != nil {
		tw.debounceTimer.Stop()
	}

	if tw.fsWatcher != nil {
		if err := tw.fsWatcher.Close(); err != nil {
			if tw.logger != nil {
				tw.logger.LogError(err, "Failed to close file system watcher")
			}
			return err
		}
	}

	tw.running = false

	if tw.logger != nil {
		tw.logger.Info("API token file watcher stopped")
	}
	return nil
}

// addTokenFileToWatcher watches the file and its directory. The directory
// watch catches atomic writes (rename operations).
func (tw *TokenWatcher) addTokenFileToWatcher() error {
	if err := tw.fsWatcher.Add(tw.tokenFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to watch file %s: %w", tw.tokenFile, err)
	}

	dir := filepath.Dir(tw.tokenFile)
	if err := tw.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	return nil
}

// watchLoop is the main event loop for file watching
func (tw *TokenWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-tw.fsWatcher.Events:
			if !ok {
				return
			}
			if tw.shouldProcessEvent(event) {
				tw.scheduleReload()
			}

		case err, ok := <-tw.fsWatcher.Errors:
			if !ok {
				return
			}
			if tw.logger != nil {
				tw.logger.LogError(err, "File watcher error")
			}

		case <-tw.reloadChan:
			// Debounced reload trigger
			if tw.hasTokenFileChanged() {
				tw.publishToken()
			}

		case <-tw.stopChan:
			return
		}
	}
}

// shouldProcessEvent determines if a file system event should trigger a reload check
func (tw *TokenWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Name != tw.tokenFile && filepath.Base(event.Name) != filepath.Base(tw.tokenFile) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// hasTokenFileChanged checks if the file has been modified since last check
func (tw *TokenWatcher) hasTokenFileChanged() bool {
	stat, err := os.Stat(tw.tokenFile)
	if err != nil {
		return false
	}

	tw.mu.Lock()
	defer tw.mu.Unlock()
	if stat.ModTime().After(tw.lastModTime) {
		tw.lastModTime = stat.ModTime()
		return true
	}
	return false
}

// publishToken reads the file and hands the new token to the callback
func (tw *TokenWatcher) publishToken() {
	tokenBytes, err := os.ReadFile(tw.tokenFile)
	if err != nil {
		if tw.logger != nil {
			tw.logger.LogError(err, "Failed to read rotated token file", "file", tw.tokenFile)
		}
		return
	}

	token := strings.TrimSpace(string(tokenBytes))
	if token == "" {
		if tw.logger != nil {
			tw.logger.Warn("Rotated token file is empty, keeping current token", "file", tw.tokenFile)
		}
		return
	}

	if tw.logger != nil {
		tw.logger.Info("API token rotated", "file", tw.tokenFile)
	}
	tw.onToken(token)
}

// scheduleReload schedules a debounced reload
func (tw *TokenWatcher) scheduleReload() {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.debounceTimer != nil {
		tw.debounceTimer.Stop()
	}

	tw.debounceTimer = time.AfterFunc(tw.debounceDelay, func() {
		select {
		case tw.reloadChan <- struct{}{}:
		default:
			// Reload already scheduled
		}
	})
}

// IsRunning returns whether the watcher is currently running
func (tw *TokenWatcher) IsRunning() bool {
	tw.mu.RLock()
	defer tw.mu.RUnlock()
	return tw.running
}
