package screen

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"musehub/logger"
)

// LoadFile reads a keyword list from path, one keyword per line. Blank
// lines and lines starting with '#' are skipped.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open keywords file: %w", err)
	}
	defer f.Close()

	var keywords []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		keywords = append(keywords, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read keywords file: %w", err)
	}
	return keywords, nil
}

// Watch reloads the screen's keyword set whenever the file at path changes.
// It blocks until stop is closed, so run it in its own goroutine. Editors
// that replace the file on save trigger Create/Rename events, so the watch
// is placed on the parent directory.
func (s *Screen) Watch(path string, stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create keywords watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch keywords directory: %w", err)
	}

	target := filepath.Clean(path)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			keywords, err := LoadFile(path)
			if err != nil {
				logger.Warn("keywords file changed but reload failed",
					logger.String("path", path),
					logger.ErrorField(err))
				continue
			}
			s.Replace(keywords)
			logger.Info("reloaded banned keywords",
				logger.String("path", path),
				logger.Int("count", len(keywords)))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("keywords watcher error", logger.ErrorField(err))
		case <-stop:
			return nil
		}
	}
}
