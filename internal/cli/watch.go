package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce groups the bursts of events editors emit on save.
const defaultDebounce = 200 * time.Millisecond

// watchPaths calls fn each time one of paths changes, at most once per
// debounce interval, until ctx is done. Directories are watched as a whole;
// files through their parent directory so that editors replacing a file do
// not end the watch. Data source URLs are skipped.
func watchPaths(ctx context.Context, logger *log.Logger, paths []string, debounce time.Duration, fn func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dirs := make(map[string]bool)
	files := make(map[string]bool)
	for _, p := range paths {
		if strings.Contains(p, "://") {
			logger.Warn("not watching data source", "path", p)
			continue
		}
		p = filepath.Clean(p)
		fi, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		dir := p
		if fi.IsDir() {
			dirs[p] = true
		} else {
			files[p] = true
			dir = filepath.Dir(p)
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		logger.Debug("watching", "path", p)
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			name := filepath.Clean(ev.Name)
			if !dirs[filepath.Dir(name)] && !files[name] {
				continue
			}
			logger.Debug("change", "file", name, "op", ev.Op.String())
			pending = time.After(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		case <-pending:
			pending = nil
			fn()
		}
	}
}
