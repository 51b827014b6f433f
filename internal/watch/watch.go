// Package watch reports changes to tree documents using OS-native file
// notifications.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDelay is how long a path must stay quiet before it is reported.
const DefaultDelay = 100 * time.Millisecond

// Watcher batches write, create and rename events on tree documents.
type Watcher struct {
	w       *fsnotify.Watcher
	delay   time.Duration
	log     zerolog.Logger
	ignored map[string]bool
}

// New returns a watcher on paths. A directory watches the tree documents
// directly inside it.
func New(paths []string, delay time.Duration, log *zerolog.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	fw := &Watcher{w: w, delay: delay, log: zerolog.Nop(), ignored: map[string]bool{}}
	if log != nil {
		fw.log = log.With().Str("component", "watch").Logger()
	}
	for _, p := range paths {
		if err := w.Add(p); err != nil {
			w.Close()
			return nil, err
		}
	}
	return fw, nil
}

// IsTreeFile reports whether path names a tree document.
func IsTreeFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Ignore drops events for documents directly inside dir, such as a
// directory the caller writes its own output into.
func (fw *Watcher) Ignore(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	fw.ignored[abs] = true
	return nil
}

func (fw *Watcher) relevant(ev fsnotify.Event) bool {
	if !IsTreeFile(ev.Name) {
		return false
	}
	if abs, err := filepath.Abs(filepath.Dir(ev.Name)); err == nil && fw.ignored[abs] {
		return false
	}
	return ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0
}

// Run calls fn with the changed documents, sorted by first change, until
// ctx ends or fn fails. Watcher errors are logged and do not stop Run.
func (fw *Watcher) Run(ctx context.Context, fn func(changed []string) error) error {
	var (
		pending []string
		seen    = map[string]bool{}
		timer   = time.NewTimer(fw.delay)
	)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.w.Events:
			if !ok {
				return nil
			}
			if !fw.relevant(ev) {
				continue
			}
			if _, err := os.Stat(ev.Name); err != nil {
				continue
			}
			fw.log.Debug().Str("path", ev.Name).Stringer("op", ev.Op).Msg("change")
			if !seen[ev.Name] {
				seen[ev.Name] = true
				pending = append(pending, ev.Name)
			}
			timer.Reset(fw.delay)
		case err, ok := <-fw.w.Errors:
			if !ok {
				return nil
			}
			fw.log.Warn().Err(err).Msg("watch error")
		case <-timer.C:
			batch := pending
			pending, seen = nil, map[string]bool{}
			if err := fn(batch); err != nil {
				return err
			}
		}
	}
}

func (fw *Watcher) Close() error { return fw.w.Close() }
