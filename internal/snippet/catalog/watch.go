package catalog

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads snippet files under the loaded directories as they change
// until ctx is done. Events for one file are coalesced over the debounce
// interval. New subdirectories are watched as they appear.
func (c *Catalog) Watch(ctx context.Context) error {
	c.mu.RLock()
	dirs := append([]string(nil), c.dirs...)
	c.mu.RUnlock()
	if len(dirs) == 0 {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	for _, dir := range dirs {
		if err := watchTree(fsw, dir); err != nil {
			return err
		}
	}
	c.logger.Debug("watching %d snippet directories", len(dirs))

	pending := make(map[string]fsnotify.Op)
	timer := time.NewTimer(c.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchTree(fsw, event.Name); err != nil {
						c.logger.WithField("dir", event.Name).Warn("watch failed: %v", err)
					}
					continue
				}
			}
			if _, ok := FormatFor(event.Name); !ok || isHidden(event.Name) {
				continue
			}
			pending[event.Name] |= event.Op
			timer.Reset(c.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn("watch error: %v", err)

		case <-timer.C:
			for path, op := range pending {
				c.reload(path, op)
			}
			clear(pending)
		}
	}
}

func (c *Catalog) reload(path string, op fsnotify.Op) {
	log := c.logger.WithField("path", path)

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if n := c.RemovePath(path); n > 0 {
			log.Info("removed %d snippets", n)
		}
		return
	}

	n, err := c.LoadFile(path)
	if err != nil {
		// keep the last good templates for this file
		log.Warn("reload failed: %v", err)
		return
	}
	log.WithField("op", op.String()).Info("reloaded %d snippets", n)
}

func watchTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && isHidden(p) {
			return filepath.SkipDir
		}
		return fsw.Add(p)
	})
}
