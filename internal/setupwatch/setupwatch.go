// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

// Package setupwatch watches a calibration setup directory tree for
// late-added cells and places while a task source is running, so a run
// started against a partial setup picks up new cells/places without a
// restart, per SPEC_FULL.md §B's fsnotify wiring.
package setupwatch

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanavreddy/mackenzie/internal/logging"
)

var log = logging.Component("setupwatch")

// Watch recursively adds every directory under root to an fsnotify
// watcher and calls onChange, debounced by 2s, whenever a directory is
// created or renamed anywhere in the tree. The returned watcher must be
// closed by the caller.
func Watch(root string, onChange func()) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := addTree(watcher, root); err != nil {
		watcher.Close()
		return nil, err
	}

	go run(watcher, root, onChange)
	return watcher, nil
}

func addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func run(watcher *fsnotify.Watcher, root string, onChange func()) {
	var timer *time.Timer
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				if err := watcher.Add(event.Name); err != nil {
					log.WithError(err).Warn("watching new setup subdirectory")
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(2*time.Second, onChange)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.WithError(err).Warn("watching setup directory")
		}
	}
}
