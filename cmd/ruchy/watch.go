package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchFile runs job once, then re-runs it whenever the file changes.
// Blocks until interrupted.
func watchFile(path string, job func() error) {
	runJob := func() {
		if err := job(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	runJob()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fail("ruchy: %v", err)
	}
	defer watcher.Close()

	// watch the directory rather than the file: editors that write via
	// rename would otherwise drop the watch
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		fail("ruchy: cannot watch %s: %v", dir, err)
	}
	fmt.Fprintf(os.Stderr, "[watch] %s\n", path)

	base := filepath.Base(path)
	const debounce = 100 * time.Millisecond
	var lastChange time.Time

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if time.Since(lastChange) < debounce {
				continue
			}
			lastChange = time.Now()
			fmt.Fprintf(os.Stderr, "[watch] %s changed\n", path)
			runJob()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "[watch] error: %v\n", err)
		}
	}
}
