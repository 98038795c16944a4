// Package watch reports when an opened video file is rewritten on disk.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"

	"github.com/user/trimcrop-cli/preview"
)

// FileWatcher watches a single file through its parent directory, so editors
// and encoders that replace the file by rename are still seen.
type FileWatcher struct {
	path   string
	fs     *fsnotify.Watcher
	settle *preview.Debouncer
	log    hclog.Logger

	changes chan string
	done    chan struct{}
	once    sync.Once
}

// New starts watching path. A change is reported once writes have been quiet
// for settleFor.
func New(path string, settleFor time.Duration, logger hclog.Logger) (*FileWatcher, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("watch path must be a file: %s", abs)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, err
	}

	w := &FileWatcher{
		path:    abs,
		fs:      fs,
		settle:  preview.NewDebouncer(settleFor, nil),
		log:     logger.Named("watch"),
		changes: make(chan string, 1),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Path returns the absolute path being watched.
func (w *FileWatcher) Path() string {
	return w.path
}

// Changes receives the file path each time the file settles after a change.
// Changes that pile up while nobody reads are coalesced.
func (w *FileWatcher) Changes() <-chan string {
	return w.changes
}

// Done is closed by Close.
func (w *FileWatcher) Done() <-chan struct{} {
	return w.done
}

// Close stops watching.
func (w *FileWatcher) Close() error {
	w.once.Do(func() {
		close(w.done)
		w.settle.Cancel()
	})
	return w.fs.Close()
}

func (w *FileWatcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case evt, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) != w.path {
				continue
			}
			if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) {
				continue
			}
			w.log.Trace("file event", "op", evt.Op.String())
			w.settle.Arm(func(uint64) { w.signal() })
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

func (w *FileWatcher) signal() {
	if _, err := os.Stat(w.path); err != nil {
		// Removed and not (yet) replaced.
		return
	}
	select {
	case <-w.done:
	case w.changes <- w.path:
	default:
	}
}
