package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DropWatcher monitors a local drop directory: files created there are
// queued for upload to the current remote path. It is the terminal
// analog of the drag-and-drop zone.
type DropWatcher struct {
	dir       string
	fsWatcher *fsnotify.Watcher
	dropped   chan File
	stop      chan struct{}
	log       *logrus.Entry
}

// settle is how long a created file must sit unchanged before it is
// considered fully written and queued.
const settle = 500 * time.Millisecond

// NewDropWatcher watches dir, creating it when missing.
func NewDropWatcher(dir string) (*DropWatcher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("drop directory: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &DropWatcher{
		dir:       dir,
		fsWatcher: fw,
		dropped:   make(chan File, 16),
		stop:      make(chan struct{}),
		log:       logrus.WithField("component", "drop"),
	}, nil
}

// Dir returns the watched directory.
func (w *DropWatcher) Dir() string { return w.dir }

// Files delivers settled dropped files.
func (w *DropWatcher) Files() <-chan File { return w.dropped }

// Start runs the watch loop until Stop.
func (w *DropWatcher) Start() {
	go w.loop()
}

func (w *DropWatcher) loop() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			go w.settleAndQueue(event.Name)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("drop watcher error")
		case <-w.stop:
			return
		}
	}
}

// settleAndQueue waits for the file size to stop changing, then emits it.
// Editors and file managers write in bursts; queueing a half-written file
// would upload garbage.
func (w *DropWatcher) settleAndQueue(path string) {
	var lastSize int64 = -1
	for {
		select {
		case <-w.stop:
			return
		case <-time.After(settle):
		}
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			return
		}
		if info.Size() == lastSize {
			select {
			case w.dropped <- File{Name: filepath.Base(path), Path: path, Size: info.Size()}:
				w.log.WithField("file", info.Name()).Info("file dropped for upload")
			default:
				w.log.WithField("file", info.Name()).Warn("drop queue full, ignoring file")
			}
			return
		}
		lastSize = info.Size()
	}
}

// Stop halts the loop and releases the fsnotify handle.
func (w *DropWatcher) Stop() {
	close(w.stop)
	w.fsWatcher.Close()
}
