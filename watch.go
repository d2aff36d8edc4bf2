package pinewood

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

const watchDebounce = 100 * time.Millisecond

// resourceWatcher forwards debounced file changes under a root directory as
// cleaned resource names.
type resourceWatcher struct {
	root    string
	watcher *fsnotify.Watcher
	events  chan string
	errs    chan error
	closeCh chan struct{}
	once    sync.Once
}

func newResourceWatcher(root string) (*resourceWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// fsnotify is not recursive.
	err = fs.WalkDir(os.DirFS(root), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(filepath.Join(root, filepath.FromSlash(p)))
		}
		return nil
	})
	if err != nil {
		_ = w.Close()
		return nil, err
	}

	rw := &resourceWatcher{
		root:    root,
		watcher: w,
		events:  make(chan string, 64),
		errs:    make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go rw.run()
	return rw, nil
}

func (w *resourceWatcher) run() {
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.watcher.Add(event.Name)
					continue
				}
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < watchDebounce {
				continue
			}
			last[event.Name] = now
			rel, err := filepath.Rel(w.root, event.Name)
			if err != nil {
				continue
			}
			select {
			case w.events <- cleanName(filepath.ToSlash(rel)):
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func (w *resourceWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

// Watch starts reloading changed files from RootDirectory. It has no effect
// on resources built over an fs.FS without a disk root.
func (r *Resources) Watch() error {
	if r.watcher != nil {
		return nil
	}
	if r.RootDirectory == "" {
		return errors.New("resources: watch needs a root directory")
	}
	w, err := newResourceWatcher(r.RootDirectory)
	if err != nil {
		return errors.Wrapf(err, "resources: watch %s", r.RootDirectory)
	}
	r.watcher = w
	debugf("watching %s for changes", r.RootDirectory)
	return nil
}

// Watching reports whether a watcher is running.
func (r *Resources) Watching() bool {
	return r.watcher != nil
}

// PollChanges drains pending change notifications without blocking,
// reloads the affected cache entries and returns their names. Call it
// from the update loop.
func (r *Resources) PollChanges() []string {
	if r.watcher == nil {
		return nil
	}
	var changed []string
	for {
		select {
		case name := <-r.watcher.events:
			r.Reload(name)
			changed = append(changed, name)
		case err := <-r.watcher.errs:
			warnf("resource watcher: %v", err)
		default:
			return changed
		}
	}
}

// Close stops the watcher, if any.
func (r *Resources) Close() error {
	if r.watcher == nil {
		return nil
	}
	err := r.watcher.Close()
	r.watcher = nil
	return err
}
