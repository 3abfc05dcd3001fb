package evseat

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/fsnotify/fsnotify"
	"github.com/juju/errors"

	"github.com/semafor/evseat/evdev"
)

// EnumeratePath adds every event node currently present under dir,
// lowest numbered first. Nodes that fail to open are logged and
// skipped so one bad permission does not abort enumeration.
func (self *Context) EnumeratePath(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Annotatef(err, "enumerate %s", dir)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if evdev.IsEventNode(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) < len(names[j])
		}
		return names[i] < names[j]
	})
	for _, name := range names {
		if _, err := self.AddPath(filepath.Join(dir, name)); err != nil {
			self.Log.Errorf("enumerate: %s", errors.ErrorStack(err))
		}
	}
	return nil
}

type hotplugMessage struct {
	path    string
	removed bool
}

// WatchPath follows node creation and removal under dir. Registry
// mutation stays on the dispatch thread; the watcher goroutine only
// forwards paths.
func (self *Context) WatchPath(dir string) error {
	if self.hotplug != nil {
		return errors.Errorf("watch already active")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Annotate(err, "hotplug watcher")
	}
	if err = w.Add(dir); err != nil {
		_ = w.Close()
		return errors.Annotatef(err, "hotplug watch %s", dir)
	}
	self.hotplug = make(chan hotplugMessage, 16)
	self.watcher = w
	self.alive.Add(1)
	go self.watchLoop(w)
	return nil
}

func (self *Context) watchLoop(w *fsnotify.Watcher) {
	defer self.alive.Done()
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !evdev.IsEventNode(filepath.Base(ev.Name)) {
				continue
			}
			switch {
			case ev.Op.Has(fsnotify.Create):
				self.hotplug <- hotplugMessage{path: ev.Name}
			case ev.Op.Has(fsnotify.Remove):
				self.hotplug <- hotplugMessage{path: ev.Name, removed: true}
			default:
				continue
			}
			self.wake()
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			self.Log.Errorf("hotplug: %v", err)
		case <-self.alive.StopChan():
			return
		}
	}
}

func (self *Context) drainHotplug() {
	if self.hotplug == nil {
		return
	}
	for {
		select {
		case msg := <-self.hotplug:
			if msg.removed {
				if err := self.RemovePath(msg.path); err != nil {
					self.Log.Debugf("hotplug remove: %v", err)
				}
			} else if _, err := self.AddPath(msg.path); err != nil {
				self.Log.Errorf("hotplug add: %s", errors.ErrorStack(err))
			}
		default:
			return
		}
	}
}
