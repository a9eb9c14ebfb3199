package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"tableflip.dev/planner/pkg/record"
)

// Snapshot delivery model: every change to an owner's collection redelivers
// the full current result set to each subscriber. Subscribers that fall
// behind are nudged once and re-list when they catch up, so a burst of
// writes collapses into a single fresh snapshot.

type subscriber struct {
	owner string
	kind  record.Kind
	nudge chan struct{}
}

func (s *subscriber) poke() {
	select {
	case s.nudge <- struct{}{}:
	default:
	}
}

type hub struct {
	mu   sync.Mutex
	subs map[*subscriber]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[*subscriber]struct{})}
}

func (h *hub) add(s *subscriber) {
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
}

func (h *hub) remove(s *subscriber) {
	h.mu.Lock()
	delete(h.subs, s)
	h.mu.Unlock()
}

func (h *hub) publish(owner string, kind record.Kind) {
	h.mu.Lock()
	for s := range h.subs {
		if s.kind == kind && (s.owner == owner || owner == "") {
			s.poke()
		}
	}
	h.mu.Unlock()
}

// deliverSnapshot pushes the freshest full result set to out, latest wins.
// A failed list degrades to an empty visible list with the failure surfaced
// on errs, so subscribers can show an error state instead of a silently
// empty collection.
func deliverSnapshot[T any](out chan []T, errs chan error, list func() ([]T, error)) {
	all, err := list()
	if err != nil {
		all = []T{}
		select {
		case <-errs:
		default:
		}
		select {
		case errs <- err:
		default:
		}
	}
	select {
	case <-out:
	default:
	}
	select {
	case out <- all:
	default:
	}
}

// SubscribeEvents opens a realtime channel for the owner's calendar events.
// The full current list is delivered immediately and again after every
// change; list failures surface on the error channel alongside an empty
// snapshot. Cancel the context or call the CancelFunc to release the
// subscription; both channels close on release.
func (p *persistence) SubscribeEvents(ctx context.Context, owner string) (<-chan []record.Event, <-chan error, CancelFunc, error) {
	out := make(chan []record.Event, 1)
	errs := make(chan error, 1)
	stop := p.subscribe(ctx, owner, record.KindEvent, func(ctx context.Context) {
		deliverSnapshot(out, errs, func() ([]record.Event, error) {
			return p.ListEvents(ctx, owner)
		})
	}, func() { close(out); close(errs) })
	return out, errs, stop, nil
}

// SubscribeTasks mirrors SubscribeEvents for tasks.
func (p *persistence) SubscribeTasks(ctx context.Context, owner string) (<-chan []record.Task, <-chan error, CancelFunc, error) {
	out := make(chan []record.Task, 1)
	errs := make(chan error, 1)
	stop := p.subscribe(ctx, owner, record.KindTask, func(ctx context.Context) {
		deliverSnapshot(out, errs, func() ([]record.Task, error) {
			return p.ListTasks(ctx, owner)
		})
	}, func() { close(out); close(errs) })
	return out, errs, stop, nil
}

// SubscribeNotes mirrors SubscribeEvents for notes.
func (p *persistence) SubscribeNotes(ctx context.Context, owner string) (<-chan []record.Note, <-chan error, CancelFunc, error) {
	out := make(chan []record.Note, 1)
	errs := make(chan error, 1)
	stop := p.subscribe(ctx, owner, record.KindNote, func(ctx context.Context) {
		deliverSnapshot(out, errs, func() ([]record.Note, error) {
			return p.ListNotes(ctx, owner)
		})
	}, func() { close(out); close(errs) })
	return out, errs, stop, nil
}

// subscribe wires a deliver callback to hub notifications for (owner, kind).
// deliver runs once up front so subscribers always start from the current
// state; an empty owner gets exactly that one (empty) delivery and nothing
// more, matching the signed-out behavior.
func (p *persistence) subscribe(ctx context.Context, owner string, kind record.Kind, deliver func(context.Context), done func()) CancelFunc {
	wctx, cancel := context.WithCancel(ctx)

	if owner == "" {
		deliver(wctx)
		var once sync.Once
		go func() {
			<-wctx.Done()
			once.Do(done)
		}()
		return func() {
			cancel()
		}
	}

	if err := p.ensureWatcher(); err != nil {
		// Without fsnotify we still see our own writes through the hub.
		fmt.Fprintf(os.Stderr, "store: watch unavailable: %v\n", err)
	}

	s := &subscriber{owner: owner, kind: kind, nudge: make(chan struct{}, 1)}
	p.hub.add(s)

	go func() {
		defer done()
		defer p.hub.remove(s)

		deliver(wctx)
		for {
			select {
			case <-wctx.Done():
				return
			case <-s.nudge:
				deliver(wctx)
			}
		}
	}()

	return func() {
		cancel()
	}
}

// ensureWatcher starts the shared fsnotify watcher on first use so changes
// made by other processes against the same data dir reach subscribers too.
// The watcher lives for the life of the persistence handle.
func (p *persistence) ensureWatcher() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.watching {
		return nil
	}

	if p.basePath == "" {
		return errors.New("store: persistence base path unknown")
	}
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return fmt.Errorf("store: ensure base path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("store: create watcher: %w", err)
	}

	dirs, err := collectDirs(p.basePath)
	if err != nil {
		watcher.Close()
		return fmt.Errorf("store: enumerate directories: %w", err)
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return fmt.Errorf("store: watch %s: %w", dir, err)
		}
	}

	go p.watchLoop(watcher, dirs)
	p.watching = true
	return nil
}

func (p *persistence) watchLoop(watcher *fsnotify.Watcher, dirs []string) {
	defer watcher.Close()

	watched := make(map[string]struct{}, len(dirs))
	for _, dir := range dirs {
		watched[dir] = struct{}{}
	}

	throttle := newEventThrottle(100 * time.Millisecond)
	defer throttle.Stop()

	for {
		select {
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			// Cannot classify the change; refresh every subscriber.
			throttle.Enqueue("", "", p.hub.publish)
			_ = err
		case evt, ok := <-watcher.Events:
			if !ok {
				return
			}

			if evt.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
					absDir := filepath.Clean(evt.Name)
					if _, found := watched[absDir]; !found {
						if err := watcher.Add(absDir); err != nil {
							fmt.Fprintf(os.Stderr, "store: watch %s: %v\n", absDir, err)
						} else {
							watched[absDir] = struct{}{}
						}
					}
					continue
				}
			}

			owner, kind, ok := p.scopeForPath(evt.Name)
			if !ok {
				continue
			}
			throttle.Enqueue(owner, kind, p.hub.publish)
		}
	}
}

// collectDirs walks base and returns all directories that should be watched.
func collectDirs(base string) ([]string, error) {
	dirs := []string{base}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() && path != base {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// scopeForPath derives the (owner, kind) a changed file belongs to. Layout
// on disk is basePath/kind/owner/id.
func (p *persistence) scopeForPath(path string) (string, record.Kind, bool) {
	rel, err := filepath.Rel(p.basePath, path)
	if err != nil || rel == "." {
		return "", "", false
	}
	parts := strings.Split(rel, string(os.PathSeparator))
	if len(parts) < 2 {
		return "", "", false
	}
	kind := record.Kind(parts[0])
	switch kind {
	case record.KindEvent, record.KindTask, record.KindNote:
		return parts[1], kind, true
	}
	return "", "", false
}

// eventThrottle coalesces rapid change notifications so subscribers re-list
// once per burst of filesystem activity instead of on every single write.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[record.Kind]map[string]struct{}
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[record.Kind]map[string]struct{}),
	}
}

func (t *eventThrottle) Enqueue(owner string, kind record.Kind, publish func(string, record.Kind)) {
	t.mu.Lock()
	if t.pending[kind] == nil {
		t.pending[kind] = make(map[string]struct{})
	}
	t.pending[kind][owner] = struct{}{}

	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(publish)
		})
	}
	t.mu.Unlock()
}

func (t *eventThrottle) flush(publish func(string, record.Kind)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[record.Kind]map[string]struct{})
	t.timer = nil
	t.mu.Unlock()

	for kind, owners := range pending {
		if kind == "" {
			// Unclassified refresh: poke every kind.
			for _, k := range record.AllKinds() {
				publish("", k)
			}
			continue
		}
		for owner := range owners {
			publish(owner, kind)
		}
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
