package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/planner/pkg/record"
)

// CancelFunc releases a subscription. Safe to call more than once.
type CancelFunc func()

// Persistence is the owner-scoped document store behind the planner. Every
// query is implicitly scoped to a single owner; there are no sharing
// semantics. Subscriptions deliver the full current result set on every
// change, never deltas.
type Persistence interface {
	CreateEvent(ctx context.Context, owner string, e record.Event) (record.Event, error)
	CreateTask(ctx context.Context, owner string, t record.Task) (record.Task, error)
	CreateNote(ctx context.Context, owner string, n record.Note) (record.Note, error)

	ListEvents(ctx context.Context, owner string) ([]record.Event, error)
	ListTasks(ctx context.Context, owner string) ([]record.Task, error)
	ListNotes(ctx context.Context, owner string) ([]record.Note, error)

	GetNote(ctx context.Context, owner string, id string) (record.Note, error)

	Update(ctx context.Context, owner string, kind record.Kind, id string, fields map[string]any) error
	Delete(ctx context.Context, owner string, kind record.Kind, id string) error

	SubscribeEvents(ctx context.Context, owner string) (<-chan []record.Event, <-chan error, CancelFunc, error)
	SubscribeTasks(ctx context.Context, owner string) (<-chan []record.Task, <-chan error, CancelFunc, error)
	SubscribeNotes(ctx context.Context, owner string) (<-chan []record.Note, <-chan error, CancelFunc, error)
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	return &persistence{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      1024 * 1024, // 1MB
		}),
		basePath:    basePath,
		hub:         newHub(),
		lastCreated: make(map[string]time.Time),
	}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
	hub      *hub

	mu          sync.Mutex
	lastCreated map[string]time.Time
	watching    bool
}

// nextCreateTime returns a creation instant strictly after every instant
// previously handed out for the owner, so default ordering by createdAt is
// total per owner.
func (p *persistence) nextCreateTime(owner string) time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	if last, ok := p.lastCreated[owner]; ok && !now.After(last) {
		now = last.Add(time.Nanosecond)
	}
	p.lastCreated[owner] = now
	return now
}

func (p *persistence) newMeta(owner string) record.Meta {
	now := p.nextCreateTime(owner)
	return record.Meta{
		ID:        uuid.NewString(),
		OwnerID:   owner,
		CreatedAt: record.Timestamp{Time: now},
		UpdatedAt: record.Timestamp{Time: now},
	}
}

func validateEvent(e record.Event) error {
	if strings.TrimSpace(e.Title) == "" {
		return &ValidationError{Field: "title"}
	}
	if e.StartDate.IsZero() {
		return &ValidationError{Field: "startDate"}
	}
	if e.EndDate != nil && e.EndDate.Before(e.StartDate.Time) {
		return &ValidationError{Field: "endDate"}
	}
	return nil
}

func (p *persistence) CreateEvent(ctx context.Context, owner string, e record.Event) (record.Event, error) {
	if owner == "" {
		return record.Event{}, ErrNoSession
	}
	if err := validateEvent(e); err != nil {
		return record.Event{}, err
	}
	e.Meta = p.newMeta(owner)
	if err := p.write(record.KindEvent, owner, e.ID, &e); err != nil {
		return record.Event{}, err
	}
	p.hub.publish(owner, record.KindEvent)
	return e, nil
}

func (p *persistence) CreateTask(ctx context.Context, owner string, t record.Task) (record.Task, error) {
	if owner == "" {
		return record.Task{}, ErrNoSession
	}
	if strings.TrimSpace(t.Text) == "" {
		return record.Task{}, &ValidationError{Field: "text"}
	}
	t.Category = record.NormalizeTaskCategory(t.Category)
	t.Meta = p.newMeta(owner)
	if err := p.write(record.KindTask, owner, t.ID, &t); err != nil {
		return record.Task{}, err
	}
	p.hub.publish(owner, record.KindTask)
	return t, nil
}

func (p *persistence) CreateNote(ctx context.Context, owner string, n record.Note) (record.Note, error) {
	if owner == "" {
		return record.Note{}, ErrNoSession
	}
	// Voice notes carry no title; everything else needs one.
	if strings.TrimSpace(n.Title) == "" && strings.TrimSpace(n.URI) == "" {
		return record.Note{}, &ValidationError{Field: "title"}
	}
	n.Meta = p.newMeta(owner)
	if err := p.write(record.KindNote, owner, n.ID, &n); err != nil {
		return record.Note{}, err
	}
	p.hub.publish(owner, record.KindNote)
	return n, nil
}

func (p *persistence) write(kind record.Kind, owner, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return remoteErr("encode", err)
	}
	if err := p.d.Write(toKey(kind, owner, id), data); err != nil {
		return remoteErr("write", err)
	}
	return nil
}

func (p *persistence) ListEvents(ctx context.Context, owner string) ([]record.Event, error) {
	all := make([]record.Event, 0)
	for key := range p.d.KeysPrefix(prefix(record.KindEvent, owner), ctx.Done()) {
		var e record.Event
		if !p.read(key, &e) {
			continue
		}
		all = append(all, e)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].StartDate.Equal(all[j].StartDate.Time) {
			return all[i].StartDate.Before(all[j].StartDate.Time)
		}
		return lessByCreated(all[i].Meta, all[j].Meta)
	})
	return all, nil
}

func (p *persistence) ListTasks(ctx context.Context, owner string) ([]record.Task, error) {
	all := make([]record.Task, 0)
	for key := range p.d.KeysPrefix(prefix(record.KindTask, owner), ctx.Done()) {
		var t record.Task
		if !p.read(key, &t) {
			continue
		}
		all = append(all, t)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return lessByCreated(all[i].Meta, all[j].Meta)
	})
	return all, nil
}

func (p *persistence) ListNotes(ctx context.Context, owner string) ([]record.Note, error) {
	all := make([]record.Note, 0)
	for key := range p.d.KeysPrefix(prefix(record.KindNote, owner), ctx.Done()) {
		var n record.Note
		if !p.read(key, &n) {
			continue
		}
		all = append(all, n)
	}
	// Newest first, the way the notes screen lists them.
	sort.SliceStable(all, func(i, j int) bool {
		return lessByCreated(all[j].Meta, all[i].Meta)
	})
	return all, nil
}

func (p *persistence) GetNote(ctx context.Context, owner string, id string) (record.Note, error) {
	key := toKey(record.KindNote, owner, id)
	val, err := p.d.Read(key)
	if err != nil {
		if os.IsNotExist(err) {
			return record.Note{}, ErrNotFound
		}
		return record.Note{}, remoteErr("read", err)
	}
	var n record.Note
	if err := json.Unmarshal(val, &n); err != nil {
		return record.Note{}, remoteErr("decode", err)
	}
	return n, nil
}

// read unmarshals the value at key into target, reporting false (and
// logging) when the record is unreadable. Bad documents never block a list.
func (p *persistence) read(key string, target any) bool {
	val, err := p.d.Read(key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
		return false
	}
	if err := json.Unmarshal(val, target); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
		return false
	}
	return true
}

// Update merges fields into the stored document and bumps updatedAt. The
// merge is field-level last-write-wins; identity and creation metadata
// cannot be overwritten.
func (p *persistence) Update(ctx context.Context, owner string, kind record.Kind, id string, fields map[string]any) error {
	if owner == "" {
		return ErrNoSession
	}
	key := toKey(kind, owner, id)
	val, err := p.d.Read(key)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return remoteErr("read", err)
	}

	doc := make(map[string]any)
	if err := json.Unmarshal(val, &doc); err != nil {
		return remoteErr("decode", err)
	}
	for k, v := range fields {
		switch k {
		case "id", "ownerId", "createdAt", "updatedAt":
			continue
		}
		if s, ok := v.(string); ok && requiredField(kind, k) && strings.TrimSpace(s) == "" {
			return &ValidationError{Field: k}
		}
		doc[k] = v
	}
	doc["updatedAt"] = record.FormatTime(time.Now())

	data, err := json.Marshal(doc)
	if err != nil {
		return remoteErr("encode", err)
	}
	if err := p.d.Write(key, data); err != nil {
		return remoteErr("write", err)
	}
	p.hub.publish(owner, kind)
	return nil
}

// Delete is idempotent: removing an id the store no longer has is not an
// error, another client may already have converged.
func (p *persistence) Delete(ctx context.Context, owner string, kind record.Kind, id string) error {
	if owner == "" {
		return ErrNoSession
	}
	key := toKey(kind, owner, id)
	if !p.d.Has(key) {
		return nil
	}
	if err := p.d.Erase(key); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return remoteErr("erase", err)
	}
	p.hub.publish(owner, kind)
	return nil
}

func requiredField(kind record.Kind, field string) bool {
	switch kind {
	case record.KindEvent:
		return field == "title"
	case record.KindTask:
		return field == "text"
	default:
		return false
	}
}

func lessByCreated(a, b record.Meta) bool {
	at := a.CreatedAt.Time
	bt := b.CreatedAt.Time
	switch {
	case at.IsZero() && bt.IsZero():
		return a.ID < b.ID
	case at.IsZero():
		return false
	case bt.IsZero():
		return true
	default:
		if at.Equal(bt) {
			return a.ID < b.ID
		}
		return at.Before(bt)
	}
}

const keySep = "|"

// toKey makes `kind|owner|id`; diskv maps it onto kind/owner/id on disk.
func toKey(kind record.Kind, owner, id string) string {
	return strings.Join([]string{string(kind), owner, id}, keySep)
}

func prefix(kind record.Kind, owner string) string {
	return string(kind) + keySep + owner + keySep
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, keySep)
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s%s%s", strings.Join(pathKey.Path, keySep), keySep, pathKey.FileName)
}
