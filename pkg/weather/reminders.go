package weather

import (
	"encoding/json"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/planner/pkg/store"
)

const remindersNamespace = "weather_custom_reminders"

// Reminders persists the user's own weather reminders in local key-value
// storage, one JSON-encoded list per owner. Writes are at-least-once: the
// whole list is rewritten on every mutation.
type Reminders struct {
	d *diskv.Diskv
}

// OpenReminders opens the reminder store under the planner data dir.
func OpenReminders(cfg store.Config) (*Reminders, error) {
	if cfg == nil {
		var err error
		cfg, err = store.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &Reminders{
		d: diskv.New(diskv.Options{
			BasePath:     filepath.Join(cfg.BasePath(), remindersNamespace),
			CacheSizeMax: 64 * 1024,
		}),
	}, nil
}

func (r *Reminders) key(owner string) string {
	if owner == "" {
		owner = "anonymous"
	}
	return owner + ".json"
}

// List loads the owner's reminders. A missing or unreadable list reads as
// empty; reminders must never block the weather view.
func (r *Reminders) List(owner string) []string {
	data, err := r.d.Read(r.key(owner))
	if err != nil || len(data) == 0 {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return []string{}
	}
	return list
}

// Add appends a reminder and writes the list back.
func (r *Reminders) Add(owner, text string) error {
	list := append(r.List(owner), text)
	return r.save(owner, list)
}

// Remove deletes the first reminder matching text. Removing a reminder that
// is not there is a no-op.
func (r *Reminders) Remove(owner, text string) error {
	list := r.List(owner)
	for i, item := range list {
		if item == text {
			list = append(list[:i], list[i+1:]...)
			return r.save(owner, list)
		}
	}
	return nil
}

func (r *Reminders) save(owner string, list []string) error {
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return r.d.Write(r.key(owner), data)
}
