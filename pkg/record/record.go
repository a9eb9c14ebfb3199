// Package record defines the persisted item shapes shared by the planner:
// calendar events, tasks, and notes. Every record belongs to exactly one
// owner and carries store-assigned created/updated timestamps.
package record

import "strings"

// Kind names a store collection. The strings are the collection names on
// disk and must not change; existing data is keyed by them.
type Kind string

const (
	KindEvent Kind = "calendarEvents"
	KindTask  Kind = "tasks"
	KindNote  Kind = "notes"
)

// AllKinds returns the supported record kinds.
func AllKinds() []Kind {
	return []Kind{KindEvent, KindTask, KindNote}
}

// Meta is the base shape every record embeds. ID and the timestamps are
// assigned by the store; callers leave them zero on create.
type Meta struct {
	ID        string    `json:"id,omitempty"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt Timestamp `json:"createdAt,omitempty"`
	UpdatedAt Timestamp `json:"updatedAt,omitempty"`
}

// EventCategory is the display category of a calendar event. The store does
// not validate it against the known set; unknown values simply fall back to
// the positional palette when colored.
type EventCategory string

const (
	CategorySchool   EventCategory = "School"
	CategoryWork     EventCategory = "Work"
	CategoryPersonal EventCategory = "Personal"
	CategoryOther    EventCategory = "Other"
)

// EventCategories returns the fixed display set offered by pickers.
func EventCategories() []EventCategory {
	return []EventCategory{CategorySchool, CategoryWork, CategoryPersonal, CategoryOther}
}

// Event is a calendar event. StartDate is the primary sort and grouping key.
type Event struct {
	Meta

	Title     string        `json:"title"`
	Note      string        `json:"note,omitempty"`
	StartDate Timestamp     `json:"startDate"`
	EndDate   *Timestamp    `json:"endDate,omitempty"`
	Category  EventCategory `json:"category,omitempty"`
	AllDay    bool          `json:"allDay,omitempty"`
}

// TaskCategory buckets a task into one of the fixed to-do sections.
type TaskCategory string

const (
	TaskImportant    TaskCategory = "important"
	TaskNotImportant TaskCategory = "not_important"
	TaskReminder     TaskCategory = "reminder"
)

// TaskCategories returns the fixed section order.
func TaskCategories() []TaskCategory {
	return []TaskCategory{TaskImportant, TaskNotImportant, TaskReminder}
}

// NormalizeTaskCategory maps unknown or empty categories to the default
// bucket. Tasks never fail to display because of a bad category.
func NormalizeTaskCategory(c TaskCategory) TaskCategory {
	switch c {
	case TaskImportant, TaskNotImportant, TaskReminder:
		return c
	default:
		return TaskImportant
	}
}

// DisplayTaskCategory renders a category for humans ("not_important"
// becomes "Not Important").
func DisplayTaskCategory(c TaskCategory) string {
	if c == TaskNotImportant {
		return "Not Important"
	}
	s := string(c)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Task is a to-do item. Completed toggles independently of edits.
type Task struct {
	Meta

	Text      string       `json:"text"`
	Category  TaskCategory `json:"category,omitempty"`
	Completed bool         `json:"completed"`
}

// Note is a text note, optionally linked to a voice attachment. URI points
// at a local recording; URL/FileName reference a stored object that must be
// removed when the note is deleted.
type Note struct {
	Meta

	Title    string `json:"title,omitempty"`
	Text     string `json:"text,omitempty"`
	URI      string `json:"uri,omitempty"`
	URL      string `json:"url,omitempty"`
	FileName string `json:"fileName,omitempty"`
}

// HasAttachment reports whether deleting the note must also remove a
// stored binary object.
func (n *Note) HasAttachment() bool {
	return n != nil && (n.FileName != "" || n.URI != "")
}

// Voice reports whether the note is a voice note rather than a text note.
func (n *Note) Voice() bool {
	return n != nil && n.URI != ""
}
