package record

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampRoundTrip(t *testing.T) {
	orig := Timestamp{Time: time.Date(2026, 3, 14, 22, 30, 45, 123456789, time.Local)}

	data, err := json.Marshal(&orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got Timestamp
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !got.Equal(orig.Time) {
		t.Fatalf("round trip changed instant: want %v, got %v", orig.Time, got.Time)
	}
}

func TestTimestampOrderingSurvivesRoundTrip(t *testing.T) {
	base := time.Date(2026, 3, 14, 22, 30, 45, 0, time.Local)
	a := Timestamp{Time: base}
	b := Timestamp{Time: base.Add(time.Nanosecond)}

	var a2, b2 Timestamp
	for orig, got := range map[*Timestamp]*Timestamp{&a: &a2, &b: &b2} {
		data, err := json.Marshal(orig)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if err := json.Unmarshal(data, got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
	}
	if !a2.Before(b2.Time) {
		t.Fatalf("nanosecond ordering lost: %v is not before %v", a2.Time, b2.Time)
	}
}

func TestTimestampZero(t *testing.T) {
	var ts Timestamp
	data, err := json.Marshal(&ts)
	if err != nil {
		t.Fatalf("marshal zero: %v", err)
	}
	if string(data) != `""` {
		t.Fatalf("zero timestamp should marshal to empty string, got %s", data)
	}

	var got Timestamp
	if err := json.Unmarshal([]byte(`""`), &got); err != nil {
		t.Fatalf("unmarshal empty: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("empty string should unmarshal to zero time, got %v", got.Time)
	}
}

func TestSameDay(t *testing.T) {
	a := Timestamp{Time: time.Date(2026, 3, 14, 0, 1, 0, 0, time.Local)}
	b := time.Date(2026, 3, 14, 23, 59, 0, 0, time.Local)
	c := time.Date(2026, 3, 15, 0, 1, 0, 0, time.Local)

	if !a.SameDay(b) {
		t.Fatalf("expected %v and %v to share a day", a.Time, b)
	}
	if a.SameDay(c) {
		t.Fatalf("expected %v and %v to be different days", a.Time, c)
	}
}

func TestNormalizeTaskCategory(t *testing.T) {
	tests := map[TaskCategory]TaskCategory{
		TaskImportant:    TaskImportant,
		TaskNotImportant: TaskNotImportant,
		TaskReminder:     TaskReminder,
		"":               TaskImportant,
		"urgent":         TaskImportant,
	}
	for in, want := range tests {
		if got := NormalizeTaskCategory(in); got != want {
			t.Fatalf("NormalizeTaskCategory(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDisplayTaskCategory(t *testing.T) {
	if got := DisplayTaskCategory(TaskNotImportant); got != "Not Important" {
		t.Fatalf("got %q", got)
	}
	if got := DisplayTaskCategory(TaskImportant); got != "Important" {
		t.Fatalf("got %q", got)
	}
}

func TestNoteAttachment(t *testing.T) {
	plain := &Note{Title: "text only"}
	if plain.HasAttachment() {
		t.Fatal("text note should have no attachment")
	}
	voice := &Note{URI: "file:///tmp/rec", FileName: "owner/123"}
	if !voice.HasAttachment() || !voice.Voice() {
		t.Fatal("voice note should report an attachment")
	}
}
