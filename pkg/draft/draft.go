// Package draft holds in-flight edits before and during a store write. A
// slot is optimistic in the narrow sense: the write is fired without
// waiting for the subscription echo, but the visible list is reconciled by
// the next snapshot delivery, never by locally merging the draft into it.
package draft

import (
	"context"
	"errors"
	"sync"
)

// State of a draft slot. Committed and Failed are the terminal states of a
// single submit; the slot itself is reusable.
type State int

const (
	Idle State = iota
	Validating
	Submitting
	Committed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	case Committed:
		return "committed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrInFlight is returned when a submit arrives while another submit on the
// same slot is still waiting for the store. The second attempt is rejected,
// not queued.
var ErrInFlight = errors.New("draft: submit already in flight")

// ValidateFunc checks the draft payload before any write is attempted.
type ValidateFunc func(v any) error

// WriteFunc performs the store mutation for the payload.
type WriteFunc func(ctx context.Context, v any) error

// Slot carries one draft through Idle → Validating → Submitting →
// Committed/Failed. On failure the payload is retained for retry; on
// commit it is discarded and the subscription echo updates the view.
type Slot struct {
	mu    sync.Mutex
	state State
	value any
	err   error
}

func NewSlot() *Slot {
	return &Slot{state: Idle}
}

// Set stores or replaces the draft payload. Rejected while a submit is in
// flight.
func (s *Slot) Set(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Submitting {
		return ErrInFlight
	}
	s.value = v
	s.state = Idle
	s.err = nil
	return nil
}

// Value returns the retained payload, if any.
func (s *Slot) Value() (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.value != nil
}

func (s *Slot) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error surfaced by the last submit, if any.
func (s *Slot) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Submit validates the draft and, if valid, runs the write. Exactly one
// write can be in flight per slot. Validation failure returns the slot to
// Idle with the error surfaced; a write failure (including cancellation
// during flight) moves it to Failed and keeps the draft for retry.
func (s *Slot) Submit(ctx context.Context, validate ValidateFunc, write WriteFunc) error {
	s.mu.Lock()
	if s.state == Submitting {
		s.mu.Unlock()
		return ErrInFlight
	}

	s.state = Validating
	v := s.value
	if validate != nil {
		if err := validate(v); err != nil {
			s.state = Idle
			s.err = err
			s.mu.Unlock()
			return err
		}
	}
	s.state = Submitting
	s.err = nil
	s.mu.Unlock()

	err := write(ctx, v)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil && ctx.Err() != nil {
		// The owner tore down while the write was in flight; do not act on
		// the completion beyond releasing the slot.
		err = ctx.Err()
	}
	if err != nil {
		s.state = Failed
		s.err = err
		return err
	}
	s.state = Committed
	s.value = nil
	return nil
}
