// Package events carries named events from UI components up to the host.
package events

import (
	"fmt"
	"io"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event names understood by the host.
const (
	TreeSelectionChanged = "TreeSelectionChanged"
	TagsChanged          = "TagsChanged"
	ExportClicked        = "ExportClicked"
	RunProfilingClicked  = "RunProfilingClicked"
	ScheduleChanged      = "ScheduleChanged"
)

// Emitter delivers an event to the single host listener.
type Emitter interface {
	Emit(name string, payload any) error
}

// Event is one emitted event.
type Event struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Payload any       `json:"payload"`
	Time    time.Time `json:"ts"`
}

// JSONEmitter writes each event as one JSON object per line.
type JSONEmitter struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// NewJSONEmitter creates an emitter writing to w.
func NewJSONEmitter(w io.Writer) *JSONEmitter {
	return &JSONEmitter{w: w, now: time.Now}
}

// Emit encodes and writes the event.
func (e *JSONEmitter) Emit(name string, payload any) error {
	ev := Event{
		ID:      uuid.NewString(),
		Name:    name,
		Payload: payload,
		Time:    e.now().UTC(),
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding event %s: %w", name, err)
	}
	data = append(data, '\n')

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.w.Write(data); err != nil {
		return fmt.Errorf("writing event %s: %w", name, err)
	}
	return nil
}

// Recorder keeps events in memory. Useful in tests and for replaying the
// last selection.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit records the event.
func (r *Recorder) Emit(name string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{
		ID:      uuid.NewString(),
		Name:    name,
		Payload: payload,
		Time:    time.Now().UTC(),
	})
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Last returns the most recent event with the given name.
func (r *Recorder) Last(name string) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Name == name {
			return r.events[i], true
		}
	}
	return Event{}, false
}

// Nop discards every event.
type Nop struct{}

func (Nop) Emit(string, any) error { return nil }

// Safe wraps an emitter so that failures are logged instead of returned.
// UI components use it: a broken host channel must not stop interaction.
type Safe struct {
	Emitter Emitter
	Logger  *zap.Logger
}

// Emit forwards to the wrapped emitter and logs any error.
func (s Safe) Emit(name string, payload any) error {
	if s.Emitter == nil {
		return nil
	}
	if err := s.Emitter.Emit(name, payload); err != nil && s.Logger != nil {
		s.Logger.Warn("event emit failed", zap.String("event", name), zap.Error(err))
	}
	return nil
}
