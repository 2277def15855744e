package app

import (
	"sync"

	"github.com/chriscorrea/astrelium/internal/materialize"
	"github.com/chriscorrea/astrelium/internal/runner"
)

// EventKind tags what a pipeline event reports
type EventKind string

const (
	EventThinking        EventKind = "thinking"
	EventResponse        EventKind = "response"
	EventProgress        EventKind = "progress"
	EventFileCreated     EventKind = "file-created"
	EventFileError       EventKind = "file-error"
	EventBackup          EventKind = "backup"
	EventCommand         EventKind = "command"
	EventStdout          EventKind = "stdout"
	EventStderr          EventKind = "stderr"
	EventCommandError    EventKind = "command-error"
	EventDebugSuggestion EventKind = "debug-suggestion"
	EventError           EventKind = "error"
)

// Event is one line of user-visible output from a turn
type Event struct {
	Kind  EventKind
	Text  string
	Path   string             // file events
	Status materialize.Status // file-created events; empty reads as created
	Stage  runner.Stage       // command events
}

// Sink receives events as the pipeline produces them; an error aborts the turn
type Sink interface {
	Emit(Event) error
}

// SinkFunc adapts a function to Sink
type SinkFunc func(Event) error

func (f SinkFunc) Emit(e Event) error {
	return f(e)
}

// Recorder is a Sink that keeps every event
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Emit(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Events returns a copy of everything recorded
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Of returns the events of one kind
func (r *Recorder) Of(kind EventKind) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Kinds lists event kinds in emission order
func (r *Recorder) Kinds() []EventKind {
	events := r.Events()
	out := make([]EventKind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

// Reset drops recorded events
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
