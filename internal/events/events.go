// Package events carries pipeline progress as an ordered stream of status
// events. Core packages only emit; presentation (CLI logging, tests) decides
// what to do with them.
package events

import (
	"sync"
	"time"
)

// Kind classifies an event for consumers that filter or pick log levels.
type Kind string

const (
	KindInfo     Kind = "info"
	KindProgress Kind = "progress"
	KindWarning  Kind = "warning"
	KindError    Kind = "error"
)

// Stage names the pipeline phase that emitted an event.
type Stage string

const (
	StageAudio      Stage = "audio"
	StageTranscribe Stage = "transcribe"
	StageAnalysis   Stage = "analysis"
	StageSegment    Stage = "segment"
	StageAlign      Stage = "align"
	StageEnrich     Stage = "enrich"
	StageRender     Stage = "render"
)

type Event struct {
	Time    time.Time
	Stage   Stage
	Kind    Kind
	Message string
	Fields  map[string]any
}

// Sink receives events. Implementations must be safe for concurrent use;
// the enrichment phase emits from several goroutines.
type Sink interface {
	Emit(Event)
}

type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Emit stamps and forwards an event; a nil sink is treated as Discard.
func Emit(s Sink, stage Stage, kind Kind, msg string, kv ...any) {
	if s == nil {
		return
	}
	e := Event{
		Time:    time.Now(),
		Stage:   stage,
		Kind:    kind,
		Message: msg,
	}
	if len(kv) > 0 {
		e.Fields = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			key, ok := kv[i].(string)
			if !ok {
				continue
			}
			e.Fields[key] = kv[i+1]
		}
	}
	s.Emit(e)
}

// Recorder keeps every event it receives in arrival order.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Filter returns recorded events of the given stage and kind.
func (r *Recorder) Filter(stage Stage, kind Kind) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Stage == stage && e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Multi fans an event out to several sinks in order.
func Multi(sinks ...Sink) Sink {
	return SinkFunc(func(e Event) {
		for _, s := range sinks {
			if s != nil {
				s.Emit(e)
			}
		}
	})
}
