package events

import (
	"sync"
	"testing"
)

func TestEmitCollectsFields(t *testing.T) {
	r := &Recorder{}
	Emit(r, StageAlign, KindWarning, "segment dropped", "index", 3, 42, "ignored", "score", 61.5)

	got := r.Events()
	if len(got) != 1 {
		t.Fatalf("got %d events, want 1", len(got))
	}
	e := got[0]
	if e.Stage != StageAlign || e.Kind != KindWarning || e.Message != "segment dropped" {
		t.Errorf("event = %+v", e)
	}
	if e.Fields["index"] != 3 || e.Fields["score"] != 61.5 || len(e.Fields) != 2 {
		t.Errorf("fields = %v", e.Fields)
	}
	if e.Time.IsZero() {
		t.Error("event time not set")
	}
}

func TestEmitNilSink(t *testing.T) {
	Emit(nil, StageRender, KindInfo, "no-op")
}

func TestMultiAndFilter(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	sink := Multi(a, nil, b)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Emit(sink, StageEnrich, KindProgress, "batch done")
		}()
	}
	wg.Wait()
	Emit(sink, StageEnrich, KindError, "batch failed")

	if len(a.Events()) != 11 || len(b.Events()) != 11 {
		t.Fatalf("a=%d b=%d, want 11 each", len(a.Events()), len(b.Events()))
	}
	if n := len(a.Filter(StageEnrich, KindError)); n != 1 {
		t.Errorf("Filter returned %d error events, want 1", n)
	}
}
