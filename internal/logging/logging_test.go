package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mgpai22/moodboard/internal/events"
)

func TestNewLogger(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		logger := NewLogger(verbose)
		if logger == nil || logger.SugaredLogger == nil {
			t.Fatal("expected logger instance")
		}
		if got := logger.Desugar().Core().Enabled(zapcore.DebugLevel); got != verbose {
			t.Errorf("verbose=%v: debug enabled = %v", verbose, got)
		}
	}
}

func TestEventSinkLevels(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	sink := EventSink(New(zap.New(core)))

	events.Emit(sink, events.StageAlign, events.KindProgress, "Segment matched", "segment", 2)
	events.Emit(sink, events.StageAlign, events.KindWarning, "No reliable match for segment")
	events.Emit(sink, events.StageEnrich, events.KindInfo, "Enrichment complete")
	events.Emit(sink, events.StageRender, events.KindError, "write failed")

	records := observed.All()
	if len(records) != 4 {
		t.Fatalf("expected 4 log entries, got %d", len(records))
	}

	wantLevels := []zapcore.Level{
		zapcore.DebugLevel,
		zapcore.WarnLevel,
		zapcore.InfoLevel,
		zapcore.ErrorLevel,
	}
	for i, rec := range records {
		if rec.Level != wantLevels[i] {
			t.Errorf("entry %d level = %v, want %v", i, rec.Level, wantLevels[i])
		}
	}

	fields := records[0].ContextMap()
	if fields["stage"] != "align" {
		t.Errorf("stage field = %v", fields["stage"])
	}
	if fields["segment"] != int64(2) {
		t.Errorf("segment field = %v (%T)", fields["segment"], fields["segment"])
	}
}
