package progress

import (
	"errors"
	"testing"
	"time"
)

func TestStatus_Terminal(t *testing.T) {
	if StatusRunning.Terminal() {
		t.Error("running should not be terminal")
	}
	if !StatusDone.Terminal() || !StatusError.Terminal() {
		t.Error("done and error should be terminal")
	}
}

func TestChanEmitter_Emit_SetsTimestampWhenZero(t *testing.T) {
	ch := make(chan Event, 1)
	emitter := &ChanEmitter{Ch: ch}

	emitter.Line("test")

	got := <-ch
	if got.Timestamp.IsZero() {
		t.Error("Emit: expected timestamp to be set when zero")
	}
	if got.Message != "test" || got.Status != StatusRunning {
		t.Errorf("Emit: got Message=%q Status=%q", got.Message, got.Status)
	}
}

func TestChanEmitter_Emit_PreservesTimestamp(t *testing.T) {
	ch := make(chan Event, 1)
	emitter := &ChanEmitter{Ch: ch}

	ts := time.Date(2026, 2, 6, 12, 0, 0, 0, time.UTC)
	emitter.Emit(Event{Message: "test", Status: StatusRunning, Timestamp: ts})

	got := <-ch
	if !got.Timestamp.Equal(ts) {
		t.Errorf("Emit: expected preserved timestamp %v, got %v", ts, got.Timestamp)
	}
}

func TestChanEmitter_DropsLinesWhenFull(t *testing.T) {
	ch := make(chan Event, 1)
	emitter := &ChanEmitter{Ch: ch}

	emitter.Line("first")
	emitter.Line("dropped")

	got := <-ch
	if got.Message != "first" {
		t.Errorf("Emit full: expected 'first', got %q", got.Message)
	}
	select {
	case <-ch:
		t.Error("Emit full: expected dropped event not to be sent")
	default:
	}
}

func TestChanEmitter_FinishIsNeverDropped(t *testing.T) {
	ch := make(chan Event, 1)
	emitter := &ChanEmitter{Ch: ch}
	emitter.Line("fills the buffer")

	done := make(chan struct{})
	go func() {
		emitter.Finish(errors.New("exit status 2"))
		close(done)
	}()

	if got := <-ch; got.Message != "fills the buffer" {
		t.Fatalf("expected buffered line first, got %q", got.Message)
	}
	final := <-ch
	if final.Status != StatusError || final.Err == nil {
		t.Errorf("expected error event, got %+v", final)
	}
	<-done
	if _, ok := <-ch; ok {
		t.Error("expected channel closed after Finish")
	}
}
