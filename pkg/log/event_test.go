package log

import (
	"errors"
	"testing"
	"time"
)

func TestDirectionString(t *testing.T) {
	if DirectionIn.String() != "IN" || DirectionOut.String() != "OUT" {
		t.Error("direction names wrong")
	}
	if Direction(9).String() != "UNKNOWN" {
		t.Error("unknown direction should render UNKNOWN")
	}
}

func TestCategoryString(t *testing.T) {
	tests := []struct {
		c    Category
		want string
	}{
		{CategoryLine, "LINE"},
		{CategoryWake, "WAKE"},
		{CategoryState, "STATE"},
		{CategoryError, "ERROR"},
		{Category(9), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("Category(%d).String() = %q, want %q", tt.c, got, tt.want)
		}
	}
}

func TestEventCBORRoundTrip(t *testing.T) {
	event := NewLineEvent("sess-1", DirectionIn, "VOL121", "VOL", false)
	event.RemoteAddr = "192.0.2.10:23"

	data, err := Marshal(event)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var got Event
	if err := Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if got.SessionID != "sess-1" || got.Direction != DirectionIn || got.Category != CategoryLine {
		t.Errorf("header mismatch: %+v", got)
	}
	if got.Line == nil || got.Line.Text != "VOL121" || got.Line.ExpectedPrefix != "VOL" {
		t.Errorf("line payload mismatch: %+v", got.Line)
	}
	if got.RemoteAddr != "192.0.2.10:23" {
		t.Errorf("remote addr mismatch: %q", got.RemoteAddr)
	}
	// Nanosecond timestamps must survive the trip.
	if !got.Timestamp.Equal(event.Timestamp) {
		t.Errorf("timestamp drift: %v != %v", got.Timestamp, event.Timestamp)
	}
}

func TestEventConstructors(t *testing.T) {
	before := time.Now()

	state := NewStateEvent("s", "power", "UNKNOWN", "ON")
	if state.Category != CategoryState || state.StateChange == nil {
		t.Fatalf("NewStateEvent payload: %+v", state)
	}
	if state.StateChange.Field != "power" || state.StateChange.NewValue != "ON" {
		t.Errorf("state fields: %+v", state.StateChange)
	}
	if state.Timestamp.Before(before) {
		t.Error("timestamp not set")
	}

	errEvent := NewErrorEvent("s", "classify", errors.New("no matching reply"))
	if errEvent.Category != CategoryError || errEvent.Error == nil {
		t.Fatalf("NewErrorEvent payload: %+v", errEvent)
	}
	if errEvent.Error.Stage != "classify" || errEvent.Error.Message != "no matching reply" {
		t.Errorf("error fields: %+v", errEvent.Error)
	}

	wake := NewWakeEvent("s", DirectionOut, "")
	if wake.Category != CategoryWake || wake.Line == nil {
		t.Fatalf("NewWakeEvent payload: %+v", wake)
	}
}
