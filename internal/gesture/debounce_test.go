package gesture

import (
	"testing"
	"time"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

func oneToFive(v int) bool { return v >= 1 && v <= 5 }

func TestDebouncer_HoldConfirmsAfterDwell(t *testing.T) {
	d := NewHold(2*time.Second, oneToFive)

	if _, ok := d.Observe(3, at(0)); ok {
		t.Fatal("confirmed on first sighting with a 2s hold")
	}
	if d.State() != StateCandidate {
		t.Fatalf("state = %s, want candidate", d.State())
	}
	if _, ok := d.Observe(3, at(1999)); ok {
		t.Fatal("confirmed before the dwell elapsed")
	}

	ev, ok := d.Observe(3, at(2000))
	if !ok {
		t.Fatal("expected confirmation exactly at the dwell duration")
	}
	if ev.Value != 3 || !ev.Since.Equal(at(0)) || !ev.At.Equal(at(2000)) {
		t.Errorf("event = %+v", ev)
	}
	if d.State() != StateConfirmed {
		t.Errorf("state = %s, want confirmed", d.State())
	}
}

func TestDebouncer_NoRepeatWhileUnchanged(t *testing.T) {
	d := NewHold(2*time.Second, oneToFive)
	d.Observe(3, at(0))
	d.Observe(3, at(2000))

	for ms := 2033; ms < 10000; ms += 33 {
		if _, ok := d.Observe(3, at(ms)); ok {
			t.Fatalf("re-emitted unchanged reading at %dms", ms)
		}
	}
}

func TestDebouncer_ChangeRestartsCandidate(t *testing.T) {
	d := NewHold(2*time.Second, oneToFive)
	d.Observe(2, at(0))
	d.Observe(2, at(1500))

	// A fast switch keeps a candidate, timed from the switch.
	if _, ok := d.Observe(4, at(1600)); ok {
		t.Fatal("new value confirmed immediately")
	}
	if v, pending := d.Candidate(); !pending || v != 4 {
		t.Fatalf("candidate = %d (pending %v), want 4", v, pending)
	}
	if _, ok := d.Observe(4, at(3500)); ok {
		t.Fatal("confirmed 1.9s after the switch")
	}
	ev, ok := d.Observe(4, at(3600))
	if !ok || ev.Value != 4 {
		t.Fatalf("expected 4 confirmed at 3600ms, got %+v %v", ev, ok)
	}
}

func TestDebouncer_InadmissibleReturnsToIdle(t *testing.T) {
	d := NewHold(2*time.Second, oneToFive)
	d.Observe(2, at(0))
	d.Observe(0, at(1000))

	if d.State() != StateIdle {
		t.Fatalf("state = %s, want idle", d.State())
	}
	d.Observe(2, at(1100))
	if _, ok := d.Observe(2, at(3000)); ok {
		t.Fatal("timer should restart after returning to idle")
	}
	if _, ok := d.Observe(2, at(3100)); !ok {
		t.Fatal("expected confirmation 2s after re-entering candidate")
	}
}

func TestDebouncer_ConfirmedThenChangeThenBack(t *testing.T) {
	d := NewHold(time.Second, nil)
	d.Observe(1, at(0))
	d.Observe(1, at(1000))

	d.Observe(2, at(1100))
	if d.State() != StateCandidate {
		t.Fatalf("state = %s, want candidate after change", d.State())
	}

	// Returning to the previously confirmed value is a new stable interval.
	d.Observe(1, at(1200))
	if ev, ok := d.Observe(1, at(2200)); !ok || ev.Value != 1 {
		t.Fatal("expected the value to be confirmed again after an intervening change")
	}
}

func TestDebouncer_ZeroHold(t *testing.T) {
	d := NewHold[int](0, nil)

	ev, ok := d.Observe(7, at(0))
	if !ok || ev.Value != 7 {
		t.Fatalf("zero hold should confirm immediately, got %+v %v", ev, ok)
	}
	if _, ok := d.Observe(7, at(10)); ok {
		t.Fatal("zero hold re-emitted unchanged value")
	}
}

func TestDebouncer_Click(t *testing.T) {
	tests := []struct {
		name   string
		frames []bool
		want   int
	}{
		{"closed without opening first", []bool{false, false, false}, 0},
		{"open then close", []bool{true, false}, 1},
		{"held closed counts once", []bool{true, false, false, false}, 1},
		{"three cycles", []bool{true, false, true, true, false, true, false}, 3},
		{"open only", []bool{true, true, true}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewClick(true, false, 0)
			got := 0
			for i, open := range tt.frames {
				if _, ok := d.Observe(open, at(i*33)); ok {
					got++
				}
			}
			if got != tt.want {
				t.Errorf("got %d clicks, want %d", got, tt.want)
			}
		})
	}
}

func TestDebouncer_ClickOtherValueCancels(t *testing.T) {
	const (
		open   = "open"
		closed = "closed"
		lost   = "lost"
	)
	d := NewClick(open, closed, 0)

	d.Observe(open, at(0))
	d.Observe(lost, at(33))
	if d.State() != StateIdle {
		t.Fatalf("state = %s, want idle", d.State())
	}
	if _, ok := d.Observe(closed, at(66)); ok {
		t.Fatal("close after a cancelled arm must not fire")
	}
}

func TestDebouncer_ClickWithHold(t *testing.T) {
	d := NewClick(true, false, 300*time.Millisecond)
	d.Observe(true, at(0))
	d.Observe(false, at(100))

	if got := d.Progress(at(250)); got != 0.5 {
		t.Errorf("Progress = %f, want 0.5", got)
	}
	if _, ok := d.Observe(false, at(399)); ok {
		t.Fatal("fired before the close was held long enough")
	}

	// Reopening before the hold completes re-arms without firing.
	d.Observe(true, at(350))
	if v, pending := d.Candidate(); !pending || !v {
		t.Fatal("reopening should re-arm")
	}
	d.Observe(false, at(400))
	if _, ok := d.Observe(false, at(700)); !ok {
		t.Fatal("expected the held close to fire")
	}
}

func TestDebouncer_Progress(t *testing.T) {
	d := NewHold(2*time.Second, oneToFive)

	if got := d.Progress(at(0)); got != 0 {
		t.Errorf("idle progress = %f, want 0", got)
	}
	d.Observe(3, at(0))
	if got := d.Progress(at(500)); got != 0.25 {
		t.Errorf("progress = %f, want 0.25", got)
	}
	if got := d.Progress(at(5000)); got != 1 {
		t.Errorf("progress = %f, want capped at 1", got)
	}
	d.Observe(3, at(2000))
	if got := d.Progress(at(2100)); got != 0 {
		t.Errorf("confirmed progress = %f, want 0", got)
	}
}

func TestDebouncer_Reset(t *testing.T) {
	d := NewHold(0, oneToFive)
	d.Observe(3, at(0))
	d.Reset()

	if d.State() != StateIdle {
		t.Errorf("state = %s, want idle", d.State())
	}
	if _, ok := d.Observe(3, at(10)); !ok {
		t.Error("after Reset the same value is a new stable interval")
	}
}

func TestState_String(t *testing.T) {
	if StateIdle.String() != "idle" || StateCandidate.String() != "candidate" || StateConfirmed.String() != "confirmed" {
		t.Error("unexpected state names")
	}
	if State(42).String() != "unknown" {
		t.Error("out of range state should be unknown")
	}
}
