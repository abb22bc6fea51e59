package gesture

import (
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/detector"
)

func openAt(x float64) detector.HandLandmarks {
	return detector.FingersLandmarks(5, detector.HandRight, x)
}

func fistAt(x float64) detector.HandLandmarks {
	return detector.FingersLandmarks(0, detector.HandRight, x)
}

func TestEngine_ClosePerHand(t *testing.T) {
	e := NewEngine(EngineConfig{Tracker: DefaultTrackerConfig()})

	f := e.Process(slotted(openAt(0.25), openAt(0.75)), at(0))
	if len(f.Closes) != 0 {
		t.Fatalf("open hands produced %d closes", len(f.Closes))
	}
	leftID := f.Hands[0].ID

	f = e.Process(slotted(fistAt(0.25), openAt(0.75)), at(33))
	if len(f.Closes) != 1 {
		t.Fatalf("expected 1 close, got %d", len(f.Closes))
	}
	if f.Closes[0].Hand != leftID {
		t.Error("close attributed to the wrong hand")
	}
	if f.Closes[0].Reading.Side != SideLeft {
		t.Errorf("close side = %s, want left", f.Closes[0].Reading.Side)
	}

	// Holding the fist does not repeat; closing the other hand fires once.
	f = e.Process(slotted(fistAt(0.25), fistAt(0.75)), at(66))
	if len(f.Closes) != 1 || f.Closes[0].Hand == leftID {
		t.Fatalf("expected exactly one close from the right hand, got %+v", f.Closes)
	}
	if f.Closes[0].Reading.Side != SideRight {
		t.Errorf("close side = %s, want right", f.Closes[0].Reading.Side)
	}

	f = e.Process(slotted(fistAt(0.25), fistAt(0.75)), at(99))
	if len(f.Closes) != 0 {
		t.Errorf("held fists produced %d closes", len(f.Closes))
	}
	if e.HandStateOf(leftID) != StateConfirmed {
		t.Errorf("left hand state = %s, want confirmed", e.HandStateOf(leftID))
	}
}

func TestEngine_FistWithoutOpenDoesNotClose(t *testing.T) {
	e := NewEngine(EngineConfig{Tracker: DefaultTrackerConfig()})

	for i := 0; i < 5; i++ {
		f := e.Process(slotted(fistAt(0.5)), at(i*33))
		if len(f.Closes) != 0 {
			t.Fatalf("frame %d: a hand that was never open closed", i)
		}
	}
}

func TestEngine_SummaryAcrossHands(t *testing.T) {
	e := NewEngine(EngineConfig{Tracker: DefaultTrackerConfig()})

	f := e.Process(slotted(
		detector.FingersLandmarks(3, detector.HandRight, 0.3),
		detector.FingersLandmarks(5, detector.HandLeft, 0.7),
	), at(0))

	if f.Summary.Hands != 2 || f.Summary.Fingers != 8 {
		t.Errorf("summary = %+v, want 2 hands and 8 fingers", f.Summary)
	}
	if e.LiveHands() != 2 {
		t.Errorf("LiveHands = %d, want 2", e.LiveHands())
	}
}

func TestEngine_CountFingersHold(t *testing.T) {
	e := NewEngine(EngineConfig{
		Tracker:   DefaultTrackerConfig(),
		Count:     CountFingers,
		CountHold: 2 * time.Second,
		CountMin:  1,
		CountMax:  10,
	})
	three := detector.FingersLandmarks(3, detector.HandRight, 0.5)

	f := e.Process(slotted(three), at(0))
	if f.Count != nil {
		t.Fatal("count confirmed on the first frame")
	}

	f = e.Process(slotted(three), at(1000))
	if f.Count != nil {
		t.Fatal("count confirmed before the hold elapsed")
	}
	if f.Hold != 0.5 {
		t.Errorf("Hold = %f, want 0.5", f.Hold)
	}

	f = e.Process(slotted(three), at(2000))
	if f.Count == nil || f.Count.Value != 3 {
		t.Fatalf("expected 3 to be confirmed at 2s, got %+v", f.Count)
	}

	f = e.Process(slotted(three), at(3000))
	if f.Count != nil {
		t.Error("unchanged count was confirmed twice")
	}
}

func TestEngine_CountOutsideRangeIgnored(t *testing.T) {
	e := NewEngine(EngineConfig{
		Tracker:   DefaultTrackerConfig(),
		Count:     CountFingers,
		CountHold: 0,
		CountMin:  1,
		CountMax:  10,
	})

	f := e.Process(slotted(fistAt(0.5)), at(0))
	if f.Count != nil {
		t.Errorf("zero fingers should not be admitted, got %+v", f.Count)
	}
	f = e.Process(nil, at(33))
	if f.Count != nil {
		t.Errorf("an empty frame should not be admitted, got %+v", f.Count)
	}
}

func TestEngine_CountHands(t *testing.T) {
	e := NewEngine(EngineConfig{
		Tracker:   DefaultTrackerConfig(),
		Count:     CountHands,
		CountHold: 0,
		CountMin:  1,
		CountMax:  4,
	})

	f := e.Process(slotted(fistAt(0.25), openAt(0.75)), at(0))
	if f.Count == nil || f.Count.Value != 2 {
		t.Fatalf("expected 2 hands confirmed, got %+v", f.Count)
	}
}

func TestEngine_ExpiryDropsHandState(t *testing.T) {
	e := NewEngine(EngineConfig{Tracker: TrackerConfig{MaxDistance: 0.2, MaxMisses: 1}})

	f := e.Process(slotted(openAt(0.5)), at(0))
	id := f.Hands[0].ID

	f = e.Process(nil, at(33))
	if len(f.Expired) != 0 {
		t.Fatal("track expired inside its grace period")
	}
	if _, ok := e.Hand(id); !ok {
		t.Fatal("hand state dropped inside the grace period")
	}

	f = e.Process(nil, at(66))
	if len(f.Expired) != 1 || f.Expired[0] != id {
		t.Fatalf("expected %s to expire, got %v", id, f.Expired)
	}
	if e.LiveHands() != 0 {
		t.Errorf("LiveHands = %d after expiry", e.LiveHands())
	}

	// A hand that reappears is new and must open before it can close.
	f = e.Process(slotted(fistAt(0.5)), at(99))
	if len(f.Closes) != 0 || f.Hands[0].ID == id {
		t.Error("a reappearing hand should get a fresh id and no close")
	}
}

func TestEngine_Reset(t *testing.T) {
	e := NewEngine(EngineConfig{Tracker: DefaultTrackerConfig()})
	e.Process(slotted(openAt(0.5)), at(0))
	e.Reset()

	if e.LiveHands() != 0 {
		t.Errorf("LiveHands = %d after Reset", e.LiveHands())
	}
	f := e.Process(slotted(fistAt(0.5)), at(33))
	if len(f.Closes) != 0 {
		t.Error("Reset should forget that the hand was open")
	}
}

func TestEngine_ResetCount(t *testing.T) {
	e := NewEngine(EngineConfig{
		Tracker:   DefaultTrackerConfig(),
		Count:     CountFingers,
		CountHold: time.Second,
		CountMin:  1,
		CountMax:  10,
	})
	two := detector.FingersLandmarks(2, detector.HandRight, 0.5)

	e.Process(slotted(two), at(0))
	if f := e.Process(slotted(two), at(1000)); f.Count == nil {
		t.Fatal("expected 2 to be confirmed")
	}

	e.ResetCount()
	if e.LiveHands() != 1 {
		t.Errorf("ResetCount dropped hand tracks")
	}

	if f := e.Process(slotted(two), at(1500)); f.Count != nil {
		t.Fatal("count confirmed without a fresh hold")
	}
	f := e.Process(slotted(two), at(2500))
	if f.Count == nil || f.Count.Value != 2 {
		t.Fatalf("expected the held total to be confirmed again, got %+v", f.Count)
	}
}
