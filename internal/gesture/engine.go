package gesture

import (
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/detector"
)

// Count selects which per-frame total the Engine debounces, if any.
type Count string

const (
	CountNone    Count = ""
	CountFingers Count = "fingers"
	CountHands   Count = "hands"
)

// EngineConfig configures an Engine.
type EngineConfig struct {
	Tracker TrackerConfig

	// ClickHold is how long a closed hand must stay closed after being open
	// before its close is confirmed. Zero confirms on the first closed frame.
	ClickHold time.Duration

	// Count enables the frame-total debouncer.
	Count Count
	// CountHold is the dwell time for the frame total.
	CountHold time.Duration
	// CountMin and CountMax bound the totals that may become candidates.
	CountMin, CountMax int
}

// HandState is the per-hand debouncer state the Engine owns.
type HandState struct {
	ID      uuid.UUID
	Reading Reading
	click   *Debouncer[bool]
}

// HandFrame is one classified, identified hand in a frame.
type HandFrame struct {
	ID      uuid.UUID `json:"id"`
	Slot    int       `json:"slot"`
	Reading Reading   `json:"reading"`
}

// CloseEvent is a confirmed open → closed transition of one hand.
type CloseEvent struct {
	Hand    uuid.UUID
	Reading Reading
	At      time.Time
}

// Frame is everything the Engine derived from one frame of observations.
type Frame struct {
	At      time.Time
	Hands   []HandFrame
	Summary Summary
	Closes  []CloseEvent
	// Count is set when the frame total was confirmed on this frame.
	Count *Event[int]
	// Hold is the fill fraction of the frame-total dwell timer.
	Hold    float64
	Expired []uuid.UUID
}

// Engine runs classifier, tracker and debouncers over successive frames.
// It is not safe for concurrent use; the game loop owns it.
type Engine struct {
	config  EngineConfig
	tracker *Tracker
	hands   map[uuid.UUID]*HandState
	count   *Debouncer[int]
}

// NewEngine creates an Engine.
func NewEngine(config EngineConfig) *Engine {
	e := &Engine{
		config:  config,
		tracker: NewTracker(config.Tracker),
		hands:   make(map[uuid.UUID]*HandState),
	}
	if config.Count != CountNone {
		lo, hi := config.CountMin, config.CountMax
		e.count = NewHold(config.CountHold, func(v int) bool {
			return v >= lo && v <= hi
		})
	}
	return e
}

// Process classifies and tracks one frame of observations and returns the
// resulting confirmed events.
func (e *Engine) Process(hands []detector.HandLandmarks, now time.Time) Frame {
	frame := Frame{At: now}

	assignments, expired := e.tracker.Update(hands)
	for _, id := range expired {
		delete(e.hands, id)
	}
	frame.Expired = expired

	frame.Hands = make([]HandFrame, len(hands))
	for i, a := range assignments {
		reading := Classify(hands[i])
		frame.Hands[i] = HandFrame{ID: a.ID, Slot: a.Slot, Reading: reading}
		frame.Summary.Hands++
		frame.Summary.Fingers += reading.Fingers

		st, ok := e.hands[a.ID]
		if !ok {
			st = &HandState{ID: a.ID, click: NewClick(true, false, e.config.ClickHold)}
			e.hands[a.ID] = st
		}
		st.Reading = reading

		if _, fired := st.click.Observe(reading.Open, now); fired {
			frame.Closes = append(frame.Closes, CloseEvent{Hand: a.ID, Reading: reading, At: now})
		}
	}

	if e.count != nil {
		value := frame.Summary.Fingers
		if e.config.Count == CountHands {
			value = frame.Summary.Hands
		}
		if ev, ok := e.count.Observe(value, now); ok {
			frame.Count = &ev
		}
		frame.Hold = e.count.Progress(now)
	}

	return frame
}

// Hand returns the state of a live hand.
func (e *Engine) Hand(id uuid.UUID) (HandState, bool) {
	st, ok := e.hands[id]
	if !ok {
		return HandState{}, false
	}
	return *st, true
}

// HandStateOf reports the click debouncer state of a live hand.
func (e *Engine) HandStateOf(id uuid.UUID) State {
	if st, ok := e.hands[id]; ok {
		return st.click.State()
	}
	return StateIdle
}

// LiveHands returns the number of hands with state.
func (e *Engine) LiveHands() int {
	return len(e.hands)
}

// Reset drops all tracks and debouncer state.
func (e *Engine) Reset() {
	e.tracker.Reset()
	e.hands = make(map[uuid.UUID]*HandState)
	if e.count != nil {
		e.count.Reset()
	}
}

// ResetCount clears the frame-total debouncer only, so an unchanged total can
// be confirmed again. Hand tracks and click state are kept.
func (e *Engine) ResetCount() {
	if e.count != nil {
		e.count.Reset()
	}
}
