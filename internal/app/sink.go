package app

import (
	"log/slog"
	"sync"

	"github.com/ayusman/mudra/internal/challenge"
)

// Sink receives one render snapshot per frame. Publish must not block the
// loop for long.
type Sink interface {
	Publish(s challenge.Snapshot)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(challenge.Snapshot)

func (f SinkFunc) Publish(s challenge.Snapshot) { f(s) }

// MultiSink publishes to each sink in order.
type MultiSink []Sink

func (m MultiSink) Publish(s challenge.Snapshot) {
	for _, sink := range m {
		sink.Publish(s)
	}
}

// LogSink logs a snapshot whenever the visible challenge or score changes.
type LogSink struct {
	logger *slog.Logger

	mu   sync.Mutex
	last logKey
	seen bool
}

type logKey struct {
	state     challenge.State
	prompt    string
	target    string
	correct   int
	incorrect int
	music     bool
	position  int
}

// NewLogSink creates a LogSink. A nil logger uses slog.Default().
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (l *LogSink) Publish(s challenge.Snapshot) {
	key := logKey{
		state:     s.State,
		prompt:    s.Prompt,
		target:    s.Target,
		correct:   s.Correct,
		incorrect: s.Incorrect,
		position:  s.Position,
	}
	if s.Music != nil {
		key.music = *s.Music
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.seen && key == l.last {
		return
	}
	l.last, l.seen = key, true

	attrs := []any{
		"game", s.Game,
		"state", s.State,
		"prompt", s.Prompt,
		"correct", s.Correct,
		"incorrect", s.Incorrect,
	}
	if s.Target != "" {
		attrs = append(attrs, "target", s.Target)
	}
	if s.Options != nil {
		attrs = append(attrs, "left", s.Options.Left, "right", s.Options.Right)
	}
	if s.Music != nil {
		attrs = append(attrs, "music", *s.Music)
	}
	if s.Position != 0 {
		attrs = append(attrs, "position", s.Position)
	}
	l.logger.Info("challenge", attrs...)
}
