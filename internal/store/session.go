package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/challenge"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Session is a finished game session.
type Session struct {
	ID         string            `json:"id"`
	Game       string            `json:"game"`
	Outcome    challenge.Outcome `json:"outcome"`
	Correct    int               `json:"correct"`
	Incorrect  int               `json:"incorrect"`
	Goal       int               `json:"goal"`
	Rounds     int               `json:"rounds"`
	Winner     string            `json:"winner,omitempty"`
	Elapsed    time.Duration     `json:"-"`
	ElapsedMS  int64             `json:"elapsed_ms"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
}

// NewSession converts a challenge result into a Session with a fresh id.
func NewSession(r challenge.Result) *Session {
	return &Session{
		ID:         uuid.NewString(),
		Game:       r.Game,
		Outcome:    r.Outcome,
		Correct:    r.Correct,
		Incorrect:  r.Incorrect,
		Goal:       r.Goal,
		Rounds:     r.Rounds,
		Winner:     string(r.Winner),
		Elapsed:    r.Elapsed,
		ElapsedMS:  r.Elapsed.Milliseconds(),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}

// SessionRepository provides access to session history.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

const sessionColumns = `id, game, outcome, correct, incorrect, goal, rounds, winner, elapsed_ms, started_at, finished_at`

// Create inserts a session. An empty ID is filled with a new UUID.
func (r *SessionRepository) Create(s *Session) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.ElapsedMS = s.Elapsed.Milliseconds()

	_, err := r.db.Exec(
		`INSERT INTO sessions (`+sessionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Game, string(s.Outcome), s.Correct, s.Incorrect, s.Goal, s.Rounds, s.Winner,
		s.ElapsedMS, s.StartedAt.UTC(), s.FinishedAt.UTC(),
	)
	return err
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	s, err := scanSession(r.db.QueryRow(
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// List returns sessions newest first. An empty game lists every game; a
// non-positive limit lists all.
func (r *SessionRepository) List(game string, limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.Query(
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE (? = '' OR game = ?)
		 ORDER BY finished_at DESC LIMIT ?`,
		game, game, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Best returns the fastest completed session of game.
func (r *SessionRepository) Best(game string) (*Session, error) {
	s, err := scanSession(r.db.QueryRow(
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE game = ? AND outcome = ?
		 ORDER BY elapsed_ms ASC, finished_at ASC LIMIT 1`,
		game, string(challenge.OutcomeCompleted),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// Count returns the number of stored sessions of game, or of every game when
// game is empty.
func (r *SessionRepository) Count(game string) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM sessions WHERE (? = '' OR game = ?)`, game, game).Scan(&n)
	return n, err
}

// Delete removes a session by ID.
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	s := &Session{}
	var outcome string
	err := row.Scan(&s.ID, &s.Game, &outcome, &s.Correct, &s.Incorrect, &s.Goal, &s.Rounds,
		&s.Winner, &s.ElapsedMS, &s.StartedAt, &s.FinishedAt)
	if err != nil {
		return nil, err
	}
	s.Outcome = challenge.Outcome(outcome)
	s.Elapsed = time.Duration(s.ElapsedMS) * time.Millisecond
	return s, nil
}
