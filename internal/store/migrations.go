package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// One row per finished session
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			game TEXT NOT NULL,
			outcome TEXT NOT NULL CHECK(outcome IN ('completed', 'failed', 'expired', 'aborted')),
			correct INTEGER NOT NULL DEFAULT 0,
			incorrect INTEGER NOT NULL DEFAULT 0,
			goal INTEGER NOT NULL DEFAULT 0,
			rounds INTEGER NOT NULL DEFAULT 0,
			winner TEXT NOT NULL DEFAULT '',
			elapsed_ms INTEGER NOT NULL,
			started_at DATETIME NOT NULL,
			finished_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_sessions_game_finished ON sessions(game, finished_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
