package db

import "fmt"

// createTables creates the archive tables if they don't exist.
func (s *Store) createTables() error {
	createReportsTableSQL := `
	CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		cycle_id TEXT NOT NULL,
		participant_id TEXT NOT NULL,
		participant_name TEXT,
		channel_id TEXT NOT NULL,
		message_id TEXT,
		posted_at INTEGER NOT NULL
	);`

	if _, err := s.db.Exec(createReportsTableSQL); err != nil {
		return fmt.Errorf("failed to create reports table: %w", err)
	}

	createAnswersTableSQL := `
	CREATE TABLE IF NOT EXISTS report_answers (
		report_id INTEGER NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		question TEXT NOT NULL,
		color TEXT,
		answer TEXT NOT NULL,
		PRIMARY KEY (report_id, position)
	);`

	if _, err := s.db.Exec(createAnswersTableSQL); err != nil {
		return fmt.Errorf("failed to create report_answers table: %w", err)
	}

	if _, err := s.db.Exec("CREATE INDEX IF NOT EXISTS idx_reports_participant ON reports(participant_id, posted_at)"); err != nil {
		return fmt.Errorf("failed to create reports index: %w", err)
	}
	return nil
}
