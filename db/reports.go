package db

import (
	"context"
	"fmt"
	"time"

	"standup/model"
)

// SaveReport stores a published report and its answers in one transaction.
func (s *Store) SaveReport(ctx context.Context, r model.Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() // Rollback on error

	res, err := tx.ExecContext(ctx, `INSERT INTO reports(
		cycle_id, participant_id, participant_name, channel_id, message_id, posted_at
	) VALUES(?, ?, ?, ?, ?, ?)`,
		r.CycleID, r.ParticipantID, r.ParticipantName, r.ChannelID, r.MessageID, r.PostedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	reportID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO report_answers(report_id, position, question, color, answer) VALUES(?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, a := range r.Answers {
		if _, err := stmt.ExecContext(ctx, reportID, i, a.Question, a.Color, a.Text); err != nil {
			return fmt.Errorf("insert answer %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// rowScanner is an interface that can be satisfied by *sql.Row or *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(scanner rowScanner) (int64, *model.Report, error) {
	var (
		id       int64
		r        model.Report
		postedAt int64
	)
	err := scanner.Scan(&id, &r.CycleID, &r.ParticipantID, &r.ParticipantName, &r.ChannelID, &r.MessageID, &postedAt)
	if err != nil {
		return 0, nil, err
	}
	r.PostedAt = time.Unix(postedAt, 0)
	return id, &r, nil
}

// ListReports returns a participant's most recent reports, newest first.
func (s *Store) ListReports(ctx context.Context, participantID string, limit int) ([]model.Report, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := s.db.QueryContext(ctx, `SELECT
		id, cycle_id, participant_id, COALESCE(participant_name, ''), channel_id,
		COALESCE(message_id, ''), posted_at
	FROM reports WHERE participant_id = ?
	ORDER BY posted_at DESC, id DESC LIMIT ?`, participantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		ids     []int64
		reports []model.Report
	)
	for rows.Next() {
		id, r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
		reports = append(reports, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i, id := range ids {
		answers, err := s.answers(ctx, id)
		if err != nil {
			return nil, err
		}
		reports[i].Answers = answers
	}
	return reports, nil
}

func (s *Store) answers(ctx context.Context, reportID int64) ([]model.Answer, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT question, COALESCE(color, ''), answer
	FROM report_answers WHERE report_id = ? ORDER BY position`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []model.Answer
	for rows.Next() {
		var a model.Answer
		if err := rows.Scan(&a.Question, &a.Color, &a.Text); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}
