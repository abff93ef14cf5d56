package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/tutoriz/internal/session"
)

// sessionRepo implements SessionRepo. The full session travels in the doc
// column; the remaining columns exist for listing and the version guard.
type sessionRepo struct {
	db *sql.DB
}

func (r *sessionRepo) Save(ctx context.Context, s *session.Session) error {
	prev := s.Version
	prevUpdated := s.UpdatedAt
	s.Version = prev + 1
	s.UpdatedAt = time.Now().UTC()

	restore := func() {
		s.Version = prev
		s.UpdatedAt = prevUpdated
	}

	doc, err := json.Marshal(s)
	if err != nil {
		restore()
		return fmt.Errorf("marshal session: %w", err)
	}

	if prev == 0 {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO sessions (id, student_id, subject, chapter, phase, version, doc, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.ID, s.StudentID, s.Subject, s.Chapter, string(s.Phase),
			s.Version, string(doc), s.CreatedAt, s.UpdatedAt)
		if err != nil {
			restore()
			return fmt.Errorf("insert session: %w", err)
		}
		return nil
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET phase = ?, version = ?, doc = ?, updated_at = ?
		WHERE id = ? AND version = ?`,
		string(s.Phase), s.Version, string(doc), s.UpdatedAt, s.ID, prev)
	if err != nil {
		restore()
		return fmt.Errorf("update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		restore()
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		restore()
		return ErrStaleWrite
	}
	return nil
}

func (r *sessionRepo) Load(ctx context.Context, id string) (*session.Session, error) {
	var doc string
	err := r.db.QueryRowContext(ctx, `SELECT doc FROM sessions WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var s session.Session
	if err := json.Unmarshal([]byte(doc), &s); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", id, err)
	}
	return &s, nil
}

func (r *sessionRepo) List(ctx context.Context, opts ListOpts) ([]*session.Session, error) {
	query := `SELECT doc FROM sessions`
	var args []any
	if opts.Phase != "" {
		query += ` WHERE phase = ?`
		args = append(args, opts.Phase)
	}
	query += ` ORDER BY updated_at DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []*session.Session
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		var s session.Session
		if err := json.Unmarshal([]byte(doc), &s); err != nil {
			return nil, fmt.Errorf("unmarshal session: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
