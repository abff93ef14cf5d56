package store

import (
	"context"
	"fmt"
	"time"
)

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO answer_events
			(sequence, timestamp, session_id, concept_id, question_id, kind,
			 phase, prompt, submitted, correct, attempt, xp_awarded, time_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UTC(), data.SessionID, data.ConceptID,
		data.QuestionID, data.Kind, data.Phase, data.Prompt, data.Submitted,
		data.Correct, data.Attempt, data.XPAwarded, data.TimeMs)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) ConceptAccuracy(ctx context.Context, conceptID string) (float64, int, error) {
	var total, correct int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN correct THEN 1 ELSE 0 END), 0)
		FROM answer_events
		WHERE concept_id = ?`, conceptID).Scan(&total, &correct)
	if err != nil {
		return 0, 0, fmt.Errorf("query concept accuracy: %w", err)
	}
	if total == 0 {
		return 0, 0, nil
	}
	return float64(correct) / float64(total), total, nil
}
