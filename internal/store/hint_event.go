package store

import (
	"context"
	"fmt"
	"time"
)

func (r *eventRepo) AppendHintEvent(ctx context.Context, data HintEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO hint_events
			(sequence, timestamp, session_id, concept_id, question_id, hint_text)
		VALUES (?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UTC(), data.SessionID, data.ConceptID,
		data.QuestionID, data.HintText)
	if err != nil {
		return fmt.Errorf("save hint event: %w", err)
	}
	return nil
}
