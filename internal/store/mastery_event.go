package store

import (
	"context"
	"fmt"
	"time"
)

func (r *eventRepo) AppendMasteryEvent(ctx context.Context, data MasteryEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO mastery_events
			(sequence, timestamp, session_id, concept_id, mastery_before, mastery_after, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UTC(), data.SessionID, data.ConceptID,
		data.Before, data.After, data.Reason)
	if err != nil {
		return fmt.Errorf("save mastery event: %w", err)
	}
	return nil
}
