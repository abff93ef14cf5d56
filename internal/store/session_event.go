package store

import (
	"context"
	"fmt"
	"time"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO session_events
			(sequence, timestamp, session_id, action, from_phase, to_phase)
		VALUES (?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UTC(), data.SessionID, data.Action,
		data.FromPhase, data.ToPhase)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}
