// internal/database/action.go
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/trios/internal/models"
)

// InsertMatchActions writes a batch of queued actions in a single transaction.
// Replayed actions (same match and index) are ignored.
func (s *Store) InsertMatchActions(ctx context.Context, actions []models.MatchAction) error {
	if len(actions) == 0 {
		return nil
	}
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, a := range actions {
			if err := insertMatchActionTx(ctx, tx, a); err != nil {
				return fmt.Errorf("insert action %d of match %s: %w", a.ActionIndex, a.MatchID, err)
			}
		}
		return nil
	})
}

func insertMatchActionTx(ctx context.Context, tx pgx.Tx, a models.MatchAction) error {
	payload, err := json.Marshal(a.Payload)
	if err != nil {
		return err
	}
	var actor *uuid.UUID
	if a.ActorID != uuid.Nil {
		actor = &a.ActorID
	}
	q := `
		INSERT INTO match_actions (match_id, action_index, actor_id, action_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (match_id, action_index) DO NOTHING
	`
	_, err = tx.Exec(ctx, q, a.MatchID, a.ActionIndex, actor, a.ActionType, payload, time.UnixMilli(a.Timestamp).UTC())
	return err
}

// CountMatchActions returns how many actions are stored for a match.
func (s *Store) CountMatchActions(ctx context.Context, matchID uuid.UUID) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM match_actions WHERE match_id = $1`, matchID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count match actions: %w", err)
	}
	return n, nil
}
