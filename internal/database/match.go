// internal/database/match.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/trios/internal/models"
	"github.com/sirupsen/logrus"
)

// RecordMatch stores a finished match: every human member of the winning holder gets one more
// victory, and the summary is appended to match_summaries. Both happen in one transaction.
func (s *Store) RecordMatch(ctx context.Context, summary models.MatchSummary) error {
	participants, err := json.Marshal(summary.Participants)
	if err != nil {
		return fmt.Errorf("marshal participants: %w", err)
	}

	err = pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, p := range summary.HumanWinners() {
			q := `
				INSERT INTO victories (player_id, player_name, victories)
				VALUES ($1, $2, 1)
				ON CONFLICT (player_id)
				DO UPDATE SET victories = victories.victories + 1,
				              player_name = EXCLUDED.player_name,
				              updated_at = NOW()
			`
			if _, e := tx.Exec(ctx, q, p.ID, p.Name); e != nil {
				return fmt.Errorf("increment victories for %s: %w", p.Name, e)
			}
		}

		var winnerID *uuid.UUID
		if !summary.Draw() {
			winnerID = &summary.WinnerID
		}
		q := `
			INSERT INTO match_summaries (match_id, mode, winner_id, winner_name, seven_bonus, turns, participants, finished_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		_, e := tx.Exec(ctx, q,
			summary.MatchID, summary.Mode, winnerID, summary.WinnerName,
			summary.SevenBonus, summary.Turns, participants, summary.FinishedAt,
		)
		return e
	})
	if err != nil {
		return fmt.Errorf("record match %s: %w", summary.MatchID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"match_id": summary.MatchID,
		"winner":   summary.WinnerName,
		"draw":     summary.Draw(),
	}).Info("match recorded")
	return nil
}

// Victories returns the victory count of a player, 0 if it never won.
func (s *Store) Victories(ctx context.Context, playerID uuid.UUID) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT victories FROM victories WHERE player_id = $1`, playerID).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query victories: %w", err)
	}
	return n, nil
}

// MatchSummary loads one stored summary.
func (s *Store) MatchSummary(ctx context.Context, matchID uuid.UUID) (*models.MatchSummary, error) {
	var (
		sum          models.MatchSummary
		winnerID     *uuid.UUID
		winnerName   *string
		participants []byte
	)
	q := `
		SELECT match_id, mode, winner_id, winner_name, seven_bonus, turns, participants, finished_at
		FROM match_summaries
		WHERE match_id = $1
	`
	err := s.pool.QueryRow(ctx, q, matchID).Scan(
		&sum.MatchID, &sum.Mode, &winnerID, &winnerName,
		&sum.SevenBonus, &sum.Turns, &participants, &sum.FinishedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("query match summary %s: %w", matchID, err)
	}
	if winnerID != nil {
		sum.WinnerID = *winnerID
	}
	if winnerName != nil {
		sum.WinnerName = *winnerName
	}
	if err := json.Unmarshal(participants, &sum.Participants); err != nil {
		return nil, fmt.Errorf("decode participants: %w", err)
	}
	return &sum, nil
}
