package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Subas2/SIANG-TAMBOLA/internal/events"
)

// InsertEvents writes one drained batch in a single transaction. Each event
// upserts its game row first so the foreign key always resolves, and a
// game_ended event finalizes the row.
func InsertEvents(ctx context.Context, pool *pgxpool.Pool, batch []events.Event) error {
	return beginTxFunc(ctx, pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, ev := range batch {
			if err := insertEventTx(ctx, tx, ev); err != nil {
				return fmt.Errorf("insert %s event: %w", ev.Type, err)
			}
		}
		return nil
	})
}

func insertEventTx(ctx context.Context, tx pgx.Tx, ev events.Event) error {
	upsertGameQ := `
		INSERT INTO games (id, status, start_time)
		VALUES ($1, 'open', NOW())
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := tx.Exec(ctx, upsertGameQ, ev.GameID); err != nil {
		return err
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	insertQ := `
		INSERT INTO game_events (game_id, event_type, number_drawn, total_called, payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5, to_timestamp($6 / 1000.0))
	`
	if _, err := tx.Exec(ctx, insertQ, ev.GameID, string(ev.Type), ev.Number, ev.TotalCalled, payload, ev.Timestamp); err != nil {
		return err
	}

	switch ev.Type {
	case events.EventClaimResolved:
		resultQ := `
			INSERT INTO claim_results (claim_id, game_id, user_id, pattern, status, prize, resolved_at)
			VALUES ($1, $2, $3, $4, $5, $6, to_timestamp($7 / 1000.0))
			ON CONFLICT (claim_id) DO NOTHING
		`
		if _, err := tx.Exec(ctx, resultQ, ev.ClaimID, ev.GameID, ev.UserID, ev.Pattern, ev.Status, ev.Prize, ev.Timestamp); err != nil {
			return err
		}
	case events.EventGameEnded:
		finalizeQ := `
			UPDATE games
			SET status = 'ended', end_time = NOW()
			WHERE id = $1 AND status = 'open'
		`
		if _, err := tx.Exec(ctx, finalizeQ, ev.GameID); err != nil {
			return err
		}
	}
	return nil
}

// beginTxFunc starts a transaction, calls f, and commits or rolls back.
func beginTxFunc(ctx context.Context, pool *pgxpool.Pool, txOptions pgx.TxOptions, f func(tx pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := f(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
