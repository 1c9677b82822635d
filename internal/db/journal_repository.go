package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/skirmish/internal/journal"
)

// JournalRepository хранит матчи и журнал боевых событий.
type JournalRepository struct {
	db *pgxpool.Pool
}

// NewJournalRepository создаёт новый JournalRepository.
func NewJournalRepository(db *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{db: db}
}

// CreateMatch inserts a match row. Re-creating an existing id is a no-op.
func (r *JournalRepository) CreateMatch(ctx context.Context, id uuid.UUID, startedAt time.Time) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO matches (id, started_at) VALUES ($1, $2)
		 ON CONFLICT (id) DO NOTHING`,
		id, startedAt,
	)
	if err != nil {
		return fmt.Errorf("creating match %s: %w", id, err)
	}
	return nil
}

// AppendEvents bulk-inserts rows with COPY inside one transaction.
func (r *JournalRepository) AppendEvents(ctx context.Context, rows []journal.Row) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin journal transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
			slog.Error("journal rollback failed", "error", err)
		}
	}()

	src := make([][]any, 0, len(rows))
	for _, row := range rows {
		src = append(src, []any{row.MatchID, row.Seq, row.SimTime, row.Kind, row.Source, row.Target, row.Amount})
	}

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"combat_events"},
		[]string{"match_id", "seq", "sim_time", "kind", "source", "target", "amount"},
		pgx.CopyFromRows(src),
	)
	if err != nil {
		return fmt.Errorf("copying %d combat events: %w", len(rows), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit journal transaction: %w", err)
	}

	slog.Debug("journal flushed", "match", rows[0].MatchID, "count", n)
	return nil
}

// Events returns the journal of a match ordered by sequence.
func (r *JournalRepository) Events(ctx context.Context, matchID uuid.UUID) ([]journal.Row, error) {
	rows, err := r.db.Query(ctx,
		`SELECT match_id, seq, sim_time, kind, source, target, amount
		 FROM combat_events
		 WHERE match_id = $1
		 ORDER BY seq`,
		matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying events of match %s: %w", matchID, err)
	}
	defer rows.Close()

	var out []journal.Row
	for rows.Next() {
		var row journal.Row
		if err := rows.Scan(&row.MatchID, &row.Seq, &row.SimTime, &row.Kind, &row.Source, &row.Target, &row.Amount); err != nil {
			return nil, fmt.Errorf("scanning event row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating event rows: %w", err)
	}
	return out, nil
}

// Kills counts DIED events of a match.
func (r *JournalRepository) Kills(ctx context.Context, matchID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM combat_events WHERE match_id = $1 AND kind = 'DIED'`,
		matchID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting kills of match %s: %w", matchID, err)
	}
	return n, nil
}

var _ journal.Store = (*JournalRepository)(nil)
