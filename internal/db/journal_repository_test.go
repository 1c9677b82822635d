package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/skirmish/internal/db"
	"github.com/udisondev/skirmish/internal/journal"
	"github.com/udisondev/skirmish/internal/testutil/dbtest"
)

func TestJournalRepository_AppendAndRead(t *testing.T) {
	pool := dbtest.SetupTestDB(t)
	repo := db.NewJournalRepository(pool)
	ctx := context.Background()

	match := uuid.New()
	require.NoError(t, repo.CreateMatch(ctx, match, time.Now()))
	require.NoError(t, repo.CreateMatch(ctx, match, time.Now()), "second create is a no-op")

	rows := []journal.Row{
		{MatchID: match, Seq: 1, SimTime: 0.5, Kind: "DAMAGED", Source: "1#1", Target: "2#1", Amount: 30},
		{MatchID: match, Seq: 2, SimTime: 0.9, Kind: "DIED", Source: "none", Target: "2#1"},
		{MatchID: match, Seq: 3, SimTime: 1.9, Kind: "DESTROYED", Source: "none", Target: "2#1"},
	}
	require.NoError(t, repo.AppendEvents(ctx, rows[:2]))
	require.NoError(t, repo.AppendEvents(ctx, rows[2:]))
	require.NoError(t, repo.AppendEvents(ctx, nil))

	got, err := repo.Events(ctx, match)
	require.NoError(t, err)
	assert.Equal(t, rows, got)

	kills, err := repo.Kills(ctx, match)
	require.NoError(t, err)
	assert.Equal(t, 1, kills)
}

func TestJournalRepository_DuplicateSeqRollsBack(t *testing.T) {
	pool := dbtest.SetupTestDB(t)
	repo := db.NewJournalRepository(pool)
	ctx := context.Background()

	match := uuid.New()
	require.NoError(t, repo.CreateMatch(ctx, match, time.Now()))

	dup := []journal.Row{
		{MatchID: match, Seq: 1, Kind: "SPAWNED", Source: "none", Target: "1#1"},
		{MatchID: match, Seq: 1, Kind: "SPAWNED", Source: "none", Target: "2#1"},
	}
	assert.Error(t, repo.AppendEvents(ctx, dup))

	got, err := repo.Events(ctx, match)
	require.NoError(t, err)
	assert.Empty(t, got)
}
