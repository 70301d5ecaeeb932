package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goserg/leaguerank/internal/domain"
	"github.com/goserg/leaguerank/internal/storage"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	dsn := os.Getenv("LEAGUE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("LEAGUE_TEST_POSTGRES_DSN is not set")
	}
	ctx := context.Background()
	s, err := New(ctx, dsn, logrus.New())
	require.NoError(t, err)
	_, err = s.db.Exec(ctx, `TRUNCATE players, matches, league_meta`)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func TestStorage(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	require.NoError(t, s.Commit(ctx, storage.Change{Players: []domain.Player{
		{ID: 1, Name: "Alice", Active: true, RegisteredAt: now, InitialRating: 1600, Rating: 1615},
		{ID: 2, Name: "Bob", Active: true, RegisteredAt: now, InitialRating: 1600, Rating: 1585},
	}}))
	require.NoError(t, s.Commit(ctx, storage.Change{Players: []domain.Player{
		{ID: 2, Name: "Bob", Active: false, RegisteredAt: now, InitialRating: 1600, Rating: 1585},
	}}))
	players, err := s.LoadPlayers(ctx)
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.False(t, players[1].Active)
	assert.True(t, now.Equal(players[0].RegisteredAt))

	p := 0.5
	a := domain.Match{ID: uuid.New(), Seq: 1, Result: []domain.Entry{{1}, {2}}, Date: now, Probability: &p}
	b := domain.Match{ID: uuid.New(), Seq: 2, Result: []domain.Entry{{2, 1}, {3}}, Date: now, Draw: true}
	require.NoError(t, s.Commit(ctx, storage.Change{Matches: []domain.Match{b, a}, NextPlayerID: 3}))

	matches, err := s.LoadMatches(ctx)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, a.ID, matches[0].ID)
	assert.Equal(t, a.Result, matches[0].Result)
	assert.Equal(t, 0.5, *matches[0].Probability)
	assert.Equal(t, b.Result, matches[1].Result)

	next, err := s.LoadNextPlayerID(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PlayerID(3), next)

	require.NoError(t, s.Commit(ctx, storage.Change{
		DeleteMatches: []uuid.UUID{a.ID},
		DeletePlayers: []domain.PlayerID{1},
	}))
	matches, _ = s.LoadMatches(ctx)
	assert.Len(t, matches, 1)
	players, _ = s.LoadPlayers(ctx)
	assert.Len(t, players, 1)

	// A duplicate name fails the upsert and rolls back the reset before it.
	err = s.Commit(ctx, storage.Change{
		Reset: true,
		Players: []domain.Player{
			{ID: 7, Name: "Zed", RegisteredAt: now},
			{ID: 8, Name: "Zed", RegisteredAt: now},
		},
	})
	require.Error(t, err)
	players, _ = s.LoadPlayers(ctx)
	assert.Len(t, players, 1)

	require.NoError(t, s.Commit(ctx, storage.Change{Reset: true}))
	matches, _ = s.LoadMatches(ctx)
	assert.Empty(t, matches)
	players, _ = s.LoadPlayers(ctx)
	assert.Empty(t, players)
}
