package sqlite

import (
	"context"
	"path/filepath"
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
	s, err := New(filepath.Join(t.TempDir(), "league.sqlite"), logrus.New())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func TestPlayers(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	registered := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)

	players := []domain.Player{
		{ID: 1, Name: "Alice", Active: true, RegisteredAt: registered, InitialRating: 1600, Rating: 1615, NormalisedRating: 1615, MatchCount: 1, Wins: 1, Percent: 100},
		{ID: 2, Name: "Bob", Active: true, RegisteredAt: registered, InitialRating: 1600, Rating: 1585, NormalisedRating: 1585, MatchCount: 1, Losses: 1},
	}
	require.NoError(t, s.Commit(ctx, storage.Change{Players: players}))

	players[1].Active = false
	players[1].Name = "Robert"
	require.NoError(t, s.Commit(ctx, storage.Change{Players: players[1:]}))

	got, err := s.LoadPlayers(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Alice", got[0].Name)
	assert.Equal(t, 1615.0, got[0].Rating)
	assert.Equal(t, 1, got[0].Wins)
	assert.Equal(t, 100.0, got[0].Percent)
	assert.True(t, registered.Equal(got[0].RegisteredAt))
	assert.Equal(t, "Robert", got[1].Name)
	assert.False(t, got[1].Active)

	require.NoError(t, s.Commit(ctx, storage.Change{DeletePlayers: []domain.PlayerID{1}}))
	got, err = s.LoadPlayers(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMatches(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	date := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	p := 0.5
	w := 1600.0

	second := domain.Match{ID: uuid.New(), Seq: 2, Result: []domain.Entry{{1, 2}, {3, 4}}, Date: date.Add(-time.Hour), Draw: true}
	first := domain.Match{ID: uuid.New(), Seq: 1, Result: []domain.Entry{{1}, {2}, {3}}, Date: date, Probability: &p, WinnerRating: &w}
	require.NoError(t, s.Commit(ctx, storage.Change{Matches: []domain.Match{second, first}}))

	got, err := s.LoadMatches(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, first.Result, got[0].Result)
	require.NotNil(t, got[0].Probability)
	assert.Equal(t, 0.5, *got[0].Probability)
	assert.Nil(t, got[0].LoserRating)
	assert.True(t, date.Equal(got[0].Date))
	assert.Equal(t, second.Result, got[1].Result)
	assert.True(t, got[1].Draw)

	q := 0.25
	first.Probability = &q
	require.NoError(t, s.Commit(ctx, storage.Change{Matches: []domain.Match{first}}))
	got, err = s.LoadMatches(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 0.25, *got[0].Probability)

	require.NoError(t, s.Commit(ctx, storage.Change{DeleteMatches: []uuid.UUID{first.ID}}))
	got, _ = s.LoadMatches(ctx)
	assert.Len(t, got, 1)

	require.NoError(t, s.Commit(ctx, storage.Change{Reset: true}))
	got, err = s.LoadMatches(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	file := filepath.Join(t.TempDir(), "league.sqlite")
	s, err := New(file, logrus.New())
	require.NoError(t, err)
	require.NoError(t, s.Commit(ctx, storage.Change{
		Players:      []domain.Player{{ID: 5, Name: "Eve", RegisteredAt: time.Now()}},
		NextPlayerID: 9,
	}))
	require.NoError(t, s.Close())

	s, err = New(file, logrus.New())
	require.NoError(t, err)
	defer s.Close()
	got, err := s.LoadPlayers(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.PlayerID(5), got[0].ID)
	next, err := s.LoadNextPlayerID(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PlayerID(9), next)
}

func TestCommitIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	registered := time.Now()
	require.NoError(t, s.Commit(ctx, storage.Change{
		Players:      []domain.Player{{ID: 1, Name: "Alice", RegisteredAt: registered}},
		NextPlayerID: 2,
	}))

	// The second player reuses a unique name, so the whole change rolls back.
	err := s.Commit(ctx, storage.Change{
		Reset: true,
		Players: []domain.Player{
			{ID: 3, Name: "Carol", RegisteredAt: registered},
			{ID: 4, Name: "Carol", RegisteredAt: registered},
		},
		NextPlayerID: 5,
	})
	require.Error(t, err)

	got, err := s.LoadPlayers(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Alice", got[0].Name)
	next, err := s.LoadNextPlayerID(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PlayerID(2), next)
}
