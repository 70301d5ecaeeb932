package mem

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goserg/leaguerank/internal/domain"
	"github.com/goserg/leaguerank/internal/storage"
)

func TestPlayers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Commit(ctx, storage.Change{Players: []domain.Player{
		{ID: 2, Name: "b", Rating: 1600},
		{ID: 1, Name: "a", Rating: 1600},
	}}))
	require.NoError(t, s.Commit(ctx, storage.Change{Players: []domain.Player{{ID: 2, Name: "b", Rating: 1615}}}))

	players, err := s.LoadPlayers(ctx)
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, domain.PlayerID(1), players[0].ID)
	assert.Equal(t, 1615.0, players[1].Rating)

	require.NoError(t, s.Commit(ctx, storage.Change{DeletePlayers: []domain.PlayerID{1}}))
	players, _ = s.LoadPlayers(ctx)
	assert.Len(t, players, 1)
}

func TestMatchesInInsertionOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New()
	now := time.Now()
	first := domain.Match{ID: uuid.New(), Seq: 1, Result: []domain.Entry{{1}, {2}}, Date: now}
	second := domain.Match{ID: uuid.New(), Seq: 2, Result: []domain.Entry{{2}, {1}}, Date: now.Add(-time.Hour)}
	require.NoError(t, s.Commit(ctx, storage.Change{Matches: []domain.Match{second, first}}))

	matches, err := s.LoadMatches(ctx)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, first.ID, matches[0].ID)
	assert.Equal(t, second.ID, matches[1].ID)

	require.NoError(t, s.Commit(ctx, storage.Change{DeleteMatches: []uuid.UUID{first.ID}}))
	matches, _ = s.LoadMatches(ctx)
	assert.Len(t, matches, 1)

	require.NoError(t, s.Commit(ctx, storage.Change{Reset: true}))
	matches, _ = s.LoadMatches(ctx)
	assert.Empty(t, matches)
	assert.NoError(t, s.Close())
}

func TestNextPlayerID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New()
	next, err := s.LoadNextPlayerID(ctx)
	require.NoError(t, err)
	assert.Zero(t, next)

	require.NoError(t, s.Commit(ctx, storage.Change{NextPlayerID: 4}))
	require.NoError(t, s.Commit(ctx, storage.Change{Players: []domain.Player{{ID: 1, Name: "a"}}}))
	next, err = s.LoadNextPlayerID(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PlayerID(4), next)
}

type failingTx struct {
	*Tx
}

func (failingTx) SaveMatches(context.Context, []domain.Match) error {
	return errors.New("disk full")
}

func TestRolledBackTxLeavesDataUntouched(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Commit(ctx, storage.Change{Players: []domain.Player{{ID: 1, Name: "a"}}}))

	tx := s.Begin()
	err := storage.Apply(ctx, failingTx{tx}, storage.Change{
		Reset:   true,
		Players: []domain.Player{{ID: 7, Name: "z"}},
		Matches: []domain.Match{{ID: uuid.New(), Seq: 1}},
	})
	require.ErrorContains(t, err, "save matches")

	players, _ := s.LoadPlayers(ctx)
	require.Len(t, players, 1)
	assert.Equal(t, "a", players[0].Name)
}
