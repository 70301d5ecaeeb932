package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/goserg/leaguerank/internal/domain"
)

type Loader interface {
	LoadPlayers(ctx context.Context) ([]domain.Player, error)
	// LoadMatches returns matches in insertion order.
	LoadMatches(ctx context.Context) ([]domain.Match, error)
	// LoadNextPlayerID returns the stored id counter, zero when none was saved.
	LoadNextPlayerID(ctx context.Context) (domain.PlayerID, error)
}

// Change is one write set. Commit applies all of it or none of it.
type Change struct {
	// Reset drops every stored player and match before anything else.
	Reset         bool
	DeleteMatches []uuid.UUID
	DeletePlayers []domain.PlayerID
	Players       []domain.Player
	Matches       []domain.Match
	// NextPlayerID is stored when non-zero.
	NextPlayerID domain.PlayerID
}

func (c Change) Empty() bool {
	return !c.Reset && len(c.DeleteMatches) == 0 && len(c.DeletePlayers) == 0 &&
		len(c.Players) == 0 && len(c.Matches) == 0 && c.NextPlayerID == 0
}

type Storage interface {
	Loader
	Commit(ctx context.Context, c Change) error
	Close() error
}

// Writer is the set of statements a backend runs inside one transaction.
type Writer interface {
	DeleteAll(ctx context.Context) error
	DeleteMatch(ctx context.Context, id uuid.UUID) error
	DeletePlayer(ctx context.Context, id domain.PlayerID) error
	SavePlayers(ctx context.Context, players []domain.Player) error
	SaveMatches(ctx context.Context, matches []domain.Match) error
	SetNextPlayerID(ctx context.Context, id domain.PlayerID) error
}

// Apply runs c against w in a fixed order: deletions first so upserts never
// collide with rows on their way out.
func Apply(ctx context.Context, w Writer, c Change) error {
	if c.Reset {
		if err := w.DeleteAll(ctx); err != nil {
			return fmt.Errorf("delete all: %w", err)
		}
	}
	for _, id := range c.DeleteMatches {
		if err := w.DeleteMatch(ctx, id); err != nil {
			return fmt.Errorf("delete match %s: %w", id, err)
		}
	}
	for _, id := range c.DeletePlayers {
		if err := w.DeletePlayer(ctx, id); err != nil {
			return fmt.Errorf("delete player %d: %w", id, err)
		}
	}
	if len(c.Players) > 0 {
		if err := w.SavePlayers(ctx, c.Players); err != nil {
			return fmt.Errorf("save players: %w", err)
		}
	}
	if len(c.Matches) > 0 {
		if err := w.SaveMatches(ctx, c.Matches); err != nil {
			return fmt.Errorf("save matches: %w", err)
		}
	}
	if c.NextPlayerID != 0 {
		if err := w.SetNextPlayerID(ctx, c.NextPlayerID); err != nil {
			return fmt.Errorf("save next player id: %w", err)
		}
	}
	return nil
}
