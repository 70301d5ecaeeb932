package events

import (
	"context"
	"errors"
	"time"

	"github.com/goserg/leaguerank/internal/domain"
	"github.com/goserg/leaguerank/internal/schema"
)

type Kind string

const (
	MatchSubmitted Kind = "match.submitted"
	MatchDeleted   Kind = "match.deleted"
	Recalculated   Kind = "league.recalculated"
)

type RatingChange struct {
	PlayerID int64   `json:"player_id"`
	Name     string  `json:"name"`
	Before   float64 `json:"before"`
	After    float64 `json:"after"`
}

// MatchEvent describes a committed change to the league.
type MatchEvent struct {
	Kind    Kind                `json:"kind"`
	At      time.Time           `json:"at"`
	Match   *schema.MatchRecord `json:"match,omitempty"`
	Names   [][]string          `json:"names,omitempty"`
	Changes []RatingChange      `json:"changes,omitempty"`
}

func NewMatchEvent(kind Kind, m *domain.MatchSummary, changes []RatingChange) MatchEvent {
	e := MatchEvent{
		Kind:    kind,
		At:      time.Now(),
		Changes: changes,
	}
	if m != nil {
		r := schema.FromMatch(m.Match)
		e.Match = &r
		e.Names = m.Names
	}
	return e
}

type Publisher interface {
	Publish(ctx context.Context, e MatchEvent) error
}

// Multi sends every event to each publisher, collecting their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e MatchEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, e MatchEvent) error

func (f PublisherFunc) Publish(ctx context.Context, e MatchEvent) error {
	return f(ctx, e)
}
