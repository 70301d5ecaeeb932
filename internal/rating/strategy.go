package rating

import (
	"fmt"

	"github.com/goserg/leaguerank/internal/domain"
)

// Result is a resolved match: Places[i] holds the members of the entry that
// finished in position i+1.
type Result struct {
	Places [][]*domain.Player
	Draw   bool
}

func (r Result) validate() error {
	if len(r.Places) < 2 {
		return fmt.Errorf("%w: need at least 2 entries, got %d", domain.ErrInvalidMatch, len(r.Places))
	}
	for i, place := range r.Places {
		if len(place) == 0 {
			return fmt.Errorf("%w: entry %d is empty", domain.ErrInvalidMatch, i+1)
		}
	}
	return nil
}

// Strategy turns a match result into rating changes. Statistics other than
// ratings (counts, percent) are not touched.
type Strategy interface {
	Name() string
	// ExpectedScore is the probability of entry a beating entry b.
	ExpectedScore(a, b []*domain.Player) float64
	ApplyResult(Result) error
}

type Kind string

const (
	KindElo     Kind = "elo"
	KindGlicko2 Kind = "glicko2"
)

func New(kind Kind, initialK, standardK float64) (Strategy, error) {
	switch kind {
	case KindElo, "":
		return NewElo(initialK, standardK), nil
	case KindGlicko2:
		return NewGlicko2(), nil
	default:
		return nil, fmt.Errorf("unknown rating strategy %q", kind)
	}
}

func meanRating(entry []*domain.Player) float64 {
	var sum float64
	for _, p := range entry {
		sum += p.Rating
	}
	return sum / float64(len(entry))
}
