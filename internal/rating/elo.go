package rating

import (
	"github.com/goserg/leaguerank/internal/domain"
	"github.com/goserg/leaguerank/internal/elo"
)

// Elo is the pairwise Elo strategy. Every pair of entries is scored as a
// two-player game and the sum of those deltas is applied with a per-player K.
// A team is rated as the mean of its members.
type Elo struct {
	InitialK  float64
	StandardK float64
}

func NewElo(initialK, standardK float64) *Elo {
	return &Elo{InitialK: initialK, StandardK: standardK}
}

func (e *Elo) Name() string {
	return string(KindElo)
}

func (e *Elo) ExpectedScore(a, b []*domain.Player) float64 {
	return elo.ExpectedScore(meanRating(a), meanRating(b))
}

func (e *Elo) ApplyResult(r Result) error {
	if err := r.validate(); err != nil {
		return err
	}
	n := len(r.Places)
	ratings := make([]float64, n)
	for i, place := range r.Places {
		ratings[i] = meanRating(place)
	}

	deltas := e.Deltas(ratings, r.Draw)
	opponents := float64(n - 1)
	for i, place := range r.Places {
		for _, p := range place {
			k := elo.KFactor(e.InitialK, e.StandardK, p.MatchCount)
			p.Rating += k * deltas[i]
			p.NormalisedRating += k * deltas[i] / opponents
		}
	}
	return nil
}

// Deltas accumulates the unscaled pairwise deltas of ordered entries.
// Entry i is ahead of every entry after it unless draw is set.
func (e *Elo) Deltas(ratings []float64, draw bool) []float64 {
	deltas := make([]float64, len(ratings))
	for i := 0; i < len(ratings); i++ {
		for j := i + 1; j < len(ratings); j++ {
			score := elo.Win
			if draw {
				score = elo.Draw
			}
			d := elo.Delta(elo.ExpectedScore(ratings[i], ratings[j]), score, 1)
			deltas[i] += d
			deltas[j] -= d
		}
	}
	return deltas
}
