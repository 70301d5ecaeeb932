package rating

import (
	"math"

	glicko "github.com/zelenin/go-glicko2"

	"github.com/goserg/leaguerank/internal/domain"
)

const (
	DefaultDeviation  = 350
	DefaultVolatility = 0.06

	// glickoScale converts between the public rating scale and the internal one.
	glickoScale = 173.7178
)

// Glicko2 rates every match as one rating period in which each pair of
// entries played one game. Team members are rated individually against every
// member of the opposing entries.
type Glicko2 struct{}

func NewGlicko2() *Glicko2 {
	return &Glicko2{}
}

func (g *Glicko2) Name() string {
	return string(KindGlicko2)
}

func (g *Glicko2) ExpectedScore(a, b []*domain.Player) float64 {
	return glickoExpected(meanRating(a), meanRating(b), meanDeviation(b))
}

func (g *Glicko2) ApplyResult(r Result) error {
	if err := r.validate(); err != nil {
		return err
	}
	players := make(map[*domain.Player]*glicko.Player)
	for _, place := range r.Places {
		for _, p := range place {
			players[p] = glicko.NewPlayer(glicko.NewRating(p.Rating, deviation(p), volatility(p)))
		}
	}

	period := glicko.NewRatingPeriod()
	for i := 0; i < len(r.Places); i++ {
		for j := i + 1; j < len(r.Places); j++ {
			result := glicko.MATCH_RESULT_WIN
			if r.Draw {
				result = glicko.MATCH_RESULT_DRAW
			}
			for _, a := range r.Places[i] {
				for _, b := range r.Places[j] {
					period.AddMatch(players[a], players[b], result)
				}
			}
		}
	}
	period.Calculate()

	for p, gp := range players {
		rt := gp.Rating()
		p.Rating = rt.R()
		p.NormalisedRating = rt.R()
		p.Deviation = rt.Rd()
		p.Volatility = rt.Sigma()
	}
	return nil
}

func deviation(p *domain.Player) float64 {
	if p.Deviation <= 0 {
		return DefaultDeviation
	}
	return p.Deviation
}

func volatility(p *domain.Player) float64 {
	if p.Volatility <= 0 {
		return DefaultVolatility
	}
	return p.Volatility
}

func meanDeviation(entry []*domain.Player) float64 {
	var sum float64
	for _, p := range entry {
		sum += deviation(p)
	}
	return sum / float64(len(entry))
}

func glickoExpected(r, opponentR, opponentRD float64) float64 {
	mu := (r - 1500) / glickoScale
	muJ := (opponentR - 1500) / glickoScale
	phiJ := opponentRD / glickoScale
	g := 1 / math.Sqrt(1+3*phiJ*phiJ/(math.Pi*math.Pi))
	return 1 / (1 + math.Exp(-g*(mu-muJ)))
}
