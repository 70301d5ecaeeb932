package domain

import (
	"time"
)

// PlayerID is assigned by the registry from a counter and never reused.
type PlayerID int64

type Player struct {
	ID           PlayerID
	Name         string
	Active       bool
	RegisteredAt time.Time
	// InitialRating is what Reset restores Rating to.
	InitialRating float64

	Rating           float64
	NormalisedRating float64
	// Deviation and Volatility are only moved by the glicko2 strategy.
	Deviation  float64
	Volatility float64

	MatchCount int
	Wins       int
	Losses     int
	Draws      int
	// Percent is the running mean finishing percentile, 0..100.
	Percent float64
}

func (p Player) PlayedMatch() bool {
	return p.MatchCount > 0
}

// Defaults is the state a player starts with and returns to on reset.
type Defaults struct {
	Rating     float64
	Deviation  float64
	Volatility float64
}

func (p *Player) Reset(d Defaults) {
	if p.InitialRating == 0 {
		p.InitialRating = d.Rating
	}
	p.Rating = p.InitialRating
	p.NormalisedRating = p.InitialRating
	p.Deviation = d.Deviation
	p.Volatility = d.Volatility
	p.MatchCount = 0
	p.Wins = 0
	p.Losses = 0
	p.Draws = 0
	p.Percent = 0
}

type PlayerStats struct {
	Player Player
	Wins   int
	Loses  int
	Draws  int
}
