package schema

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goserg/leaguerank/internal/domain"
)

// Version is the canonical record shape written by Export and every storage backend.
const Version = 2

type PlayerRecord struct {
	ID               int64     `json:"id" bson:"_id"`
	Name             string    `json:"name" bson:"name"`
	Active           bool      `json:"active" bson:"active"`
	RegisteredAt     time.Time `json:"registered_at" bson:"registered_at"`
	InitialRating    float64   `json:"initial_rating" bson:"initial_rating"`
	Rating           float64   `json:"rating" bson:"rating"`
	NormalisedRating float64   `json:"normalised_rating" bson:"normalised_rating"`
	Deviation        float64   `json:"deviation" bson:"deviation"`
	Volatility       float64   `json:"volatility" bson:"volatility"`
	MatchCount       int       `json:"match_count" bson:"match_count"`
	Wins             int       `json:"wins" bson:"wins"`
	Losses           int       `json:"losses" bson:"losses"`
	Draws            int       `json:"draws" bson:"draws"`
	Percent          float64   `json:"percent" bson:"percent"`
}

type MatchRecord struct {
	ID           string    `json:"id" bson:"_id"`
	Seq          int64     `json:"seq" bson:"seq"`
	Result       [][]int64 `json:"result" bson:"result"`
	Draw         bool      `json:"draw" bson:"draw"`
	Date         time.Time `json:"date" bson:"date"`
	WinnerRating *float64  `json:"winner_rating,omitempty" bson:"winner_rating,omitempty"`
	LoserRating  *float64  `json:"loser_rating,omitempty" bson:"loser_rating,omitempty"`
	Probability  *float64  `json:"probability,omitempty" bson:"probability,omitempty"`
}

// League is the export document.
type League struct {
	Version int            `json:"version"`
	Title   string         `json:"league_title"`
	Players []PlayerRecord `json:"players"`
	Matches []MatchRecord  `json:"matches"`
}

func FromPlayer(p domain.Player) PlayerRecord {
	return PlayerRecord{
		ID:               int64(p.ID),
		Name:             p.Name,
		Active:           p.Active,
		RegisteredAt:     p.RegisteredAt,
		InitialRating:    p.InitialRating,
		Rating:           p.Rating,
		NormalisedRating: p.NormalisedRating,
		Deviation:        p.Deviation,
		Volatility:       p.Volatility,
		MatchCount:       p.MatchCount,
		Wins:             p.Wins,
		Losses:           p.Losses,
		Draws:            p.Draws,
		Percent:          p.Percent,
	}
}

func (r PlayerRecord) Player() domain.Player {
	return domain.Player{
		ID:               domain.PlayerID(r.ID),
		Name:             r.Name,
		Active:           r.Active,
		RegisteredAt:     r.RegisteredAt,
		InitialRating:    r.InitialRating,
		Rating:           r.Rating,
		NormalisedRating: r.NormalisedRating,
		Deviation:        r.Deviation,
		Volatility:       r.Volatility,
		MatchCount:       r.MatchCount,
		Wins:             r.Wins,
		Losses:           r.Losses,
		Draws:            r.Draws,
		Percent:          r.Percent,
	}
}

func FromMatch(m domain.Match) MatchRecord {
	result := make([][]int64, 0, len(m.Result))
	for _, e := range m.Result {
		ids := make([]int64, 0, len(e))
		for _, id := range e {
			ids = append(ids, int64(id))
		}
		result = append(result, ids)
	}
	return MatchRecord{
		ID:           m.ID.String(),
		Seq:          m.Seq,
		Result:       result,
		Draw:         m.Draw,
		Date:         m.Date,
		WinnerRating: m.WinnerRating,
		LoserRating:  m.LoserRating,
		Probability:  m.Probability,
	}
}

func (r MatchRecord) Match() (domain.Match, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return domain.Match{}, fmt.Errorf("match id %q: %w", r.ID, err)
	}
	result := make([]domain.Entry, 0, len(r.Result))
	for _, e := range r.Result {
		entry := make(domain.Entry, 0, len(e))
		for _, pid := range e {
			entry = append(entry, domain.PlayerID(pid))
		}
		result = append(result, entry)
	}
	return domain.Match{
		ID:           id,
		Seq:          r.Seq,
		Result:       result,
		Draw:         r.Draw,
		Date:         r.Date,
		WinnerRating: r.WinnerRating,
		LoserRating:  r.LoserRating,
		Probability:  r.Probability,
	}, nil
}
