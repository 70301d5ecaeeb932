package web

import (
	"errors"

	"github.com/goserg/leaguerank/internal/domain"
	"github.com/goserg/leaguerank/internal/schema"
)

type data struct {
	Title  string         `json:"title"`
	Errors []string       `json:"errors,omitempty"`
	Data   map[string]any `json:"data,omitempty"`
}

func newData(title string) data {
	return data{
		Title: title,
		Data:  make(map[string]any),
	}
}

func (m data) With(key string, value any) data {
	if m.Data == nil {
		m.Data = make(map[string]any)
	}
	m.Data[key] = value
	return m
}

type multierr interface {
	Unwrap() []error
}

func unwrap(err error) []error {
	var merr multierr
	if errors.As(err, &merr) {
		var errs []error
		for _, err := range merr.Unwrap() {
			errs = append(errs, unwrap(err)...)
		}
		return errs
	}
	return []error{err}
}

func (m data) WithErrors(err error) data {
	for _, err := range unwrap(err) {
		m.Errors = append(m.Errors, err.Error())
	}
	return m
}

type matchView struct {
	schema.MatchRecord
	Names [][]string `json:"names"`
}

type gameStats struct {
	Opponent schema.PlayerRecord `json:"opponent"`
	Wins     int                 `json:"wins"`
	Losses   int                 `json:"losses"`
	Draws    int                 `json:"draws"`
}

type headToHead struct {
	Players []schema.PlayerRecord `json:"players"`
	Wins    [][]*float64          `json:"wins"`
}

func playerViews(players []domain.Player) []schema.PlayerRecord {
	res := make([]schema.PlayerRecord, 0, len(players))
	for _, p := range players {
		res = append(res, schema.FromPlayer(p))
	}
	return res
}

func matchViews(matches []domain.MatchSummary) []matchView {
	res := make([]matchView, 0, len(matches))
	for _, m := range matches {
		res = append(res, matchViewOf(m))
	}
	return res
}

func matchViewOf(m domain.MatchSummary) matchView {
	return matchView{MatchRecord: schema.FromMatch(m.Match), Names: m.Names}
}

func gameViews(stats []domain.PlayerStats) []gameStats {
	res := make([]gameStats, 0, len(stats))
	for _, s := range stats {
		res = append(res, gameStats{
			Opponent: schema.FromPlayer(s.Player),
			Wins:     s.Wins,
			Losses:   s.Loses,
			Draws:    s.Draws,
		})
	}
	return res
}
