package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one finishing position of a match: a lone player or a team.
type Entry []PlayerID

func (e Entry) IsTeam() bool {
	return len(e) > 1
}

type Match struct {
	ID uuid.UUID
	// Seq is the ledger insertion sequence.
	Seq    int64
	Result []Entry
	Draw   bool
	Date   time.Time

	// Ratings of the first two entries before the match and the
	// probability of the first beating the second. Refreshed on replay.
	WinnerRating *float64
	LoserRating  *float64
	Probability  *float64
}

func (m Match) IsTeamMatch() bool {
	for _, e := range m.Result {
		if e.IsTeam() {
			return true
		}
	}
	return false
}

func (m Match) Participants() []PlayerID {
	var ids []PlayerID
	for _, e := range m.Result {
		ids = append(ids, e...)
	}
	return ids
}

func (m Match) Involves(id PlayerID) bool {
	for _, e := range m.Result {
		for _, pid := range e {
			if pid == id {
				return true
			}
		}
	}
	return false
}

// Position returns the 1-based finishing position of the player, or 0.
func (m Match) Position(id PlayerID) int {
	for i, e := range m.Result {
		for _, pid := range e {
			if pid == id {
				return i + 1
			}
		}
	}
	return 0
}

// Clone copies the result slices so the copy can be mutated independently.
func (m Match) Clone() Match {
	c := m
	c.Result = make([]Entry, len(m.Result))
	for i := range m.Result {
		c.Result[i] = append(Entry(nil), m.Result[i]...)
	}
	c.WinnerRating = cloneFloat(m.WinnerRating)
	c.LoserRating = cloneFloat(m.LoserRating)
	c.Probability = cloneFloat(m.Probability)
	return c
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

// MatchSummary is a match with participant names resolved for display.
type MatchSummary struct {
	Match
	Names [][]string
}

// HeadToHead is a tally of wins between every ordered pair of Players.
// Wins[i][j] counts wins of Players[i] over Players[j]; draws add 0.5 to both.
// The diagonal is nil.
type HeadToHead struct {
	Players []Player
	Wins    [][]*float64
}
