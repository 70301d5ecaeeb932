package web

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goserg/leaguerank/internal/domain"
)

// ErrBadRequest marks errors caused by a malformed request body or parameter.
var ErrBadRequest = errors.New("bad request")

var (
	ErrMissingName    = fmt.Errorf("%w: player name is required", ErrBadRequest)
	ErrNegativeRating = fmt.Errorf("%w: rating must not be negative", ErrBadRequest)
	ErrNothingToPatch = fmt.Errorf("%w: nothing to update", ErrBadRequest)
	ErrFewEntries     = fmt.Errorf("%w: a match needs at least two entries", ErrBadRequest)
	ErrEmptyEntry     = fmt.Errorf("%w: every entry needs a player", ErrBadRequest)
	ErrBadPlayerID    = fmt.Errorf("%w: player ids start at 1", ErrBadRequest)
)

type createPlayer struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
}

func (c createPlayer) Validate() error {
	var err error
	if strings.TrimSpace(c.Name) == "" {
		err = errors.Join(err, ErrMissingName)
	}
	if c.Rating < 0 {
		err = errors.Join(err, ErrNegativeRating)
	}
	return err
}

type updatePlayer struct {
	Name   *string `json:"name"`
	Active *bool   `json:"active"`
}

func (u updatePlayer) Validate() error {
	if u.Name == nil && u.Active == nil {
		return ErrNothingToPatch
	}
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return ErrMissingName
	}
	return nil
}

// createMatch lists entries best first; an entry with several ids is a team.
type createMatch struct {
	Result [][]int64  `json:"result"`
	Draw   bool       `json:"draw"`
	Date   *time.Time `json:"date"`
}

func (c createMatch) Validate() error {
	var err error
	if len(c.Result) < 2 {
		err = errors.Join(err, ErrFewEntries)
	}
	for _, entry := range c.Result {
		if len(entry) == 0 {
			err = errors.Join(err, ErrEmptyEntry)
			break
		}
	}
	for _, entry := range c.Result {
		for _, id := range entry {
			if id < 1 {
				return errors.Join(err, ErrBadPlayerID)
			}
		}
	}
	return err
}

func (c createMatch) convertToDomainResult() []domain.Entry {
	result := make([]domain.Entry, 0, len(c.Result))
	for _, ids := range c.Result {
		entry := make(domain.Entry, 0, len(ids))
		for _, id := range ids {
			entry = append(entry, domain.PlayerID(id))
		}
		result = append(result, entry)
	}
	return result
}

func (c createMatch) date() time.Time {
	if c.Date == nil {
		return time.Time{}
	}
	return *c.Date
}
