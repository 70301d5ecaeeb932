package service

import (
	"context"
	"fmt"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/goserg/leaguerank/internal/domain"
	"github.com/goserg/leaguerank/internal/events"
	"github.com/goserg/leaguerank/internal/rating"
	"github.com/goserg/leaguerank/internal/storage"
)

// validate checks the shape of a result against st without touching it.
func (s *LeagueService) validate(st *state, result []domain.Entry) error {
	if len(result) < 2 {
		return fmt.Errorf("%w: need at least 2 entries, got %d", domain.ErrInvalidMatch, len(result))
	}
	seen := mapset.NewThreadUnsafeSet[domain.PlayerID]()
	for i, entry := range result {
		if len(entry) == 0 {
			return fmt.Errorf("%w: entry %d is empty", domain.ErrInvalidMatch, i+1)
		}
		if entry.IsTeam() && !s.cfg.TeamScoring {
			return fmt.Errorf("%w: team entries are disabled", domain.ErrInvalidMatch)
		}
		for _, id := range entry {
			if !seen.Add(id) {
				return fmt.Errorf("%w: player %d listed twice", domain.ErrInvalidMatch, id)
			}
			if _, ok := st.players.Lookup(id); !ok {
				return fmt.Errorf("player %d: %w", id, domain.ErrUnknownPlayer)
			}
		}
	}
	return nil
}

// apply scores one match against st and refreshes the match audit fields.
func (s *LeagueService) apply(st *state, m *domain.Match) error {
	places := make([][]*domain.Player, 0, len(m.Result))
	for _, entry := range m.Result {
		members := make([]*domain.Player, 0, len(entry))
		for _, id := range entry {
			p, ok := st.players.Lookup(id)
			if !ok {
				return fmt.Errorf("match %s player %d: %w", m.ID, id, domain.ErrUnknownPlayer)
			}
			members = append(members, p)
		}
		places = append(places, members)
	}

	winner, loser := meanRating(places[0]), meanRating(places[1])
	probability := s.strategy.ExpectedScore(places[0], places[1])
	m.WinnerRating, m.LoserRating, m.Probability = &winner, &loser, &probability

	if err := s.strategy.ApplyResult(rating.Result{Places: places, Draw: m.Draw}); err != nil {
		return err
	}

	n := len(places)
	for pos, members := range places {
		for _, p := range members {
			p.MatchCount++
			var percent float64
			switch {
			case m.Draw:
				p.Draws++
				percent = 50
			case pos == 0:
				p.Wins++
				percent = 100
			case pos == n-1:
				p.Losses++
			default:
				percent = float64(n-1-pos) / float64(n-1) * 100
			}
			p.Percent += (percent - p.Percent) / float64(p.MatchCount)
		}
	}
	return nil
}

func meanRating(entry []*domain.Player) float64 {
	var sum float64
	for _, p := range entry {
		sum += p.Rating
	}
	return sum / float64(len(entry))
}

// replay resets every player and applies the surviving matches in replay order.
func (s *LeagueService) replay(st *state) error {
	st.players.ResetAll()
	for _, m := range st.matches.Replay() {
		if err := s.apply(st, &m); err != nil {
			return err
		}
		if err := st.matches.Update(m); err != nil {
			return err
		}
	}
	return nil
}

// SubmitMatch records a result. result[0] finished first; with draw set every
// entry shares the result. A zero date means now.
func (s *LeagueService) SubmitMatch(ctx context.Context, result []domain.Entry, draw bool, date time.Time) (domain.MatchSummary, error) {
	s.mu.Lock()
	summary, e, err := s.submitMatch(ctx, result, draw, date)
	s.mu.Unlock()
	if err != nil {
		return domain.MatchSummary{}, err
	}
	s.publish(ctx, e)
	return summary, nil
}

func (s *LeagueService) submitMatch(ctx context.Context, result []domain.Entry, draw bool, date time.Time) (domain.MatchSummary, *events.MatchEvent, error) {
	if err := s.validate(s.st, result); err != nil {
		return domain.MatchSummary{}, nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}

	next := s.st.clone()
	m := domain.Match{Result: result, Draw: draw, Date: date}
	inOrder := next.matches.InOrder(m)
	m = next.matches.Append(m)

	changedPlayers := m.Participants()
	changedMatches := []domain.Match{m}
	if inOrder {
		if err := s.apply(next, &m); err != nil {
			return domain.MatchSummary{}, nil, err
		}
		if err := next.matches.Update(m); err != nil {
			return domain.MatchSummary{}, nil, err
		}
		changedMatches[0] = m
	} else {
		if err := s.replay(next); err != nil {
			return domain.MatchSummary{}, nil, err
		}
		changedPlayers = nil
		changedMatches = next.matches.List()
		var err error
		if m, err = next.matches.Get(m.ID); err != nil {
			return domain.MatchSummary{}, nil, err
		}
	}

	err := s.commit(ctx, "save match", next, storage.Change{
		Players: playersByID(next, changedPlayers),
		Matches: changedMatches,
	})
	if err != nil {
		return domain.MatchSummary{}, nil, err
	}

	prev := s.st
	s.st = next
	summary := summarize(next, m)
	s.log.WithFields(logrus.Fields{
		"match":    m.ID,
		"entries":  len(m.Result),
		"draw":     m.Draw,
		"backdate": !inOrder,
	}).Info("match submitted")
	e := events.NewMatchEvent(events.MatchSubmitted, &summary, ratingChanges(prev, next, m.Participants()))
	return summary, &e, nil
}

// playersByID returns the given players, or all of them when ids is nil.
func playersByID(st *state, ids []domain.PlayerID) []domain.Player {
	if ids == nil {
		return st.players.All()
	}
	players := make([]domain.Player, 0, len(ids))
	for _, id := range ids {
		if p, ok := st.players.Lookup(id); ok {
			players = append(players, *p)
		}
	}
	return players
}

func ratingChanges(prev, next *state, ids []domain.PlayerID) []events.RatingChange {
	changes := make([]events.RatingChange, 0, len(ids))
	for _, id := range ids {
		after, ok := next.players.Lookup(id)
		if !ok {
			continue
		}
		change := events.RatingChange{PlayerID: int64(id), Name: after.Name, After: after.Rating}
		if before, ok := prev.players.Lookup(id); ok {
			change.Before = before.Rating
		}
		changes = append(changes, change)
	}
	return changes
}

// DeleteMatch removes a match and replays the rest of the ledger.
func (s *LeagueService) DeleteMatch(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	e, err := s.deleteMatch(ctx, id)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.publish(ctx, e)
	return nil
}

func (s *LeagueService) deleteMatch(ctx context.Context, id uuid.UUID) (*events.MatchEvent, error) {
	next := s.st.clone()
	deleted, err := next.matches.Delete(id)
	if err != nil {
		return nil, err
	}
	summary := summarize(s.st, deleted)
	if err := s.replay(next); err != nil {
		return nil, err
	}

	change := everything(next)
	change.DeleteMatches = []uuid.UUID{id}
	if err := s.commit(ctx, "delete match", next, change); err != nil {
		return nil, err
	}

	prev := s.st
	s.st = next
	s.log.WithFields(logrus.Fields{
		"match":     id,
		"remaining": next.matches.Len(),
	}).Info("match deleted")
	e := events.NewMatchEvent(events.MatchDeleted, &summary, ratingChanges(prev, next, deleted.Participants()))
	return &e, nil
}

// Recalculate replays the whole ledger and stores the result.
func (s *LeagueService) Recalculate(ctx context.Context) error {
	s.mu.Lock()
	e, err := s.recalculate(ctx)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.publish(ctx, e)
	return nil
}

func (s *LeagueService) recalculate(ctx context.Context) (*events.MatchEvent, error) {
	next := s.st.clone()
	if err := s.replay(next); err != nil {
		return nil, err
	}
	if err := s.commit(ctx, "save league", next, everything(next)); err != nil {
		return nil, err
	}
	s.st = next
	s.log.WithField("matches", next.matches.Len()).Info("rankings recalculated")
	e := events.NewMatchEvent(events.Recalculated, nil, nil)
	return &e, nil
}
