package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/goserg/leaguerank/internal/domain"
	"github.com/goserg/leaguerank/internal/events"
	"github.com/goserg/leaguerank/internal/storage"
)

// RegisterPlayer adds a player. A zero initialRating means the league default.
func (s *LeagueService) RegisterPlayer(ctx context.Context, name string, initialRating float64) (domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.st.clone()
	var (
		p   domain.Player
		err error
	)
	if initialRating == 0 {
		p, err = next.players.Register(name)
	} else {
		p, err = next.players.RegisterRated(name, initialRating)
	}
	if err != nil {
		return domain.Player{}, err
	}
	if err := s.commit(ctx, "save player", next, storage.Change{Players: []domain.Player{p}}); err != nil {
		return domain.Player{}, err
	}
	s.st = next
	s.log.WithFields(logrus.Fields{"player": p.ID, "name": p.Name}).Info("player registered")
	return p, nil
}

// PlayerUpdate lists the fields to change. Nil fields are kept.
type PlayerUpdate struct {
	Name   *string
	Active *bool
}

func (s *LeagueService) Rename(ctx context.Context, id domain.PlayerID, name string) error {
	_, err := s.UpdatePlayer(ctx, id, PlayerUpdate{Name: &name})
	return err
}

func (s *LeagueService) SetActive(ctx context.Context, id domain.PlayerID, active bool) error {
	_, err := s.UpdatePlayer(ctx, id, PlayerUpdate{Active: &active})
	return err
}

// UpdatePlayer applies every field of u in one commit: either all of them
// take effect or none does.
func (s *LeagueService) UpdatePlayer(ctx context.Context, id domain.PlayerID, u PlayerUpdate) (domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.st.clone()
	if u.Name != nil {
		if err := next.players.Rename(id, *u.Name); err != nil {
			return domain.Player{}, err
		}
	}
	if u.Active != nil {
		if err := next.players.SetActive(id, *u.Active); err != nil {
			return domain.Player{}, err
		}
	}
	p, err := next.players.Get(id)
	if err != nil {
		return domain.Player{}, err
	}
	if err := s.commit(ctx, "save player", next, storage.Change{Players: []domain.Player{p}}); err != nil {
		return domain.Player{}, err
	}
	s.st = next
	s.log.WithFields(logrus.Fields{
		"player": p.ID,
		"name":   p.Name,
		"active": p.Active,
	}).Info("player updated")
	return p, nil
}

// DeletePlayer applies the configured deletion policy: deactivation keeps the
// player and its history, cascade removes the player with every match it
// played and replays the rest.
func (s *LeagueService) DeletePlayer(ctx context.Context, id domain.PlayerID) error {
	if s.cfg.DeletionPolicy != DeleteCascade {
		return s.SetActive(ctx, id, false)
	}

	s.mu.Lock()
	e, err := s.deletePlayer(ctx, id)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.publish(ctx, e)
	return nil
}

func (s *LeagueService) deletePlayer(ctx context.Context, id domain.PlayerID) (*events.MatchEvent, error) {
	next := s.st.clone()
	if err := next.players.Remove(id); err != nil {
		return nil, err
	}
	removed := next.matches.RemoveByPlayer(id)
	if err := s.replay(next); err != nil {
		return nil, err
	}

	change := everything(next)
	change.DeletePlayers = []domain.PlayerID{id}
	for _, m := range removed {
		change.DeleteMatches = append(change.DeleteMatches, m.ID)
	}
	if err := s.commit(ctx, "delete player", next, change); err != nil {
		return nil, err
	}

	s.st = next
	s.log.WithFields(logrus.Fields{
		"player":  id,
		"matches": len(removed),
	}).Info("player deleted")
	if len(removed) == 0 {
		return nil, nil
	}
	e := events.NewMatchEvent(events.Recalculated, nil, nil)
	return &e, nil
}
