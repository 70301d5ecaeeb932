package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/goserg/leaguerank/internal/domain"
	"github.com/goserg/leaguerank/internal/events"
	"github.com/goserg/leaguerank/internal/schema"
)

// Export writes the league in the canonical record shape.
func (s *LeagueService) Export() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := s.st.players.All()
	matches := s.st.matches.List()
	exportData := schema.League{
		Version: schema.Version,
		Title:   s.title,
		Players: make([]schema.PlayerRecord, 0, len(players)),
		Matches: make([]schema.MatchRecord, 0, len(matches)),
	}
	for _, p := range players {
		exportData.Players = append(exportData.Players, schema.FromPlayer(p))
	}
	for _, m := range matches {
		exportData.Matches = append(exportData.Matches, schema.FromMatch(m))
	}
	return json.Marshal(exportData)
}

// Import replaces the whole league with an export document of any known
// version and replays it.
func (s *LeagueService) Import(ctx context.Context, data []byte) error {
	league, err := schema.DecodeLeague(data)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidMatch, err)
	}

	s.mu.Lock()
	e, err := s.importLeague(ctx, league)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.publish(ctx, e)
	return nil
}

func (s *LeagueService) importLeague(ctx context.Context, league schema.League) (*events.MatchEvent, error) {
	next := s.emptyState()
	now := time.Now()
	for _, r := range league.Players {
		p := r.Player()
		if p.RegisteredAt.IsZero() {
			p.RegisteredAt = now
		}
		if err := next.players.Add(p); err != nil {
			return nil, fmt.Errorf("import player %d: %w", r.ID, err)
		}
	}
	for _, r := range league.Matches {
		m, err := r.Match()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidMatch, err)
		}
		if err := s.validate(next, m.Result); err != nil {
			return nil, fmt.Errorf("import match %s: %w", m.ID, err)
		}
		next.matches.Append(m)
	}
	if err := s.replay(next); err != nil {
		return nil, err
	}

	// Ids handed out before the import stay retired.
	next.players.ReserveIDs(s.st.players.NextID())
	change := everything(next)
	change.Reset = true
	if err := s.commit(ctx, "import league", next, change); err != nil {
		return nil, err
	}

	s.st = next
	if league.Title != "" {
		s.title = league.Title
	}
	s.log.WithFields(logrus.Fields{
		"players": next.players.Len(),
		"matches": next.matches.Len(),
	}).Info("league imported")
	e := events.NewMatchEvent(events.Recalculated, nil, nil)
	return &e, nil
}
