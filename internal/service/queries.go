package service

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/goserg/leaguerank/internal/domain"
	"github.com/goserg/leaguerank/internal/normalize"
)

func (s *LeagueService) ListRankOrder(includeInactive bool) []domain.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.players.ListRankOrder(includeInactive)
}

func (s *LeagueService) ListNameOrder(includeInactive bool) []domain.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.players.ListNameOrder(includeInactive)
}

func (s *LeagueService) Get(id domain.PlayerID) (domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.players.Get(id)
}

func (s *LeagueService) GetByName(name string) (domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.players.FindByName(name)
}

func (s *LeagueService) GetMatch(id uuid.UUID) (domain.MatchSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, err := s.st.matches.Get(id)
	if err != nil {
		return domain.MatchSummary{}, err
	}
	return summarize(s.st, m), nil
}

// GetMatches lists matches newest first.
func (s *LeagueService) GetMatches() []domain.MatchSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matchesWhere(func(domain.Match) bool { return true })
}

// GetPlayerMatches lists the player's matches newest first.
func (s *LeagueService) GetPlayerMatches(id domain.PlayerID) ([]domain.MatchSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, err := s.st.players.Get(id); err != nil {
		return nil, err
	}
	return s.matchesWhere(func(m domain.Match) bool { return m.Involves(id) }), nil
}

func (s *LeagueService) matchesWhere(keep func(domain.Match) bool) []domain.MatchSummary {
	matches := s.st.matches.Replay()
	res := make([]domain.MatchSummary, 0, len(matches))
	for i := len(matches) - 1; i >= 0; i-- {
		if keep(matches[i]) {
			res = append(res, summarize(s.st, matches[i]))
		}
	}
	return res
}

func summarize(st *state, m domain.Match) domain.MatchSummary {
	names := make([][]string, 0, len(m.Result))
	for _, entry := range m.Result {
		entryNames := make([]string, 0, len(entry))
		for _, id := range entry {
			if p, ok := st.players.Lookup(id); ok {
				entryNames = append(entryNames, p.Name)
			} else {
				entryNames = append(entryNames, fmt.Sprintf("#%d", id))
			}
		}
		names = append(names, entryNames)
	}
	return domain.MatchSummary{Match: m, Names: names}
}

// GetPlayerGames tallies the player's individual results against each opponent.
func (s *LeagueService) GetPlayerGames(id domain.PlayerID) ([]domain.PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, err := s.st.players.Get(id); err != nil {
		return nil, err
	}

	results := make(map[domain.PlayerID]*domain.PlayerStats)
	for _, m := range s.st.matches.List() {
		if m.IsTeamMatch() || !m.Involves(id) {
			continue
		}
		pos := m.Position(id)
		for _, other := range m.Participants() {
			if other == id {
				continue
			}
			r, ok := results[other]
			if !ok {
				p, _ := s.st.players.Lookup(other)
				r = &domain.PlayerStats{Player: *p}
				results[other] = r
			}
			switch {
			case m.Draw:
				r.Draws++
			case pos < m.Position(other):
				r.Wins++
			default:
				r.Loses++
			}
		}
	}

	stats := make([]domain.PlayerStats, 0, len(results))
	for _, r := range results {
		stats = append(stats, *r)
	}
	sort.Slice(stats, func(i, j int) bool {
		return normalize.Name(stats[i].Player.Name) < normalize.Name(stats[j].Player.Name)
	})
	return stats, nil
}

// HeadToHead tallies wins between the given players over individual matches.
// Players without matches are left out. With no ids every active player who
// has played is included, in rank order.
func (s *LeagueService) HeadToHead(ids []domain.PlayerID) (domain.HeadToHead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var players []domain.Player
	if len(ids) == 0 {
		for _, p := range s.st.players.ListRankOrder(false) {
			if p.PlayedMatch() {
				players = append(players, p)
			}
		}
	} else {
		seen := make(map[domain.PlayerID]bool, len(ids))
		for _, id := range ids {
			p, err := s.st.players.Get(id)
			if err != nil {
				return domain.HeadToHead{}, err
			}
			if p.PlayedMatch() && !seen[id] {
				seen[id] = true
				players = append(players, p)
			}
		}
	}

	index := make(map[domain.PlayerID]int, len(players))
	wins := make([][]*float64, len(players))
	for i, p := range players {
		index[p.ID] = i
		wins[i] = make([]*float64, len(players))
		for j := range players {
			if i != j {
				wins[i][j] = new(float64)
			}
		}
	}

	for _, m := range s.st.matches.List() {
		if m.IsTeamMatch() {
			continue
		}
		for a := 0; a < len(m.Result); a++ {
			i, ok := index[m.Result[a][0]]
			if !ok {
				continue
			}
			for b := a + 1; b < len(m.Result); b++ {
				j, ok := index[m.Result[b][0]]
				if !ok || i == j {
					continue
				}
				if m.Draw {
					*wins[i][j] += 0.5
					*wins[j][i] += 0.5
				} else {
					*wins[i][j]++
				}
			}
		}
	}
	return domain.HeadToHead{Players: players, Wins: wins}, nil
}
