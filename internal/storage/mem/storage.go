package mem

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/goserg/leaguerank/internal/domain"
	"github.com/goserg/leaguerank/internal/storage"
)

// Storage keeps the league in process memory.
type Storage struct {
	mu   sync.RWMutex
	data snapshot
}

type snapshot struct {
	players map[domain.PlayerID]domain.Player
	matches map[uuid.UUID]domain.Match
	nextID  domain.PlayerID
}

func (sn snapshot) clone() snapshot {
	c := snapshot{
		players: make(map[domain.PlayerID]domain.Player, len(sn.players)),
		matches: make(map[uuid.UUID]domain.Match, len(sn.matches)),
		nextID:  sn.nextID,
	}
	for id, p := range sn.players {
		c.players[id] = p
	}
	for id, m := range sn.matches {
		c.matches[id] = m.Clone()
	}
	return c
}

var _ storage.Storage = (*Storage)(nil)

func New() *Storage {
	return &Storage{data: snapshot{
		players: make(map[domain.PlayerID]domain.Player),
		matches: make(map[uuid.UUID]domain.Match),
	}}
}

func (s *Storage) LoadPlayers(_ context.Context) ([]domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := make([]domain.Player, 0, len(s.data.players))
	for _, p := range s.data.players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		return players[i].ID < players[j].ID
	})
	return players, nil
}

func (s *Storage) LoadMatches(_ context.Context) ([]domain.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]domain.Match, 0, len(s.data.matches))
	for _, m := range s.data.matches {
		matches = append(matches, m.Clone())
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Seq < matches[j].Seq
	})
	return matches, nil
}

func (s *Storage) LoadNextPlayerID(_ context.Context) (domain.PlayerID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.nextID, nil
}

func (s *Storage) Commit(ctx context.Context, c storage.Change) error {
	tx := s.Begin()
	if err := storage.Apply(ctx, tx, c); err != nil {
		return err
	}
	tx.Commit()
	return nil
}

// Begin starts a transaction on a private copy of the data. Nothing is visible
// to readers until Commit. Transactions are not serialized against each other:
// the last Commit wins.
func (s *Storage) Begin() *Tx {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Tx{parent: s, data: s.data.clone()}
}

func (s *Storage) Close() error {
	return nil
}

type Tx struct {
	parent *Storage
	data   snapshot
}

var _ storage.Writer = (*Tx)(nil)

func (tx *Tx) Commit() {
	tx.parent.mu.Lock()
	defer tx.parent.mu.Unlock()
	tx.parent.data = tx.data
}

func (tx *Tx) DeleteAll(_ context.Context) error {
	tx.data.players = make(map[domain.PlayerID]domain.Player)
	tx.data.matches = make(map[uuid.UUID]domain.Match)
	return nil
}

func (tx *Tx) DeleteMatch(_ context.Context, id uuid.UUID) error {
	delete(tx.data.matches, id)
	return nil
}

func (tx *Tx) DeletePlayer(_ context.Context, id domain.PlayerID) error {
	delete(tx.data.players, id)
	return nil
}

func (tx *Tx) SavePlayers(_ context.Context, players []domain.Player) error {
	for _, p := range players {
		tx.data.players[p.ID] = p
	}
	return nil
}

func (tx *Tx) SaveMatches(_ context.Context, matches []domain.Match) error {
	for _, m := range matches {
		tx.data.matches[m.ID] = m.Clone()
	}
	return nil
}

func (tx *Tx) SetNextPlayerID(_ context.Context, id domain.PlayerID) error {
	tx.data.nextID = id
	return nil
}
