package registry

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goserg/leaguerank/internal/domain"
	"github.com/goserg/leaguerank/internal/normalize"
)

type SortKey string

const (
	SortByRating           SortKey = "rating"
	SortByNormalisedRating SortKey = "nrating"
)

type TieBreak string

const (
	TieBreakInsertion TieBreak = "insertion"
	TieBreakName      TieBreak = "name"
)

type Config struct {
	Defaults domain.Defaults
	SortBy   SortKey
	TieBreak TieBreak
}

// Registry owns player identity, ratings and statistics.
// It is not safe for concurrent use; the ranking service serializes access.
type Registry struct {
	cfg     Config
	players map[domain.PlayerID]*domain.Player
	order   []domain.PlayerID
	nextID  domain.PlayerID
	now     func() time.Time
}

func New(cfg Config) *Registry {
	return &Registry{
		cfg:     cfg,
		players: make(map[domain.PlayerID]*domain.Player),
		nextID:  1,
		now:     time.Now,
	}
}

// Register adds a player starting at the configured default rating.
func (r *Registry) Register(name string) (domain.Player, error) {
	return r.RegisterRated(name, r.cfg.Defaults.Rating)
}

// RegisterRated adds a player starting at rating. Resets return the player to this rating.
func (r *Registry) RegisterRated(name string, rating float64) (domain.Player, error) {
	name = strings.TrimSpace(name)
	if err := r.checkName(0, name); err != nil {
		return domain.Player{}, err
	}
	p := &domain.Player{
		ID:            r.nextID,
		Name:          name,
		Active:        true,
		RegisteredAt:  r.now(),
		InitialRating: rating,
	}
	r.nextID++
	p.Reset(r.cfg.Defaults)
	r.players[p.ID] = p
	r.order = append(r.order, p.ID)
	return *p, nil
}

// Add restores a previously registered player, keeping its id.
func (r *Registry) Add(p domain.Player) error {
	if _, ok := r.players[p.ID]; ok {
		return fmt.Errorf("player %d: %w", p.ID, domain.ErrDuplicateID)
	}
	if err := r.checkName(p.ID, p.Name); err != nil {
		return err
	}
	stored := p
	if stored.InitialRating == 0 {
		stored.InitialRating = r.cfg.Defaults.Rating
	}
	r.players[p.ID] = &stored
	r.order = append(r.order, p.ID)
	if p.ID >= r.nextID {
		r.nextID = p.ID + 1
	}
	return nil
}

func (r *Registry) checkName(self domain.PlayerID, name string) error {
	if normalize.Blank(name) {
		return fmt.Errorf("%w: name is empty", domain.ErrInvalidName)
	}
	for _, p := range r.players {
		if p.ID != self && p.Name == name {
			return fmt.Errorf("%q: %w", name, domain.ErrDuplicateName)
		}
	}
	return nil
}

func (r *Registry) Get(id domain.PlayerID) (domain.Player, error) {
	p, ok := r.players[id]
	if !ok {
		return domain.Player{}, fmt.Errorf("player %d: %w", id, domain.ErrNotFound)
	}
	return *p, nil
}

// Lookup returns the stored player for in-place updates by the rating engine.
func (r *Registry) Lookup(id domain.PlayerID) (*domain.Player, bool) {
	p, ok := r.players[id]
	return p, ok
}

// FindByName matches names case-insensitively.
func (r *Registry) FindByName(name string) (domain.Player, error) {
	name = normalize.Name(name)
	for _, id := range r.order {
		if normalize.Name(r.players[id].Name) == name {
			return *r.players[id], nil
		}
	}
	return domain.Player{}, fmt.Errorf("player %q: %w", name, domain.ErrNotFound)
}

func (r *Registry) Rename(id domain.PlayerID, name string) error {
	p, ok := r.players[id]
	if !ok {
		return fmt.Errorf("player %d: %w", id, domain.ErrNotFound)
	}
	name = strings.TrimSpace(name)
	if err := r.checkName(id, name); err != nil {
		return err
	}
	p.Name = name
	return nil
}

func (r *Registry) SetActive(id domain.PlayerID, active bool) error {
	p, ok := r.players[id]
	if !ok {
		return fmt.Errorf("player %d: %w", id, domain.ErrNotFound)
	}
	p.Active = active
	return nil
}

// Reset restores the player's rating state and zeroes its counters.
func (r *Registry) Reset(id domain.PlayerID) error {
	p, ok := r.players[id]
	if !ok {
		return fmt.Errorf("player %d: %w", id, domain.ErrNotFound)
	}
	p.Reset(r.cfg.Defaults)
	return nil
}

func (r *Registry) ResetAll() {
	for _, p := range r.players {
		p.Reset(r.cfg.Defaults)
	}
}

// Remove physically deletes the player. The id is not handed out again.
func (r *Registry) Remove(id domain.PlayerID) error {
	if _, ok := r.players[id]; !ok {
		return fmt.Errorf("player %d: %w", id, domain.ErrNotFound)
	}
	delete(r.players, id)
	for i := range r.order {
		if r.order[i] == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *Registry) Len() int {
	return len(r.order)
}

// All returns copies of every player in insertion order.
func (r *Registry) All() []domain.Player {
	players := make([]domain.Player, 0, len(r.order))
	for _, id := range r.order {
		players = append(players, *r.players[id])
	}
	return players
}

func (r *Registry) list(includeInactive bool) []domain.Player {
	players := make([]domain.Player, 0, len(r.order))
	for _, id := range r.order {
		p := r.players[id]
		if !includeInactive && !p.Active {
			continue
		}
		players = append(players, *p)
	}
	return players
}

// ListRankOrder sorts players who have played above those who have not,
// then by the configured rating key, highest first.
func (r *Registry) ListRankOrder(includeInactive bool) []domain.Player {
	players := r.list(includeInactive)
	key := r.ratingKey()
	sort.SliceStable(players, func(i, j int) bool {
		pi, pj := players[i].PlayedMatch(), players[j].PlayedMatch()
		if pi != pj {
			return pi
		}
		ki, kj := key(players[i]), key(players[j])
		if ki != kj {
			return ki > kj
		}
		if r.cfg.TieBreak == TieBreakName {
			return normalize.Name(players[i].Name) < normalize.Name(players[j].Name)
		}
		return false
	})
	return players
}

func (r *Registry) ratingKey() func(domain.Player) float64 {
	if r.cfg.SortBy == SortByNormalisedRating {
		return func(p domain.Player) float64 { return p.NormalisedRating }
	}
	return func(p domain.Player) float64 { return p.Rating }
}

// ListNameOrder sorts players by case-insensitive name.
func (r *Registry) ListNameOrder(includeInactive bool) []domain.Player {
	players := r.list(includeInactive)
	sort.SliceStable(players, func(i, j int) bool {
		return normalize.Name(players[i].Name) < normalize.Name(players[j].Name)
	})
	return players
}

func (r *Registry) Clone() *Registry {
	c := &Registry{
		cfg:     r.cfg,
		players: make(map[domain.PlayerID]*domain.Player, len(r.players)),
		order:   append([]domain.PlayerID(nil), r.order...),
		nextID:  r.nextID,
		now:     r.now,
	}
	for id, p := range r.players {
		cp := *p
		c.players[id] = &cp
	}
	return c
}

// NextID is the id the next registration will receive.
func (r *Registry) NextID() domain.PlayerID {
	return r.nextID
}

// ReserveIDs makes sure ids below next are never handed out.
func (r *Registry) ReserveIDs(next domain.PlayerID) {
	if next > r.nextID {
		r.nextID = next
	}
}
