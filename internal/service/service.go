package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/goserg/leaguerank/internal/domain"
	"github.com/goserg/leaguerank/internal/events"
	"github.com/goserg/leaguerank/internal/ledger"
	"github.com/goserg/leaguerank/internal/rating"
	"github.com/goserg/leaguerank/internal/registry"
	"github.com/goserg/leaguerank/internal/storage"
)

type DeletionPolicy string

const (
	DeleteDeactivate DeletionPolicy = "deactivate"
	DeleteCascade    DeletionPolicy = "cascade"
)

type Config struct {
	Title          string
	Registry       registry.Config
	ReplayOrder    ledger.Order
	TeamScoring    bool
	DeletionPolicy DeletionPolicy
}

// state is everything derived from the ledger. Mutations work on a clone
// that replaces the current state only after storage accepted the change.
type state struct {
	players *registry.Registry
	matches *ledger.Ledger
}

func (st *state) clone() *state {
	return &state{
		players: st.players.Clone(),
		matches: st.matches.Clone(),
	}
}

// LeagueService is the ranking manager. Writers are serialized; readers see
// the last committed state.
type LeagueService struct {
	mu       sync.RWMutex
	st       *state
	title    string
	cfg      Config
	storage  storage.Storage
	strategy rating.Strategy
	events   events.Multi
	log      *logrus.Entry
}

func New(
	store storage.Storage,
	strategy rating.Strategy,
	cfg Config,
	log *logrus.Logger,
	publishers ...events.Publisher,
) *LeagueService {
	if cfg.DeletionPolicy == "" {
		cfg.DeletionPolicy = DeleteDeactivate
	}
	s := &LeagueService{
		title:    cfg.Title,
		cfg:      cfg,
		storage:  store,
		strategy: strategy,
		events:   publishers,
		log:      log.WithField("from", "league"),
	}
	s.st = s.emptyState()
	return s
}

func (s *LeagueService) emptyState() *state {
	return &state{
		players: registry.New(s.cfg.Registry),
		matches: ledger.New(s.cfg.ReplayOrder),
	}
}

// Subscribe adds a publisher for committed changes. Not safe to call
// concurrently with mutations.
func (s *LeagueService) Subscribe(p events.Publisher) {
	s.events = append(s.events, p)
}

func (s *LeagueService) Title() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.title
}

// Load reads the league from storage, replays every match and writes the
// recomputed ratings back.
func (s *LeagueService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reserved, err := s.storage.LoadNextPlayerID(ctx)
	if err != nil {
		return &domain.StorageError{Op: "load next player id", Err: err}
	}
	players, err := s.storage.LoadPlayers(ctx)
	if err != nil {
		return &domain.StorageError{Op: "load players", Err: err}
	}
	matches, err := s.storage.LoadMatches(ctx)
	if err != nil {
		return &domain.StorageError{Op: "load matches", Err: err}
	}

	next := s.emptyState()
	for _, p := range players {
		if err := next.players.Add(p); err != nil {
			return fmt.Errorf("load player %d: %w", p.ID, err)
		}
	}
	next.players.ReserveIDs(reserved)
	for _, m := range matches {
		if err := s.validate(next, m.Result); err != nil {
			return fmt.Errorf("load match %s: %w", m.ID, err)
		}
		next.matches.Append(m)
	}
	if err := s.replay(next); err != nil {
		return err
	}
	if err := s.commit(ctx, "save league", next, everything(next)); err != nil {
		return err
	}
	s.st = next
	s.log.WithFields(logrus.Fields{
		"players": next.players.Len(),
		"matches": next.matches.Len(),
	}).Info("league loaded")
	return nil
}

// everything is a change that rewrites every player and match of st.
func everything(st *state) storage.Change {
	return storage.Change{
		Players: st.players.All(),
		Matches: st.matches.List(),
	}
}

// commit stores c together with the id counter of next in one storage
// transaction. On error nothing was written.
func (s *LeagueService) commit(ctx context.Context, op string, next *state, c storage.Change) error {
	c.NextPlayerID = next.players.NextID()
	if err := s.storage.Commit(ctx, c); err != nil {
		return s.storageError(op, err)
	}
	return nil
}

func (s *LeagueService) storageError(op string, err error) error {
	s.log.WithError(err).WithField("op", op).Error("storage failed")
	return &domain.StorageError{Op: op, Err: err}
}

func (s *LeagueService) publish(ctx context.Context, e *events.MatchEvent) {
	if e == nil || len(s.events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, *e); err != nil {
		s.log.WithError(err).WithField("kind", e.Kind).Warn("event not delivered")
	}
}
