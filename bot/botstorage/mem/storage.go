package mem

import (
	"sort"
	"sync"

	"github.com/goserg/leaguerank/bot/botstorage"
	"github.com/goserg/leaguerank/bot/model"
)

type Storage struct {
	mu    sync.RWMutex
	users map[int64]model.User
}

var _ botstorage.BotStorage = (*Storage)(nil)

func New() *Storage {
	return &Storage{users: make(map[int64]model.User)}
}

func (s *Storage) GetUser(id int64) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, botstorage.ErrUserNotFound
	}
	return u, nil
}

func (s *Storage) SaveUser(user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.Subscriptions = append([]model.EventType(nil), user.Subscriptions...)
	s.users[user.ID] = user
	return nil
}

func (s *Storage) ListUsers() ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}
