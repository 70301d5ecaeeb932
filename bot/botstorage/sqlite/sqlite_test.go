package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goserg/leaguerank/bot/botstorage"
	"github.com/goserg/leaguerank/bot/model"
	"github.com/goserg/leaguerank/internal/config"
)

func TestUsersSurviveReopen(t *testing.T) {
	cfg := config.TgBot{SQLiteFile: filepath.Join(t.TempDir(), "bot.sqlite")}
	s, err := New(logrus.New(), cfg)
	require.NoError(t, err)

	_, err = s.GetUser(10)
	assert.ErrorIs(t, err, botstorage.ErrUserNotFound)

	now := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveUser(model.User{
		ID: 10, FirstName: "Ann", Username: "ann", Role: model.RoleAdmin,
		CreatedAt: now, UpdatedAt: now,
		Subscriptions: []model.EventType{model.NewMatch},
	}))
	require.NoError(t, s.SaveUser(model.User{ID: 7, FirstName: "Bo", Role: model.RoleUser, CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, s.Close())

	s, err = New(logrus.New(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})

	ann, err := s.GetUser(10)
	require.NoError(t, err)
	assert.Equal(t, "ann", ann.Username)
	assert.Equal(t, model.RoleAdmin, ann.Role)
	assert.True(t, ann.Subscribed(model.NewMatch))
	assert.True(t, now.Equal(ann.CreatedAt))

	users, err := s.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int64(7), users[0].ID)
	assert.False(t, users[0].Subscribed(model.NewMatch))
	assert.True(t, users[1].Subscribed(model.NewMatch))

	ann.Subscriptions = nil
	ann.Role = model.RoleUser
	require.NoError(t, s.SaveUser(ann))
	ann, err = s.GetUser(10)
	require.NoError(t, err)
	assert.False(t, ann.Subscribed(model.NewMatch))
	assert.Equal(t, model.RoleUser, ann.Role)
}
