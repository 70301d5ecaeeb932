package botstorage

import (
	"errors"

	"github.com/goserg/leaguerank/bot/model"
)

var ErrUserNotFound = errors.New("bot user not found")

type BotStorage interface {
	GetUser(id int64) (model.User, error)
	SaveUser(user model.User) error
	ListUsers() ([]model.User, error)
}
