package tgbot

import (
	"context"
	"errors"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/goserg/leaguerank/bot/botstorage"
	"github.com/goserg/leaguerank/bot/model"
)

type UnsubCommand struct {
	botStorage botstorage.BotStorage
	unsub      func(int64)
}

func (c *UnsubCommand) Run(_ context.Context, user model.User, _ string) (string, error) {
	if !user.Subscribed(model.NewMatch) {
		return "", errors.New("подписки нет")
	}
	subs := user.Subscriptions[:0:0]
	for _, s := range user.Subscriptions {
		if s != model.NewMatch {
			subs = append(subs, s)
		}
	}
	user.Subscriptions = subs
	if err := c.botStorage.SaveUser(user); err != nil {
		return "", err
	}
	c.unsub(user.ID)
	return "Вы отписаны от уведомлений", nil
}

func (c *UnsubCommand) Help() string {
	return `Отписаться от уведомлений`
}

func (c *UnsubCommand) Permission() mapset.Set[model.UserRole] {
	return everyone()
}

func (c *UnsubCommand) Visibility() mapset.Set[model.UserRole] {
	return everyone()
}
