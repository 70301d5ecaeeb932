package tgbot

import (
	"context"
	"errors"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/goserg/leaguerank/bot/botstorage"
	"github.com/goserg/leaguerank/bot/model"
)

type SubCommand struct {
	botStorage botstorage.BotStorage
	sub        func(int64)
}

func (c *SubCommand) Run(_ context.Context, user model.User, _ string) (string, error) {
	if user.Subscribed(model.NewMatch) {
		return "", errors.New("вы уже подписаны")
	}
	user.Subscriptions = append(user.Subscriptions, model.NewMatch)
	if err := c.botStorage.SaveUser(user); err != nil {
		return "", err
	}
	c.sub(user.ID)
	return "Подписка оформленна, чтобы отписаться от уведомлений: /unsub", nil
}

func (c *SubCommand) Help() string {
	return `Подписаться на уведомления`
}

func (c *SubCommand) Permission() mapset.Set[model.UserRole] {
	return everyone()
}

func (c *SubCommand) Visibility() mapset.Set[model.UserRole] {
	return everyone()
}
