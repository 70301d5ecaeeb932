package tgbot

import (
	"context"
	"errors"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/goserg/leaguerank/bot/model"
	"github.com/goserg/leaguerank/internal/service"
)

type NewPlayerCommand struct {
	league *service.LeagueService
}

func (c *NewPlayerCommand) Run(ctx context.Context, _ model.User, args string) (string, error) {
	name := strings.TrimSpace(args)
	if name == "" {
		return "", errors.New(`укажите имя игрока. Например "/new_player джон"`)
	}
	player, err := c.league.RegisterPlayer(ctx, name, 0)
	if err != nil {
		return "", err
	}
	return "игрок " + player.Name + " добавлен", nil
}

func (c *NewPlayerCommand) Help() string {
	return `Добавить игрока. Использование: /new_player <имя>`
}

func (c *NewPlayerCommand) Permission() mapset.Set[model.UserRole] {
	return adminsOnly()
}

func (c *NewPlayerCommand) Visibility() mapset.Set[model.UserRole] {
	return adminsOnly()
}
