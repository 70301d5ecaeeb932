package tgbot

import (
	"context"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/goserg/leaguerank/bot/model"
)

type HelpCommand struct {
	commands map[string]Command
}

func (c *HelpCommand) Run(_ context.Context, user model.User, args string) (string, error) {
	args = strings.TrimPrefix(strings.TrimSpace(args), "/")
	names := visible(c.commands, user.Role)
	for _, name := range names {
		if args == name {
			return c.commands[name].Help(), nil
		}
	}
	var b strings.Builder
	b.WriteString("Доступные команды:\n")
	for _, name := range names {
		b.WriteString("/")
		b.WriteString(name)
		b.WriteString("\n")
	}
	b.WriteString("Подробная помощь по команде /help и имя команды")
	return b.String(), nil
}

func (c *HelpCommand) Help() string {
	return "Выводит список доступных комманд"
}

func (c *HelpCommand) Permission() mapset.Set[model.UserRole] {
	return everyone()
}

func (c *HelpCommand) Visibility() mapset.Set[model.UserRole] {
	return everyone()
}
