package tgbot

import (
	"context"
	"errors"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/goserg/leaguerank/bot/botstorage"
	"github.com/goserg/leaguerank/bot/model"
	"github.com/goserg/leaguerank/internal/service"
)

var (
	ErrBadRequest = errors.New("неизвестная команда")
	ErrForbidden  = errors.New("недостаточно прав для этой команды")
)

type Command interface {
	Run(ctx context.Context, user model.User, args string) (string, error)
	Help() string
	Permission() mapset.Set[model.UserRole]
	Visibility() mapset.Set[model.UserRole]
}

type Commands struct {
	list map[string]Command
}

func NewCommands(
	league *service.LeagueService,
	bs botstorage.BotStorage,
	subFn func(id int64),
	unsubFn func(id int64),
) *Commands {
	hc := &HelpCommand{}
	uc := Commands{
		list: map[string]Command{
			"help":  hc,
			"start": hc,
			"top": &TopCommand{
				league: league,
			},
			"info": &InfoCommand{
				league: league,
			},
			"h2h": &HeadToHeadCommand{
				league: league,
			},
			"game": &NewGameCommand{
				league: league,
			},
			"new_player": &NewPlayerCommand{
				league: league,
			},
			"sub": &SubCommand{
				botStorage: bs,
				sub:        subFn,
			},
			"unsub": &UnsubCommand{
				botStorage: bs,
				unsub:      unsubFn,
			},
		},
	}
	hc.commands = uc.list
	return &uc
}

func (uc *Commands) RunCommand(ctx context.Context, user model.User, cmd string, args string) (string, error) {
	command, ok := uc.list[cmd]
	if !ok {
		return "", ErrBadRequest
	}
	if !command.Permission().Contains(user.Role) {
		return "", ErrForbidden
	}
	return command.Run(ctx, user, args)
}

// visible lists the command names the role may see, sorted.
func visible(commands map[string]Command, role model.UserRole) []string {
	var names []string
	for name, command := range commands {
		if command.Visibility().Contains(role) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func everyone() mapset.Set[model.UserRole] {
	return mapset.NewSet[model.UserRole](model.RoleAdmin, model.RoleUser)
}

func adminsOnly() mapset.Set[model.UserRole] {
	return mapset.NewSet[model.UserRole](model.RoleAdmin)
}
