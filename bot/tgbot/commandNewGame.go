package tgbot

import (
	"context"
	"errors"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/goserg/leaguerank/bot/model"
	"github.com/goserg/leaguerank/internal/domain"
	"github.com/goserg/leaguerank/internal/normalize"
	"github.com/goserg/leaguerank/internal/service"
)

const (
	draw        = "ничья"
	teamJoiner  = "+"
	drawEnglish = "draw"
)

type NewGameCommand struct {
	league *service.LeagueService
}

func (c *NewGameCommand) Run(ctx context.Context, _ model.User, args string) (string, error) {
	result, isDraw, err := c.parseResult(args)
	if err != nil {
		return "", err
	}
	if _, err := c.league.SubmitMatch(ctx, result, isDraw, time.Time{}); err != nil {
		return "", err
	}
	return "матч создан", nil
}

func (c *NewGameCommand) Help() string {
	return `Добавить игру. Использование: /game <первое место> <второе место> ... [ничья]. Команда записывается через "+": /game вася+петя коля+оля`
}

func (c *NewGameCommand) Permission() mapset.Set[model.UserRole] {
	return adminsOnly()
}

func (c *NewGameCommand) Visibility() mapset.Set[model.UserRole] {
	return adminsOnly()
}

// parseResult reads entries best first. A trailing "ничья" marks a draw.
func (c *NewGameCommand) parseResult(arguments string) ([]domain.Entry, bool, error) {
	fields := strings.Fields(arguments)
	isDraw := false
	if n := len(fields); n > 0 {
		switch normalize.Name(fields[n-1]) {
		case draw, drawEnglish:
			isDraw = true
			fields = fields[:n-1]
		}
	}
	if len(fields) < 2 {
		return nil, false, errors.New(`неверный запрос. Пример: "/game вася петя" - играли вася и петя, победил вася`)
	}
	result := make([]domain.Entry, 0, len(fields))
	for _, field := range fields {
		var entry domain.Entry
		for _, name := range strings.Split(field, teamJoiner) {
			player, err := c.league.GetByName(name)
			if err != nil {
				return nil, false, errors.New(name + " не найден")
			}
			entry = append(entry, player.ID)
		}
		result = append(result, entry)
	}
	return result, isDraw, nil
}
