package tgbot

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/goserg/leaguerank/bot/model"
	"github.com/goserg/leaguerank/internal/service"
)

const defaultTopSize = 10

type TopCommand struct {
	league *service.LeagueService
}

func (c *TopCommand) Run(_ context.Context, _ model.User, args string) (string, error) {
	size := defaultTopSize
	if args = strings.TrimSpace(args); args != "" {
		n, err := strconv.Atoi(args)
		if err != nil || n < 1 {
			return "", errors.New(`размер списка должен быть числом, например "/top 5"`)
		}
		size = n
	}
	players := c.league.ListRankOrder(false)
	if len(players) == 0 {
		return "В рейтинге пока никого нет", nil
	}
	var buffer strings.Builder
	for i, p := range players {
		if i >= size {
			break
		}
		buffer.WriteString(strconv.Itoa(i + 1))
		buffer.WriteString(". ")
		buffer.WriteString(p.Name)
		buffer.WriteString(" (")
		buffer.WriteString(strconv.Itoa(roundRating(p.Rating)))
		buffer.WriteString(")\n")
	}
	return buffer.String(), nil
}

func (c *TopCommand) Help() string {
	return `Список лучших в рейтинге. Использование: /top или /top <количество>`
}

func (c *TopCommand) Permission() mapset.Set[model.UserRole] {
	return everyone()
}

func (c *TopCommand) Visibility() mapset.Set[model.UserRole] {
	return everyone()
}

func roundRating(r float64) int {
	return int(math.Round(r))
}
