package tgbot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/goserg/leaguerank/bot/model"
	"github.com/goserg/leaguerank/internal/domain"
	"github.com/goserg/leaguerank/internal/service"
)

type HeadToHeadCommand struct {
	league *service.LeagueService
}

func (c *HeadToHeadCommand) Run(_ context.Context, _ model.User, args string) (string, error) {
	var ids []domain.PlayerID
	for _, name := range strings.Fields(args) {
		p, err := c.league.GetByName(name)
		if err != nil {
			return "", errors.New(name + " не найден")
		}
		ids = append(ids, p.ID)
	}
	h2h, err := c.league.HeadToHead(ids)
	if err != nil {
		return "", err
	}
	if len(h2h.Players) < 2 {
		return "Недостаточно сыгравших игроков", nil
	}
	return printHeadToHead(h2h), nil
}

func printHeadToHead(h2h domain.HeadToHead) string {
	var buf strings.Builder
	for i, p := range h2h.Players {
		buf.WriteString(p.Name)
		buf.WriteString(":")
		for j, other := range h2h.Players {
			wins := h2h.Wins[i][j]
			if wins == nil {
				continue
			}
			buf.WriteString(" ")
			buf.WriteString(other.Name)
			buf.WriteString(" ")
			buf.WriteString(strconv.FormatFloat(*wins, 'f', -1, 64))
			buf.WriteString(";")
		}
		buf.WriteString("\n")
	}
	return buf.String()
}

func (c *HeadToHeadCommand) Help() string {
	return `Личные встречи. Использование: /h2h или /h2h <игрок> <игрок> ...`
}

func (c *HeadToHeadCommand) Permission() mapset.Set[model.UserRole] {
	return everyone()
}

func (c *HeadToHeadCommand) Visibility() mapset.Set[model.UserRole] {
	return everyone()
}
