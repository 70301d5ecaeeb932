package tgbot

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/goserg/leaguerank/bot/model"
	"github.com/goserg/leaguerank/internal/domain"
	"github.com/goserg/leaguerank/internal/service"
)

type InfoCommand struct {
	league *service.LeagueService
}

func (c *InfoCommand) Run(_ context.Context, _ model.User, args string) (string, error) {
	name := strings.TrimSpace(args)
	if name == "" {
		return "", errors.New(`после /info имя игрока необходимо указывать в этом же соощении. Например "/info джон"`)
	}
	player, err := c.league.GetByName(name)
	if err != nil {
		return "", errors.New(name + " не найден")
	}
	rank := 0
	for i, p := range c.league.ListRankOrder(false) {
		if p.ID == player.ID {
			rank = i + 1
			break
		}
	}
	return printPlayer(player, rank), nil
}

func (c *InfoCommand) Help() string {
	return `Информация об игроке. Использование - /info и имя игрока.`
}

func printPlayer(player domain.Player, rank int) string {
	var buf strings.Builder
	buf.WriteString("ID: ")
	buf.WriteString(strconv.FormatInt(int64(player.ID), 10))
	buf.WriteString("\n")
	buf.WriteString("Имя: ")
	buf.WriteString(player.Name)
	buf.WriteString("\n")
	buf.WriteString("Место в рейтинге: ")
	buf.WriteString(prettifyRank(rank))
	buf.WriteString("\n")
	buf.WriteString("Рейтинг: ")
	buf.WriteString(strconv.Itoa(roundRating(player.Rating)))
	buf.WriteString("\n")
	buf.WriteString("Сыграно игр: ")
	buf.WriteString(strconv.Itoa(player.MatchCount))
	buf.WriteString(" (")
	buf.WriteString(strconv.Itoa(player.Wins))
	buf.WriteString("/")
	buf.WriteString(strconv.Itoa(player.Draws))
	buf.WriteString("/")
	buf.WriteString(strconv.Itoa(player.Losses))
	buf.WriteString(")\n")
	buf.WriteString("Средний результат: ")
	buf.WriteString(strconv.FormatFloat(player.Percent, 'f', 1, 64))
	buf.WriteString("%\n")
	buf.WriteString("Зарегистрирован: ")
	buf.WriteString(player.RegisteredAt.Format(time.RFC1123))
	return buf.String()
}

func prettifyRank(rank int) string {
	switch rank {
	case 0:
		return "-"
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	}
	return strconv.Itoa(rank)
}

func (c *InfoCommand) Permission() mapset.Set[model.UserRole] {
	return everyone()
}

func (c *InfoCommand) Visibility() mapset.Set[model.UserRole] {
	return everyone()
}
