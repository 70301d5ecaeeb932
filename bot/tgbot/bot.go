package tgbot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/goserg/leaguerank/bot/botstorage"
	botmodel "github.com/goserg/leaguerank/bot/model"
	"github.com/goserg/leaguerank/internal/config"
	"github.com/goserg/leaguerank/internal/events"
	"github.com/goserg/leaguerank/internal/service"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	bot  *tgbotapi.BotAPI
	send sender

	botStorage botstorage.BotStorage
	log        *logrus.Entry
	admins     mapset.Set[int64]

	subs *subscriptions

	commands *Commands
}

var _ events.Publisher = (*Bot)(nil)

func New(league *service.LeagueService, bs botstorage.BotStorage, cfg config.TgBot, debug bool, log *logrus.Logger) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramApiToken)
	if err != nil {
		return nil, fmt.Errorf("env TELEGRAM_APITOKEN: %w", err)
	}
	bot.Debug = debug

	b, err := newBot(bot, league, bs, cfg.AdminIDs, log)
	if err != nil {
		return nil, err
	}
	b.bot = bot
	return b, nil
}

func newBot(send sender, league *service.LeagueService, bs botstorage.BotStorage, admins []int64, log *logrus.Logger) (*Bot, error) {
	subs := newSubs()
	users, err := bs.ListUsers()
	if err != nil {
		return nil, err
	}
	for i := range users {
		for _, subType := range users[i].Subscriptions {
			subs.Add(subType, users[i].ID)
		}
	}

	b := &Bot{
		send:       send,
		botStorage: bs,
		log:        log.WithField("from", "tg_bot"),
		admins:     mapset.NewSet[int64](admins...),
		subs:       subs,
	}
	b.commands = NewCommands(
		league,
		bs,
		func(id int64) {
			b.subs.Add(botmodel.NewMatch, id)
		},
		func(id int64) {
			b.subs.Remove(botmodel.NewMatch, id)
		},
	)
	return b, nil
}

// Run reads updates until ctx is done.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.bot.GetUpdatesChan(u)
	defer b.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return
		case update := <-updates:
			b.handleMessage(ctx, update)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil { // ignore any non-Message updates
		return
	}
	tgUser := update.SentFrom()
	if tgUser == nil {
		return
	}
	log := b.log.WithFields(logrus.Fields{
		"user_id": tgUser.ID,
		"text":    update.Message.Text,
	})
	user, err := b.user(tgUser)
	if err != nil {
		log.WithError(err).Error("unable to get user")
		return
	}

	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	if !update.Message.IsCommand() {
		msg.Text = ErrBadRequest.Error()
	} else {
		text, err := b.commands.RunCommand(ctx, user, update.Message.Command(), update.Message.CommandArguments())
		if err != nil {
			log.WithError(err).Debug("command failed")
			text = err.Error()
		}
		msg.Text = text
	}
	if _, err := b.send.Send(msg); err != nil {
		log.WithError(err).Error("send error")
	}
}

// user loads the bot user, registering it on first contact. The role always
// follows the configured admin list.
func (b *Bot) user(tgUser *tgbotapi.User) (botmodel.User, error) {
	user, err := b.botStorage.GetUser(tgUser.ID)
	if err != nil && !errors.Is(err, botstorage.ErrUserNotFound) {
		return botmodel.User{}, err
	}
	role := botmodel.RoleUser
	if b.admins.Contains(tgUser.ID) {
		role = botmodel.RoleAdmin
	}
	if err == nil && user.Role == role {
		return user, nil
	}
	now := time.Now()
	if err != nil {
		user = botmodel.User{
			ID:        tgUser.ID,
			FirstName: tgUser.FirstName,
			Username:  tgUser.UserName,
			CreatedAt: now,
		}
	}
	user.Role = role
	user.UpdatedAt = now
	if err := b.botStorage.SaveUser(user); err != nil {
		return botmodel.User{}, err
	}
	return user, nil
}

// Publish notifies subscribers about a committed league change.
func (b *Bot) Publish(_ context.Context, e events.MatchEvent) error {
	text := formatEvent(e)
	if text == "" {
		return nil
	}
	var errs []error
	for _, userID := range b.subs.GetUserIDs(botmodel.NewMatch) {
		msg := tgbotapi.NewMessage(userID, text)
		if _, err := b.send.Send(msg); err != nil {
			errs = append(errs, fmt.Errorf("notify %d: %w", userID, err))
		}
	}
	return errors.Join(errs...)
}

func formatEvent(e events.MatchEvent) string {
	switch e.Kind {
	case events.MatchSubmitted:
		return formatMatchResult(e)
	case events.MatchDeleted:
		return "Матч удалён\n" + formatMatchResult(e)
	case events.Recalculated:
		return "Рейтинг пересчитан"
	}
	return ""
}

func formatMatchResult(e events.MatchEvent) string {
	if e.Match == nil {
		return ""
	}
	var buf strings.Builder
	last := len(e.Names) - 1
	if e.Match.Draw {
		buf.WriteString("Ничья\n")
	}
	for i, names := range e.Names {
		switch {
		case e.Match.Draw:
			buf.WriteString("🤝")
		case i == 0:
			buf.WriteString("🏆")
		case i == last:
			buf.WriteString("😖")
		default:
			buf.WriteString(strconv.Itoa(i + 1))
			buf.WriteString(". ")
		}
		buf.WriteString(strings.Join(names, " + "))
		buf.WriteString("\n")
	}
	if len(e.Changes) == 0 {
		return buf.String()
	}
	buf.WriteString("Рейтинг:\n")
	for _, c := range e.Changes {
		after := roundRating(c.After)
		buf.WriteString(c.Name)
		buf.WriteString(": ")
		buf.WriteString(strconv.Itoa(after))
		buf.WriteString("(")
		buf.WriteString(fmt.Sprintf("%+d", after-roundRating(c.Before)))
		buf.WriteString(")\n")
	}
	return buf.String()
}
