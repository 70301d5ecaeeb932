package web

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/goserg/leaguerank/internal/config"
	"github.com/goserg/leaguerank/internal/domain"
	"github.com/goserg/leaguerank/internal/service"
	"github.com/goserg/leaguerank/internal/web/webpath"
)

type Server struct {
	league *service.LeagueService
	app    *fiber.App
	cfg    config.Server
	log    *logrus.Entry
}

func New(league *service.LeagueService, cfg config.Server, log *logrus.Logger) *Server {
	server := Server{
		league: league,
		cfg:    cfg,
		log:    log.WithField("from", "web"),
	}
	app := fiber.New(fiber.Config{
		AppName:               "leaguerank",
		DisableStartupMessage: !cfg.Debug,
		ErrorHandler:          server.handleError,
	})
	app.Use(recover.New())
	if cfg.Debug {
		app.Use(server.logRequest)
	}
	server.app = app
	server.routes()
	return &server
}

func (s *Server) Serve() error {
	return s.app.Listen(s.cfg.Addr())
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) logRequest(ctx *fiber.Ctx) error {
	start := time.Now()
	err := ctx.Next()
	s.log.WithFields(logrus.Fields{
		"method":   ctx.Method(),
		"path":     ctx.OriginalURL(),
		"status":   ctx.Response().StatusCode(),
		"duration": time.Since(start),
	}).Debug("request")
	return err
}

func errorStatus(err error) int {
	var (
		fiberErr   *fiber.Error
		storageErr *domain.StorageError
	)
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.As(err, &storageErr):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, domain.ErrDuplicateName),
		errors.Is(err, domain.ErrDuplicateID):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidMatch),
		errors.Is(err, domain.ErrUnknownPlayer):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func (s *Server) handleError(ctx *fiber.Ctx, err error) error {
	status := errorStatus(err)
	if status >= fiber.StatusInternalServerError {
		s.log.WithError(err).WithField("path", ctx.OriginalURL()).Error("request failed")
	}
	return ctx.Status(status).JSON(newData(s.league.Title()).WithErrors(err))
}

func (s *Server) handleIndex(ctx *fiber.Ctx) error {
	return ctx.JSON(newData(s.league.Title()).With("paths", webpath.Path()))
}

func (s *Server) handlePlayers(ctx *fiber.Ctx) error {
	all := ctx.QueryBool("all", false)
	var players []domain.Player
	if ctx.Query("order") == "name" {
		players = s.league.ListNameOrder(all)
	} else {
		players = s.league.ListRankOrder(all)
	}
	return ctx.JSON(newData(s.league.Title()).With("players", playerViews(players)))
}

func (s *Server) handleNewPlayer(ctx *fiber.Ctx) error {
	var req createPlayer
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	p, err := s.league.RegisterPlayer(ctx.Context(), req.Name, req.Rating)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(newData(s.league.Title()).With("player", playerViews([]domain.Player{p})[0]))
}

func (s *Server) handlePlayerInfo(ctx *fiber.Ctx) error {
	id, err := parsePlayerID(ctx)
	if err != nil {
		return err
	}
	p, err := s.league.Get(id)
	if err != nil {
		return err
	}
	games, err := s.league.GetPlayerGames(id)
	if err != nil {
		return err
	}
	return ctx.JSON(newData(p.Name).
		With("player", playerViews([]domain.Player{p})[0]).
		With("games", gameViews(games)))
}

func (s *Server) handleUpdatePlayer(ctx *fiber.Ctx) error {
	id, err := parsePlayerID(ctx)
	if err != nil {
		return err
	}
	var req updatePlayer
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	p, err := s.league.UpdatePlayer(ctx.Context(), id, service.PlayerUpdate{
		Name:   req.Name,
		Active: req.Active,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(newData(p.Name).With("player", playerViews([]domain.Player{p})[0]))
}

func (s *Server) handleDeletePlayer(ctx *fiber.Ctx) error {
	id, err := parsePlayerID(ctx)
	if err != nil {
		return err
	}
	if err := s.league.DeletePlayer(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handlePlayerMatches(ctx *fiber.Ctx) error {
	id, err := parsePlayerID(ctx)
	if err != nil {
		return err
	}
	matches, err := s.league.GetPlayerMatches(id)
	if err != nil {
		return err
	}
	return ctx.JSON(newData(s.league.Title()).With("matches", matchViews(matches)))
}

func (s *Server) handleMatches(ctx *fiber.Ctx) error {
	return ctx.JSON(newData(s.league.Title()).With("matches", matchViews(s.league.GetMatches())))
}

func (s *Server) handleNewMatch(ctx *fiber.Ctx) error {
	var req createMatch
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	m, err := s.league.SubmitMatch(ctx.Context(), req.convertToDomainResult(), req.Draw, req.date())
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(newData(s.league.Title()).With("match", matchViewOf(m)))
}

func (s *Server) handleMatch(ctx *fiber.Ctx) error {
	id, err := parseMatchID(ctx)
	if err != nil {
		return err
	}
	m, err := s.league.GetMatch(id)
	if err != nil {
		return err
	}
	return ctx.JSON(newData(s.league.Title()).With("match", matchViewOf(m)))
}

func (s *Server) handleDeleteMatch(ctx *fiber.Ctx) error {
	id, err := parseMatchID(ctx)
	if err != nil {
		return err
	}
	if err := s.league.DeleteMatch(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleHeadToHead(ctx *fiber.Ctx) error {
	ids, err := parseIDs(ctx.Query("ids"))
	if err != nil {
		return err
	}
	h2h, err := s.league.HeadToHead(ids)
	if err != nil {
		return err
	}
	return ctx.JSON(newData(s.league.Title()).With("head_to_head", headToHead{
		Players: playerViews(h2h.Players),
		Wins:    h2h.Wins,
	}))
}

func (s *Server) handleRecalculate(ctx *fiber.Ctx) error {
	if err := s.league.Recalculate(ctx.Context()); err != nil {
		return err
	}
	return ctx.JSON(newData(s.league.Title()).With("players", playerViews(s.league.ListRankOrder(false))))
}

func (s *Server) handleExport(ctx *fiber.Ctx) error {
	body, err := s.league.Export()
	if err != nil {
		return err
	}
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="league.json"`)
	ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return ctx.Send(body)
}

func (s *Server) handleImport(ctx *fiber.Ctx) error {
	if len(ctx.Body()) == 0 {
		return fmt.Errorf("%w: empty import document", ErrBadRequest)
	}
	if err := s.league.Import(ctx.Context(), ctx.Body()); err != nil {
		return err
	}
	return ctx.JSON(newData(s.league.Title()).With("players", playerViews(s.league.ListRankOrder(true))))
}
