package web

import (
	"github.com/gofiber/fiber/v2"

	"github.com/goserg/leaguerank/internal/web/webpath"
)

func (s *Server) routes() {
	s.app.Get(webpath.Home, func(ctx *fiber.Ctx) error {
		return ctx.Redirect(webpath.Api)
	})
	s.app.Get(webpath.Api, s.handleIndex)

	s.app.Get(webpath.ApiPlayers, s.handlePlayers)
	s.app.Post(webpath.ApiPlayers, s.handleNewPlayer)
	s.app.Get(webpath.ApiPlayer, s.handlePlayerInfo)
	s.app.Patch(webpath.ApiPlayer, s.handleUpdatePlayer)
	s.app.Delete(webpath.ApiPlayer, s.handleDeletePlayer)
	s.app.Get(webpath.ApiPlayerMatches, s.handlePlayerMatches)

	s.app.Get(webpath.ApiMatches, s.handleMatches)
	s.app.Post(webpath.ApiMatches, s.handleNewMatch)
	s.app.Get(webpath.ApiMatch, s.handleMatch)
	s.app.Delete(webpath.ApiMatch, s.handleDeleteMatch)

	s.app.Get(webpath.ApiHeadToHead, s.handleHeadToHead)
	s.app.Post(webpath.ApiRecalculate, s.handleRecalculate)
	s.app.Get(webpath.ApiExport, s.handleExport)
	s.app.Post(webpath.ApiImport, s.handleImport)
}
