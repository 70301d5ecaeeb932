package web

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/goserg/leaguerank/internal/domain"
)

func parsePlayerID(ctx *fiber.Ctx) (domain.PlayerID, error) {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: player id %q", ErrBadRequest, ctx.Params("id"))
	}
	return domain.PlayerID(id), nil
}

func parseMatchID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: match id %q", ErrBadRequest, ctx.Params("id"))
	}
	return id, nil
}

// parseIDs reads a comma separated id list; every bad item is reported.
func parseIDs(raw string) ([]domain.PlayerID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var (
		ids []domain.PlayerID
		err error
	)
	for _, item := range strings.Split(raw, ",") {
		id, perr := strconv.ParseInt(strings.TrimSpace(item), 10, 64)
		if perr != nil || id < 1 {
			err = errors.Join(err, fmt.Errorf("%w: player id %q", ErrBadRequest, item))
			continue
		}
		ids = append(ids, domain.PlayerID(id))
	}
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func parseBody(ctx *fiber.Ctx, out interface{ Validate() error }) error {
	if err := ctx.BodyParser(out); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return out.Validate()
}
