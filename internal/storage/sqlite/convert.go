package sqlite

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/goserg/leaguerank/gen/model"
	"github.com/goserg/leaguerank/internal/domain"
	"github.com/goserg/leaguerank/internal/schema"
)

func convertPlayersToDomain(players []model.Players) []domain.Player {
	converted := make([]domain.Player, 0, len(players))
	for _, player := range players {
		converted = append(converted, domain.Player{
			ID:               domain.PlayerID(player.ID),
			Name:             player.Name,
			Active:           player.Active,
			RegisteredAt:     player.RegisteredAt,
			InitialRating:    player.InitialRating,
			Rating:           player.Rating,
			NormalisedRating: player.NormalisedRating,
			Deviation:        player.Deviation,
			Volatility:       player.Volatility,
			MatchCount:       int(player.MatchCount),
			Wins:             int(player.Wins),
			Losses:           int(player.Losses),
			Draws:            int(player.Draws),
			Percent:          player.Percent,
		})
	}
	return converted
}

func convertPlayerFromDomain(player domain.Player) model.Players {
	return model.Players{
		ID:               int64(player.ID),
		Name:             player.Name,
		Active:           player.Active,
		RegisteredAt:     player.RegisteredAt,
		InitialRating:    player.InitialRating,
		Rating:           player.Rating,
		NormalisedRating: player.NormalisedRating,
		Deviation:        player.Deviation,
		Volatility:       player.Volatility,
		MatchCount:       int32(player.MatchCount),
		Wins:             int32(player.Wins),
		Losses:           int32(player.Losses),
		Draws:            int32(player.Draws),
		Percent:          player.Percent,
	}
}

func convertMatchesToDomain(matches []model.Matches) ([]domain.Match, error) {
	converted := make([]domain.Match, 0, len(matches))
	for _, match := range matches {
		id, err := uuid.Parse(match.ID)
		if err != nil {
			return nil, fmt.Errorf("match id %q: %w", match.ID, err)
		}
		var result [][]int64
		if err := json.Unmarshal([]byte(match.Result), &result); err != nil {
			return nil, fmt.Errorf("match %s result: %w", id, err)
		}
		record := schema.MatchRecord{
			ID:           id.String(),
			Seq:          match.Seq,
			Result:       result,
			Draw:         match.Draw,
			Date:         match.Date,
			WinnerRating: match.WinnerRating,
			LoserRating:  match.LoserRating,
			Probability:  match.Probability,
		}
		m, err := record.Match()
		if err != nil {
			return nil, err
		}
		converted = append(converted, m)
	}
	return converted, nil
}

func convertMatchFromDomain(match domain.Match) (model.Matches, error) {
	record := schema.FromMatch(match)
	result, err := json.Marshal(record.Result)
	if err != nil {
		return model.Matches{}, err
	}
	return model.Matches{
		ID:           record.ID,
		Seq:          record.Seq,
		Result:       string(result),
		Draw:         record.Draw,
		Date:         record.Date,
		WinnerRating: record.WinnerRating,
		LoserRating:  record.LoserRating,
		Probability:  record.Probability,
	}, nil
}
