package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	embedded "github.com/goserg/leaguerank"
	"github.com/goserg/leaguerank/internal/domain"
	"github.com/goserg/leaguerank/internal/storage"
)

type Storage struct {
	db  *pgxpool.Pool
	log *logrus.Entry
}

var _ storage.Storage = (*Storage)(nil)

// New connects to the database and creates missing tables.
func New(ctx context.Context, dsn string, log *logrus.Logger) (*Storage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}
	if _, err := pool.Exec(ctx, embedded.PostgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Storage{db: pool, log: log.WithField("from", "postgres")}, nil
}

func (s *Storage) Close() error {
	s.db.Close()
	return nil
}

const selectPlayers = `SELECT id, name, active, registered_at, initial_rating, rating, normalised_rating,
       deviation, volatility, match_count, wins, losses, draws, percent
FROM players
ORDER BY id`

func (s *Storage) LoadPlayers(ctx context.Context) ([]domain.Player, error) {
	rows, err := s.db.Query(ctx, selectPlayers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		var p domain.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.Active, &p.RegisteredAt, &p.InitialRating, &p.Rating,
			&p.NormalisedRating, &p.Deviation, &p.Volatility, &p.MatchCount, &p.Wins, &p.Losses,
			&p.Draws, &p.Percent); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *Storage) LoadNextPlayerID(ctx context.Context) (domain.PlayerID, error) {
	var next int64
	err := s.db.QueryRow(ctx, `SELECT next_player_id FROM league_meta WHERE id = 1`).Scan(&next)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return domain.PlayerID(next), err
}

// Commit runs the whole change in one transaction.
func (s *Storage) Commit(ctx context.Context, c storage.Change) error {
	if c.Empty() {
		return nil
	}
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			s.log.WithError(err).Error("rollback failed")
		}
	}()

	if err := storage.Apply(ctx, txWriter{tx: tx}, c); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type txWriter struct {
	tx pgx.Tx
}

var _ storage.Writer = txWriter{}

const upsertPlayer = `INSERT INTO players (id, name, active, registered_at, initial_rating, rating, normalised_rating,
                     deviation, volatility, match_count, wins, losses, draws, percent)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (id) DO UPDATE SET name              = excluded.name,
                               active            = excluded.active,
                               registered_at     = excluded.registered_at,
                               initial_rating    = excluded.initial_rating,
                               rating            = excluded.rating,
                               normalised_rating = excluded.normalised_rating,
                               deviation         = excluded.deviation,
                               volatility        = excluded.volatility,
                               match_count       = excluded.match_count,
                               wins              = excluded.wins,
                               losses            = excluded.losses,
                               draws             = excluded.draws,
                               percent           = excluded.percent`

func (w txWriter) SavePlayers(ctx context.Context, players []domain.Player) error {
	batch := &pgx.Batch{}
	for _, p := range players {
		batch.Queue(upsertPlayer, int64(p.ID), p.Name, p.Active, p.RegisteredAt, p.InitialRating, p.Rating,
			p.NormalisedRating, p.Deviation, p.Volatility, p.MatchCount, p.Wins, p.Losses, p.Draws, p.Percent)
	}
	return w.sendBatch(ctx, batch)
}

func (w txWriter) DeletePlayer(ctx context.Context, id domain.PlayerID) error {
	_, err := w.tx.Exec(ctx, `DELETE FROM players WHERE id = $1`, int64(id))
	return err
}

const selectMatches = `SELECT id::text, seq, result, draw, date, winner_rating, loser_rating, probability
FROM matches
ORDER BY seq`

func (s *Storage) LoadMatches(ctx context.Context) ([]domain.Match, error) {
	rows, err := s.db.Query(ctx, selectMatches)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []domain.Match
	for rows.Next() {
		var (
			m      domain.Match
			id     string
			result [][]int64
		)
		if err := rows.Scan(&id, &m.Seq, &result, &m.Draw, &m.Date, &m.WinnerRating, &m.LoserRating,
			&m.Probability); err != nil {
			return nil, err
		}
		if m.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("match id %q: %w", id, err)
		}
		for _, e := range result {
			entry := make(domain.Entry, 0, len(e))
			for _, pid := range e {
				entry = append(entry, domain.PlayerID(pid))
			}
			m.Result = append(m.Result, entry)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

const upsertMatch = `INSERT INTO matches (id, seq, result, draw, date, winner_rating, loser_rating, probability)
VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE SET seq           = excluded.seq,
                               result        = excluded.result,
                               draw          = excluded.draw,
                               date          = excluded.date,
                               winner_rating = excluded.winner_rating,
                               loser_rating  = excluded.loser_rating,
                               probability   = excluded.probability`

func (w txWriter) SaveMatches(ctx context.Context, matches []domain.Match) error {
	batch := &pgx.Batch{}
	for _, m := range matches {
		result := make([][]int64, 0, len(m.Result))
		for _, e := range m.Result {
			ids := make([]int64, 0, len(e))
			for _, id := range e {
				ids = append(ids, int64(id))
			}
			result = append(result, ids)
		}
		batch.Queue(upsertMatch, m.ID.String(), m.Seq, result, m.Draw, m.Date, m.WinnerRating, m.LoserRating,
			m.Probability)
	}
	return w.sendBatch(ctx, batch)
}

func (w txWriter) DeleteMatch(ctx context.Context, id uuid.UUID) error {
	_, err := w.tx.Exec(ctx, `DELETE FROM matches WHERE id = $1::uuid`, id.String())
	return err
}

func (w txWriter) DeleteAll(ctx context.Context) error {
	_, err := w.tx.Exec(ctx, `TRUNCATE matches, players`)
	return err
}

func (w txWriter) SetNextPlayerID(ctx context.Context, id domain.PlayerID) error {
	_, err := w.tx.Exec(ctx, `INSERT INTO league_meta (id, next_player_id)
VALUES (1, $1)
ON CONFLICT (id) DO UPDATE SET next_player_id = excluded.next_player_id`, int64(id))
	return err
}

func (w txWriter) sendBatch(ctx context.Context, batch *pgx.Batch) error {
	if batch.Len() == 0 {
		return nil
	}
	return w.tx.SendBatch(ctx, batch).Close()
}
