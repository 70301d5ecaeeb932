package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-jet/jet/v2/qrm"
	"github.com/go-jet/jet/v2/sqlite"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/goserg/leaguerank/gen/model"
	"github.com/goserg/leaguerank/gen/table"
	"github.com/goserg/leaguerank/internal/domain"
	sqlite3 "github.com/goserg/leaguerank/internal/migrate"
	"github.com/goserg/leaguerank/internal/storage"
)

// leagueMetaID is the key of the single league_meta row.
const leagueMetaID = 1

type Storage struct {
	db  *sql.DB
	log *logrus.Entry
}

var _ storage.Storage = (*Storage)(nil)

// New opens the league database file and applies pending migrations.
func New(file string, log *logrus.Logger) (*Storage, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	err = db.Ping()
	if err != nil {
		return nil, err
	}
	err = sqlite3.UpLeagueDB(db)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	l := log.WithField("from", "sqlite")
	l.WithField("file", file).Info("league database ready")
	return &Storage{db: db, log: l}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) LoadPlayers(ctx context.Context) ([]domain.Player, error) {
	var players []model.Players
	err := table.Players.
		SELECT(table.Players.AllColumns).
		FROM(table.Players).
		ORDER_BY(table.Players.ID.ASC()).
		QueryContext(ctx, s.db, &players)
	if err != nil && !errors.Is(err, qrm.ErrNoRows) {
		return nil, err
	}
	return convertPlayersToDomain(players), nil
}

func (s *Storage) LoadMatches(ctx context.Context) ([]domain.Match, error) {
	var matches []model.Matches
	err := table.Matches.
		SELECT(table.Matches.AllColumns).
		FROM(table.Matches).
		ORDER_BY(table.Matches.Seq.ASC()).
		QueryContext(ctx, s.db, &matches)
	if err != nil && !errors.Is(err, qrm.ErrNoRows) {
		return nil, err
	}
	return convertMatchesToDomain(matches)
}

func (s *Storage) LoadNextPlayerID(ctx context.Context) (domain.PlayerID, error) {
	var meta model.LeagueMeta
	err := table.LeagueMeta.
		SELECT(table.LeagueMeta.AllColumns).
		FROM(table.LeagueMeta).
		WHERE(table.LeagueMeta.ID.EQ(sqlite.Int(leagueMetaID))).
		QueryContext(ctx, s.db, &meta)
	if errors.Is(err, qrm.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return domain.PlayerID(meta.NextPlayerID), nil
}

// Commit runs the whole change in one transaction.
func (s *Storage) Commit(ctx context.Context, c storage.Change) error {
	if c.Empty() {
		return nil
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return storage.Apply(ctx, txWriter{tx: tx}, c)
	})
}

func (s *Storage) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.WithError(rbErr).Error("rollback failed")
		}
		return err
	}
	return tx.Commit()
}

// txWriter runs storage statements inside one transaction.
type txWriter struct {
	tx *sql.Tx
}

var _ storage.Writer = txWriter{}

func (w txWriter) SavePlayers(ctx context.Context, players []domain.Player) error {
	if len(players) == 0 {
		return nil
	}
	rows := make([]model.Players, 0, len(players))
	for _, p := range players {
		rows = append(rows, convertPlayerFromDomain(p))
	}
	p := table.Players
	stmt := p.INSERT(p.AllColumns).
		MODELS(rows).
		ON_CONFLICT(p.ID).
		DO_UPDATE(sqlite.SET(
			p.Name.SET(p.EXCLUDED.Name),
			p.Active.SET(p.EXCLUDED.Active),
			p.RegisteredAt.SET(p.EXCLUDED.RegisteredAt),
			p.InitialRating.SET(p.EXCLUDED.InitialRating),
			p.Rating.SET(p.EXCLUDED.Rating),
			p.NormalisedRating.SET(p.EXCLUDED.NormalisedRating),
			p.Deviation.SET(p.EXCLUDED.Deviation),
			p.Volatility.SET(p.EXCLUDED.Volatility),
			p.MatchCount.SET(p.EXCLUDED.MatchCount),
			p.Wins.SET(p.EXCLUDED.Wins),
			p.Losses.SET(p.EXCLUDED.Losses),
			p.Draws.SET(p.EXCLUDED.Draws),
			p.Percent.SET(p.EXCLUDED.Percent),
		))
	_, err := stmt.ExecContext(ctx, w.tx)
	return err
}

func (w txWriter) DeletePlayer(ctx context.Context, id domain.PlayerID) error {
	_, err := table.Players.
		DELETE().
		WHERE(table.Players.ID.EQ(sqlite.Int(int64(id)))).
		ExecContext(ctx, w.tx)
	return err
}

func (w txWriter) SaveMatches(ctx context.Context, matches []domain.Match) error {
	if len(matches) == 0 {
		return nil
	}
	rows := make([]model.Matches, 0, len(matches))
	for _, m := range matches {
		row, err := convertMatchFromDomain(m)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	m := table.Matches
	stmt := m.INSERT(m.AllColumns).
		MODELS(rows).
		ON_CONFLICT(m.ID).
		DO_UPDATE(sqlite.SET(
			m.Seq.SET(m.EXCLUDED.Seq),
			m.Result.SET(m.EXCLUDED.Result),
			m.Draw.SET(m.EXCLUDED.Draw),
			m.Date.SET(m.EXCLUDED.Date),
			m.WinnerRating.SET(m.EXCLUDED.WinnerRating),
			m.LoserRating.SET(m.EXCLUDED.LoserRating),
			m.Probability.SET(m.EXCLUDED.Probability),
		))
	_, err := stmt.ExecContext(ctx, w.tx)
	return err
}

func (w txWriter) DeleteMatch(ctx context.Context, id uuid.UUID) error {
	_, err := table.Matches.
		DELETE().
		WHERE(table.Matches.ID.EQ(sqlite.String(id.String()))).
		ExecContext(ctx, w.tx)
	return err
}

func (w txWriter) DeleteAll(ctx context.Context) error {
	_, err := table.Matches.
		DELETE().
		WHERE(table.Matches.ID.IS_NOT_NULL()).
		ExecContext(ctx, w.tx)
	if err != nil {
		return err
	}
	_, err = table.Players.
		DELETE().
		WHERE(table.Players.ID.IS_NOT_NULL()).
		ExecContext(ctx, w.tx)
	return err
}

func (w txWriter) SetNextPlayerID(ctx context.Context, id domain.PlayerID) error {
	m := table.LeagueMeta
	_, err := m.INSERT(m.AllColumns).
		MODEL(model.LeagueMeta{ID: leagueMetaID, NextPlayerID: int64(id)}).
		ON_CONFLICT(m.ID).
		DO_UPDATE(sqlite.SET(m.NextPlayerID.SET(m.EXCLUDED.NextPlayerID))).
		ExecContext(ctx, w.tx)
	return err
}
