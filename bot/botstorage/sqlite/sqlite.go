package sqlite

import (
	"database/sql"
	"errors"

	"github.com/go-jet/jet/v2/qrm"
	"github.com/go-jet/jet/v2/sqlite"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/goserg/leaguerank/bot/botstorage"
	dbmodel "github.com/goserg/leaguerank/bot/gen/model"
	"github.com/goserg/leaguerank/bot/gen/table"
	"github.com/goserg/leaguerank/bot/model"
	"github.com/goserg/leaguerank/internal/config"
	sqlite3 "github.com/goserg/leaguerank/internal/migrate"
)

type Storage struct {
	db  *sql.DB
	log *logrus.Entry
}

var _ botstorage.BotStorage = (*Storage)(nil)

func New(l *logrus.Logger, cfg config.TgBot) (*Storage, error) {
	log := l.WithFields(map[string]interface{}{
		"from": "bot-storage",
	})
	db, err := sql.Open("sqlite3", buildSource(cfg.SQLiteFile))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	err = sqlite3.UpBotDB(db)
	if err != nil {
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		return nil, err
	}
	log.WithField("file", cfg.SQLiteFile).Info("bot storage connected")
	return &Storage{
		db:  db,
		log: log,
	}, nil
}

func buildSource(fileName string) string {
	return "file:" + fileName + "?cache=shared"
}

func (s *Storage) Close() error {
	return s.db.Close()
}

type userModel struct {
	dbmodel.Users
	UserEvents []dbmodel.UserEvents
}

func selectUsers() sqlite.SelectStatement {
	return table.Users.
		SELECT(table.Users.AllColumns, table.UserEvents.AllColumns).
		FROM(table.Users.
			LEFT_JOIN(table.UserEvents, table.UserEvents.UserID.EQ(table.Users.ID)),
		)
}

func (s *Storage) GetUser(id int64) (model.User, error) {
	var dest userModel
	err := selectUsers().
		WHERE(table.Users.ID.EQ(sqlite.Int(id))).
		Query(s.db, &dest)
	if errors.Is(err, qrm.ErrNoRows) {
		return model.User{}, botstorage.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return convertUserToDomain(dest), nil
}

func (s *Storage) ListUsers() ([]model.User, error) {
	var dest []userModel
	err := selectUsers().
		ORDER_BY(table.Users.ID.ASC()).
		Query(s.db, &dest)
	if err != nil && !errors.Is(err, qrm.ErrNoRows) {
		return nil, err
	}
	users := make([]model.User, 0, len(dest))
	for i := range dest {
		users = append(users, convertUserToDomain(dest[i]))
	}
	return users, nil
}

// SaveUser upserts the user and replaces its subscriptions.
func (s *Storage) SaveUser(user model.User) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if err := saveUser(tx, user); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.WithError(rbErr).Error("rollback failed")
		}
		return err
	}
	return tx.Commit()
}

func saveUser(tx *sql.Tx, user model.User) error {
	u := table.Users
	_, err := u.INSERT(u.AllColumns).
		MODEL(convertUserFromDomain(user)).
		ON_CONFLICT(u.ID).
		DO_UPDATE(sqlite.SET(
			u.FirstName.SET(u.EXCLUDED.FirstName),
			u.Username.SET(u.EXCLUDED.Username),
			u.Role.SET(u.EXCLUDED.Role),
			u.UpdatedAt.SET(u.EXCLUDED.UpdatedAt),
		)).
		Exec(tx)
	if err != nil {
		return err
	}

	_, err = table.UserEvents.
		DELETE().
		WHERE(table.UserEvents.UserID.EQ(sqlite.Int(user.ID))).
		Exec(tx)
	if err != nil {
		return err
	}
	if len(user.Subscriptions) == 0 {
		return nil
	}
	events := make([]dbmodel.UserEvents, 0, len(user.Subscriptions))
	for _, e := range user.Subscriptions {
		events = append(events, dbmodel.UserEvents{UserID: user.ID, Event: string(e)})
	}
	_, err = table.UserEvents.
		INSERT(table.UserEvents.AllColumns).
		MODELS(events).
		ON_CONFLICT(table.UserEvents.UserID, table.UserEvents.Event).
		DO_NOTHING().
		Exec(tx)
	return err
}

func convertUserFromDomain(user model.User) dbmodel.Users {
	return dbmodel.Users{
		ID:        user.ID,
		FirstName: user.FirstName,
		Username:  user.Username,
		Role:      int32(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func convertUserToDomain(user userModel) model.User {
	converted := model.User{
		ID:        user.ID,
		FirstName: user.FirstName,
		Username:  user.Username,
		Role:      model.UserRole(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	for _, e := range user.UserEvents {
		converted.Subscriptions = append(converted.Subscriptions, model.EventType(e.Event))
	}
	return converted
}
