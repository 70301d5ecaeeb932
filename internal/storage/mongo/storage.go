package mongo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/goserg/leaguerank/internal/domain"
	"github.com/goserg/leaguerank/internal/schema"
	"github.com/goserg/leaguerank/internal/storage"
)

const (
	playersCollection = "players"
	matchesCollection = "matches"
	metaCollection    = "league"

	leagueMetaID = "league"
)

// Storage keeps players and matches as documents. Documents in an older
// shape are upgraded on load and written back in the canonical shape.
type Storage struct {
	client   *mongo.Client
	database *mongo.Database
	log      *logrus.Entry

	// mu guards dec, which carries player id translations from LoadPlayers
	// to LoadMatches.
	mu  sync.Mutex
	dec *schema.Decoder
}

var _ storage.Storage = (*Storage)(nil)

func New(ctx context.Context, uri, database string, log *logrus.Logger) (*Storage, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxConnIdleTime(5 * time.Minute)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	s := &Storage{
		client:   client,
		database: client.Database(database),
		log:      log.WithField("from", "mongo"),
		dec:      schema.NewDecoder(),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Storage) ensureIndexes(ctx context.Context) error {
	_, err := s.players().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create players index: %w", err)
	}
	_, err = s.matches().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "seq", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create matches index: %w", err)
	}
	return nil
}

func (s *Storage) players() *mongo.Collection {
	return s.database.Collection(playersCollection)
}

func (s *Storage) matches() *mongo.Collection {
	return s.database.Collection(matchesCollection)
}

func (s *Storage) meta() *mongo.Collection {
	return s.database.Collection(metaCollection)
}

func (s *Storage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Storage) LoadPlayers(ctx context.Context) ([]domain.Player, error) {
	docs, err := s.loadDocs(ctx, s.players(), options.Find())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.dec = schema.NewDecoder()
	records, err := s.dec.Players(normalizeAll(docs))
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	players := make([]domain.Player, 0, len(records))
	var legacy []any
	for i, r := range records {
		if !sameID(docs[i]["_id"], r.ID) {
			legacy = append(legacy, docs[i]["_id"])
		}
		players = append(players, r.Player())
	}
	if len(legacy) > 0 {
		if err := s.rewrite(ctx, s.players(), legacy, playerModels(players)); err != nil {
			return nil, err
		}
	}
	return players, nil
}

func (s *Storage) LoadMatches(ctx context.Context) ([]domain.Match, error) {
	docs, err := s.loadDocs(ctx, s.matches(), options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	records, err := s.dec.Matches(normalizeAll(docs))
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	matches := make([]domain.Match, 0, len(records))
	var legacy []any
	for i, r := range records {
		m, err := r.Match()
		if err != nil {
			return nil, err
		}
		if id, ok := docs[i]["_id"].(string); !ok || id != r.ID {
			legacy = append(legacy, docs[i]["_id"])
		}
		matches = append(matches, m)
	}
	if len(legacy) > 0 {
		if err := s.rewrite(ctx, s.matches(), legacy, matchModels(matches)); err != nil {
			return nil, err
		}
	}
	return matches, nil
}

func (s *Storage) loadDocs(ctx context.Context, coll *mongo.Collection, opts *options.FindOptions) ([]bson.M, error) {
	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// rewrite replaces documents stored in an older shape by their canonical form.
func (s *Storage) rewrite(ctx context.Context, coll *mongo.Collection, legacyIDs []any, models []mongo.WriteModel) error {
	s.log.WithFields(logrus.Fields{
		"collection": coll.Name(),
		"documents":  len(legacyIDs),
	}).Info("upgrading legacy documents")
	if _, err := coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": legacyIDs}}); err != nil {
		return err
	}
	_, err := coll.BulkWrite(ctx, models)
	return err
}

func sameID(raw any, id int64) bool {
	switch v := raw.(type) {
	case int64:
		return v == id
	case int32:
		return int64(v) == id
	default:
		return false
	}
}

func playerModels(players []domain.Player) []mongo.WriteModel {
	models := make([]mongo.WriteModel, 0, len(players))
	for _, p := range players {
		r := schema.FromPlayer(p)
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": r.ID}).
			SetReplacement(r).
			SetUpsert(true))
	}
	return models
}

func matchModels(matches []domain.Match) []mongo.WriteModel {
	models := make([]mongo.WriteModel, 0, len(matches))
	for _, m := range matches {
		r := schema.FromMatch(m)
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": r.ID}).
			SetReplacement(r).
			SetUpsert(true))
	}
	return models
}

type leagueMeta struct {
	ID           string `bson:"_id"`
	NextPlayerID int64  `bson:"next_player_id"`
}

func (s *Storage) LoadNextPlayerID(ctx context.Context) (domain.PlayerID, error) {
	var meta leagueMeta
	err := s.meta().FindOne(ctx, bson.M{"_id": leagueMetaID}).Decode(&meta)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return domain.PlayerID(meta.NextPlayerID), nil
}

// Commit runs the whole change in one multi-document transaction, which
// needs a replica set or a sharded cluster.
func (s *Storage) Commit(ctx context.Context, c storage.Change) error {
	if c.Empty() {
		return nil
	}
	session, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, storage.Apply(sc, txWriter{s: s}, c)
	})
	return err
}

// txWriter issues writes with the session context Apply passes down, which
// binds them to the running transaction.
type txWriter struct {
	s *Storage
}

var _ storage.Writer = txWriter{}

func (w txWriter) SavePlayers(ctx context.Context, players []domain.Player) error {
	_, err := w.s.players().BulkWrite(ctx, playerModels(players))
	return err
}

func (w txWriter) DeletePlayer(ctx context.Context, id domain.PlayerID) error {
	_, err := w.s.players().DeleteOne(ctx, bson.M{"_id": int64(id)})
	return err
}

func (w txWriter) SaveMatches(ctx context.Context, matches []domain.Match) error {
	_, err := w.s.matches().BulkWrite(ctx, matchModels(matches))
	return err
}

func (w txWriter) DeleteMatch(ctx context.Context, id uuid.UUID) error {
	_, err := w.s.matches().DeleteOne(ctx, bson.M{"_id": id.String()})
	return err
}

func (w txWriter) DeleteAll(ctx context.Context) error {
	if _, err := w.s.matches().DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	_, err := w.s.players().DeleteMany(ctx, bson.M{})
	return err
}

func (w txWriter) SetNextPlayerID(ctx context.Context, id domain.PlayerID) error {
	_, err := w.s.meta().ReplaceOne(ctx,
		bson.M{"_id": leagueMetaID},
		leagueMeta{ID: leagueMetaID, NextPlayerID: int64(id)},
		options.Replace().SetUpsert(true))
	return err
}

func normalizeAll(docs []bson.M) []map[string]any {
	res := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		res = append(res, normalizeDoc(d))
	}
	return res
}

func normalizeDoc(doc bson.M) map[string]any {
	res := make(map[string]any, len(doc))
	for k, v := range doc {
		res[k] = normalize(v)
	}
	return res
}

// normalize turns driver types into the plain values the schema decoder reads.
func normalize(v any) any {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC()
	case bson.M:
		return normalizeDoc(t)
	case bson.D:
		return normalizeDoc(t.Map())
	case bson.A:
		res := make([]any, 0, len(t))
		for _, item := range t {
			res = append(res, normalize(item))
		}
		return res
	default:
		return v
	}
}
