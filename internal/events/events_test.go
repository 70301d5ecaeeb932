package events

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goserg/leaguerank/internal/domain"
)

func TestMulti(t *testing.T) {
	t.Parallel()
	var got []Kind
	ok := PublisherFunc(func(_ context.Context, e MatchEvent) error {
		got = append(got, e.Kind)
		return nil
	})
	errBoom := errors.New("boom")
	failing := PublisherFunc(func(context.Context, MatchEvent) error {
		return errBoom
	})

	m := Multi{ok, failing, ok}
	err := m.Publish(context.Background(), NewMatchEvent(Recalculated, nil, nil))
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, []Kind{Recalculated, Recalculated}, got)

	assert.NoError(t, Multi{}.Publish(context.Background(), MatchEvent{}))
}

func TestNewMatchEvent(t *testing.T) {
	t.Parallel()
	summary := &domain.MatchSummary{
		Match: domain.Match{ID: uuid.New(), Seq: 1, Result: []domain.Entry{{1}, {2}}},
		Names: [][]string{{"Alice"}, {"Bob"}},
	}
	e := NewMatchEvent(MatchSubmitted, summary, []RatingChange{{PlayerID: 1, Name: "Alice", Before: 1600, After: 1615}})
	require.NotNil(t, e.Match)
	assert.Equal(t, summary.ID.String(), e.Match.ID)
	assert.Equal(t, [][]int64{{1}, {2}}, e.Match.Result)
	assert.Equal(t, summary.Names, e.Names)
}

func TestNATS(t *testing.T) {
	url := os.Getenv("LEAGUE_TEST_NATS_URL")
	if url == "" {
		t.Skip("LEAGUE_TEST_NATS_URL is not set")
	}
	pub, err := NewNATS(url, "league_test", logrus.New())
	require.NoError(t, err)
	defer pub.Close()

	sub, err := nats.Connect(url)
	require.NoError(t, err)
	defer sub.Close()
	msgs := make(chan *nats.Msg, 1)
	s, err := sub.ChanSubscribe("league_test.>", msgs)
	require.NoError(t, err)
	defer s.Unsubscribe()
	require.NoError(t, sub.Flush())

	require.NoError(t, pub.Publish(context.Background(), NewMatchEvent(Recalculated, nil, nil)))
	select {
	case msg := <-msgs:
		assert.Equal(t, "league_test.league.recalculated", msg.Subject)
		var e MatchEvent
		require.NoError(t, json.Unmarshal(msg.Data, &e))
		assert.Equal(t, Recalculated, e.Kind)
	case <-time.After(5 * time.Second):
		t.Fatal("no message received")
	}
}
