package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goserg/leaguerank/internal/domain"
)

func newTestRegistry(sortBy SortKey, tie TieBreak) *Registry {
	return New(Config{
		Defaults: domain.Defaults{Rating: 1600, Deviation: 350, Volatility: 0.06},
		SortBy:   sortBy,
		TieBreak: tie,
	})
}

func TestRegister(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   []string
		wantErr error
	}{
		{
			name:  "ok",
			input: []string{"Alice", "Bob"},
		},
		{
			name:    "empty",
			input:   []string{""},
			wantErr: domain.ErrInvalidName,
		},
		{
			name:    "whitespace",
			input:   []string{"  \t"},
			wantErr: domain.ErrInvalidName,
		},
		{
			name:    "duplicate",
			input:   []string{"X", "X"},
			wantErr: domain.ErrDuplicateName,
		},
		{
			name:    "duplicate after trim",
			input:   []string{"X", " X "},
			wantErr: domain.ErrDuplicateName,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := newTestRegistry(SortByRating, TieBreakInsertion)
			var err error
			for _, name := range tt.input {
				_, err = r.Register(name)
				if err != nil {
					break
				}
			}
			if tt.wantErr == nil {
				assert.NoError(t, err)
				assert.Equal(t, len(tt.input), r.Len())
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDuplicateLeavesRegistryUnchanged(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(SortByRating, TieBreakInsertion)
	_, err := r.Register("X")
	require.NoError(t, err)
	before := r.NextID()

	_, err = r.Register("X")
	assert.ErrorIs(t, err, domain.ErrInvalidName)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, before, r.NextID())
}

func TestRegisterDefaults(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(SortByRating, TieBreakInsertion)
	p, err := r.Register("Alice")
	require.NoError(t, err)
	assert.Equal(t, domain.PlayerID(1), p.ID)
	assert.Equal(t, 1600.0, p.Rating)
	assert.Equal(t, 1600.0, p.NormalisedRating)
	assert.True(t, p.Active)
	assert.Zero(t, p.MatchCount)

	q, err := r.RegisterRated("Bob", 1000)
	require.NoError(t, err)
	assert.Equal(t, domain.PlayerID(2), q.ID)
	assert.Equal(t, 1000.0, q.Rating)
}

func TestIDsNeverReused(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(SortByRating, TieBreakInsertion)
	a, _ := r.Register("a")
	b, _ := r.Register("b")
	require.NoError(t, r.Remove(b.ID))
	c, err := r.Register("c")
	require.NoError(t, err)
	assert.Greater(t, c.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID)

	_, err = r.Get(b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRename(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(SortByRating, TieBreakInsertion)
	a, _ := r.Register("a")
	_, _ = r.Register("b")

	assert.ErrorIs(t, r.Rename(99, "z"), domain.ErrNotFound)
	assert.ErrorIs(t, r.Rename(a.ID, " "), domain.ErrInvalidName)
	assert.ErrorIs(t, r.Rename(a.ID, "b"), domain.ErrDuplicateName)
	assert.NoError(t, r.Rename(a.ID, "a"))
	require.NoError(t, r.Rename(a.ID, "Anna"))

	got, err := r.FindByName("ANNA")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
}

func TestSetActiveIdempotent(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(SortByRating, TieBreakInsertion)
	a, _ := r.Register("a")
	require.NoError(t, r.SetActive(a.ID, false))
	require.NoError(t, r.SetActive(a.ID, false))
	p, _ := r.Get(a.ID)
	assert.False(t, p.Active)
	assert.ErrorIs(t, r.SetActive(42, true), domain.ErrNotFound)
}

func TestReset(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(SortByRating, TieBreakInsertion)
	a, _ := r.RegisterRated("a", 1200)
	p, ok := r.Lookup(a.ID)
	require.True(t, ok)
	p.Rating = 1300
	p.NormalisedRating = 1250
	p.MatchCount = 3
	p.Wins = 2
	p.Losses = 1
	p.Percent = 66

	require.NoError(t, r.Reset(a.ID))
	got, _ := r.Get(a.ID)
	assert.Equal(t, 1200.0, got.Rating)
	assert.Equal(t, 1200.0, got.NormalisedRating)
	assert.Equal(t, 350.0, got.Deviation)
	assert.Zero(t, got.MatchCount)
	assert.Zero(t, got.Wins)
	assert.Zero(t, got.Losses)
	assert.Zero(t, got.Percent)
}

func names(players []domain.Player) []string {
	res := make([]string, 0, len(players))
	for _, p := range players {
		res = append(res, p.Name)
	}
	return res
}

func TestListRankOrder(t *testing.T) {
	t.Parallel()
	type state struct {
		name    string
		rating  float64
		nrating float64
		played  int
		active  bool
	}
	players := []state{
		{name: "never", rating: 2000, nrating: 2000, active: true},
		{name: "low", rating: 1500, nrating: 1650, played: 2, active: true},
		{name: "high", rating: 1700, nrating: 1610, played: 2, active: true},
		{name: "gone", rating: 1800, nrating: 1800, played: 1, active: false},
		{name: "bee", rating: 1500, nrating: 1500, played: 1, active: true},
	}
	tests := []struct {
		name            string
		sortBy          SortKey
		tie             TieBreak
		includeInactive bool
		want            []string
	}{
		{
			name:   "rating",
			sortBy: SortByRating,
			tie:    TieBreakInsertion,
			want:   []string{"high", "low", "bee", "never"},
		},
		{
			name:   "rating name tie break",
			sortBy: SortByRating,
			tie:    TieBreakName,
			want:   []string{"high", "bee", "low", "never"},
		},
		{
			name:   "normalised",
			sortBy: SortByNormalisedRating,
			tie:    TieBreakInsertion,
			want:   []string{"low", "high", "bee", "never"},
		},
		{
			name:            "with inactive",
			sortBy:          SortByRating,
			tie:             TieBreakInsertion,
			includeInactive: true,
			want:            []string{"gone", "high", "low", "bee", "never"},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := newTestRegistry(tt.sortBy, tt.tie)
			for _, s := range players {
				added, err := r.Register(s.name)
				require.NoError(t, err)
				p, _ := r.Lookup(added.ID)
				p.Rating = s.rating
				p.NormalisedRating = s.nrating
				p.MatchCount = s.played
				p.Active = s.active
			}
			assert.Equal(t, tt.want, names(r.ListRankOrder(tt.includeInactive)))
		})
	}
}

func TestListNameOrder(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(SortByRating, TieBreakInsertion)
	for _, n := range []string{"charlie", "Bob", "alice", "bob2"} {
		_, err := r.Register(n)
		require.NoError(t, err)
	}
	c, _ := r.FindByName("charlie")
	require.NoError(t, r.SetActive(c.ID, false))

	assert.Equal(t, []string{"alice", "Bob", "bob2"}, names(r.ListNameOrder(false)))
	assert.Equal(t, []string{"alice", "Bob", "bob2", "charlie"}, names(r.ListNameOrder(true)))
}

func TestClone(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(SortByRating, TieBreakInsertion)
	a, _ := r.Register("a")
	c := r.Clone()

	p, _ := c.Lookup(a.ID)
	p.Rating = 1
	_, err := c.Register("b")
	require.NoError(t, err)

	orig, _ := r.Get(a.ID)
	assert.Equal(t, 1600.0, orig.Rating)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 2, c.Len())
}

func TestAdd(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(SortByRating, TieBreakInsertion)
	require.NoError(t, r.Add(domain.Player{ID: 7, Name: "seven", Active: true}))
	err := r.Add(domain.Player{ID: 7, Name: "other"})
	assert.ErrorIs(t, err, domain.ErrDuplicateID)
	assert.NotErrorIs(t, err, domain.ErrInvalidName)
	assert.ErrorIs(t, r.Add(domain.Player{ID: 8, Name: "seven"}), domain.ErrDuplicateName)

	p, err := r.Register("next")
	require.NoError(t, err)
	assert.Equal(t, domain.PlayerID(8), p.ID)
}

func TestReserveIDs(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(SortByRating, TieBreakInsertion)
	require.NoError(t, r.Add(domain.Player{ID: 1, Name: "one", Active: true}))
	r.ReserveIDs(5)
	r.ReserveIDs(3)
	assert.Equal(t, domain.PlayerID(5), r.NextID())

	p, err := r.Register("five")
	require.NoError(t, err)
	assert.Equal(t, domain.PlayerID(5), p.ID)
}
