package web

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goserg/leaguerank/internal/domain"
)

func Test_createMatch_Validate(t *testing.T) {
	tests := []struct {
		name    string
		match   createMatch
		wantErr error
	}{
		{
			name:  "two players",
			match: createMatch{Result: [][]int64{{1}, {2}}},
		},
		{
			name:  "draw of three",
			match: createMatch{Result: [][]int64{{1}, {2}, {3}}, Draw: true},
		},
		{
			name:  "teams",
			match: createMatch{Result: [][]int64{{1, 2}, {3, 4}}},
		},
		{
			name:    "single entry",
			match:   createMatch{Result: [][]int64{{1}}},
			wantErr: ErrFewEntries,
		},
		{
			name:    "missing result",
			match:   createMatch{},
			wantErr: ErrFewEntries,
		},
		{
			name:    "empty entry",
			match:   createMatch{Result: [][]int64{{1}, {}}},
			wantErr: ErrEmptyEntry,
		},
		{
			name:    "zero id",
			match:   createMatch{Result: [][]int64{{0}, {2}}},
			wantErr: ErrBadPlayerID,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.match.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrBadRequest)
		})
	}
}

func Test_createMatch_convertToDomainResult(t *testing.T) {
	t.Parallel()
	c := createMatch{Result: [][]int64{{3}, {1, 2}}}
	assert.Equal(t, []domain.Entry{{3}, {1, 2}}, c.convertToDomainResult())
	assert.True(t, c.date().IsZero())
}

func Test_createPlayer_Validate(t *testing.T) {
	t.Parallel()
	assert.NoError(t, createPlayer{Name: "Ann"}.Validate())
	assert.ErrorIs(t, createPlayer{Name: "  "}.Validate(), ErrMissingName)

	err := createPlayer{Rating: -1}.Validate()
	assert.ErrorIs(t, err, ErrMissingName)
	assert.ErrorIs(t, err, ErrNegativeRating)
	assert.Len(t, unwrap(err), 2)
}

func Test_updatePlayer_Validate(t *testing.T) {
	t.Parallel()
	name, blank, active := "Ann", " ", false
	assert.NoError(t, updatePlayer{Name: &name}.Validate())
	assert.NoError(t, updatePlayer{Active: &active}.Validate())
	assert.ErrorIs(t, updatePlayer{}.Validate(), ErrNothingToPatch)
	assert.ErrorIs(t, updatePlayer{Name: &blank}.Validate(), ErrMissingName)
}

func Test_parseIDs(t *testing.T) {
	t.Parallel()
	ids, err := parseIDs("1, 2,3")
	assert.NoError(t, err)
	assert.Equal(t, []domain.PlayerID{1, 2, 3}, ids)

	ids, err = parseIDs("")
	assert.NoError(t, err)
	assert.Nil(t, ids)

	_, err = parseIDs("1,x,-2")
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.Len(t, unwrap(err), 2)
}
