package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrUnsupported = errors.New("unsupported record shape")

// legacyDateLayout is the date format of the first flat-file league files.
const legacyDateLayout = "2006-01-02 15-04-05"

var dateLayouts = []string{
	time.RFC3339Nano,
	legacyDateLayout,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// Decoder upgrades generic documents of any known shape into canonical records.
// Non-numeric player ids (document-database object ids) are mapped to fresh
// numeric ids, and match references are translated through the same map.
type Decoder struct {
	ids    map[string]int64
	nextID int64
	offset int64
	seq    int64
}

func NewDecoder() *Decoder {
	return &Decoder{ids: make(map[string]int64), nextID: 1}
}

// DecodeLeague reads an export document of the current or a legacy version.
func DecodeLeague(data []byte) (League, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return League{}, fmt.Errorf("decode league: %w", err)
	}
	league := League{Version: Version}
	if v, ok := raw["version"]; ok {
		n, ok := toInt(v)
		if !ok || n > Version {
			return League{}, fmt.Errorf("league version %v: %w", v, ErrUnsupported)
		}
	}
	if title, ok := raw["league_title"].(string); ok {
		league.Title = title
	}

	d := NewDecoder()
	players, err := d.Players(toMaps(raw["players"]))
	if err != nil {
		return League{}, err
	}
	matches, err := d.Matches(toMaps(raw["matches"]))
	if err != nil {
		return League{}, err
	}
	league.Players = players
	league.Matches = matches
	return league, nil
}

func toMaps(v any) []map[string]any {
	list, _ := v.([]any)
	res := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			res = append(res, m)
		}
	}
	return res
}

// Players decodes a batch. Numeric ids are kept, shifted up when the old
// numbering started below 1; other ids get numbers above the largest numeric one.
func (d *Decoder) Players(raws []map[string]any) ([]PlayerRecord, error) {
	for _, raw := range raws {
		if n, ok := toInt(playerKey(raw)); ok && 1-n > d.offset {
			d.offset = 1 - n
		}
	}
	for _, raw := range raws {
		if n, ok := toInt(playerKey(raw)); ok && n+d.offset >= d.nextID {
			d.nextID = n + d.offset + 1
		}
	}
	res := make([]PlayerRecord, 0, len(raws))
	for _, raw := range raws {
		p, err := d.Player(raw)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, nil
}

func playerKey(raw map[string]any) any {
	for _, key := range []string{"id", "player_id", "_id"} {
		if v, ok := raw[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func (d *Decoder) Player(raw map[string]any) (PlayerRecord, error) {
	key := playerKey(raw)
	if key == nil {
		return PlayerRecord{}, fmt.Errorf("player without id: %w", ErrUnsupported)
	}
	id, err := d.playerID(key, true)
	if err != nil {
		return PlayerRecord{}, err
	}

	p := PlayerRecord{
		ID:               id,
		Name:             playerName(raw),
		Active:           true,
		InitialRating:    float(raw["initial_rating"]),
		Rating:           float(raw["rating"]),
		NormalisedRating: float(raw["normalised_rating"]),
		Deviation:        float(raw["deviation"]),
		Volatility:       float(raw["volatility"]),
		MatchCount:       integer(raw["match_count"]),
		Wins:             integer(raw["wins"]),
		Losses:           integer(raw["losses"]),
		Draws:            integer(raw["draws"]),
		Percent:          float(raw["percent"]),
	}
	if active, ok := raw["active"].(bool); ok {
		p.Active = active
	}
	if v, ok := raw["registered_at"]; ok {
		if p.RegisteredAt, err = parseDate(v); err != nil {
			return PlayerRecord{}, fmt.Errorf("player %d: %w", id, err)
		}
	}
	return p, nil
}

func playerName(raw map[string]any) string {
	if name, ok := raw["name"].(string); ok {
		return name
	}
	first, _ := raw["first_name"].(string)
	last, _ := raw["last_name"].(string)
	return strings.TrimSpace(first + " " + last)
}

func (d *Decoder) playerID(v any, create bool) (int64, error) {
	if n, ok := toInt(v); ok {
		return n + d.offset, nil
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return 0, fmt.Errorf("player id %v: %w", v, ErrUnsupported)
	}
	if id, ok := d.ids[s]; ok {
		return id, nil
	}
	if !create {
		return 0, fmt.Errorf("player id %q is not in the player list: %w", s, ErrUnsupported)
	}
	id := d.nextID
	d.nextID++
	d.ids[s] = id
	return id, nil
}

// Matches decodes a batch in stored order. Records without a sequence are
// numbered by their position.
func (d *Decoder) Matches(raws []map[string]any) ([]MatchRecord, error) {
	for _, raw := range raws {
		if n, ok := toInt(raw["seq"]); ok && n > d.seq {
			d.seq = n
		}
	}
	res := make([]MatchRecord, 0, len(raws))
	for _, raw := range raws {
		m, err := d.Match(raw)
		if err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, nil
}

func (d *Decoder) Match(raw map[string]any) (MatchRecord, error) {
	var m MatchRecord
	var err error
	switch {
	case raw["winner_id"] != nil || raw["loser_id"] != nil:
		m.Result, err = d.entries([]any{raw["winner_id"], raw["loser_id"]})
	case raw["result_array"] != nil:
		m.Result, err = d.entries(raw["result_array"])
	case raw["result"] != nil:
		m.Result, err = d.entries(raw["result"])
	default:
		err = fmt.Errorf("match without result: %w", ErrUnsupported)
	}
	if err != nil {
		return MatchRecord{}, err
	}

	m.ID = matchID(raw)
	m.Draw, _ = raw["draw"].(bool)
	if n, ok := toInt(raw["seq"]); ok && n > 0 {
		m.Seq = n
	} else {
		d.seq++
		m.Seq = d.seq
	}
	if v, ok := raw["date"]; ok && v != nil {
		if m.Date, err = parseDate(v); err != nil {
			return MatchRecord{}, fmt.Errorf("match %s: %w", m.ID, err)
		}
	}
	m.WinnerRating = optionalFloat(raw["winner_rating"])
	m.LoserRating = optionalFloat(raw["loser_rating"])
	m.Probability = optionalFloat(raw["probability"])
	return m, nil
}

// entries accepts a list whose items are either a player id or a list of ids.
func (d *Decoder) entries(v any) ([][]int64, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("match result %T: %w", v, ErrUnsupported)
	}
	res := make([][]int64, 0, len(list))
	for _, item := range list {
		ids, isTeam := item.([]any)
		if !isTeam {
			ids = []any{item}
		}
		entry := make([]int64, 0, len(ids))
		for _, pid := range ids {
			id, err := d.playerID(pid, false)
			if err != nil {
				return nil, err
			}
			entry = append(entry, id)
		}
		res = append(res, entry)
	}
	return res, nil
}

func matchID(raw map[string]any) string {
	for _, key := range []string{"id", "_id"} {
		if s, ok := raw[key].(string); ok {
			if id, err := uuid.Parse(s); err == nil {
				return id.String()
			}
		}
	}
	return uuid.NewString()
}

func parseDate(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, t); err == nil {
				return d, nil
			}
		}
		return time.Time{}, fmt.Errorf("date %q: %w", t, ErrUnsupported)
	default:
		if n, ok := toInt(v); ok {
			return time.Unix(n, 0).UTC(), nil
		}
		return time.Time{}, fmt.Errorf("date %v: %w", v, ErrUnsupported)
	}
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

func float(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	default:
		return 0
	}
}

func integer(v any) int {
	n, _ := toInt(v)
	return int(n)
}

func optionalFloat(v any) *float64 {
	if v == nil {
		return nil
	}
	f := float(v)
	return &f
}
