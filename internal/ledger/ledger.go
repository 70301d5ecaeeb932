package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/goserg/leaguerank/internal/domain"
)

type Order string

const (
	OrderChronological Order = "chronological"
	OrderInsertion     Order = "insertion"
)

// Ledger is the insertion-ordered record of matches. Records are never
// edited, only appended, removed or refreshed by replay.
type Ledger struct {
	order   Order
	matches []domain.Match
	nextSeq int64
}

func New(order Order) *Ledger {
	if order == "" {
		order = OrderChronological
	}
	return &Ledger{order: order, nextSeq: 1}
}

func (l *Ledger) Order() Order {
	return l.order
}

// Append stores the match, assigning an id and sequence if it has none.
func (l *Ledger) Append(m domain.Match) domain.Match {
	m = m.Clone()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Seq == 0 {
		m.Seq = l.nextSeq
	}
	if m.Seq >= l.nextSeq {
		l.nextSeq = m.Seq + 1
	}
	l.matches = append(l.matches, m)
	return m.Clone()
}

func (l *Ledger) index(id uuid.UUID) int {
	for i := range l.matches {
		if l.matches[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) Get(id uuid.UUID) (domain.Match, error) {
	i := l.index(id)
	if i < 0 {
		return domain.Match{}, fmt.Errorf("match %s: %w", id, domain.ErrNotFound)
	}
	return l.matches[i].Clone(), nil
}

func (l *Ledger) Delete(id uuid.UUID) (domain.Match, error) {
	i := l.index(id)
	if i < 0 {
		return domain.Match{}, fmt.Errorf("match %s: %w", id, domain.ErrNotFound)
	}
	m := l.matches[i]
	l.matches = append(l.matches[:i], l.matches[i+1:]...)
	return m, nil
}

// RemoveByPlayer deletes every match the player took part in.
func (l *Ledger) RemoveByPlayer(id domain.PlayerID) []domain.Match {
	var removed []domain.Match
	kept := l.matches[:0]
	for _, m := range l.matches {
		if m.Involves(id) {
			removed = append(removed, m)
			continue
		}
		kept = append(kept, m)
	}
	l.matches = kept
	return removed
}

// Update replaces the cached audit fields of a stored match.
func (l *Ledger) Update(m domain.Match) error {
	i := l.index(m.ID)
	if i < 0 {
		return fmt.Errorf("match %s: %w", m.ID, domain.ErrNotFound)
	}
	l.matches[i] = m.Clone()
	return nil
}

func (l *Ledger) Len() int {
	return len(l.matches)
}

// List returns copies in insertion order.
func (l *Ledger) List() []domain.Match {
	res := make([]domain.Match, 0, len(l.matches))
	for _, m := range l.matches {
		res = append(res, m.Clone())
	}
	return res
}

// Replay returns copies in the order matches are applied to ratings.
// Chronological order breaks date ties by insertion sequence.
func (l *Ledger) Replay() []domain.Match {
	res := l.List()
	sort.SliceStable(res, func(i, j int) bool {
		if l.order == OrderChronological && !res[i].Date.Equal(res[j].Date) {
			return res[i].Date.Before(res[j].Date)
		}
		return res[i].Seq < res[j].Seq
	})
	return res
}

// Latest is the newest match date, zero for an empty ledger.
func (l *Ledger) Latest() time.Time {
	var latest time.Time
	for _, m := range l.matches {
		if m.Date.After(latest) {
			latest = m.Date
		}
	}
	return latest
}

// InOrder reports whether m would be replayed after every stored match,
// so it can be applied without a full replay.
func (l *Ledger) InOrder(m domain.Match) bool {
	if l.order == OrderInsertion {
		return true
	}
	return !m.Date.Before(l.Latest())
}

func (l *Ledger) Clone() *Ledger {
	return &Ledger{
		order:   l.order,
		matches: l.List(),
		nextSeq: l.nextSeq,
	}
}
