package memory

import (
	"context"
	"sort"

	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/common"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/models"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/repositories/records"
)

// RecordRepository keeps one collection of owned records with a
// sequence-backed id generator.
type RecordRepository[R models.Record] struct {
	lockable
	prefix  string
	seq     int64
	rows    map[string]R
	sameKey func(a, b R) bool
	sortKey func(R) int64
}

func NewRecordRepository[R models.Record](prefix string, sameKey func(a, b R) bool, sortKey func(R) int64) *RecordRepository[R] {
	return &RecordRepository[R]{
		prefix:  prefix,
		rows:    make(map[string]R),
		sameKey: sameKey,
		sortKey: sortKey,
	}
}

func visible[R models.Record](rec R, ownerID string) bool {
	return ownerID == "" || rec.OwnerID() == ownerID
}

func (r *RecordRepository[R]) NextID(context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	return records.FormatID(r.prefix, r.seq), nil
}

func (r *RecordRepository[R]) Exists(_ context.Context, rec R) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.rows {
		if row.OwnerID() == rec.OwnerID() && r.sameKey(row, rec) {
			return true, nil
		}
	}
	return false, nil
}

func (r *RecordRepository[R]) Create(_ context.Context, rec R) (R, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero R
	if _, ok := r.rows[rec.RecordID()]; ok {
		return zero, common.ErrDuplicate
	}
	for _, row := range r.rows {
		if row.OwnerID() == rec.OwnerID() && r.sameKey(row, rec) {
			return zero, common.ErrDuplicate
		}
	}
	r.rows[rec.RecordID()] = rec
	return rec, nil
}

func (r *RecordRepository[R]) List(_ context.Context, ownerID string) ([]R, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]R, 0, len(r.rows))
	for _, row := range r.rows {
		if visible(row, ownerID) {
			result = append(result, row)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		ki, kj := r.sortKey(result[i]), r.sortKey(result[j])
		if ki != kj {
			return ki > kj
		}
		return result[i].RecordID() < result[j].RecordID()
	})
	return result, nil
}

func (r *RecordRepository[R]) Get(_ context.Context, id, ownerID string) (R, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[id]
	if !ok || !visible(row, ownerID) {
		var zero R
		return zero, common.ErrNotFound
	}
	return row, nil
}

func (r *RecordRepository[R]) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok || !visible(row, ownerID) {
		return common.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *RecordRepository[R]) DeleteByOwner(_ context.Context, ownerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, row := range r.rows {
		if row.OwnerID() == ownerID {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}

// CompactSequence rewinds the counter to the highest id still stored.
func (r *RecordRepository[R]) CompactSequence(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var highest int64
	for id := range r.rows {
		if n, err := records.ParseID(r.prefix, id); err == nil && n > highest {
			highest = n
		}
	}
	r.seq = highest
	return nil
}

func (r *RecordRepository[R]) Count(context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.rows)), nil
}
