package table

import (
	"context"
	"sort"
	"sync"
)

// InMemoryTable is a map backed Table used for development mode and unit
// tests.  Scans walk a snapshot in id order so iteration is deterministic.
type InMemoryTable struct {
	lock sync.RWMutex
	rows map[Key]Row
}

func NewInMemoryTable() *InMemoryTable {
	return &InMemoryTable{
		rows: make(map[Key]Row),
	}
}

func (mt *InMemoryTable) Upsert(ctx context.Context, row Row) error {
	mt.lock.Lock()
	defer mt.lock.Unlock()

	mt.rows[row.Key()] = row
	return nil
}

func (mt *InMemoryTable) Insert(ctx context.Context, row Row) error {
	mt.lock.Lock()
	defer mt.lock.Unlock()

	if _, exists := mt.rows[row.Key()]; exists {
		return ErrRowExists
	}

	mt.rows[row.Key()] = row
	return nil
}

func (mt *InMemoryTable) Read(ctx context.Context, key Key) (Row, bool, error) {
	mt.lock.RLock()
	defer mt.lock.RUnlock()

	row, found := mt.rows[key]
	return row, found, nil
}

func (mt *InMemoryTable) Delete(ctx context.Context, key Key) error {
	mt.lock.Lock()
	defer mt.lock.Unlock()

	delete(mt.rows, key)
	return nil
}

func (mt *InMemoryTable) Scan(ctx context.Context, namespace string) (Iterator, error) {
	mt.lock.RLock()
	defer mt.lock.RUnlock()

	var matches []Row
	for key, row := range mt.rows {
		if key.Namespace == namespace {
			matches = append(matches, row)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].ID < matches[j].ID
	})

	return &sliceIterator{remaining: matches}, nil
}

type sliceIterator struct {
	remaining []Row
	current   Row
}

func (it *sliceIterator) Next() bool {
	if len(it.remaining) == 0 {
		return false
	}
	it.current = it.remaining[0]
	it.remaining = it.remaining[1:]
	return true
}

func (it *sliceIterator) Row() Row {
	return it.current
}

func (it *sliceIterator) Err() error {
	return nil
}

func (it *sliceIterator) Close() error {
	return nil
}
