package metadata

import (
	"errors"
	"fmt"
	"iter"
)

// ErrEmptyStore is returned when a store is created from no records.
var ErrEmptyStore = errors.New("no records")

// Store is an immutable, ordered sequence of records with O(1) lookup by id.
//
// Records are shared with callers by pointer and must not be modified after
// the store is built.
type Store struct {
	records []Record
	byID    map[RecordID]int
}

// NewStore indexes records. The slice is retained, not copied.
func NewStore(records []Record) (*Store, error) {
	if len(records) == 0 {
		return nil, ErrEmptyStore
	}
	byID := make(map[RecordID]int, len(records))
	for row := range records {
		id := records[row].ID
		if _, dup := byID[id]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, id)
		}
		byID[id] = row
	}
	return &Store{records: records, byID: byID}, nil
}

// Len returns the record count.
func (s *Store) Len() int { return len(s.records) }

// At returns the record at row.
func (s *Store) At(row int) *Record { return &s.records[row] }

// Row returns the row of the record with the given id.
func (s *Store) Row(id RecordID) (int, bool) {
	row, ok := s.byID[id]
	return row, ok
}

// ByID returns the record with the given id.
func (s *Store) ByID(id RecordID) (*Record, bool) {
	row, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return &s.records[row], true
}

// Records returns the underlying records in dataset order.
func (s *Store) Records() []Record { return s.records }

// All iterates rows and records in dataset order.
func (s *Store) All() iter.Seq2[int, *Record] {
	return func(yield func(int, *Record) bool) {
		for row := range s.records {
			if !yield(row, &s.records[row]) {
				return
			}
		}
	}
}
