// Package records holds the in-memory ordered record list for one identity,
// with position bookkeeping for an in-progress edit.
package records

import (
	"github.com/railcrew/worklog/internal/common"
	"github.com/railcrew/worklog/internal/models"
)

// noEdit marks the cursor as cleared.
const noEdit = -1

// Store is the ordered record list, newest first. Exactly one Store is
// resident per active session; an admin's target swap replaces it wholesale.
type Store struct {
	records []models.WorkRecord
	cursor  int
}

// New builds a Store over a loaded record list. The input slice is copied.
func New(recs []models.WorkRecord) *Store {
	s := &Store{cursor: noEdit}
	s.records = append(s.records, recs...)
	return s
}

// Len returns the number of resident records.
func (s *Store) Len() int {
	return len(s.records)
}

// Records returns a copy of the resident list in order.
func (s *Store) Records() []models.WorkRecord {
	out := make([]models.WorkRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Editing returns the active edit cursor, if any.
func (s *Store) Editing() (int, bool) {
	if s.cursor == noEdit {
		return 0, false
	}
	return s.cursor, true
}

// Add prepends a record. Adding while an edit is in progress is illegal;
// a caller saving an edited record must use Replace.
func (s *Store) Add(r models.WorkRecord) error {
	if s.cursor != noEdit {
		return common.ErrEditInProgress
	}
	s.records = append([]models.WorkRecord{r}, s.records...)
	return nil
}

// Replace overwrites the record at index in place, preserving order, and
// clears the edit cursor on success.
func (s *Store) Replace(index int, r models.WorkRecord) error {
	if index < 0 || index >= len(s.records) {
		return common.ErrIndexOutOfBounds
	}
	s.records[index] = r
	s.cursor = noEdit
	return nil
}

// BeginEdit sets the edit cursor and returns the record so the caller can
// pre-populate input fields.
func (s *Store) BeginEdit(index int) (models.WorkRecord, error) {
	if index < 0 || index >= len(s.records) {
		return models.WorkRecord{}, common.ErrIndexOutOfBounds
	}
	s.cursor = index
	return s.records[index], nil
}

// CancelEdit clears the edit cursor unconditionally. Idempotent.
func (s *Store) CancelEdit() {
	s.cursor = noEdit
}

// Delete removes the record at index.
//
// Cursor bookkeeping: deleting the record under edit clears the cursor;
// deleting a record below it shifts the cursor down by one so it keeps
// pointing at the same logical record; deleting above it leaves it alone.
func (s *Store) Delete(index int) error {
	if index < 0 || index >= len(s.records) {
		return common.ErrIndexOutOfBounds
	}
	switch {
	case index == s.cursor:
		s.cursor = noEdit
	case s.cursor != noEdit && index < s.cursor:
		s.cursor--
	}
	s.records = append(s.records[:index], s.records[index+1:]...)
	return nil
}

// Clear removes every record and any active edit cursor.
func (s *Store) Clear() {
	s.records = s.records[:0]
	s.cursor = noEdit
}

// Total sums duration hours over all records. Recomputed on demand, never
// cached.
func (s *Store) Total() float64 {
	var total float64
	for _, r := range s.records {
		total += r.Duration
	}
	return total
}
