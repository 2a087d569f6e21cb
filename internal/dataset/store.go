// ABOUTME: DatasetStore is the in-memory, ordered collection of QA records
// ABOUTME: Keyed by monotonically assigned ids; O(1) mutation and delete without reordering
package dataset

import (
	"container/list"
	"sync"

	"github.com/NeoVand/synthgen-sub000/internal/models"
)

// Store holds QA records in insertion order. Ids are assigned
// monotonically and never reused within a session, even across
// deletions. The order list plus the id index give O(1) lookup,
// update, and delete while keeping insertion order user-visible.
type Store struct {
	mu     sync.RWMutex
	order  *list.List // of *models.QARecord
	index  map[int]*list.Element
	nextID int
}

// NewStore creates an empty dataset store
func NewStore() *Store {
	return &Store{
		order:  list.New(),
		index:  make(map[int]*list.Element),
		nextID: 1,
	}
}

// CreateFrom replaces the collection with one record per chunk,
// assigning ids 1..n in chunk order.
func (s *Store) CreateFrom(chunks []string) []models.QARecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order.Init()
	s.index = make(map[int]*list.Element, len(chunks))
	s.nextID = 1
	return s.appendLocked(chunks)
}

// AppendFrom keeps the existing collection and appends one record per
// chunk, continuing id assignment past every id ever handed out.
func (s *Store) AppendFrom(chunks []string) []models.QARecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(chunks)
}

func (s *Store) appendLocked(chunks []string) []models.QARecord {
	created := make([]models.QARecord, 0, len(chunks))
	for _, chunk := range chunks {
		record := &models.QARecord{
			ID:      s.nextID,
			Context: chunk,
		}
		s.nextID++
		s.index[record.ID] = s.order.PushBack(record)
		created = append(created, *record)
	}
	return created
}

// Len returns the number of records
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.order.Len()
}

// Records returns a snapshot of all records in insertion order
func (s *Store) Records() []models.QARecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]models.QARecord, 0, s.order.Len())
	for e := s.order.Front(); e != nil; e = e.Next() {
		records = append(records, *e.Value.(*models.QARecord))
	}
	return records
}

// Selected returns a snapshot of the selected records in insertion order
func (s *Store) Selected() []models.QARecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []models.QARecord
	for e := s.order.Front(); e != nil; e = e.Next() {
		if r := e.Value.(*models.QARecord); r.Selected {
			records = append(records, *r)
		}
	}
	return records
}

// Get returns a copy of the record with the given id
func (s *Store) Get(id int) (models.QARecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.index[id]
	if !ok {
		return models.QARecord{}, false
	}
	return *e.Value.(*models.QARecord), true
}

// Delete removes one record by id, leaving the order of the rest intact
func (s *Store) Delete(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.index[id]
	if !ok {
		return false
	}
	s.order.Remove(e)
	delete(s.index, id)
	return true
}

// UpdateField replaces a generated text field on one record
func (s *Store) UpdateField(id int, field models.Field, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.recordLocked(id)
	if !ok {
		return false
	}
	switch field {
	case models.FieldQuestion:
		record.Question = value
	case models.FieldAnswer:
		record.Answer = value
	default:
		return false
	}
	return true
}

// AppendField appends a streamed fragment to a generated text field.
// The mutation reads the latest stored state, so interleaved updates
// never lose fragments.
func (s *Store) AppendField(id int, field models.Field, fragment string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.recordLocked(id)
	if !ok {
		return false
	}
	switch field {
	case models.FieldQuestion:
		record.Question += fragment
	case models.FieldAnswer:
		record.Answer += fragment
	default:
		return false
	}
	return true
}

// SetGenerating updates the in-flight generation flags on one record
func (s *Store) SetGenerating(id int, question, answer bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.recordLocked(id)
	if !ok {
		return false
	}
	record.GeneratingQuestion = question
	record.GeneratingAnswer = answer
	return true
}

// SetSelected marks or unmarks one record for targeted generation
func (s *Store) SetSelected(id int, selected bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.recordLocked(id)
	if !ok {
		return false
	}
	record.Selected = selected
	return true
}

// HasSelection reports whether any record is currently selected
func (s *Store) HasSelection() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for e := s.order.Front(); e != nil; e = e.Next() {
		if e.Value.(*models.QARecord).Selected {
			return true
		}
	}
	return false
}

func (s *Store) recordLocked(id int) (*models.QARecord, bool) {
	e, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return e.Value.(*models.QARecord), true
}
