// Package session holds the in-memory state of one live attempt: the answers being edited and
// the countdown towards the attempt's deadline.
package session

import (
	"sync"
)

// Entry is one question's answer; a nil Value means unanswered.
type Entry struct {
	QuestionID uint
	Value      *string
}

// AnswerStore tracks the current answer per question and which answers changed since they
// were last persisted.
type AnswerStore struct {
	mu     sync.Mutex
	order  []uint
	values map[uint]*string
	dirty  map[uint]struct{}
	edited map[uint]struct{}
}

func NewAnswerStore(questionIDs []uint) *AnswerStore {
	s := &AnswerStore{
		order:  make([]uint, 0, len(questionIDs)),
		values: make(map[uint]*string, len(questionIDs)),
		dirty:  make(map[uint]struct{}),
		edited: make(map[uint]struct{}),
	}
	for _, id := range questionIDs {
		if _, ok := s.values[id]; ok {
			continue
		}
		s.order = append(s.order, id)
		s.values[id] = nil
	}
	return s
}

func (s *AnswerStore) Get(questionID uint) *string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.values[questionID])
}

// Set records a local edit. A nil value erases the answer but keeps the entry.
func (s *AnswerStore) Set(questionID uint, value *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[questionID]; !ok {
		s.order = append(s.order, questionID)
	}
	s.values[questionID] = clone(value)
	s.dirty[questionID] = struct{}{}
	s.edited[questionID] = struct{}{}
}

// Merge applies values loaded from storage. Entries edited locally during this session keep
// their local value.
func (s *AnswerStore) Merge(loaded []Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range loaded {
		if _, ok := s.edited[e.QuestionID]; ok {
			continue
		}
		if _, ok := s.values[e.QuestionID]; !ok {
			s.order = append(s.order, e.QuestionID)
		}
		s.values[e.QuestionID] = clone(e.Value)
	}
}

// ListDirty returns the changed entries in question order.
func (s *AnswerStore) ListDirty() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, 0, len(s.dirty))
	for _, id := range s.order {
		if _, ok := s.dirty[id]; ok {
			out = append(out, Entry{QuestionID: id, Value: clone(s.values[id])})
		}
	}
	return out
}

func (s *AnswerStore) ClearDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = make(map[uint]struct{})
}

// ClearDirtyFor clears the dirty mark of entries that still hold the value that was saved.
// An entry edited again while it was being saved stays dirty.
func (s *AnswerStore) ClearDirtyFor(saved []Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range saved {
		if equal(s.values[e.QuestionID], e.Value) {
			delete(s.dirty, e.QuestionID)
		}
	}
}

func (s *AnswerStore) DirtyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.dirty)
}

func (s *AnswerStore) IsDirty(questionID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.dirty[questionID]
	return ok
}

// Snapshot returns every entry in question order.
func (s *AnswerStore) Snapshot() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, Entry{QuestionID: id, Value: clone(s.values[id])})
	}
	return out
}

func clone(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func equal(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
