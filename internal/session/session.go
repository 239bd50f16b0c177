package session

import (
	"sync"
	"time"

	"github.com/facebookgo/clock"
)

// Session is the live, in-memory side of one attempt: its answer store, its countdown and
// its auto-save loop. Callers serialize flush and submit through Lock/Unlock so one attempt
// never runs two of them at once.
type Session struct {
	AttemptID uint
	TestID    uint
	StudentID string
	Store     *AnswerStore
	Timer     *Countdown

	mu        sync.Mutex
	questions map[uint]struct{}

	stateMu   sync.Mutex
	closed    bool
	stopSave  chan struct{}
	saveTimer *clock.Ticker
}

func New(attemptID, testID uint, studentID string, questionIDs []uint, timer *Countdown) *Session {
	questions := make(map[uint]struct{}, len(questionIDs))
	for _, id := range questionIDs {
		questions[id] = struct{}{}
	}
	return &Session{
		AttemptID: attemptID,
		TestID:    testID,
		StudentID: studentID,
		Store:     NewAnswerStore(questionIDs),
		Timer:     timer,
		questions: questions,
	}
}

func (s *Session) Lock() { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

func (s *Session) HasQuestion(questionID uint) bool {
	_, ok := s.questions[questionID]
	return ok
}

// StartAutosave calls save every interval until Close. Calling it twice has no effect.
func (s *Session) StartAutosave(clk clock.Clock, every time.Duration, save func()) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if s.closed || s.saveTimer != nil {
		return
	}
	s.saveTimer = clk.Ticker(every)
	s.stopSave = make(chan struct{})
	go func(t *clock.Ticker, stop chan struct{}) {
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				save()
			}
		}
	}(s.saveTimer, s.stopSave)
}

// Close stops the countdown and the auto-save loop. It reports whether this call closed the
// session.
func (s *Session) Close() bool {
	s.stateMu.Lock()
	if s.closed {
		s.stateMu.Unlock()
		return false
	}
	s.closed = true
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		close(s.stopSave)
		s.saveTimer = nil
	}
	s.stateMu.Unlock()

	if s.Timer != nil {
		s.Timer.Stop()
	}
	return true
}

func (s *Session) Closed() bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.closed
}
