package service

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/lshigami/examdesk/config"
	"github.com/lshigami/examdesk/internal/cache"
	"github.com/lshigami/examdesk/internal/model"
	"github.com/lshigami/examdesk/internal/notify"
	"github.com/lshigami/examdesk/internal/repository"
	"github.com/lshigami/examdesk/internal/testutil"
	"gorm.io/gorm"
)

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache { return &memoryCache{data: map[string][]byte{}} }

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return v, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memoryCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := strconv.ParseInt(string(c.data[key]), 10, 64)
	n++
	c.data[key] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

type recordingNotifier struct {
	events chan notify.Event
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{events: make(chan notify.Event, 256)}
}

func (r *recordingNotifier) Notify(_ context.Context, ev notify.Event) {
	r.events <- ev
}

// next returns the next event with the given outcome, skipping others.
func (r *recordingNotifier) next(t *testing.T, outcome notify.Outcome) notify.Event {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev := <-r.events:
			if ev.Outcome == outcome {
				return ev
			}
		case <-timeout:
			t.Fatalf("no %s notification", outcome)
		}
	}
}

// poll waits briefly for an event with the given outcome, dropping others.
func (r *recordingNotifier) poll(outcome notify.Outcome, wait time.Duration) (notify.Event, bool) {
	timeout := time.After(wait)
	for {
		select {
		case ev := <-r.events:
			if ev.Outcome == outcome {
				return ev, true
			}
		case <-timeout:
			return notify.Event{}, false
		}
	}
}

// flakyAnswers fails writes for selected questions.
type flakyAnswers struct {
	repository.AnswerRepository
	mu      sync.Mutex
	failFor map[uint]bool
}

func (f *flakyAnswers) Upsert(ctx context.Context, answer *model.Answer) error {
	f.mu.Lock()
	fail := f.failFor[answer.QuestionID]
	f.mu.Unlock()
	if fail {
		return errConnectionReset
	}
	return f.AnswerRepository.Upsert(ctx, answer)
}

func (f *flakyAnswers) heal() {
	f.mu.Lock()
	f.failFor = nil
	f.mu.Unlock()
}

type testErr string

func (e testErr) Error() string { return string(e) }

const errConnectionReset = testErr("connection reset by peer")

type env struct {
	db       *gorm.DB
	clock    *clock.Mock
	cache    *memoryCache
	notes    *recordingNotifier
	cfg      *config.Config
	answers  *flakyAnswers
	attempts repository.AttemptRepository
	tests    repository.TestRepository

	scores   ScoreConverterService
	loader   AttemptLoaderService
	syncer   AnswerSyncService
	eval     EvaluationService
	ranking  RankingService
	attemptS AttemptService
	sessions SessionManager
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.DB(t)
	mock := clock.NewMock()
	mock.Add(epoch.Sub(mock.Now()))

	cfg := &config.Config{Session: config.Session{AutosaveInterval: 30 * time.Second, SyncBatchSize: 5}}
	e := &env{
		db:       db,
		clock:    mock,
		cache:    newMemoryCache(),
		notes:    newRecordingNotifier(),
		cfg:      cfg,
		answers:  &flakyAnswers{AnswerRepository: repository.NewAnswerRepository(db)},
		attempts: repository.NewAttemptRepository(db),
		tests:    repository.NewTestRepository(db),
	}
	questions := repository.NewQuestionRepository(db)

	e.scores = NewScoreConverterService()
	e.loader = NewAttemptLoaderService(e.tests, questions, e.attempts, e.answers, mock)
	e.syncer = NewAnswerSyncService(e.attempts, e.answers, mock, cfg)
	e.eval = NewEvaluationService(db, e.tests, questions, e.attempts, e.answers, e.scores, e.cache, mock)
	e.ranking = NewRankingService(e.tests, e.attempts, e.scores, e.cache)
	e.attemptS = NewAttemptService(e.tests, e.attempts, e.answers, e.scores, mock)
	e.sessions = NewSessionManager(e.loader, e.syncer, e.eval, e.attempts, e.notes, mock, cfg)
	t.Cleanup(func() { _ = e.sessions.Shutdown(context.Background()) })
	return e
}

func (e *env) attempt(t *testing.T, id uint) *model.TestAttempt {
	t.Helper()
	a, err := e.attempts.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("load attempt %d: %v", id, err)
	}
	return a
}

func (e *env) storedAnswers(t *testing.T, attemptID uint) map[uint]model.Answer {
	t.Helper()
	rows, err := e.answers.FindByAttempt(context.Background(), attemptID)
	if err != nil {
		t.Fatalf("load answers: %v", err)
	}
	out := make(map[uint]model.Answer, len(rows))
	for _, r := range rows {
		out[r.QuestionID] = r
	}
	return out
}

// seedScenario creates the two-question test used throughout: an MC question worth 3 marks
// keyed "B" and a true/false question worth 2 marks keyed "true".
func seedScenario(t *testing.T, db *gorm.DB, negativePercent float64) *model.Test {
	t.Helper()
	return testutil.SeedTest(t, db, "Kinematics", 30, negativePercent,
		testutil.MC(3, "B", "A", "B", "C", "D"),
		testutil.TF(2, "true"),
	)
}
