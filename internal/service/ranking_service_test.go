package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lshigami/examdesk/internal/apperr"
	"github.com/lshigami/examdesk/internal/model"
	"github.com/lshigami/examdesk/internal/repository"
	"github.com/lshigami/examdesk/internal/testutil"
)

// evaluatingAttempts completes another attempt right after the ranked attempts were read.
type evaluatingAttempts struct {
	repository.AttemptRepository
	during func()
}

func (r *evaluatingAttempts) FindCompletedByTest(ctx context.Context, testID uint) ([]model.TestAttempt, error) {
	attempts, err := r.AttemptRepository.FindCompletedByTest(ctx, testID)
	if r.during != nil {
		during := r.during
		r.during = nil
		during()
	}
	return attempts, err
}

func TestRank_EvaluationDuringReadIsNotCachedAsCurrent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	test := seedScenario(t, e.db, 0)
	testutil.SeedCompletedAttempt(t, e.db, test.ID, "asha", 5, 10)
	late := testutil.SeedAttempt(t, e.db, test.ID, "bilal", e.clock.Now())

	attempts := &evaluatingAttempts{AttemptRepository: e.attempts}
	attempts.during = func() {
		if _, err := e.eval.Evaluate(ctx, late.ID); err != nil {
			t.Errorf("Evaluate: %v", err)
		}
	}
	ranking := NewRankingService(e.tests, attempts, e.scores, e.cache)

	stale, err := ranking.Rank(ctx, test.ID)
	if err != nil || len(stale) != 1 {
		t.Fatalf("first Rank = %+v, %v", stale, err)
	}
	fresh, err := ranking.Rank(ctx, test.ID)
	if err != nil {
		t.Fatalf("second Rank: %v", err)
	}
	if len(fresh) != 2 {
		t.Fatalf("expected both completed attempts, got %+v", fresh)
	}
}

func TestRank_ScenarioE_StableTieBreak(t *testing.T) {
	e := newEnv(t)
	test := seedScenario(t, e.db, 0)
	first := testutil.SeedCompletedAttempt(t, e.db, test.ID, "asha", 5, 10)
	top := testutil.SeedCompletedAttempt(t, e.db, test.ID, "bilal", 8, 10)
	last := testutil.SeedCompletedAttempt(t, e.db, test.ID, "chen", 5, 10)
	testutil.SeedAttempt(t, e.db, test.ID, "dana", e.clock.Now()) // in progress, not ranked

	entries, err := e.ranking.Rank(context.Background(), test.ID)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	want := []struct {
		attemptID        uint
		score, pct, rank int
	}{
		{top.ID, 8, 80, 1},
		{first.ID, 5, 50, 2},
		{last.ID, 5, 50, 3},
	}
	for i, w := range want {
		got := entries[i]
		if got.AttemptID != w.attemptID || got.Score != w.score || got.Percentage != w.pct || got.Rank != w.rank {
			t.Fatalf("entry %d = %+v, want %+v", i, got, w)
		}
		if !got.Passed {
			t.Fatalf("entry %d should pass a 40%% threshold", i)
		}
	}
}

func TestRank_ServesFromCacheUntilInvalidated(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	test := seedScenario(t, e.db, 0)
	testutil.SeedCompletedAttempt(t, e.db, test.ID, "asha", 5, 10)

	if entries, err := e.ranking.Rank(ctx, test.ID); err != nil || len(entries) != 1 {
		t.Fatalf("first Rank: %v %v", entries, err)
	}
	testutil.SeedCompletedAttempt(t, e.db, test.ID, "bilal", 9, 10)

	cached, err := e.ranking.Rank(ctx, test.ID)
	if err != nil || len(cached) != 1 {
		t.Fatalf("expected cached single entry, got %v %v", cached, err)
	}

	_, _ = e.cache.Incr(ctx, rankingVersionKey(test.ID))
	fresh, err := e.ranking.Rank(ctx, test.ID)
	if err != nil || len(fresh) != 2 || fresh[0].StudentID != "bilal" {
		t.Fatalf("expected fresh rankings, got %+v %v", fresh, err)
	}
}

func TestRank_UnknownTest(t *testing.T) {
	e := newEnv(t)
	if _, err := e.ranking.Rank(context.Background(), 99); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
