package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/lshigami/examdesk/internal/cache"
	"github.com/lshigami/examdesk/internal/repository"
	"github.com/rs/zerolog/log"
)

const rankingCacheTTL = 10 * time.Minute

// rankingVersionKey holds a per-test counter that evaluation bumps after each commit.
func rankingVersionKey(testID uint) string {
	return fmt.Sprintf("rankings:test:%d:version", testID)
}

// rankingCacheKey names one generation of a test's rankings. A list computed while an
// evaluation commits is stored under the old generation and never read again.
func rankingCacheKey(testID uint, version int64) string {
	return fmt.Sprintf("rankings:test:%d:v%d", testID, version)
}

type RankEntry struct {
	Rank          int        `json:"rank"`
	AttemptID     uint       `json:"attempt_id"`
	StudentID     string     `json:"student_id"`
	Score         int        `json:"score"`
	TotalPossible int        `json:"total_possible"`
	Percentage    int        `json:"percentage"`
	Passed        bool       `json:"passed"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

type RankingService interface {
	// Rank orders completed attempts by score, highest first. Equal scores keep attempt id order.
	Rank(ctx context.Context, testID uint) ([]RankEntry, error)
}

type rankingService struct {
	testRepo       repository.TestRepository
	attemptRepo    repository.AttemptRepository
	scoreConverter ScoreConverterService
	cache          cache.Store
}

func NewRankingService(
	testRepo repository.TestRepository,
	attemptRepo repository.AttemptRepository,
	scoreConverter ScoreConverterService,
	store cache.Store,
) RankingService {
	return &rankingService{testRepo: testRepo, attemptRepo: attemptRepo, scoreConverter: scoreConverter, cache: store}
}

func (s *rankingService) Rank(ctx context.Context, testID uint) ([]RankEntry, error) {
	const op = "RankAttempts"

	// the generation is read before the attempts so a concurrent evaluation moves past it
	version, cacheable := s.version(ctx, testID)
	key := rankingCacheKey(testID, version)

	if cacheable {
		if raw, err := s.cache.Get(ctx, key); err == nil {
			var cached []RankEntry
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
			log.Warn().Str("key", key).Msg("Discarding unreadable ranking cache entry")
		} else if !errors.Is(err, cache.ErrMiss) {
			log.Warn().Err(err).Str("key", key).Msg("Ranking cache read failed")
		}
	}

	test, err := s.testRepo.FindByID(ctx, testID)
	if err != nil {
		return nil, lookupErr(op, "test", testID, err)
	}
	attempts, err := s.attemptRepo.FindCompletedByTest(ctx, testID)
	if err != nil {
		log.Error().Err(err).Uint("testID", testID).Msg("Failed to fetch completed attempts")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sort.SliceStable(attempts, func(i, j int) bool {
		return attempts[i].Score > attempts[j].Score
	})

	entries := make([]RankEntry, len(attempts))
	for i, a := range attempts {
		summary := s.scoreConverter.Summarize(a.Score, a.TotalPossible, test.PassingPercentage)
		entries[i] = RankEntry{
			Rank:          i + 1,
			AttemptID:     a.ID,
			StudentID:     a.StudentID,
			Score:         a.Score,
			TotalPossible: a.TotalPossible,
			Percentage:    summary.Percentage,
			Passed:        summary.Passed,
			CompletedAt:   a.EndTime,
		}
	}

	if !cacheable {
		return entries, nil
	}
	if raw, err := json.Marshal(entries); err == nil {
		if err := s.cache.Set(ctx, key, raw, rankingCacheTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to cache rankings")
		}
	}
	return entries, nil
}

// version returns the current rankings generation of a test. When it cannot be read the
// rankings are neither served from nor written to the cache.
func (s *rankingService) version(ctx context.Context, testID uint) (int64, bool) {
	raw, err := s.cache.Get(ctx, rankingVersionKey(testID))
	if errors.Is(err, cache.ErrMiss) {
		return 0, true
	}
	if err != nil {
		log.Warn().Err(err).Uint("testID", testID).Msg("Ranking version read failed, bypassing cache")
		return 0, false
	}
	v, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		log.Warn().Str("raw", string(raw)).Uint("testID", testID).Msg("Unreadable ranking version, bypassing cache")
		return 0, false
	}
	return v, true
}
