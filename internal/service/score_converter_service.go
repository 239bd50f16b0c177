package service

import (
	"math"
)

// ScoreSummary is the presentation side of a sealed score.
type ScoreSummary struct {
	Score         int
	TotalPossible int
	Percentage    int
	Passed        bool
}

type ScoreConverterService interface {
	// Percentage is round(score / total * 100), or 0 when the test carries no marks.
	Percentage(score, totalPossible int) int
	Passed(percentage int, passingPercentage float64) bool
	Summarize(score, totalPossible int, passingPercentage float64) ScoreSummary
}

type scoreConverterServiceImpl struct{}

func NewScoreConverterService() ScoreConverterService {
	return &scoreConverterServiceImpl{}
}

func (s *scoreConverterServiceImpl) Percentage(score, totalPossible int) int {
	if totalPossible <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(totalPossible) * 100))
}

func (s *scoreConverterServiceImpl) Passed(percentage int, passingPercentage float64) bool {
	return float64(percentage) >= passingPercentage
}

func (s *scoreConverterServiceImpl) Summarize(score, totalPossible int, passingPercentage float64) ScoreSummary {
	pct := s.Percentage(score, totalPossible)
	return ScoreSummary{
		Score:         score,
		TotalPossible: totalPossible,
		Percentage:    pct,
		Passed:        s.Passed(pct, passingPercentage),
	}
}
