// Package grading scores a set of answers against a test's answer key.
//
// Evaluate is total: a question that cannot be graded is reported in Result.Flagged and counts
// as unanswered, it never aborts the whole evaluation.
package grading

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/lshigami/examdesk/internal/model"
)

type Outcome string

const (
	OutcomeCorrect     Outcome = "correct"
	OutcomeWrong       Outcome = "wrong"
	OutcomeUnanswered  Outcome = "unanswered"
	OutcomeUnsupported Outcome = "unsupported"
	OutcomeFault       Outcome = "fault"
)

var (
	ErrUnsupportedType = errors.New("unsupported question type")
	ErrMissingKey      = errors.New("question has no answer key")
)

type Policy struct {
	NegativeMarking      bool
	NegativeMarksPercent float64
}

func PolicyFor(test *model.Test) Policy {
	return Policy{NegativeMarking: test.NegativeMarking, NegativeMarksPercent: test.NegativeMarksPercent}
}

type Item struct {
	QuestionID uint
	Outcome    Outcome
	// IsCorrect is nil when the question was not answered or could not be graded.
	IsCorrect *bool
	Earned    int
	Deducted  float64
	// MatchedByIndex marks a multiple-choice answer accepted through its option index
	// rather than the option text.
	MatchedByIndex bool
	Err            error
}

type Result struct {
	Items         []Item
	RawScore      int
	NegativeMarks float64
	FinalScore    int
	TotalPossible int
	Flagged       []Item
}

// Evaluate grades answers (question id -> submitted value; nil or absent is unanswered)
// against questions in their given order.
func Evaluate(policy Policy, questions []model.Question, answers map[uint]*string) Result {
	res := Result{Items: make([]Item, 0, len(questions))}
	for i := range questions {
		q := &questions[i]
		res.TotalPossible += q.Marks

		item := Item{QuestionID: q.ID, Outcome: OutcomeUnanswered}
		value := answers[q.ID]
		if value == nil {
			res.Items = append(res.Items, item)
			continue
		}

		correct, byIndex, err := Check(q, *value)
		if err != nil {
			item.Err = err
			item.Outcome = OutcomeFault
			if errors.Is(err, ErrUnsupportedType) {
				item.Outcome = OutcomeUnsupported
			}
			res.Items = append(res.Items, item)
			res.Flagged = append(res.Flagged, item)
			continue
		}

		item.IsCorrect = &correct
		item.MatchedByIndex = byIndex
		if correct {
			item.Outcome = OutcomeCorrect
			item.Earned = q.Marks
			res.RawScore += q.Marks
		} else {
			item.Outcome = OutcomeWrong
			if policy.NegativeMarking {
				item.Deducted = float64(q.Marks) * policy.NegativeMarksPercent / 100
				res.NegativeMarks += item.Deducted
			}
		}
		res.Items = append(res.Items, item)
	}
	res.FinalScore = FinalScore(res.RawScore, res.NegativeMarks)
	return res
}

// FinalScore floors the net score at zero and rounds it for storage.
func FinalScore(raw int, negative float64) int {
	net := float64(raw) - negative
	if net < 0 {
		return 0
	}
	return int(math.Round(net))
}

// Check reports whether value answers q correctly.
//
// A multiple-choice answer matches either as the literal option text or as a zero-based option
// index whose text equals the key. Both forms are accepted for compatibility with clients that
// submit indices; when options are themselves numerals the two readings can disagree, in which
// case either one matching is enough.
func Check(q *model.Question, value string) (correct bool, byIndex bool, err error) {
	if q.CorrectAnswer == "" {
		return false, false, fmt.Errorf("question %d: %w", q.ID, ErrMissingKey)
	}
	switch q.Type {
	case model.QuestionTypeTrueFalse:
		return value == q.CorrectAnswer, false, nil
	case model.QuestionTypeMultipleChoice:
		if value == q.CorrectAnswer {
			return true, false, nil
		}
		if idx, convErr := strconv.Atoi(value); convErr == nil && idx >= 0 && idx < len(q.Options) {
			if q.Options[idx] == q.CorrectAnswer {
				return true, true, nil
			}
		}
		return false, false, nil
	}
	return false, false, fmt.Errorf("question %d type %q: %w", q.ID, q.Type, ErrUnsupportedType)
}
