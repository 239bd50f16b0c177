package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	Code    string   `json:"code,omitempty"`
}

// RedirectResults is the redirect target sent when an attempt is already completed.
const RedirectResults = "results"

// AnswerStateDTO is one question's answer in a live session.
type AnswerStateDTO struct {
	QuestionID uint    `json:"question_id"`
	Value      *string `json:"value"`
	Dirty      bool    `json:"dirty"`
}

// SessionStateDTO is what a client needs to render an attempt in progress.
type SessionStateDTO struct {
	AttemptID        uint                  `json:"attempt_id"`
	TestID           uint                  `json:"test_id"`
	TestTitle        string                `json:"test_title,omitempty"`
	Status           string                `json:"status"`
	StartTime        time.Time             `json:"start_time"`
	Deadline         time.Time             `json:"deadline"`
	RemainingSeconds int                   `json:"remaining_seconds"`
	Expired          bool                  `json:"expired"`
	Resumed          bool                  `json:"resumed,omitempty"`
	Questions        []QuestionResponseDTO `json:"questions,omitempty"`
	Answers          []AnswerStateDTO      `json:"answers,omitempty"`
	Redirect         string                `json:"redirect,omitempty"`
	ResultsPath      string                `json:"results_path,omitempty"`
	Result           *EvaluationResultDTO  `json:"result,omitempty"`
}

type SetAnswerResponseDTO struct {
	QuestionID uint    `json:"question_id"`
	Value      *string `json:"value"`
	DirtyCount int     `json:"dirty_count"`
}

type FlushResponseDTO struct {
	Saved             int    `json:"saved"`
	FailedQuestionIDs []uint `json:"failed_question_ids,omitempty"`
	PendingDirty      int    `json:"pending_dirty"`
}

// EvaluationResultDTO summarizes a graded attempt.
type EvaluationResultDTO struct {
	AttemptID          uint      `json:"attempt_id"`
	TestID             uint      `json:"test_id"`
	RawScore           int       `json:"raw_score"`
	NegativeMarks      float64   `json:"negative_marks"`
	Score              int       `json:"score"`
	TotalPossible      int       `json:"total_possible"`
	Percentage         int       `json:"percentage"`
	Passed             bool      `json:"passed"`
	Correct            int       `json:"correct"`
	Incorrect          int       `json:"incorrect"`
	Unanswered         int       `json:"unanswered"`
	FlaggedQuestionIDs []uint    `json:"flagged_question_ids,omitempty"`
	CompletedAt        time.Time `json:"completed_at"`
}

type SubmitResponseDTO struct {
	AlreadyCompleted bool                 `json:"already_completed"`
	Redirect         string               `json:"redirect"`
	ResultsPath      string               `json:"results_path"`
	Result           *EvaluationResultDTO `json:"result,omitempty"`
}

type RankingEntryDTO struct {
	Rank          int        `json:"rank"`
	AttemptID     uint       `json:"attempt_id"`
	StudentID     string     `json:"student_id"`
	Score         int        `json:"score"`
	TotalPossible int        `json:"total_possible"`
	Percentage    int        `json:"percentage"`
	Passed        bool       `json:"passed"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}
