package dto

import "time"

// QuestionResponseDTO is used for displaying question details to students. It never carries
// the answer key.
type QuestionResponseDTO struct {
	ID          uint     `json:"id"`
	TestID      uint     `json:"test_id"`
	Prompt      string   `json:"prompt"`
	Type        string   `json:"type"`
	Options     []string `json:"options,omitempty"`
	Marks       int      `json:"marks"`
	OrderInTest int      `json:"order_in_test"`
}

// TestResponseDTO is used for displaying full test details to users.
type TestResponseDTO struct {
	ID                   uint                  `json:"id"`
	Title                string                `json:"title"`
	Subject              string                `json:"subject"`
	Description          string                `json:"description,omitempty"`
	DurationMinutes      int                   `json:"duration_minutes"`
	PassingPercentage    float64               `json:"passing_percentage"`
	NegativeMarking      bool                  `json:"negative_marking"`
	NegativeMarksPercent float64               `json:"negative_marks_percent"`
	TotalMarks           int                   `json:"total_marks"`
	Questions            []QuestionResponseDTO `json:"questions,omitempty"`
	CreatedAt            time.Time             `json:"created_at"`
}

// TestSummaryDTO is used for listing tests available to users.
type TestSummaryDTO struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Subject         string    `json:"subject"`
	Description     string    `json:"description,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	NegativeMarking bool      `json:"negative_marking"`
	QuestionCount   int       `json:"question_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// --- DTOs for completed attempts ---

// AnswerReviewDTO shows one question of a completed attempt with the key revealed.
type AnswerReviewDTO struct {
	QuestionID    uint     `json:"question_id"`
	Prompt        string   `json:"prompt"`
	Type          string   `json:"type"`
	Options       []string `json:"options,omitempty"`
	Marks         int      `json:"marks"`
	Value         *string  `json:"value"`
	CorrectAnswer string   `json:"correct_answer"`
	IsCorrect     *bool    `json:"is_correct"`
}

// AttemptResultDTO is the post-completion review of an attempt.
type AttemptResultDTO struct {
	AttemptID         uint              `json:"attempt_id"`
	TestID            uint              `json:"test_id"`
	TestTitle         string            `json:"test_title"`
	StudentID         string            `json:"student_id"`
	StartTime         time.Time         `json:"start_time"`
	EndTime           *time.Time        `json:"end_time,omitempty"`
	Score             int               `json:"score"`
	NegativeMarks     float64           `json:"negative_marks"`
	TotalPossible     int               `json:"total_possible"`
	Percentage        int               `json:"percentage"`
	PassingPercentage float64           `json:"passing_percentage"`
	Passed            bool              `json:"passed"`
	Answers           []AnswerReviewDTO `json:"answers"`
}

// TestAttemptSummaryDTO is for listing a student's attempts for a particular test.
type TestAttemptSummaryDTO struct {
	ID            uint       `json:"id"`
	TestID        uint       `json:"test_id"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	Status        string     `json:"status"`
	Score         int        `json:"score"`
	TotalPossible int        `json:"total_possible"`
}
