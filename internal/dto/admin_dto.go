package dto

// QuestionCreateDTO is used within TestCreateDTO for admin test creation.
type QuestionCreateDTO struct {
	Prompt        string   `json:"prompt" binding:"required"`
	Type          string   `json:"type" binding:"required,oneof=multiple_choice true_false"`
	Options       []string `json:"options" binding:"omitempty,dive,required"` // multiple_choice only
	Marks         int      `json:"marks" binding:"required,gt=0"`
	CorrectAnswer string   `json:"correct_answer" binding:"required"`
	OrderInTest   int      `json:"order_in_test" binding:"required,min=1"`
}

// TestCreateDTO is for an author to create a new test with all its questions.
type TestCreateDTO struct {
	Title                string              `json:"title" binding:"required"`
	Subject              string              `json:"subject" binding:"required"`
	Description          string              `json:"description,omitempty"`
	DurationMinutes      int                 `json:"duration_minutes" binding:"required,min=1"`
	PassingPercentage    float64             `json:"passing_percentage" binding:"min=0,max=100"`
	NegativeMarking      bool                `json:"negative_marking"`
	NegativeMarksPercent float64             `json:"negative_marks_percent" binding:"min=0,max=100"`
	Questions            []QuestionCreateDTO `json:"questions" binding:"required,min=1,dive"`
}

// QuestionAuthorDTO includes the answer key; only returned to authors.
type QuestionAuthorDTO struct {
	QuestionResponseDTO
	CorrectAnswer string `json:"correct_answer"`
}

// TestAuthorDTO is returned after an author creates a test.
type TestAuthorDTO struct {
	ID                   uint                `json:"id"`
	Title                string              `json:"title"`
	Subject              string              `json:"subject"`
	Description          string              `json:"description,omitempty"`
	DurationMinutes      int                 `json:"duration_minutes"`
	PassingPercentage    float64             `json:"passing_percentage"`
	NegativeMarking      bool                `json:"negative_marking"`
	NegativeMarksPercent float64             `json:"negative_marks_percent"`
	TotalMarks           int                 `json:"total_marks"`
	Questions            []QuestionAuthorDTO `json:"questions"`
}
