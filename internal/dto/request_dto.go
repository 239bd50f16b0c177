package dto

// SetAnswerRequest records the student's current choice. A null value erases it.
type SetAnswerRequest struct {
	Value *string `json:"value"`
}
