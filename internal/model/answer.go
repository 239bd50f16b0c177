package model

import (
	"time"
)

// Answer is unique per (attempt, question); writes go through an upsert.
type Answer struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	AttemptID  uint      `json:"attempt_id" gorm:"not null;uniqueIndex:idx_answers_attempt_question"`
	QuestionID uint      `json:"question_id" gorm:"not null;uniqueIndex:idx_answers_attempt_question;index"`
	Value      *string   `json:"value" gorm:"type:text"`
	IsCorrect  *bool     `json:"is_correct,omitempty"`
	SavedAt    time.Time `json:"saved_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
