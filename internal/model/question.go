package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeTrueFalse      QuestionType = "true_false"
)

type Question struct {
	ID            uint                        `gorm:"primarykey" json:"id"`
	TestID        uint                        `json:"test_id" gorm:"not null;index"`
	Prompt        string                      `json:"prompt" gorm:"type:text;not null"`
	Type          QuestionType                `json:"type" gorm:"type:varchar(32);not null"`
	Options       datatypes.JSONSlice[string] `json:"options,omitempty"` // multiple_choice only, ordered
	Marks         int                         `json:"marks" gorm:"not null"`
	CorrectAnswer string                      `json:"-" gorm:"type:text;not null"` // option text, or "true"/"false"
	OrderInTest   int                         `json:"order_in_test" gorm:"not null"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
	DeletedAt     gorm.DeletedAt              `gorm:"index" json:"-"`
}
