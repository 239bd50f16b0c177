package model

import (
	"time"

	"gorm.io/gorm"
)

type Test struct {
	ID                   uint           `gorm:"primarykey" json:"id"`
	Title                string         `json:"title" gorm:"not null;uniqueIndex"`
	Subject              string         `json:"subject" gorm:"not null;index"`
	Description          string         `json:"description,omitempty"`
	DurationMinutes      int            `json:"duration_minutes" gorm:"not null"`
	PassingPercentage    float64        `json:"passing_percentage" gorm:"not null;default:40"`
	NegativeMarking      bool           `json:"negative_marking" gorm:"not null;default:false"`
	NegativeMarksPercent float64        `json:"negative_marks_percent" gorm:"not null;default:0"` // share of a question's marks lost per wrong answer, 0-100
	Questions            []Question     `json:"questions,omitempty" gorm:"foreignKey:TestID"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

// Duration is the time a student gets for one attempt.
func (t *Test) Duration() time.Duration {
	return time.Duration(t.DurationMinutes) * time.Minute
}
