package model

import (
	"time"
)

type AttemptStatus string

const (
	AttemptStatusInProgress AttemptStatus = "in_progress"
	AttemptStatusCompleted  AttemptStatus = "completed"
)

// TestAttempt is one student's time-boxed run through a Test. At most one attempt per
// (test, student) may be in progress; completed attempts are never modified again.
type TestAttempt struct {
	ID            uint          `gorm:"primarykey" json:"id"`
	TestID        uint          `json:"test_id" gorm:"not null;uniqueIndex:idx_test_attempts_open,where:status = 'in_progress'"`
	StudentID     string        `json:"student_id" gorm:"type:varchar(128);not null;index;uniqueIndex:idx_test_attempts_open,where:status = 'in_progress'"`
	StartTime     time.Time     `json:"start_time" gorm:"not null"`
	EndTime       *time.Time    `json:"end_time,omitempty"`
	Status        AttemptStatus `json:"status" gorm:"type:varchar(20);not null;default:'in_progress';index"`
	Score         int           `json:"score" gorm:"not null;default:0"`
	NegativeMarks float64       `json:"negative_marks" gorm:"not null;default:0"`
	TotalPossible int           `json:"total_possible" gorm:"not null;default:0"`
	Answers       []Answer      `json:"answers,omitempty" gorm:"foreignKey:AttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (a *TestAttempt) IsCompleted() bool {
	return a.Status == AttemptStatusCompleted
}

// Deadline is the instant the attempt's time runs out.
func (a *TestAttempt) Deadline(test *Test) time.Time {
	return a.StartTime.Add(test.Duration())
}
