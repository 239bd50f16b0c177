// Package testutil builds throwaway databases and fixtures for package tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/lshigami/examdesk/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DB opens a private in-memory SQLite database with the schema migrated. The pool is pinned to
// one connection: every connection to ":memory:" would otherwise see its own empty database.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&model.Test{}, &model.Question{}, &model.TestAttempt{}, &model.Answer{}); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

type QuestionSpec struct {
	Type    model.QuestionType
	Options []string
	Marks   int
	Key     string
}

func MC(marks int, key string, options ...string) QuestionSpec {
	return QuestionSpec{Type: model.QuestionTypeMultipleChoice, Options: options, Marks: marks, Key: key}
}

func TF(marks int, key string) QuestionSpec {
	return QuestionSpec{Type: model.QuestionTypeTrueFalse, Marks: marks, Key: key}
}

// SeedTest creates a test with the given questions in order.
func SeedTest(tb testing.TB, db *gorm.DB, title string, durationMinutes int, negativePercent float64, specs ...QuestionSpec) *model.Test {
	tb.Helper()
	test := &model.Test{
		Title:                title,
		Subject:              "physics",
		DurationMinutes:      durationMinutes,
		PassingPercentage:    40,
		NegativeMarking:      negativePercent > 0,
		NegativeMarksPercent: negativePercent,
	}
	for i, s := range specs {
		test.Questions = append(test.Questions, model.Question{
			Prompt:        "question",
			Type:          s.Type,
			Options:       s.Options,
			Marks:         s.Marks,
			CorrectAnswer: s.Key,
			OrderInTest:   i + 1,
		})
	}
	if err := db.WithContext(context.Background()).Create(test).Error; err != nil {
		tb.Fatalf("seed test: %v", err)
	}
	return test
}

func SeedAttempt(tb testing.TB, db *gorm.DB, testID uint, studentID string, start time.Time) *model.TestAttempt {
	tb.Helper()
	a := &model.TestAttempt{
		TestID:    testID,
		StudentID: studentID,
		StartTime: start,
		Status:    model.AttemptStatusInProgress,
	}
	if err := db.Create(a).Error; err != nil {
		tb.Fatalf("seed attempt: %v", err)
	}
	return a
}

func SeedAnswer(tb testing.TB, db *gorm.DB, attemptID, questionID uint, value string) *model.Answer {
	tb.Helper()
	a := &model.Answer{
		AttemptID:  attemptID,
		QuestionID: questionID,
		Value:      PtrString(value),
		SavedAt:    time.Now().UTC(),
	}
	if err := db.Create(a).Error; err != nil {
		tb.Fatalf("seed answer: %v", err)
	}
	return a
}

func PtrString(v string) *string { return &v }

func SeedCompletedAttempt(tb testing.TB, db *gorm.DB, testID uint, studentID string, score, totalPossible int) *model.TestAttempt {
	tb.Helper()
	start := time.Now().UTC().Add(-time.Hour)
	end := start.Add(30 * time.Minute)
	a := &model.TestAttempt{
		TestID:        testID,
		StudentID:     studentID,
		StartTime:     start,
		EndTime:       &end,
		Status:        model.AttemptStatusCompleted,
		Score:         score,
		TotalPossible: totalPossible,
	}
	if err := db.Create(a).Error; err != nil {
		tb.Fatalf("seed completed attempt: %v", err)
	}
	return a
}
