package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/lshigami/examdesk/internal/apperr"
	"github.com/lshigami/examdesk/internal/dto"
	"github.com/lshigami/examdesk/internal/model"
	"github.com/lshigami/examdesk/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AdminTestService interface {
	CreateTest(ctx context.Context, req dto.TestCreateDTO) (*dto.TestAuthorDTO, error)
}

type adminTestService struct {
	testRepo repository.TestRepository
}

func NewAdminTestService(testRepo repository.TestRepository) AdminTestService {
	return &adminTestService{testRepo: testRepo}
}

func (s *adminTestService) CreateTest(ctx context.Context, req dto.TestCreateDTO) (*dto.TestAuthorDTO, error) {
	const op = "CreateTest"

	if req.NegativeMarking && req.NegativeMarksPercent <= 0 {
		return nil, apperr.Newf(apperr.KindValidationFailure, op, "negative_marks_percent must be positive when negative marking is enabled")
	}

	orderSeen := make(map[int]bool, len(req.Questions))
	questions := make([]model.Question, 0, len(req.Questions))
	for i, q := range req.Questions {
		if orderSeen[q.OrderInTest] {
			return nil, apperr.Newf(apperr.KindValidationFailure, op, "duplicate order_in_test %d", q.OrderInTest)
		}
		orderSeen[q.OrderInTest] = true

		question, err := buildQuestion(q)
		if err != nil {
			return nil, apperr.New(apperr.KindValidationFailure, op, fmt.Errorf("question %d: %w", i+1, err))
		}
		questions = append(questions, question)
	}

	test := model.Test{
		Title:                req.Title,
		Subject:              req.Subject,
		Description:          req.Description,
		DurationMinutes:      req.DurationMinutes,
		PassingPercentage:    req.PassingPercentage,
		NegativeMarking:      req.NegativeMarking,
		NegativeMarksPercent: req.NegativeMarksPercent,
		Questions:            questions,
	}
	if !test.NegativeMarking {
		test.NegativeMarksPercent = 0
	}

	if err := s.testRepo.Create(ctx, &test); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Newf(apperr.KindValidationFailure, op, "a test titled %q already exists", req.Title)
		}
		log.Error().Err(err).Msg("Failed to create test in database")
		return nil, fmt.Errorf("database error creating test: %w", err)
	}
	log.Info().Uint("testID", test.ID).Int("questions", len(questions)).Msg("Test created")

	created, err := s.testRepo.FindByIDWithQuestions(ctx, test.ID)
	if err != nil {
		log.Error().Err(err).Uint("testID", test.ID).Msg("Failed to retrieve newly created test with questions for response")
		created = &test
	}
	return toAuthorDTO(created)
}

func buildQuestion(q dto.QuestionCreateDTO) (model.Question, error) {
	question := model.Question{
		Prompt:        q.Prompt,
		Type:          model.QuestionType(q.Type),
		Marks:         q.Marks,
		CorrectAnswer: q.CorrectAnswer,
		OrderInTest:   q.OrderInTest,
	}
	switch question.Type {
	case model.QuestionTypeMultipleChoice:
		if len(q.Options) < 2 {
			return question, errors.New("multiple_choice needs at least two options")
		}
		if !slices.Contains(q.Options, q.CorrectAnswer) {
			return question, fmt.Errorf("correct answer %q is not one of the options", q.CorrectAnswer)
		}
		question.Options = append([]string(nil), q.Options...)
	case model.QuestionTypeTrueFalse:
		if len(q.Options) > 0 {
			return question, errors.New("true_false questions take no options")
		}
		if q.CorrectAnswer != "true" && q.CorrectAnswer != "false" {
			return question, fmt.Errorf("true_false answer must be \"true\" or \"false\", got %q", q.CorrectAnswer)
		}
	default:
		return question, fmt.Errorf("unsupported question type %q", q.Type)
	}
	return question, nil
}

func toAuthorDTO(test *model.Test) (*dto.TestAuthorDTO, error) {
	base, err := toTestDTO(test)
	if err != nil {
		return nil, err
	}
	resp := &dto.TestAuthorDTO{
		ID:                   base.ID,
		Title:                base.Title,
		Subject:              base.Subject,
		Description:          base.Description,
		DurationMinutes:      base.DurationMinutes,
		PassingPercentage:    base.PassingPercentage,
		NegativeMarking:      base.NegativeMarking,
		NegativeMarksPercent: base.NegativeMarksPercent,
		TotalMarks:           base.TotalMarks,
		Questions:            make([]dto.QuestionAuthorDTO, 0, len(test.Questions)),
	}
	for i, q := range test.Questions {
		resp.Questions = append(resp.Questions, dto.QuestionAuthorDTO{
			QuestionResponseDTO: base.Questions[i],
			CorrectAnswer:       q.CorrectAnswer,
		})
	}
	return resp, nil
}
