package service

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/examdesk/internal/dto"
	"github.com/lshigami/examdesk/internal/model"
)

// toQuestionDTO strips the answer key.
func toQuestionDTO(q model.Question) dto.QuestionResponseDTO {
	return dto.QuestionResponseDTO{
		ID:          q.ID,
		TestID:      q.TestID,
		Prompt:      q.Prompt,
		Type:        string(q.Type),
		Options:     append([]string(nil), q.Options...),
		Marks:       q.Marks,
		OrderInTest: q.OrderInTest,
	}
}

func toQuestionDTOs(questions []model.Question) []dto.QuestionResponseDTO {
	out := make([]dto.QuestionResponseDTO, 0, len(questions))
	for _, q := range questions {
		out = append(out, toQuestionDTO(q))
	}
	return out
}

func totalMarks(questions []model.Question) int {
	total := 0
	for _, q := range questions {
		total += q.Marks
	}
	return total
}

func toTestDTO(test *model.Test) (*dto.TestResponseDTO, error) {
	header := *test
	header.Questions = nil

	var resp dto.TestResponseDTO
	if err := copier.Copy(&resp, &header); err != nil {
		return nil, fmt.Errorf("error preparing test response: %w", err)
	}
	resp.Questions = toQuestionDTOs(test.Questions)
	resp.TotalMarks = totalMarks(test.Questions)
	return &resp, nil
}
