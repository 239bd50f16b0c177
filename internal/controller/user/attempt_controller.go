package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examdesk/internal/controller"
	"github.com/lshigami/examdesk/internal/dto"
	"github.com/lshigami/examdesk/internal/middleware"
	"github.com/lshigami/examdesk/internal/service"
	"github.com/rs/zerolog/log"
)

type AttemptController struct {
	attemptService service.AttemptService
	sessions       service.SessionManager
}

func NewAttemptController(as service.AttemptService, sm service.SessionManager) *AttemptController {
	return &AttemptController{attemptService: as, sessions: sm}
}

// StartAttempt godoc
// @Summary (User) Start or resume an attempt
// @Description Resumes the caller's in-progress attempt on the test, or starts a new one, and opens its live session.
// @Tags User - Attempts
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Success 200 {object} dto.SessionStateDTO "Existing attempt resumed"
// @Success 201 {object} dto.SessionStateDTO "New attempt started"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /tests/{test_id}/attempts [post]
func (c *AttemptController) StartAttempt(ctx *gin.Context) {
	testID, ok := controller.ParseID(ctx, "test_id")
	if !ok {
		return
	}
	studentID := middleware.StudentID(ctx)

	attempt, resumed, err := c.attemptService.StartAttempt(ctx.Request.Context(), testID, studentID)
	if err != nil {
		controller.RespondError(ctx, "StartAttempt", err)
		return
	}
	state, err := c.sessions.Open(ctx.Request.Context(), testID, attempt.ID, studentID)
	if err != nil {
		controller.RespondError(ctx, "StartAttempt", err)
		return
	}
	state.Resumed = resumed

	status := http.StatusCreated
	if resumed {
		status = http.StatusOK
	}
	ctx.JSON(status, state)
}

// ListAttempts godoc
// @Summary (User) My attempts on a test
// @Tags User - Attempts
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Success 200 {array} dto.TestAttemptSummaryDTO
// @Router /tests/{test_id}/attempts [get]
func (c *AttemptController) ListAttempts(ctx *gin.Context) {
	testID, ok := controller.ParseID(ctx, "test_id")
	if !ok {
		return
	}
	attempts, err := c.attemptService.ListAttempts(ctx.Request.Context(), testID, middleware.StudentID(ctx))
	if err != nil {
		controller.RespondError(ctx, "ListAttempts", err)
		return
	}
	ctx.JSON(http.StatusOK, attempts)
}

// OpenSession godoc
// @Summary (User) Load an attempt session
// @Description Loads saved answers and remaining time. A completed attempt answers with a redirect to its results; an attempt past its deadline is evaluated first.
// @Tags User - Attempts
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.SessionStateDTO
// @Failure 403 {object} dto.ErrorResponse "Attempt belongs to another student"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Router /tests/{test_id}/attempts/{attempt_id}/session [get]
func (c *AttemptController) OpenSession(ctx *gin.Context) {
	testID, ok := controller.ParseID(ctx, "test_id")
	if !ok {
		return
	}
	attemptID, ok := controller.ParseID(ctx, "attempt_id")
	if !ok {
		return
	}
	state, err := c.sessions.Open(ctx.Request.Context(), testID, attemptID, middleware.StudentID(ctx))
	if err != nil {
		controller.RespondError(ctx, "OpenSession", err)
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// SetAnswer godoc
// @Summary (User) Record an answer
// @Description Updates the live session only; the answer is persisted by the next save. A null value erases the answer.
// @Tags User - Attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param attempt_id path int true "Attempt ID"
// @Param question_id path int true "Question ID"
// @Param answer body dto.SetAnswerRequest true "Answer value"
// @Success 200 {object} dto.SetAnswerResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Malformed answer or unknown question"
// @Failure 404 {object} dto.ErrorResponse "No live session"
// @Failure 409 {object} dto.ErrorResponse "Time is up"
// @Router /attempts/{attempt_id}/answers/{question_id} [put]
func (c *AttemptController) SetAnswer(ctx *gin.Context) {
	attemptID, ok := controller.ParseID(ctx, "attempt_id")
	if !ok {
		return
	}
	questionID, ok := controller.ParseID(ctx, "question_id")
	if !ok {
		return
	}
	var req dto.SetAnswerRequest
	if !controller.BindJSON(ctx, &req) {
		return
	}
	resp, err := c.sessions.SetAnswer(ctx.Request.Context(), attemptID, middleware.StudentID(ctx), questionID, req.Value)
	if err != nil {
		controller.RespondError(ctx, "SetAnswer", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Flush godoc
// @Summary (User) Save answers now
// @Description Persists every unsaved answer of the live session. Answers that fail stay unsaved and are retried by the next save.
// @Tags User - Attempts
// @Produce json
// @Security BearerAuth
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.FlushResponseDTO
// @Failure 409 {object} dto.ErrorResponse "Attempt already submitted"
// @Failure 503 {object} dto.ErrorResponse "Some answers could not be saved"
// @Router /attempts/{attempt_id}/flush [post]
func (c *AttemptController) Flush(ctx *gin.Context) {
	attemptID, ok := controller.ParseID(ctx, "attempt_id")
	if !ok {
		return
	}
	resp, err := c.sessions.Flush(ctx.Request.Context(), attemptID, middleware.StudentID(ctx))
	if err != nil {
		controller.RespondError(ctx, "Flush", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Submit godoc
// @Summary (User) Submit an attempt
// @Description Saves pending answers, then grades and seals the attempt. Submitting a completed attempt changes nothing and redirects to its results.
// @Tags User - Attempts
// @Produce json
// @Security BearerAuth
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.SubmitResponseDTO
// @Failure 403 {object} dto.ErrorResponse "Attempt belongs to another student"
// @Failure 503 {object} dto.ErrorResponse "Final save failed, attempt not submitted"
// @Router /attempts/{attempt_id}/submit [post]
func (c *AttemptController) Submit(ctx *gin.Context) {
	attemptID, ok := controller.ParseID(ctx, "attempt_id")
	if !ok {
		return
	}
	resp, err := c.sessions.Submit(ctx.Request.Context(), attemptID, middleware.StudentID(ctx))
	if err != nil {
		controller.RespondError(ctx, "Submit", err)
		return
	}
	if resp.Result != nil && len(resp.Result.FlaggedQuestionIDs) > 0 {
		log.Warn().Uint("attemptID", attemptID).Interface("flagged", resp.Result.FlaggedQuestionIDs).Msg("Attempt graded with flagged questions")
	}
	ctx.JSON(http.StatusOK, resp)
}

// CloseSession godoc
// @Summary (User) Leave an attempt session
// @Description Saves pending answers and stops the session's timer. The attempt stays in progress.
// @Tags User - Attempts
// @Security BearerAuth
// @Param attempt_id path int true "Attempt ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse "No live session"
// @Router /attempts/{attempt_id}/session [delete]
func (c *AttemptController) CloseSession(ctx *gin.Context) {
	attemptID, ok := controller.ParseID(ctx, "attempt_id")
	if !ok {
		return
	}
	if err := c.sessions.Close(ctx.Request.Context(), attemptID, middleware.StudentID(ctx)); err != nil {
		controller.RespondError(ctx, "CloseSession", err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// GetResult godoc
// @Summary (User) Review a completed attempt
// @Description Score, pass status and every question with its answer key.
// @Tags User - Attempts
// @Produce json
// @Security BearerAuth
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AttemptResultDTO
// @Failure 400 {object} dto.ErrorResponse "Attempt still in progress"
// @Failure 403 {object} dto.ErrorResponse "Attempt belongs to another student"
// @Router /attempts/{attempt_id}/result [get]
func (c *AttemptController) GetResult(ctx *gin.Context) {
	attemptID, ok := controller.ParseID(ctx, "attempt_id")
	if !ok {
		return
	}
	resp, err := c.attemptService.GetResult(ctx.Request.Context(), attemptID, middleware.StudentID(ctx))
	if err != nil {
		controller.RespondError(ctx, "GetResult", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
