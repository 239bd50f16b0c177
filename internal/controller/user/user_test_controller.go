package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/lshigami/examdesk/internal/controller"
	"github.com/lshigami/examdesk/internal/dto"
	"github.com/lshigami/examdesk/internal/service"
	"github.com/rs/zerolog/log"
)

type UserTestController struct {
	userTestService service.UserTestService
	rankingService  service.RankingService
}

func NewUserTestController(uts service.UserTestService, rs service.RankingService) *UserTestController {
	return &UserTestController{userTestService: uts, rankingService: rs}
}

// GetAllTests godoc
// @Summary (User) List all available tests
// @Description Get a list of tests with their question counts.
// @Tags User - Tests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.TestSummaryDTO
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /tests [get]
func (c *UserTestController) GetAllTests(ctx *gin.Context) {
	tests, err := c.userTestService.GetAllTests(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, "GetAllTests", err)
		return
	}
	ctx.JSON(http.StatusOK, tests)
}

// GetTestDetails godoc
// @Summary (User) Get details of a specific test
// @Description Get a test with its questions. Answer keys are never included.
// @Tags User - Tests
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Success 200 {object} dto.TestResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Test ID format"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /tests/{test_id} [get]
func (c *UserTestController) GetTestDetails(ctx *gin.Context) {
	testID, ok := controller.ParseID(ctx, "test_id")
	if !ok {
		return
	}
	testDetails, err := c.userTestService.GetTestDetails(ctx.Request.Context(), testID)
	if err != nil {
		controller.RespondError(ctx, "GetTestDetails", err)
		return
	}
	ctx.JSON(http.StatusOK, testDetails)
}

// GetRankings godoc
// @Summary (User) Leaderboard of a test
// @Description Completed attempts ordered by score. Equal scores keep submission order.
// @Tags User - Tests
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Success 200 {array} dto.RankingEntryDTO
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /tests/{test_id}/rankings [get]
func (c *UserTestController) GetRankings(ctx *gin.Context) {
	testID, ok := controller.ParseID(ctx, "test_id")
	if !ok {
		return
	}
	entries, err := c.rankingService.Rank(ctx.Request.Context(), testID)
	if err != nil {
		controller.RespondError(ctx, "GetRankings", err)
		return
	}
	resp := make([]dto.RankingEntryDTO, 0, len(entries))
	if err := copier.Copy(&resp, &entries); err != nil {
		log.Error().Err(err).Msg("Failed to copy rankings to RankingEntryDTO")
		controller.RespondError(ctx, "GetRankings", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
