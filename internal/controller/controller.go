// Package controller holds the HTTP plumbing shared by the user and admin controllers.
package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examdesk/internal/apperr"
	"github.com/lshigami/examdesk/internal/dto"
	"github.com/rs/zerolog/log"
)

var messages = map[apperr.Kind]string{
	apperr.KindNotFound:                 "Resource not found",
	apperr.KindForbidden:                "You do not have access to this resource",
	apperr.KindAlreadyCompleted:         "This attempt has already been submitted",
	apperr.KindPersistenceFailure:       "Some answers could not be saved, please retry",
	apperr.KindEvaluationPartialFailure: "Some questions could not be graded",
	apperr.KindValidationFailure:        "Invalid request",
}

// RespondError writes err as an ErrorResponse with the status its kind maps to.
func RespondError(ctx *gin.Context, op string, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)
	message, ok := messages[kind]
	if !ok {
		message = "Internal server error"
	}

	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Str("op", op).Str("path", ctx.FullPath()).Int("status", status).Msg("Request failed")

	ctx.JSON(status, dto.ErrorResponse{Message: message, Details: []string{err.Error()}, Code: string(kind)})
}

// ParseID reads a numeric path parameter, answering 400 itself when it is malformed.
func ParseID(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format", Details: []string{raw}})
		return 0, false
	}
	return uint(id), true
}

// BindJSON binds and validates the request body, answering 400 itself on failure.
func BindJSON(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		log.Warn().Err(err).Str("path", ctx.FullPath()).Msg("Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return false
	}
	return true
}
