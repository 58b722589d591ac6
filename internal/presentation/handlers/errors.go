package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"gitcollab/internal/domain/errs"
	"gitcollab/internal/middleware"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

var statusByCode = map[errs.Code]int{
	errs.CodeNotAuthorized:          http.StatusForbidden,
	errs.CodeInvalidTransition:      http.StatusConflict,
	errs.CodeDuplicatePending:       http.StatusConflict,
	errs.CodeMissingGrantorIdentity: http.StatusUnprocessableEntity,
	errs.CodeMissingGranteeIdentity: http.StatusUnprocessableEntity,
	errs.CodeMalformedRepoReference: http.StatusUnprocessableEntity,
	errs.CodeAdapterFailed:          http.StatusBadGateway,
	errs.CodeAdapterTimeout:         http.StatusGatewayTimeout,
	errs.CodeRequestNotFound:        http.StatusNotFound,
	errs.CodeInvalidAction:          http.StatusBadRequest,
	errs.CodeInvalidRepositoryURL:   http.StatusBadRequest,
	errs.CodeSelfRequest:            http.StatusBadRequest,
	errs.CodeProjectNotFound:        http.StatusNotFound,
	errs.CodeUserNotFound:           http.StatusNotFound,
	errs.CodeInvalidInput:           http.StatusBadRequest,
}

// StatusFor maps an error to its HTTP status; errors without a code are 500
func StatusFor(err error) int {
	if status, ok := statusByCode[errs.CodeOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError writes err as an ErrorResponse. Internal errors are logged and not echoed.
func respondError(c *gin.Context, err error) {
	code := errs.CodeOf(err)
	status := StatusFor(err)

	if status == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
		return
	}

	resp := ErrorResponse{Error: string(code), Message: err.Error()}
	var e *errs.Error
	if errors.As(err, &e) {
		resp.Message = e.Message
		if e.Err != nil {
			resp.Details = e.Err.Error()
		}
	}
	c.JSON(status, resp)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "invalid_request",
		Message: "Invalid request body",
		Details: err.Error(),
	})
}

// currentUser returns the authenticated user or writes a 401
func currentUser(c *gin.Context) (*middleware.AuthUser, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User not found in context",
		})
		return nil, false
	}
	return user, true
}
