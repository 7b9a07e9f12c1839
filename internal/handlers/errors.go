package handlers

import (
	"errors"
	"net/http"

	"bookstore/internal/service"

	"github.com/gin-gonic/gin"
)

// Error codes returned in the "error" field of every failure response.
const (
	codeValidation         = "ValidationError"
	codeMissingToken       = "MissingToken"
	codeTokenInvalid       = "TokenInvalid"
	codeTokenExpired       = "TokenExpired"
	codeInvalidCredentials = "InvalidCredentials"
	codeNotFound           = "NotFound"
	codeDuplicateEmail     = "DuplicateEmail"
	codePayloadTooLarge    = "PayloadTooLarge"
	codeInternal           = "InternalError"

	msgInternal = "Something went wrong"
)

type errorResponse struct {
	Error   string               `json:"error"`
	Message string               `json:"message,omitempty"`
	Details []service.FieldError `json:"details,omitempty"`
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err, "path", c.Request.URL.Path}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, errorResponse{Error: codeInternal, Message: userMsg})
}

// respondError maps service errors onto statuses. Anything unrecognised is a logged 500.
func (h *Handler) respondError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, errorResponse{Error: codeValidation, Message: "Validation failed", Details: verr.Fields})
	case errors.Is(err, service.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, errorResponse{Error: codeDuplicateEmail, Message: err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: codeInvalidCredentials, Message: err.Error()})
	case errors.Is(err, service.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: codeTokenExpired, Message: "Token has expired"})
	case errors.Is(err, service.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: codeTokenInvalid, Message: "Invalid token"})
	case errors.Is(err, service.ErrBookNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: codeNotFound, Message: "Book not found"})
	default:
		msg := msgInternal
		if h.exposeErrors {
			msg = err.Error()
		}
		h.logAndJSONError(c, http.StatusInternalServerError, msg, logKey, err, kv...)
	}
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	if h.log != nil {
		h.log.Infow("bad_request_body", "path", c.Request.URL.Path, "err", err)
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, errorResponse{Error: codePayloadTooLarge, Message: "Request body too large"})
		return false
	}
	c.JSON(http.StatusBadRequest, errorResponse{Error: codeValidation, Message: "Invalid request body: " + err.Error()})
	return false
}
