package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dayoung/bookdam/internal/library"
	"github.com/dayoung/bookdam/internal/stats"
)

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"` // machine-readable error code
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 response. The actual
// error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondLibraryError maps the typed core errors onto HTTP statuses. Anything
// it does not recognize is treated as an internal error.
func respondLibraryError(c *gin.Context, err error, context string) {
	var dup *library.DuplicateBookError
	var progress *library.InvalidProgressError
	var transition *library.InvalidTransitionError
	var duration *stats.InvalidDurationError

	switch {
	case errors.Is(err, library.ErrBookNotFound):
		respondNotFound(c, "book")
	case errors.As(err, &dup):
		c.JSON(http.StatusConflict, ErrorResponse{Error: dup.Error(), Code: "duplicate_book"})
	case errors.As(err, &progress):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: progress.Error(), Code: "invalid_progress"})
	case errors.As(err, &transition):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: transition.Error(), Code: "invalid_transition"})
	case errors.As(err, &duration):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: duration.Error(), Code: "invalid_duration"})
	default:
		respondInternalError(c, err, context)
	}
}
