package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"linguaquiz/internal/classes"
	"linguaquiz/internal/generator"
	"linguaquiz/internal/importer"
	"linguaquiz/internal/metrics"
	"linguaquiz/internal/mockai"
	"linguaquiz/internal/models"
	"linguaquiz/internal/store"
	"linguaquiz/internal/transcript"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handler contains the API handlers dependencies
type Handler struct {
	Generator   *generator.Generator
	Envelope    *mockai.Envelope
	Bank        *store.QuestionBank
	Library     *store.QuizLibrary
	Importer    *importer.Importer
	Transcripts *transcript.Fetcher
	Classes     *classes.Client
	Log         *logrus.Logger
	Metrics     *metrics.Metrics
}

// NewHandler creates a new Handler. Transcripts and Classes may be nil.
func NewHandler(h Handler) *Handler {
	if h.Log == nil {
		h.Log = logrus.StandardLogger()
	}
	if h.Importer == nil {
		h.Importer = importer.New(importer.Options{})
	}
	return &h
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, generator.ErrInvalidInput),
		errors.Is(err, importer.ErrUnrecognizedHeader),
		errors.Is(err, transcript.ErrInvalidVideo):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrQuizNotFound):
		return http.StatusNotFound
	case errors.Is(err, transcript.ErrNoCaptions):
		return http.StatusUnprocessableEntity
	case errors.Is(err, mockai.ErrTransientService),
		errors.Is(err, classes.ErrNotConfigured):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// handleError logs err and aborts the request with a JSON error body.
// status 0 means derive it from err.
func (h *Handler) handleError(c *gin.Context, status int, errorContext string, err error) {
	if status == 0 {
		status = statusFor(err)
	}

	entry := h.Log.WithContext(c.Request.Context()).WithFields(logrus.Fields{
		"path":   c.Request.URL.Path,
		"status": status,
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error(errorContext)
	} else {
		entry.Warn(errorContext)
	}

	resp := models.ErrorResponse{Error: fmt.Sprintf("%s: %v", errorContext, err)}
	var vErr *generator.ValidationError
	if errors.As(err, &vErr) {
		resp = models.ErrorResponse{Error: errorContext, Details: vErr.Messages}
	}
	c.AbortWithStatusJSON(status, resp)
}

// HandleHealth reports liveness
func (h *Handler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
