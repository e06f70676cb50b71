package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"linguaquiz/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxImportSize caps CSV uploads
const maxImportSize = 8 << 20

// QuestionRequest is a question submitted for the bank. Id and createdAt
// are filled in when missing.
type QuestionRequest struct {
	ID            string            `json:"id"`
	Text          string            `json:"text" binding:"required"`
	Options       []string          `json:"options" binding:"required,min=2"`
	CorrectAnswer string            `json:"correctAnswer" binding:"required"`
	Explanation   string            `json:"explanation"`
	Tags          []string          `json:"tags"`
	Difficulty    models.Difficulty `json:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced"`
	CreatedAt     *time.Time        `json:"createdAt"`
}

type BatchSaveRequest struct {
	Questions []QuestionRequest `json:"questions" binding:"required,dive"`
}

func (r QuestionRequest) toModel() models.Question {
	q := models.Question{
		ID:            r.ID,
		Text:          r.Text,
		Options:       r.Options,
		CorrectAnswer: r.CorrectAnswer,
		Explanation:   r.Explanation,
		Tags:          r.Tags,
		Difficulty:    r.Difficulty,
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.Tags == nil {
		q.Tags = []string{}
	}
	if r.CreatedAt != nil {
		q.CreatedAt = *r.CreatedAt
	} else {
		q.CreatedAt = time.Now()
	}
	return q
}

// HandleListBank handles GET /api/bank. ?tag= filters by tag, ?q= searches
// text and tags; tag wins when both are given.
func (h *Handler) HandleListBank(c *gin.Context) {
	ctx := c.Request.Context()
	switch tag, query := strings.TrimSpace(c.Query("tag")), strings.TrimSpace(c.Query("q")); {
	case tag != "":
		c.JSON(http.StatusOK, h.Bank.FilterByTag(ctx, tag))
	case query != "":
		c.JSON(http.StatusOK, h.Bank.Search(ctx, query))
	default:
		c.JSON(http.StatusOK, h.Bank.GetAll(ctx))
	}
}

// HandleSaveQuestion handles POST /api/bank
func (h *Handler) HandleSaveQuestion(c *gin.Context) {
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, http.StatusBadRequest, "Failed to bind question", err)
		return
	}

	q := req.toModel()
	added, err := h.Bank.SaveQuestion(c.Request.Context(), q)
	if err != nil {
		h.handleError(c, 0, "Failed to save question", err)
		return
	}

	status := http.StatusCreated
	if !added {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"added": added, "question": q})
}

// HandleSaveBatch handles POST /api/bank/batch
func (h *Handler) HandleSaveBatch(c *gin.Context) {
	var req BatchSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, http.StatusBadRequest, "Failed to bind question batch", err)
		return
	}

	qs := make([]models.Question, len(req.Questions))
	for i, r := range req.Questions {
		qs[i] = r.toModel()
	}
	added, err := h.Bank.SaveBatch(c.Request.Context(), qs)
	if err != nil {
		h.handleError(c, 0, "Failed to save question batch", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added, "submitted": len(qs)})
}

// HandleImportBank handles POST /api/bank/import with a multipart "file" field
func (h *Handler) HandleImportBank(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)

	header, err := c.FormFile("file")
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Missing CSV upload", err)
		return
	}
	f, err := header.Open()
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Failed to open CSV upload", err)
		return
	}
	defer f.Close()

	res, err := h.Importer.Import(f)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadRequest
		}
		h.handleError(c, status, "Failed to parse the CSV file", err)
		return
	}

	added, err := h.Bank.SaveBatch(c.Request.Context(), res.Questions)
	if err != nil {
		h.handleError(c, 0, "Failed to save imported questions", err)
		return
	}

	h.Metrics.ObserveGenerated("csv_import", len(res.Questions))
	h.Log.WithContext(c.Request.Context()).WithField("file", header.Filename).
		WithField("added", added).Info("Imported CSV into question bank")
	c.JSON(http.StatusOK, gin.H{"added": added, "questions": res.Questions, "skipped": res.Skipped})
}

// HandleRemoveQuestion handles DELETE /api/bank/:questionId
func (h *Handler) HandleRemoveQuestion(c *gin.Context) {
	found, err := h.Bank.Remove(c.Request.Context(), c.Param("questionId"))
	if err != nil {
		h.handleError(c, 0, "Failed to remove question", err)
		return
	}
	if !found {
		h.handleError(c, http.StatusNotFound, "Question not found", errors.New(c.Param("questionId")))
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleClearBank handles DELETE /api/bank
func (h *Handler) HandleClearBank(c *gin.Context) {
	if err := h.Bank.Clear(c.Request.Context()); err != nil {
		h.handleError(c, 0, "Failed to clear question bank", err)
		return
	}
	c.Status(http.StatusNoContent)
}
