package handlers

import (
	"net/http"

	"linguaquiz/internal/models"
	"linguaquiz/internal/store"

	"github.com/gin-gonic/gin"
)

// CreateQuizRequest builds a quiz from a selection of questions
type CreateQuizRequest struct {
	Title       string            `json:"title" binding:"required,max=200"`
	Description string            `json:"description"`
	Questions   []models.Question `json:"questions" binding:"required,min=1"`
	Tags        []string          `json:"tags"`
}

// HandleListQuizzes handles GET /api/quizzes
func (h *Handler) HandleListQuizzes(c *gin.Context) {
	c.JSON(http.StatusOK, h.Library.GetAll(c.Request.Context()))
}

// HandleCreateQuiz handles POST /api/quizzes
func (h *Handler) HandleCreateQuiz(c *gin.Context) {
	var req CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, http.StatusBadRequest, "Failed to bind quiz", err)
		return
	}

	quiz, err := h.Library.CreateFromSelection(c.Request.Context(), req.Title, req.Description, req.Questions, req.Tags)
	if err != nil {
		h.handleError(c, 0, "Failed to create quiz", err)
		return
	}

	h.Log.WithContext(c.Request.Context()).WithField("quiz_id", quiz.ID).
		WithField("questions", len(quiz.Questions)).Info("Created quiz from selection")
	c.JSON(http.StatusCreated, quiz)
}

// HandleGetQuiz handles GET /api/quizzes/:quizId
func (h *Handler) HandleGetQuiz(c *gin.Context) {
	quiz, err := h.Library.Get(c.Request.Context(), c.Param("quizId"))
	if err != nil {
		h.handleError(c, 0, "Failed to get quiz", err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// HandleUpdateQuiz handles PUT /api/quizzes/:quizId. The body replaces the
// stored quiz entirely; the path id wins over any id in the body.
func (h *Handler) HandleUpdateQuiz(c *gin.Context) {
	var quiz models.Quiz
	if err := c.ShouldBindJSON(&quiz); err != nil {
		h.handleError(c, http.StatusBadRequest, "Failed to bind quiz", err)
		return
	}
	quiz.ID = c.Param("quizId")

	saved, found, err := h.Library.Update(c.Request.Context(), quiz)
	if err != nil {
		h.handleError(c, 0, "Failed to update quiz", err)
		return
	}
	if !found {
		h.handleError(c, 0, "Failed to update quiz", store.ErrQuizNotFound)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// HandleDeleteQuiz handles DELETE /api/quizzes/:quizId
func (h *Handler) HandleDeleteQuiz(c *gin.Context) {
	found, err := h.Library.Remove(c.Request.Context(), c.Param("quizId"))
	if err != nil {
		h.handleError(c, 0, "Failed to delete quiz", err)
		return
	}
	if !found {
		h.handleError(c, 0, "Failed to delete quiz", store.ErrQuizNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleClearLibrary handles DELETE /api/quizzes
func (h *Handler) HandleClearLibrary(c *gin.Context) {
	if err := h.Library.Clear(c.Request.Context()); err != nil {
		h.handleError(c, 0, "Failed to clear quiz library", err)
		return
	}
	c.Status(http.StatusNoContent)
}
