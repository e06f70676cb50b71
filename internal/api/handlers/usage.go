package handlers

import (
	"errors"
	"io"
	"math"
	"net/http"

	"linguaquiz/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UsageRequest records one sitting of a quiz. Score is a percentage; when it
// is absent and answers are given, the score is computed from the answers.
type UsageRequest struct {
	Score *float64 `json:"score" binding:"omitempty,min=0,max=100"`
	// Answers maps question id to the option the learner picked
	Answers map[string]string `json:"answers"`
}

// gradeAnswers returns the percentage of questions answered correctly,
// rounded to two decimals. Unanswered questions count as wrong.
func gradeAnswers(quiz models.Quiz, answers map[string]string) float64 {
	if len(quiz.Questions) == 0 {
		return 0
	}
	correct := 0
	for _, q := range quiz.Questions {
		if picked, ok := answers[q.ID]; ok && picked == q.CorrectAnswer && q.HasCorrectAnswer() {
			correct++
		}
	}
	pct := float64(correct) * 100 / float64(len(quiz.Questions))
	return math.Round(pct*100) / 100
}

// HandleRecordUsage handles POST /api/quizzes/:quizId/usage
func (h *Handler) HandleRecordUsage(c *gin.Context) {
	ctx := c.Request.Context()
	quizID := c.Param("quizId")

	var req UsageRequest
	// an empty body only stamps lastUsed
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.handleError(c, http.StatusBadRequest, "Failed to bind usage", err)
		return
	}

	score := req.Score
	if score == nil && len(req.Answers) > 0 {
		quiz, err := h.Library.Get(ctx, quizID)
		if err != nil {
			h.handleError(c, 0, "Failed to grade quiz", err)
			return
		}
		graded := gradeAnswers(quiz, req.Answers)
		score = &graded
	}

	quiz, err := h.Library.UpdateUsage(ctx, quizID, score)
	if err != nil {
		h.handleError(c, 0, "Failed to record quiz usage", err)
		return
	}

	fields := logrus.Fields{"quiz_id": quizID}
	if score != nil {
		fields["score"] = *score
	}
	h.Log.WithContext(ctx).WithFields(fields).Info("Recorded quiz usage")
	c.JSON(http.StatusOK, gin.H{"quiz": quiz, "score": score})
}

// HandleListClasses handles GET /api/classes
func (h *Handler) HandleListClasses(c *gin.Context) {
	list, err := h.Classes.List(c.Request.Context())
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		h.handleError(c, status, "Failed to list classes", err)
		return
	}
	c.JSON(http.StatusOK, list)
}
