package handlers

import (
	"errors"
	"net/http"
	"strings"

	"linguaquiz/internal/generator"
	"linguaquiz/internal/mockai"
	"linguaquiz/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TopicRequest asks for a quiz about a free-text topic
type TopicRequest struct {
	Topic         string            `json:"topic"`
	QuestionCount *int              `json:"questionCount"`
	Difficulty    models.Difficulty `json:"difficulty"`
	ForceError    bool              `json:"forceError"`
}

// ContextRequest asks for mode-specific questions, optionally about a text or video
type ContextRequest struct {
	generator.QuizInput
	VideoURL   string `json:"videoUrl"`
	Lang       string `json:"lang"`
	ForceError bool   `json:"forceError"`
}

// BatchRequest asks for a large combinatorial batch
type BatchRequest struct {
	Topic string `json:"topic" binding:"max=100"`
	Count int    `json:"count" binding:"required,min=1,max=200"`
}

func envelopeOptions(force bool, actions ...string) []mockai.Option {
	opts := []mockai.Option{mockai.WithSuggestedActions(actions...)}
	if force {
		opts = append(opts, mockai.WithForcedError())
	}
	return opts
}

// HandleGenerateTopic handles POST /api/generate/topic
func (h *Handler) HandleGenerateTopic(c *gin.Context) {
	var req TopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, http.StatusBadRequest, "Failed to bind topic request", err)
		return
	}

	input := generator.QuizInput{Topic: req.Topic, Difficulty: req.Difficulty, QuestionCount: req.QuestionCount}
	if strings.TrimSpace(req.Topic) == "" {
		h.handleError(c, 0, "Invalid topic request", &generator.ValidationError{Messages: []string{"topic is required"}})
		return
	}
	if err := input.Validate(); err != nil {
		h.handleError(c, 0, "Invalid topic request", err)
		return
	}

	count := generator.DefaultQuestionCount
	if req.QuestionCount != nil {
		count = *req.QuestionCount
	}

	resp, err := mockai.Run(c.Request.Context(), h.Envelope, func() ([]models.Question, error) {
		return h.Generator.TopicQuiz(req.Topic, count, req.Difficulty), nil
	}, envelopeOptions(req.ForceError, "Save to question bank", "Create quiz from selection")...)
	if err != nil {
		h.handleError(c, 0, "Failed to generate topic quiz", err)
		return
	}

	h.Metrics.ObserveGenerated("topic", len(resp.Data))
	h.Log.WithContext(c.Request.Context()).WithFields(logrus.Fields{
		"topic": req.Topic,
		"count": len(resp.Data),
	}).Info("Generated topic quiz")
	c.JSON(http.StatusOK, resp)
}

// HandleGenerateContext handles POST /api/generate/context. When videoUrl is
// given and no source text, the video transcript becomes the source text.
func (h *Handler) HandleGenerateContext(c *gin.Context) {
	var req ContextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, http.StatusBadRequest, "Failed to bind context request", err)
		return
	}

	if strings.TrimSpace(req.VideoURL) != "" && strings.TrimSpace(req.SourceText) == "" {
		if h.Transcripts == nil {
			h.handleError(c, http.StatusServiceUnavailable, "Transcript fetching is disabled", errors.New("no transcript fetcher configured"))
			return
		}
		tr, err := h.Transcripts.Fetch(c.Request.Context(), req.VideoURL, req.Lang)
		if err != nil {
			status := statusFor(err)
			if status == http.StatusInternalServerError {
				status = http.StatusBadGateway
			}
			h.handleError(c, status, "Failed to fetch video transcript", err)
			return
		}
		req.SourceText = tr.Text
		if req.Topic == "" {
			req.Topic = tr.Title
			if len([]rune(req.Topic)) > generator.MaxTopicLength {
				req.Topic = string([]rune(req.Topic)[:generator.MaxTopicLength])
			}
		}
	}

	// reject bad input before the simulated latency
	if err := req.QuizInput.Validate(); err != nil {
		h.handleError(c, 0, "Invalid context request", err)
		return
	}

	resp, err := mockai.Run(c.Request.Context(), h.Envelope, func() ([]models.Question, error) {
		return h.Generator.ContextAware(req.QuizInput)
	}, envelopeOptions(req.ForceError, "Save to question bank", "Try another focus mode")...)
	if err != nil {
		h.handleError(c, 0, "Failed to generate questions", err)
		return
	}

	mode := string(req.Mode)
	if mode == "" {
		mode = string(models.FocusVocab)
	}
	h.Metrics.ObserveGenerated("context_"+mode, len(resp.Data))
	c.JSON(http.StatusOK, resp)
}

// HandleGenerateBatch handles POST /api/generate/batch. It skips the envelope
// so large batches come back immediately.
func (h *Handler) HandleGenerateBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, http.StatusBadRequest, "Failed to bind batch request", err)
		return
	}

	questions := h.Generator.Batch(req.Topic, req.Count)
	h.Metrics.ObserveGenerated("batch", len(questions))
	c.JSON(http.StatusOK, gin.H{"questions": questions, "count": len(questions)})
}
