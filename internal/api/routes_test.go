package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"linguaquiz/internal/api/handlers"
	"linguaquiz/internal/generator"
	"linguaquiz/internal/kv"
	"linguaquiz/internal/metrics"
	"linguaquiz/internal/mockai"
	"linguaquiz/internal/models"
	"linguaquiz/internal/random"
	"linguaquiz/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)
	m := metrics.New("test")
	zero := 0.0

	storeOpts := store.Options{Logger: log, Metrics: m, Source: random.New(4)}
	h := handlers.NewHandler(handlers.Handler{
		Generator: generator.New(generator.Options{Source: random.New(7)}),
		Envelope: mockai.New(mockai.Config{
			Source:    random.New(1),
			Sleep:     func(time.Duration) {},
			Logger:    log,
			Metrics:   m,
			ErrorRate: &zero,
		}),
		Bank:    store.NewQuestionBank(kv.NewMemory(), storeOpts),
		Library: store.NewQuizLibrary(kv.NewMemory(), storeOpts),
		Log:     log,
		Metrics: m,
	})

	router := gin.New()
	SetupRoutes(router, h, "http://localhost:5173/", m)
	return router
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestGenerateTopic(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/generate/topic", gin.H{"topic": "Idioms", "questionCount": 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.AIResponse[[]models.Question]](t, w)
	assert.Len(t, resp.Data, 3)
	assert.GreaterOrEqual(t, resp.Confidence, 0.6)
	assert.LessOrEqual(t, resp.Confidence, 0.95)
	assert.NotEmpty(t, resp.SuggestedActions)
	for _, q := range resp.Data {
		assert.True(t, q.HasCorrectAnswer())
	}

	t.Run("MissingTopic", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/api/generate/topic", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decode[models.ErrorResponse](t, w)
		assert.Contains(t, body.Details, "topic is required")
	})

	t.Run("ForcedFailure", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/api/generate/topic", gin.H{"topic": "grammar", "forceError": true})
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, decode[models.ErrorResponse](t, w).Error, mockai.ErrTransientService.Error())
	})
}

func TestGenerateContext(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/generate/context", gin.H{
		"sourceText":    "Maria walks to the market every Saturday morning to buy fresh bread and vegetables.",
		"mode":          "comprehension",
		"questionCount": 2,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[models.AIResponse[[]models.Question]](t, w)
	require.Len(t, resp.Data, 2)
	assert.Contains(t, resp.Data[0].Tags, "comprehension")

	t.Run("InvalidInput", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/api/generate/context", gin.H{"topic": "verbs", "questionCount": 0})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decode[models.ErrorResponse](t, w)
		assert.Contains(t, body.Details, "questionCount must be between 1 and 200")
	})

	t.Run("Empty", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/api/generate/context", gin.H{"mode": "grammar"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("VideoWithoutFetcher", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/api/generate/context", gin.H{"videoUrl": "https://youtu.be/dQw4w9WgXcQ", "mode": "comprehension"})
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestGenerateBatch(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/generate/batch", gin.H{"topic": "Travel", "count": 50})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Questions []models.Question `json:"questions"`
		Count     int               `json:"count"`
	}](t, w)
	assert.Equal(t, 50, body.Count)
	assert.Len(t, body.Questions, 50)

	w = do(t, r, http.MethodPost, "/api/generate/batch", gin.H{"topic": "Travel", "count": 201})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuestionBankRoutes(t *testing.T) {
	r := newTestRouter(t)
	batch := gin.H{"questions": []gin.H{
		{"id": "q1", "text": "Translate 'gato'", "options": []string{"cat", "dog"}, "correctAnswer": "cat", "tags": []string{"animals"}},
		{"id": "q2", "text": "Translate 'casa'", "options": []string{"house", "car"}, "correctAnswer": "house", "tags": []string{"home"}},
	}}

	w := do(t, r, http.MethodPost, "/api/bank/batch", batch)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 2, int(decode[gin.H](t, w)["added"].(float64)))

	w = do(t, r, http.MethodPost, "/api/bank/batch", batch)
	assert.Equal(t, 0, int(decode[gin.H](t, w)["added"].(float64)))

	w = do(t, r, http.MethodGet, "/api/bank?tag=ANIMAL", nil)
	require.Equal(t, http.StatusOK, w.Code)
	byTag := decode[[]models.Question](t, w)
	require.Len(t, byTag, 1)
	assert.Equal(t, "q1", byTag[0].ID)

	w = do(t, r, http.MethodGet, "/api/bank?q=casa", nil)
	assert.Len(t, decode[[]models.Question](t, w), 1)

	w = do(t, r, http.MethodPost, "/api/bank", gin.H{"text": "Pick the verb", "options": []string{"run", "blue"}, "correctAnswer": "run"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, r, http.MethodPost, "/api/bank", gin.H{"text": "No options"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodDelete, "/api/bank/q1", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodDelete, "/api/bank/q1", nil).Code)
	assert.Len(t, decode[[]models.Question](t, do(t, r, http.MethodGet, "/api/bank", nil)), 2)

	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodDelete, "/api/bank", nil).Code)
	assert.Empty(t, decode[[]models.Question](t, do(t, r, http.MethodGet, "/api/bank", nil)))
}

func TestImportRoute(t *testing.T) {
	r := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "cards.csv")
	require.NoError(t, err)
	io.WriteString(part, "front,back,category\nperro,dog,animals\ngato,cat,animals\n,orphan,\n")
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/bank/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode[struct {
		Added   int              `json:"added"`
		Skipped []map[string]any `json:"skipped"`
	}](t, w)
	assert.Equal(t, 2, body.Added)
	assert.Len(t, body.Skipped, 1)
	assert.Len(t, decode[[]models.Question](t, do(t, r, http.MethodGet, "/api/bank?tag=animals", nil)), 2)

	t.Run("BadHeader", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, _ := mw.CreateFormFile("file", "x.csv")
		io.WriteString(part, "name,age\n")
		mw.Close()
		req := httptest.NewRequest(http.MethodPost, "/api/bank/import", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestQuizRoutes(t *testing.T) {
	r := newTestRouter(t)
	questions := []gin.H{
		{"id": "q1", "text": "a?", "options": []string{"x", "y"}, "correctAnswer": "x", "difficulty": "beginner", "tags": []string{}},
		{"id": "q2", "text": "b?", "options": []string{"x", "y"}, "correctAnswer": "y", "difficulty": "advanced", "tags": []string{}},
	}

	w := do(t, r, http.MethodPost, "/api/quizzes", gin.H{"title": "Mixed bag", "questions": questions, "tags": []string{"review"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	quiz := decode[models.Quiz](t, w)
	assert.NotEmpty(t, quiz.ID)
	assert.Equal(t, models.DifficultyMixed, quiz.Metadata.Difficulty)
	assert.Contains(t, store.CoverColors, quiz.CoverColor)

	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/api/quizzes", gin.H{"title": "empty"}).Code)

	path := "/api/quizzes/" + quiz.ID
	require.Equal(t, http.StatusOK, do(t, r, http.MethodGet, path, nil).Code)

	t.Run("Usage", func(t *testing.T) {
		w := do(t, r, http.MethodPost, path+"/usage", gin.H{"score": 80})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		got := decode[struct {
			Quiz models.Quiz `json:"quiz"`
		}](t, w)
		assert.Equal(t, 40.0, *got.Quiz.Metadata.AvgScore)

		w = do(t, r, http.MethodPost, path+"/usage", gin.H{"score": 40})
		got = decode[struct {
			Quiz models.Quiz `json:"quiz"`
		}](t, w)
		assert.Equal(t, 40.0, *got.Quiz.Metadata.AvgScore)

		// one of two right is 50, blended with 40
		w = do(t, r, http.MethodPost, path+"/usage", gin.H{"answers": gin.H{"q1": "x", "q2": "x"}})
		got = decode[struct {
			Quiz models.Quiz `json:"quiz"`
		}](t, w)
		assert.Equal(t, 45.0, *got.Quiz.Metadata.AvgScore)

		w = do(t, r, http.MethodPost, path+"/usage", nil)
		require.Equal(t, http.StatusOK, w.Code)

		// chunked upload with nothing in it
		req := httptest.NewRequest(http.MethodPost, path+"/usage", io.NopCloser(strings.NewReader("")))
		req.ContentLength = -1
		req.Header.Set("Content-Type", "application/json")
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		got = decode[struct {
			Quiz models.Quiz `json:"quiz"`
		}](t, w)
		assert.Equal(t, 45.0, *got.Quiz.Metadata.AvgScore)

		assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, path+"/usage", gin.H{"score": 120}).Code)
		assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodPost, "/api/quizzes/nope/usage", gin.H{"score": 10}).Code)
	})

	t.Run("Update", func(t *testing.T) {
		quiz.Title = "Renamed"
		w := do(t, r, http.MethodPut, path, quiz)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Renamed", decode[models.Quiz](t, do(t, r, http.MethodGet, path, nil)).Title)

		assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodPut, "/api/quizzes/ghost", quiz).Code)
	})

	t.Run("UpdateKeepsFixedFields", func(t *testing.T) {
		edit := gin.H{
			"title":      "Advanced only",
			"coverColor": "#000000",
			"questions":  questions[1:],
			"metadata":   gin.H{"difficulty": "beginner"},
		}
		w := do(t, r, http.MethodPut, path, edit)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		for _, got := range []models.Quiz{decode[models.Quiz](t, w), decode[models.Quiz](t, do(t, r, http.MethodGet, path, nil))} {
			assert.Equal(t, "Advanced only", got.Title)
			assert.Equal(t, quiz.CoverColor, got.CoverColor)
			assert.True(t, got.Metadata.CreatedAt.Equal(quiz.Metadata.CreatedAt))
			assert.Equal(t, models.DifficultyAdvanced, got.Metadata.Difficulty)
			require.NotNil(t, got.Metadata.AvgScore)
			assert.Equal(t, 45.0, *got.Metadata.AvgScore)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodDelete, path, nil).Code)
		assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, path, nil).Code)
		assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodDelete, path, nil).Code)
		assert.Empty(t, decode[[]models.Quiz](t, do(t, r, http.MethodGet, "/api/quizzes", nil)))
	})

	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodDelete, "/api/quizzes", nil).Code)
}

func TestAmbientRoutes(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodOptions, "/api/quizzes", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, r, http.MethodGet, "/api/classes", nil).Code)

	w = do(t, r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "linguaquiz_test_http_requests_total"))
}
