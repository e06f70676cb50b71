package api

import (
	"linguaquiz/internal/api/handlers"
	"linguaquiz/internal/metrics"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up the API routes
func SetupRoutes(router *gin.Engine, handler *handlers.Handler, frontendURL string, m *metrics.Metrics) {
	router.Use(RequestLogger(handler.Log, m))
	router.Use(CORSMiddleware(frontendURL))

	router.GET("/healthz", handler.HandleHealth)
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	api := router.Group("/api")
	{
		generate := api.Group("/generate")
		generate.POST("/topic", handler.HandleGenerateTopic)     // Topic-bank lookup with generic fallback
		generate.POST("/context", handler.HandleGenerateContext) // Vocab / grammar / comprehension templates
		generate.POST("/batch", handler.HandleGenerateBatch)     // Combinatorial batch, up to 200

		bank := api.Group("/bank")
		bank.GET("", handler.HandleListBank)
		bank.POST("", handler.HandleSaveQuestion)
		bank.POST("/batch", handler.HandleSaveBatch)
		bank.POST("/import", handler.HandleImportBank) // Multipart CSV upload
		bank.DELETE("/:questionId", handler.HandleRemoveQuestion)
		bank.DELETE("", handler.HandleClearBank)

		quizzes := api.Group("/quizzes")
		quizzes.GET("", handler.HandleListQuizzes)
		quizzes.POST("", handler.HandleCreateQuiz)
		quizzes.GET("/:quizId", handler.HandleGetQuiz)
		quizzes.PUT("/:quizId", handler.HandleUpdateQuiz)
		quizzes.DELETE("/:quizId", handler.HandleDeleteQuiz)
		quizzes.POST("/:quizId/usage", handler.HandleRecordUsage) // Stamp lastUsed, blend score
		quizzes.DELETE("", handler.HandleClearLibrary)

		api.GET("/classes", handler.HandleListClasses)
	}
}
