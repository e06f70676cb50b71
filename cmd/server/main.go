package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"linguaquiz/internal/api"
	"linguaquiz/internal/api/handlers"
	"linguaquiz/internal/backend"
	"linguaquiz/internal/classes"
	"linguaquiz/internal/config"
	"linguaquiz/internal/generator"
	"linguaquiz/internal/importer"
	"linguaquiz/internal/logger"
	"linguaquiz/internal/metrics"
	"linguaquiz/internal/mockai"
	"linguaquiz/internal/random"
	"linguaquiz/internal/store"
	"linguaquiz/internal/transcript"

	"github.com/gin-gonic/gin"
)

const serviceName = "server"

func main() {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Invalid configuration: %v", err)
	}

	logr := logger.New("linguaquiz", cfg.LogLevel)
	m := metrics.New(serviceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kvStore, closeStore, err := backend.Open(ctx, cfg, logr)
	if err != nil {
		log.Fatalf("FATAL: Failed to open %s storage: %v", cfg.StorageBackend, err)
	}
	defer closeStore()

	// SEED pins every random draw so a session can be replayed
	var src random.Source = rand.New(rand.NewSource(time.Now().UnixNano()))
	if cfg.Seed != 0 {
		src = random.New(cfg.Seed)
		logr.WithField("seed", cfg.Seed).Info("Using seeded random source")
	}

	storeOpts := store.Options{Logger: logr, Metrics: m}
	errorRate := cfg.MockAIErrorRate

	handler := handlers.NewHandler(handlers.Handler{
		Generator: generator.New(generator.Options{Source: src}),
		Envelope: mockai.New(mockai.Config{
			Logger:    logr,
			Metrics:   m,
			MinDelay:  cfg.MockAIMinDelay,
			MaxDelay:  cfg.MockAIMaxDelay,
			ErrorRate: &errorRate,
		}),
		Bank:        store.NewQuestionBank(kvStore, storeOpts),
		Library:     store.NewQuizLibrary(kvStore, storeOpts),
		Importer:    importer.New(importer.Options{}),
		Transcripts: transcript.New(transcript.WithLogger(logr)),
		Classes:     classes.NewClient(cfg.ClassesAPIURL, nil),
		Log:         logr,
		Metrics:     m,
	})

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, handler, cfg.FrontendURL, m)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.WithField("port", cfg.Port).Info("Server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logr.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.WithError(err).Error("Server forced to shutdown")
		return
	}

	logr.Info("Server exited properly")
}
