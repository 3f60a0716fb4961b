package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/workout-coach/internal/api"
	"alcyxob/workout-coach/internal/config"
	"alcyxob/workout-coach/internal/logging"
	"alcyxob/workout-coach/internal/repository/mongo"
	"alcyxob/workout-coach/internal/service"
	"alcyxob/workout-coach/internal/storage"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// @title Workout Coach API
// @version 1.0
// @description API for workout plans, guided workout sessions, history and badges.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   cfg.Log.ToStdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.FormatJSON,
	})
	log.Info("starting workout coach server")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Info("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.WithError(err).Error("failed to disconnect MongoDB")
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.WithField("database", cfg.Database.Name).Info("database connection established")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB)
		log.Info("index creation process completed")
	}()

	// --- Initialize Storage ---
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 30*time.Second)
	fileStorage, err := storage.NewS3Storage(storageCtx, cfg.S3)
	storageCancel()
	if err != nil {
		log.Fatalf("failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	uploadRepo := mongo.NewMongoUploadRepository(appDB)
	planRepo := mongo.NewMongoWorkoutPlanRepository(appDB)
	entryRepo := mongo.NewMongoWorkoutExerciseRepository(appDB)
	historyRepo := mongo.NewMongoHistoryRepository(appDB)
	performanceRepo := mongo.NewMongoPerformanceRepository(appDB)
	reminderRepo := mongo.NewMongoReminderRepository(appDB)

	// --- Initialize Services ---
	exerciseService := service.NewExerciseService(exerciseRepo, uploadRepo, fileStorage)
	historyService := service.NewHistoryService(historyRepo, performanceRepo, planRepo, exerciseRepo, fileStorage)
	sessionService := service.NewSessionService(planRepo, entryRepo, exerciseService, historyService, cfg.Session)
	services := api.Services{
		Auth:     service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration),
		User:     service.NewUserService(userRepo),
		Exercise: exerciseService,
		Plan:     service.NewWorkoutPlanService(planRepo, entryRepo, exerciseRepo),
		History:  historyService,
		Reminder: service.NewReminderService(reminderRepo, planRepo),
		Session:  sessionService,
	}

	if log.GetLevel() < log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default() // Includes Logger and Recovery middleware
	api.SetupRoutes(router, services)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("address", cfg.Server.Address).Info("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	// Running sessions end without reporting, as if the user had quit.
	sessionService.Shutdown()

	log.Info("server exiting")
}
