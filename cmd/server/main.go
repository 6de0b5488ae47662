package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"alcyxob/workout-tracker/internal/api"
	"alcyxob/workout-tracker/internal/auth"
	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/logging"
	"alcyxob/workout-tracker/internal/ratelimit"
	"alcyxob/workout-tracker/internal/repository/gormstore"
	"alcyxob/workout-tracker/internal/service"
	"alcyxob/workout-tracker/internal/storage"
)

// @title Workout Tracker API
// @version 1.0
// @description API for logging workouts, managing templates and the exercise catalog.
// @contact.name API Support
// @contact.email support@example.com
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := run("."); err != nil {
		log.Fatal(err)
	}
}

// run wires the server and blocks until shutdown. Errors are returned rather
// than fatal so deferred cleanups always execute.
func run(configPath string) error {
	// --- Configuration ---
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	logging.Setup(cfg.Log)
	log.Info("Starting Workout Tracker server...")
	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return errors.New("jwt.secret must be set (JWT_SECRET)")
	}
	log.Info("Configuration loaded.")

	// --- Database Connection ---
	db, err := gormstore.Open(cfg.Database, logging.GormLevel())
	if err != nil {
		return fmt.Errorf("could not open database: %w", err)
	}
	defer func() {
		log.Info("Closing database...")
		if errClose := gormstore.Close(db); errClose != nil {
			log.Errorf("failed to close database: %v", errClose)
		}
	}()
	if err = gormstore.Migrate(db); err != nil {
		return fmt.Errorf("could not migrate schema: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("could not access connection pool: %w", err)
	}
	store := gormstore.NewStore(db)
	log.Info("Database ready.")

	// --- Initialize Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.Enabled() {
		log.Info("Initializing file storage service...")
		initCtx, cancelInit := context.WithTimeout(context.Background(), 10*time.Second)
		fileStorage, err = storage.NewS3Storage(initCtx, cfg.S3)
		cancelInit()
		if err != nil {
			return fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
	} else {
		log.Warn("s3.bucket_name not set, exercise media is disabled")
	}

	// --- Initialize Services ---
	log.Info("Initializing services...")
	authenticator, err := auth.NewJWTAuthenticator(cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.Issuer)
	if err != nil {
		return fmt.Errorf("failed to initialize authenticator: %w", err)
	}
	services := api.Services{
		Auth:      service.NewAuthService(store.Users(), authenticator),
		Users:     service.NewUserService(store, authenticator),
		Exercises: service.NewExerciseService(store, fileStorage),
		Templates: service.NewTemplateService(store),
		Workouts:  service.NewWorkoutService(store, nil),
	}

	limiter := ratelimit.NewManager(cfg.Redis, nil, nil)
	defer func() {
		if errClose := limiter.Close(); errClose != nil {
			log.Errorf("failed to close rate limiter: %v", errClose)
		}
	}()

	// --- Initialize Gin Engine ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger())

	// --- Setup Routes ---
	log.Info("Setting up API routes...")
	api.SetupRoutes(router, services, limiter, cfg.RateLimit, sqlDB.PingContext)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	log.Infof("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	serveErr := make(chan error, 1)
	go func() {
		if errServe := server.ListenAndServe(); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			serveErr <- errServe
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	var listenErr error
	select {
	case <-quit:
	case listenErr = <-serveErr:
		log.Errorf("listen: %v", listenErr)
	}
	log.Info("Shutting down server...")

	// In-flight requests get five seconds to finish.
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if errShutdown := server.Shutdown(ctxShutdown); errShutdown != nil {
		log.Errorf("server forced to shutdown: %v", errShutdown)
	}

	log.Info("Server exiting.")
	if listenErr != nil {
		return fmt.Errorf("listen: %w", listenErr)
	}
	return nil
}
