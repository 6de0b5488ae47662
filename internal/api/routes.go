package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/service"
)

// Services bundles what the routes depend on.
type Services struct {
	Auth      service.AuthService
	Users     service.UserService
	Exercises service.ExerciseService
	Templates service.TemplateService
	Workouts  service.WorkoutService
}

// HealthCheck reports whether the backing store is reachable.
type HealthCheck func(ctx context.Context) error

func SetupRoutes(
	router *gin.Engine,
	services Services,
	limiter RateLimiter,
	rateCfg config.RateLimitConfig,
	health HealthCheck,
) {
	authHandler := NewAuthHandler(services.Auth)
	userHandler := NewUserHandler(services.Users)
	exerciseHandler := NewExerciseHandler(services.Exercises)
	templateHandler := NewTemplateHandler(services.Templates, services.Workouts)
	workoutHandler := NewWorkoutHandler(services.Workouts)

	authMiddleware := AuthMiddleware(services.Auth)
	adminOnly := AdminMiddleware()

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/health", healthHandler(health))

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/login", LoginRateLimit(limiter, rateCfg.LoginAttempts, rateCfg.LoginWindow), authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/users/me", userHandler.GetMe)
		protected.PUT("/users/me", userHandler.UpdateMe)

		// --- Exercise catalog ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
			exerciseGroup.GET("/:id/media", exerciseHandler.GetMediaURL)

			// Only admins curate the catalog
			exerciseGroup.POST("", adminOnly, exerciseHandler.CreateExercise)
			exerciseGroup.PUT("/:id", adminOnly, exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:id", adminOnly, exerciseHandler.DeleteExercise)
			exerciseGroup.POST("/:id/media/upload-url", adminOnly, exerciseHandler.RequestMediaUpload)
			exerciseGroup.PUT("/:id/media", adminOnly, exerciseHandler.AttachMedia)
		}

		// --- Templates ---
		templateGroup := protected.Group("/templates")
		{
			templateGroup.GET("", templateHandler.ListTemplates)
			templateGroup.POST("", templateHandler.CreateTemplate)
			templateGroup.GET("/:id", templateHandler.GetTemplate)
			templateGroup.PUT("/:id", templateHandler.UpdateTemplate)
			templateGroup.DELETE("/:id", templateHandler.DeleteTemplate)
			templateGroup.PUT("/:id/exercises", templateHandler.ReplaceExercises)
			templateGroup.POST("/:id/exercises", templateHandler.AddExercise)
			templateGroup.DELETE("/:id/exercises/:templateExerciseId", templateHandler.RemoveExercise)
			// POST /api/v1/templates/{id}/workouts starts a workout from the template
			templateGroup.POST("/:id/workouts", templateHandler.StartWorkout)
		}

		// --- Workouts ---
		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.GET("", workoutHandler.ListWorkouts)
			workoutGroup.POST("", workoutHandler.CreateWorkout)
			workoutGroup.GET("/active", workoutHandler.GetActiveWorkout)
			workoutGroup.GET("/history", workoutHandler.GetHistory)
			workoutGroup.GET("/progression/:exerciseId", workoutHandler.GetProgression)
			workoutGroup.GET("/:id", workoutHandler.GetWorkout)
			workoutGroup.PUT("/:id", workoutHandler.UpdateWorkout)
			workoutGroup.DELETE("/:id", workoutHandler.CancelWorkout)
			workoutGroup.PUT("/:id/complete", workoutHandler.CompleteWorkout)

			workoutGroup.POST("/:id/exercises", workoutHandler.AddExercise)
			workoutGroup.PUT("/:id/exercises/:workoutExerciseId/notes", workoutHandler.UpdateExerciseNotes)
			workoutGroup.DELETE("/:id/exercises/:workoutExerciseId", workoutHandler.RemoveExercise)

			workoutGroup.POST("/:id/exercises/:workoutExerciseId/sets", workoutHandler.AddSet)
			workoutGroup.PUT("/:id/exercises/:workoutExerciseId/sets/:setId", workoutHandler.UpdateSet)
			workoutGroup.DELETE("/:id/exercises/:workoutExerciseId/sets/:setId", workoutHandler.DeleteSet)
		}

		// --- Admin ---
		adminGroup := protected.Group("/admin")
		adminGroup.Use(adminOnly)
		{
			adminGroup.GET("/users", userHandler.ListUsers)
			adminGroup.POST("/users", userHandler.CreateUser)
			adminGroup.GET("/users/:id", userHandler.GetUser)
			adminGroup.PUT("/users/:id", userHandler.UpdateUser)
			adminGroup.DELETE("/users/:id", userHandler.DeleteUser)
			adminGroup.GET("/templates", templateHandler.ListAllTemplates)
		}
	}
}

func healthHandler(check HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				log.WithError(err).Warn("health check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
	}
}
