package api

import (
	"net/http"

	"alcyxob/workout-coach/internal/service"

	"github.com/gin-gonic/gin"
)

// Services bundles what the HTTP layer talks to.
type Services struct {
	Auth     service.AuthService
	User     service.UserService
	Exercise service.ExerciseService
	Plan     service.WorkoutPlanService
	History  service.HistoryService
	Reminder service.ReminderService
	Session  service.SessionService
}

func SetupRoutes(router *gin.Engine, services Services) {
	authHandler := NewAuthHandler(services.Auth)
	userHandler := NewUserHandler(services.User, services.History)
	exerciseHandler := NewExerciseHandler(services.Exercise, services.History)
	planHandler := NewPlanHandler(services.Plan)
	historyHandler := NewHistoryHandler(services.History)
	reminderHandler := NewReminderHandler(services.Reminder)
	sessionHandler := NewSessionHandler(services.Session)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(services.Auth))
	{
		// --- Profile ---
		me := protected.Group("/users/me")
		{
			me.GET("", userHandler.GetMe)
			me.PUT("", userHandler.UpdateMe)
			me.PUT("/goal", userHandler.UpdateGoal)
			me.PUT("/weight", userHandler.UpdateWeight)
			me.PUT("/password", userHandler.ChangePassword)
			me.GET("/history", userHandler.History)
			me.GET("/badges", userHandler.Badges)
		}

		// --- Exercise Routes ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.POST("", exerciseHandler.CreateExercise)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
			exerciseGroup.PUT("/:id", exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:id", exerciseHandler.DeleteExercise)
			exerciseGroup.POST("/:id/image-upload-url", exerciseHandler.RequestImageUploadURL)
			exerciseGroup.POST("/:id/image", exerciseHandler.ConfirmImageUpload)
			exerciseGroup.GET("/:id/performance", exerciseHandler.ExercisePerformance)
		}

		// --- Plans ---
		planGroup := protected.Group("/workout-plans")
		{
			planGroup.GET("", planHandler.ListPlans)
			planGroup.POST("", planHandler.CreatePlan)
			planGroup.GET("/:id", planHandler.GetPlan)
			planGroup.PUT("/:id", planHandler.UpdatePlan)
			planGroup.DELETE("/:id", planHandler.DeletePlan)
		}
		entryGroup := protected.Group("/workout-exercises")
		{
			entryGroup.GET("/:planId", planHandler.ListEntries)
			entryGroup.POST("", planHandler.AddEntry)
			entryGroup.PUT("/:id", planHandler.UpdateEntry)
			entryGroup.DELETE("/:id", planHandler.DeleteEntry)
		}

		// --- History ---
		protected.POST("/workout-history", historyHandler.CreateHistory)
		protected.GET("/workout-history/:id", historyHandler.GetHistory)
		protected.POST("/workout-history/:id/export", historyHandler.ExportCSV)
		protected.POST("/workout-performance", historyHandler.CreatePerformance)
		protected.GET("/workout-performance/:historyId", historyHandler.ListPerformance)

		// --- Reminders ---
		reminderGroup := protected.Group("/reminders")
		{
			reminderGroup.GET("", reminderHandler.ListReminders)
			reminderGroup.POST("", reminderHandler.CreateReminder)
			reminderGroup.PUT("/:id", reminderHandler.UpdateReminder)
			reminderGroup.DELETE("/:id", reminderHandler.DeleteReminder)
		}

		// --- Guided sessions ---
		sessionGroup := protected.Group("/sessions")
		{
			sessionGroup.POST("", sessionHandler.StartSession)
			sessionGroup.GET("/:id", sessionHandler.GetSession)
			sessionGroup.PUT("/:id/rest", sessionHandler.SetRestDuration)
			sessionGroup.POST("/:id/start", sessionHandler.Act(service.ActionStart))
			sessionGroup.POST("/:id/complete-set", sessionHandler.Act(service.ActionCompleteSet))
			sessionGroup.POST("/:id/skip-rest", sessionHandler.Act(service.ActionSkipRest))
			sessionGroup.POST("/:id/skip-exercise", sessionHandler.Act(service.ActionSkipExercise))
			sessionGroup.POST("/:id/terminate", sessionHandler.Act(service.ActionTerminate))
		}
	}
}
