// Package server wires services and handlers into the wallet's HTTP router.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "studentwallet/internal/docs" // swagger docs
	"studentwallet/internal/events"
	"studentwallet/internal/handlers"
	"studentwallet/internal/middleware"
	"studentwallet/internal/platform"
	"studentwallet/internal/services"
	"studentwallet/internal/validator"
)

// Deps are the collaborators the router is built from.
type Deps struct {
	DB        *gorm.DB
	Provider  platform.Provider
	Publisher events.Publisher
	Location  *time.Location
	// Clock defaults to the wall clock in Location.
	Clock services.Clock
	// DevMode flags logged-in users as development users.
	DevMode bool
	// WebhookAPIKey, when set, is required on the platform webhook.
	WebhookAPIKey string
}

// Services groups the data services built over one database.
type Services struct {
	Users         services.UserServicer
	Transactions  services.TransactionServicer
	Budgets       services.BudgetServicer
	Goals         services.SavingsGoalServicer
	Notifications services.NotificationServicer
	Stats         services.StatsServicer
	Export        services.ExportServicer
	Audit         services.AuditServicer
}

// NewServices builds every service over db.
func NewServices(db *gorm.DB, clock services.Clock, loc *time.Location) *Services {
	transactions := services.NewTransactionService(db, clock)
	budgets := services.NewBudgetService(db, transactions, clock)
	goals := services.NewSavingsGoalService(db)
	return &Services{
		Users:         services.NewUserService(db),
		Transactions:  transactions,
		Budgets:       budgets,
		Goals:         goals,
		Notifications: services.NewNotificationService(db, budgets, goals),
		Stats:         services.NewStatsService(transactions, budgets, goals, clock),
		Export:        services.NewExportService(transactions, loc),
		Audit:         services.NewAuditService(db),
	}
}

// NewRouter builds the API router.
func NewRouter(d Deps) *gin.Engine {
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	clock := d.Clock
	if clock == nil {
		clock = services.SystemClock(loc)
	}
	svc := NewServices(d.DB, clock, loc)
	validator.Register()

	authHandler := handlers.NewAuthHandler(d.Provider, svc.Users, d.DevMode)
	categoryHandler := handlers.NewCategoryHandler()
	transactionHandler := handlers.NewTransactionHandler(svc.Transactions, svc.Audit, loc)
	budgetHandler := handlers.NewBudgetHandler(svc.Budgets, svc.Audit)
	goalHandler := handlers.NewSavingsGoalHandler(svc.Goals, svc.Audit, loc)
	notificationHandler := handlers.NewNotificationHandler(svc.Notifications, svc.Audit)
	statsHandler := handlers.NewStatsHandler(svc.Stats)
	exportHandler := handlers.NewExportHandler(svc.Export, loc)
	webhookHandler := platform.NewWebhookHandler(d.Publisher)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Platform webhook
	router.POST("/webhooks/zalo", middleware.APIKeyMiddleware(d.WebhookAPIKey), webhookHandler.Handle)

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.GET("/categories", categoryHandler.GetCategories)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/search", transactionHandler.SearchTransactions)
	transactions.GET("/range", transactionHandler.GetTransactionsByRange)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	protected.GET("/opening-balances", transactionHandler.GetOpeningBalances)
	protected.POST("/opening-balances", transactionHandler.CreateOpeningBalance)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/category/:category", budgetHandler.GetBudgetByCategory)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/status", budgetHandler.GetBudgetStatus)

	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetGoals)
	goals.GET("/:id", goalHandler.GetGoal)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.POST("/:id/deposit", goalHandler.AddToSavings)

	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.GetNotifications)
	notifications.GET("/unread", notificationHandler.GetUnreadNotifications)
	notifications.GET("/alerts", notificationHandler.GetAlerts)
	notifications.POST("", notificationHandler.CreateNotification)
	notifications.PUT("/read-all", notificationHandler.MarkAllAsRead)
	notifications.PUT("/:id/read", notificationHandler.MarkAsRead)
	notifications.DELETE("/:id", notificationHandler.DeleteNotification)
	notifications.DELETE("", notificationHandler.DeleteAllNotifications)

	stats := protected.Group("/stats")
	stats.GET("/summary", statsHandler.GetSummary)
	stats.GET("/daily", statsHandler.GetDaily)
	protected.GET("/dashboard", statsHandler.GetDashboard)

	protected.GET("/export/transactions", exportHandler.ExportTransactions)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
