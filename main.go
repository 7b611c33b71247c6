package main

import (
	"log"
	"net/http"

	controller "github.com/adelorme/qr1board/controller"
	"github.com/adelorme/qr1board/initializers"
	middleware "github.com/adelorme/qr1board/middleware"
	service "github.com/adelorme/qr1board/service"

	"github.com/gin-gonic/gin"
)

func init() {
	if err := initializers.LoadEnv(); err != nil {
		log.Println("No .env file, using process environment")
	}
	if err := initializers.ConnectDB(); err != nil {
		log.Fatalf("[CRITICAL] Failed to initialize database connection: %s", err)
	}
	if err := initializers.Migrate(); err != nil {
		log.Fatalf("[CRITICAL] Failed to run database migrations: %s", err)
	}
}

func main() {
	actionService, err := service.NewActionService(initializers.DB)
	if err != nil {
		log.Fatalf("Failed to initialize action service: %s", err)
	}
	if err := actionService.SeedDefaultLists(); err != nil {
		log.Fatalf("Failed to seed default lookup lists: %s", err)
	}

	actionController := controller.NewActionController(actionService)

	router := gin.Default()
	router.Use(middleware.CORSMiddleware())

	// Global rate limiter for most routes
	router.Use(middleware.GlobalRateLimiter.Limit())

	// Healthcheck endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Actions: lifecycle, query, reconciliation
	router.POST("/actions",
		middleware.StrictRateLimiter.Limit(),
		actionController.CreateAction)
	router.GET("/actions", actionController.QueryActions)
	router.POST("/actions/bulk",
		middleware.StrictRateLimiter.Limit(),
		actionController.BulkUpdate)
	router.GET("/actions/next-id", actionController.NextActionID)
	router.GET("/actions/:id/history", actionController.GetActionHistory)
	router.POST("/actions/:id/proof",
		middleware.StrictRateLimiter.Limit(),
		actionController.UploadProof)

	// Dashboard
	router.GET("/dashboard/kpis", actionController.GetKPIs)
	router.GET("/dashboard/pareto", actionController.GetPareto)
	router.GET("/dashboard/closed", actionController.GetRecentClosures)
	router.GET("/export", actionController.ExportCSV)

	// Lookup lists
	router.GET("/lists/:name", actionController.GetList)
	router.POST("/lists/:name",
		middleware.StrictRateLimiter.Limit(),
		actionController.AddListValue)
	router.DELETE("/lists/:name/:value",
		middleware.StrictRateLimiter.Limit(),
		actionController.DeleteListValue)

	router.Run(":8080")
}
