package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gocool94/innnov-prod/internal/auth"
	"github.com/gocool94/innnov-prod/internal/config"
	"github.com/gocool94/innnov-prod/internal/database"
	"github.com/gocool94/innnov-prod/internal/handlers"
	"github.com/gocool94/innnov-prod/internal/jobs"
	"github.com/gocool94/innnov-prod/internal/repository"
	"github.com/gocool94/innnov-prod/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repository
	repo := repository.NewRepository(database.GetDB())

	// Per-entity locks shared by every service that mutates ideas or users
	locks := services.NewEntityLocks()

	// Initialize services
	authService := services.NewAuthService(repo, cfg.App.StoreTimeout)
	userService := services.NewUserService(repo, cfg.App.StoreTimeout)
	assignmentService := services.NewAssignmentService(repo, locks, cfg.App.StoreTimeout)
	ideaService := services.NewIdeaService(
		repo,
		locks,
		assignmentService,
		cfg.App.AcceptBonusMultiplier,
		cfg.App.AutoAssignReviewer,
		cfg.App.StoreTimeout,
	)
	summaryService := services.NewSummaryService(repo, cfg.App.StoreTimeout)
	statsService := services.NewStatsService(repo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	ideaHandler := handlers.NewIdeaHandler(ideaService)
	userHandler := handlers.NewUserHandler(userService, summaryService)
	adminHandler := handlers.NewAdminHandler(userService, authService, assignmentService, statsService)

	// Start stats snapshot job
	statsJob := jobs.NewStatsJob(repo)
	statsJob.Start(cfg.App.StatsInterval)
	log.Println("Stats snapshot job started")

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000", // Local development
		"http://localhost:5173", // Vite dev server
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	// Add additional frontend URL from environment if provided
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Authentication routes (public)
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/login", authHandler.Login)
	}

	// API routes (protected)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		// Idea endpoints
		api.POST("/ideas", ideaHandler.SubmitIdea)
		api.GET("/ideas", ideaHandler.GetIdeas)
		api.GET("/ideas/:id", ideaHandler.GetIdea)
		api.PUT("/ideas/:id", ideaHandler.UpdateIdea)
		api.POST("/ideas/:id/transition", ideaHandler.TransitionIdea)

		// Reviewer queue lookup
		api.GET("/review-ideas", ideaHandler.GetReviewIdeas)

		// Dashboard endpoints
		userRoutes := api.Group("/user")
		{
			userRoutes.GET("/profile", userHandler.GetProfile)
			userRoutes.GET("/summary", userHandler.GetSummary)
		}
		api.GET("/top-submitters", userHandler.GetTopSubmitters)
	}

	// Admin routes (protected + admin only)
	admin := router.Group("/api/admin")
	admin.Use(auth.AuthMiddleware())
	admin.Use(adminHandler.AdminMiddleware())
	{
		admin.POST("/ideas/:id/assign", adminHandler.AssignReviewer)
		admin.DELETE("/ideas/:id/assign", adminHandler.UnassignReviewer)
		admin.GET("/users", adminHandler.ListUsers)
		admin.POST("/users", adminHandler.CreateUser)
		admin.GET("/stats", adminHandler.GetStats)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		log.Printf("Health check: http://localhost:%s/health", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
