package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/harukimoto/knowledge-base-api/internal/authz"
	"github.com/harukimoto/knowledge-base-api/internal/config"
	"github.com/harukimoto/knowledge-base-api/internal/constants"
	"github.com/harukimoto/knowledge-base-api/internal/database"
	"github.com/harukimoto/knowledge-base-api/internal/handlers"
	"github.com/harukimoto/knowledge-base-api/internal/jobs"
	"github.com/harukimoto/knowledge-base-api/internal/middleware"
	"github.com/harukimoto/knowledge-base-api/internal/repository"
	"github.com/harukimoto/knowledge-base-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Seed demo data (idempotent)
	if err := database.Seed(database.GetDB()); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	// Wire repositories and services
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	requestRepo := repository.NewAccessRequestRepository(db)

	sessionManager := services.NewSessionManager(sessionRepo, cfg.SessionTTL, cfg.RememberTTL)
	evaluator := authz.NewEvaluator(projectRepo)
	authService := services.NewAuthService(userRepo, orgRepo, sessionManager)
	orgService := services.NewOrganizationService(userRepo, orgRepo, projectRepo, requestRepo, sessionManager, evaluator)

	// Initialize Gin router
	r := gin.Default()

	// Cookie session only carries the opaque session token; validity lives
	// in the sessions table.
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.RememberTTL / time.Second),
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	orgHandler := handlers.NewOrganizationHandler(orgService)
	projectHandler := handlers.NewProjectHandler(orgService)
	requestHandler := handlers.NewAccessRequestHandler(orgService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Knowledge Base API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public except /me)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(authService), authHandler.GetCurrentUser)
		}

		// Organization routes (protected)
		org := api.Group("/organization")
		org.Use(middleware.RequireAuth(authService))
		{
			org.GET("", orgHandler.GetOrganization)
			org.GET("/stats", orgHandler.GetStats)
			org.GET("/members", orgHandler.ListMembers)
			org.POST("/members", middleware.RequireAdmin(), orgHandler.InviteMember)
			org.PATCH("/members/:id/role", middleware.RequireAdmin(), orgHandler.UpdateMemberRole)
			org.DELETE("/members/:id", middleware.RequireAdmin(), orgHandler.RemoveMember)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth(authService))
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", middleware.RequireAdmin(), projectHandler.CreateProject)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PATCH("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", middleware.RequireAdmin(), projectHandler.DeleteProject)
			projects.GET("/:id/members", projectHandler.GetProjectMembers)
			projects.POST("/:id/members", projectHandler.AddProjectMember)
			projects.DELETE("/:id/members/:user_id", projectHandler.RemoveProjectMember)
		}

		// Access request routes (protected)
		requests := api.Group("/access-requests")
		requests.Use(middleware.RequireAuth(authService))
		{
			requests.GET("", requestHandler.ListAccessRequests)
			requests.POST("", requestHandler.CreateAccessRequest)
			requests.POST("/:id/approve", middleware.RequireApprover(), requestHandler.ApproveAccessRequest)
			requests.POST("/:id/reject", middleware.RequireApprover(), requestHandler.RejectAccessRequest)
		}
	}

	// Start the session sweep
	scheduler := jobs.NewScheduler(sessionManager)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server starting on %s", cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}
