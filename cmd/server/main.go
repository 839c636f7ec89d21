package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/cors"

	httpapi "biblioteca-backend/internal/api/http"
	"biblioteca-backend/internal/config"
	"biblioteca-backend/internal/jobs"
	"biblioteca-backend/internal/logger"
	"biblioteca-backend/internal/policy"
	"biblioteca-backend/internal/repository/postgres"
	"biblioteca-backend/internal/scheduler"
	"biblioteca-backend/internal/security"
	"biblioteca-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load .env if present, then configuration (env overrides YAML)
	_ = godotenv.Load()
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Biblioteca Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Loan policy comes from configuration, not from the database
	pol := policy.LoanPolicy{
		MaxLoansPerUser: cfg.Loans.MaxLoansPerUser,
		DefaultLoanDays: cfg.Loans.DefaultLoanDays,
		MaxLoanDays:     cfg.Loans.MaxLoanDays,
	}

	// Initialize Services
	emailSvc := service.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.User,
		cfg.SMTP.Password,
		cfg.SMTP.From,
	)
	authSvc := service.NewAuthService(store.UserRepository, tokenManager)
	bookSvc := service.NewBookService(store.BookRepository)
	loanSvc := service.NewLoanService(store.LoanRepository, pol)
	userSvc := service.NewUserService(store.UserRepository)
	categorySvc := service.NewCategoryService(store.CategoryRepository)

	// Initialize HTTP handlers and router
	authMiddleware := httpapi.NewAuthMiddleware(tokenManager)
	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:       httpapi.NewAuthHandler(authSvc),
		Books:      httpapi.NewBookHandler(bookSvc),
		Loans:      httpapi.NewLoanHandler(loanSvc),
		Users:      httpapi.NewUserHandler(userSvc),
		Categories: httpapi.NewCategoryHandler(categorySvc),
		Middleware: authMiddleware,
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(router)

	// Start overdue-reminder scheduler inside the server process
	jobRunner := jobs.NewJobRunner(store.LoanRepository, emailSvc, cfg)
	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()
	defer cronScheduler.Stop()

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), corsHandler); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
