package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nirarg/esxi-console/internal/api"
	"github.com/nirarg/esxi-console/internal/backend"
	"github.com/nirarg/esxi-console/internal/config"
	"github.com/nirarg/esxi-console/internal/console"
	"github.com/nirarg/esxi-console/internal/metrics"
	"github.com/nirarg/esxi-console/internal/storage"
	"github.com/nirarg/esxi-console/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "github.com/nirarg/esxi-console/docs"
)

// @title ESXi Console API
// @version 0.1
// @description Console service over an ESXi virtualization backend: VM, host, task and credential views with adaptive polling
// @host localhost:8080
// @BasePath /
// @schemes http https

func main() {
	// Parse command line flags
	var configFile string
	flag.StringVar(&configFile, "config", "", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logger based on configuration
	log := setupLogger(cfg.Logging)
	log.Info("Starting ESXi console service...")
	log.WithField("config_file", configFile).Debug("Configuration loaded")

	// Set Gin mode based on log level
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize backend client
	client, err := backend.NewClient(cfg.Backend, log)
	if err != nil {
		log.Fatalf("Failed to create backend client: %v", err)
	}

	// Check the backend is reachable; the views retry on their own schedule
	probeCtx, probeCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if _, err := client.ListHosts(probeCtx); err != nil {
		log.WithError(err).Warn("Backend not reachable at startup, views will retry on their next poll")
	} else {
		log.WithField("base_url", client.BaseURL()).Info("Successfully connected to backend")
	}
	probeCancel()

	// Initialize database connection
	db, err := initDatabase(cfg.Database, log)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	log.WithFields(logrus.Fields{
		"type": cfg.Database.Type,
		"name": cfg.Database.Name,
	}).Info("Database initialized")

	consoleDB, err := storage.NewConsoleDB(db, log)
	if err != nil {
		log.Fatalf("Failed to initialize console database: %v", err)
	}
	log.Info("Console database schema migrated")

	// Metrics registry
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg)

	// Console session shared by all API requests
	journal := storage.NewJournal(consoleDB, log)
	session, err := console.NewSession(client, cfg.Console, log, console.Observers(collector, journal))
	if err != nil {
		log.Fatalf("Failed to create console session: %v", err)
	}

	// Initialize handlers
	handler := api.NewHandler(session, consoleDB, consoleDB, log)
	if err := handler.RestorePreferences(context.Background()); err != nil {
		log.WithError(err).Warn("Failed to restore stored preferences, using configured defaults")
	}

	// Setup router
	router := gin.Default()

	// CORS middleware (if enabled)
	if cfg.Server.EnableCORS {
		router.Use(corsMiddleware())
	}

	// Request logging middleware
	router.Use(requestLoggerMiddleware(log))

	// Health check endpoint
	router.GET("/health", healthCheck(log))

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(metrics.Handler(reg)))

	// API v1 routes
	handler.RegisterRoutes(router.Group("/api/v1/console"))

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Create HTTP server with configuration
	server := &http.Server{
		Addr:         cfg.Server.GetAddress(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.WithFields(logrus.Fields{
			"address": cfg.Server.GetAddress(),
			"tls":     cfg.Server.IsTLSEnabled(),
		}).Info("Server starting")

		log.Infof("Swagger UI available at: http%s://%s/swagger/index.html",
			map[bool]string{true: "s", false: ""}[cfg.Server.IsTLSEnabled()],
			cfg.Server.GetAddress())

		var err error
		if cfg.Server.IsTLSEnabled() {
			err = server.ListenAndServeTLS(cfg.Server.TLSConfig.CertFile, cfg.Server.TLSConfig.KeyFile)
		} else {
			err = server.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Give the server time to finish handling existing requests
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Stop polling before the journal loses its database
	session.Close()
	journal.Close()
	log.Info("Console views closed")

	// Close database connection
	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			log.WithError(err).Warn("Error closing database connection")
		} else {
			log.Info("Database connection closed")
		}
	}

	log.Info("Server exited")
}

func setupLogger(cfg config.LoggingConfig) *logrus.Logger {
	log := logrus.New()

	// Set log level
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	// Set log format
	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	// Set output
	switch cfg.Output {
	case "stderr":
		log.SetOutput(os.Stderr)
	case "file":
		if cfg.FilePath != "" {
			file, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", cfg.FilePath, err)
				log.SetOutput(os.Stdout)
			} else {
				log.SetOutput(file)
			}
		}
	default:
		log.SetOutput(os.Stdout)
	}

	return log
}

// corsMiddleware returns a CORS middleware
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// requestLoggerMiddleware logs HTTP requests
func requestLoggerMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		// Process request
		c.Next()

		// Log request
		latency := time.Since(start)
		statusCode := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		entry := log.WithFields(logrus.Fields{
			"status":     statusCode,
			"latency":    latency,
			"client_ip":  c.ClientIP(),
			"method":     c.Request.Method,
			"path":       path,
			"user_agent": c.Request.UserAgent(),
		})

		switch {
		case len(c.Errors) > 0:
			entry.Error(c.Errors.String())
		case c.Request.URL.Path == "/metrics" || c.Request.URL.Path == "/health":
			entry.Debug("Request processed")
		default:
			entry.Info("Request processed")
		}
	}
}

// healthCheck returns a simple health check handler
func healthCheck(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, types.HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now(),
			Service:   "esxi-console",
			Version:   "1.0.0",
		})
	}
}

// initDatabase initializes and returns a GORM database connection
func initDatabase(cfg config.DatabaseConfig, log *logrus.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector

	dsn := cfg.GetDSN()
	if dsn == "" {
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	// Select the appropriate GORM driver based on database type
	switch cfg.Type {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	// Configure GORM logger to only log errors (suppress "record not found" messages)
	gormLogger := logger.Default.LogMode(logger.Error)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying database: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.WithField("type", cfg.Type).Debug("Database connection pool configured")

	return db, nil
}
