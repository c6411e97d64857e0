package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hrms/hrms/internal/config"
	"github.com/hrms/hrms/internal/domain/attachment"
	"github.com/hrms/hrms/internal/domain/auditlog"
	"github.com/hrms/hrms/internal/domain/department"
	"github.com/hrms/hrms/internal/domain/doctor"
	"github.com/hrms/hrms/internal/domain/patient"
	"github.com/hrms/hrms/internal/domain/prescription"
	"github.com/hrms/hrms/internal/domain/record"
	"github.com/hrms/hrms/internal/domain/statistics"
	"github.com/hrms/hrms/internal/domain/user"
	"github.com/hrms/hrms/internal/platform/auth"
	"github.com/hrms/hrms/internal/platform/db"
	"github.com/hrms/hrms/internal/platform/middleware"
	"github.com/hrms/hrms/internal/platform/storage"
	"github.com/hrms/hrms/internal/platform/web"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hrms-server",
		Short: "Hospital Records Management API Server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, dir).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s).\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, dir).Status(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func seedAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the initial admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				return fmt.Errorf("--password is required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			hasher := auth.NewHasher(cfg.BcryptCost)
			tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
			svc := user.NewService(user.NewRepo(pool), tokens, hasher, auditlog.NopRecorder{})

			u, err := svc.Create(ctx, user.CreateInput{
				Username: username,
				Password: password,
				Role:     user.RoleAdmin,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created admin user %q (id %d).\n", u.Username, u.ID)
			return nil
		},
	}
	cmd.Flags().String("username", "admin", "Admin username")
	cmd.Flags().String("password", "", "Admin password")
	return cmd
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "" || os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	store, err := storage.NewLocalStore(cfg.UploadDir, cfg.MaxUploadBytes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare upload directory")
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	hasher := auth.NewHasher(cfg.BcryptCost)
	tx := db.NewRunner(pool)

	// Audit log first: every other service records through it.
	auditRepo := auditlog.NewRepo(pool)
	audit := auditlog.NewRecorder(auditRepo, logger)
	auditSvc := auditlog.NewService(auditRepo)

	userSvc := user.NewService(user.NewRepo(pool), tokens, hasher, audit)
	doctorRepo := doctor.NewRepo(pool)
	recordRepo := record.NewRepo(pool)
	deptSvc := department.NewService(department.NewRepo(pool), doctorRepo, audit)
	doctorSvc := doctor.NewService(doctorRepo, userSvc, deptSvc, recordRepo, audit)
	patientSvc := patient.NewService(patient.NewRepo(pool), recordRepo, audit)
	recordSvc := record.NewService(recordRepo, tx, patientSvc, doctorSvc, deptSvc, audit, logger)
	prescriptionSvc := prescription.NewService(prescription.NewRepo(pool), tx, recordSvc, audit)
	attachmentSvc := attachment.NewService(attachment.NewRepo(pool), tx, recordSvc, store, audit, logger)
	recordSvc.SetAttachmentFiles(attachmentSvc)
	recordSvc.SetChildSources(
		func(ctx context.Context, recordID int64) (any, error) {
			return prescriptionSvc.ListByRecord(ctx, recordID)
		},
		func(ctx context.Context, recordID int64) (any, error) {
			return attachmentSvc.ListByRecord(ctx, recordID)
		},
	)
	statsSvc := statistics.NewService(statistics.NewRepo(pool))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = web.NewValidator()
	e.HTTPErrorHandler = web.ErrorHandler(logger, cfg.IsDev())

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.CaptureClientMeta())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/readyz", db.HealthHandler(pool))

	serverCtx, stopBackground := context.WithCancel(ctx)
	defer stopBackground()

	limiter := middleware.NewRateLimiter(int(cfg.RateLimitRPS), cfg.RateLimitBurst)
	go limiter.StartCleanup(serverCtx, time.Minute)

	statsCache := middleware.NewTTLCache()
	go statsCache.StartCleanup(serverCtx, time.Minute)

	api := e.Group("/api/v1")
	api.Use(middleware.RateLimit(limiter))
	api.Use(auth.Middleware(tokens,
		"/api/v1/auth/login",
		"/api/v1/auth/refresh",
	))

	user.NewHandler(userSvc).RegisterRoutes(api)
	department.NewHandler(deptSvc).RegisterRoutes(api)
	doctor.NewHandler(doctorSvc).RegisterRoutes(api)
	patient.NewHandler(patientSvc).RegisterRoutes(api)
	record.NewHandler(recordSvc).RegisterRoutes(api)
	prescription.NewHandler(prescriptionSvc).RegisterRoutes(api)
	attachment.NewHandler(attachmentSvc).RegisterRoutes(api)
	statistics.NewHandler(statsSvc).RegisterRoutes(api, middleware.CacheResponse(statsCache, cfg.StatsCacheTTL))
	auditlog.NewHandler(auditSvc).RegisterRoutes(api)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	stopBackground()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
