package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/monocle-dev/hackhub/db"
	"github.com/monocle-dev/hackhub/internal/auth"
	"github.com/monocle-dev/hackhub/internal/config"
	"github.com/monocle-dev/hackhub/internal/handlers"
	"github.com/monocle-dev/hackhub/internal/logger"
	"github.com/monocle-dev/hackhub/internal/metrics"
	"github.com/monocle-dev/hackhub/internal/rate"
	"github.com/monocle-dev/hackhub/internal/realtime"
	"github.com/monocle-dev/hackhub/internal/router"
	"github.com/monocle-dev/hackhub/internal/services"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	svix "github.com/svix/svix-webhooks/go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	root := &cobra.Command{
		Use:          "hackhub",
		Short:        "HackHub profile and project API",
		SilenceUsage: true,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, conn, err := bootstrap()
			if err != nil {
				return err
			}
			if err := db.MigrateDatabase(conn); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}
			logger.L().Info("database migrated")
			return nil
		},
	}

	var profileID, clerkID string
	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete a profile and everything that depends on it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (profileID == "") == (clerkID == "") {
				return errors.New("exactly one of --profile-id or --clerk-id is required")
			}
			_, conn, err := bootstrap()
			if err != nil {
				return err
			}
			return purge(cmd.Context(), conn, profileID, clerkID)
		},
	}
	purgeCmd.Flags().StringVar(&profileID, "profile-id", "", "profile id to delete")
	purgeCmd.Flags().StringVar(&clerkID, "clerk-id", "", "identity provider user id to delete")

	root.AddCommand(serveCmd, migrateCmd, purgeCmd)

	// Bare "hackhub" serves.
	root.RunE = serveCmd.RunE

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := root.ExecuteContext(ctx)
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger.Init(logger.Config{Env: cfg.LogEnv, Level: cfg.LogLevel, ServiceName: "hackhub"})

	conn, err := db.ConnectDatabase(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return cfg, conn, nil
}

func newLimiter(cfg *config.Config) (rate.Limiter, error) {
	if cfg.RedisURL == "" {
		logger.L().Info("REDIS_URL not set, rate limits are per instance")
		return rate.NewMemoryLimiter(cfg.WebhookRateLimit, cfg.WebhookRateWindow), nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	return rate.NewRedisLimiter(redis.NewClient(opts), "", cfg.WebhookRateLimit, cfg.WebhookRateWindow), nil
}

func serve(ctx context.Context) error {
	cfg, conn, err := bootstrap()
	if err != nil {
		return err
	}

	if err := cfg.RequireWebhookSecret(); err != nil {
		return err
	}

	log := logger.L()

	sessions, err := auth.NewSessionVerifier(cfg.SessionSecret)
	if err != nil {
		return err
	}

	wh, err := svix.NewWebhook(cfg.ClerkWebhookSecret)
	if err != nil {
		return fmt.Errorf("invalid CLERK_WEBHOOK_SECRET: %w", err)
	}

	limiter, err := newLimiter(cfg)
	if err != nil {
		return err
	}

	metricsHandler, err := metrics.Register(nil)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	h := &handlers.Handler{
		Provisioner:    services.NewProvisioner(conn),
		Eradicator:     services.NewEradicator(conn),
		Projects:       services.NewProjectService(conn),
		Events:         services.NewEventService(conn),
		Moderator:      services.NewModerator(conn),
		Discord:        services.NewDiscordNotifier(cfg.DiscordAdminWebhookURL),
		Hub:            realtime.NewHub(),
		DB:             conn,
		Webhook:        wh,
		AllowedOrigins: cfg.AllowedOrigins,
	}

	r := router.NewRouter(router.Options{
		Handler:        h,
		Sessions:       sessions,
		WebhookLimiter: limiter,
		Metrics:        metricsHandler,
		AllowedOrigins: cfg.AllowedOrigins,
		CookieDomain:   cfg.CookieDomain,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func purge(ctx context.Context, conn *gorm.DB, profileID, clerkID string) error {
	log := logger.L()

	if clerkID != "" {
		profile, err := services.NewProvisioner(conn).FindByExternalID(ctx, clerkID)
		if err != nil {
			return err
		}
		if profile == nil {
			log.Info("no profile for identity, nothing to purge", zap.String("clerk_id", clerkID))
			return nil
		}
		profileID = profile.ID
	}

	removal, err := services.NewEradicator(conn).Eradicate(ctx, profileID)
	if err != nil {
		return err
	}

	log.Info("profile purged",
		zap.String("profile_id", removal.ProfileID),
		zap.Strings("project_ids", removal.ProjectIDs),
	)

	return nil
}
