package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sweetspro/internal/config"
	"sweetspro/internal/logging"
	"sweetspro/internal/services"
	"sweetspro/pkg/rabbitmq"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sweetspro",
		Short:         "Storefront API for the SweetsPro confectionery shop",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, runServe)
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withRuntime(cmd, runServe)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withRuntime(cmd, runMigrate)
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Load the starter catalog and coupons",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withRuntime(cmd, runSeed)
			},
		},
		newAwardPointsCmd(),
	)
	return root
}

func newAwardPointsCmd() *cobra.Command {
	var points int64
	cmd := &cobra.Command{
		Use:   "award-points <username>",
		Short: "Credit bonus loyalty points to a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
				return runAwardPoints(ctx, cfg, logger, args[0], points)
			})
		},
	}
	cmd.Flags().Int64Var(&points, "points", 0, "number of points to credit")
	_ = cmd.MarkFlagRequired("points")
	return cmd
}

// withRuntime loads configuration and a logger, then runs fn.
func withRuntime(cmd *cobra.Command, fn func(context.Context, *config.Config, *zap.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := fn(cmd.Context(), cfg, logger); err != nil {
		logger.Error("command failed", zap.String("command", cmd.Name()), zap.Error(err))
		return err
	}
	return nil
}

func runMigrate(_ context.Context, cfg *config.Config, logger *zap.Logger) error {
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	if err := migrate(db); err != nil {
		return err
	}
	logger.Info("database migrated", zap.String("driver", cfg.DBDriver))
	return nil
}

func runSeed(_ context.Context, cfg *config.Config, logger *zap.Logger) error {
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	if err := migrate(db); err != nil {
		return err
	}
	return seedData(gormStores(db, nil), logger)
}

func runAwardPoints(_ context.Context, cfg *config.Config, logger *zap.Logger, username string, points int64) error {
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	if err := migrate(db); err != nil {
		return err
	}
	return awardPoints(gormStores(db, nil), cfg, logger, username, points)
}

// awardPoints credits points to the member with the given username.
func awardPoints(st stores, cfg *config.Config, logger *zap.Logger, username string, points int64) error {
	user, err := st.Users.GetByUsername(username)
	if err != nil {
		return err
	}
	d := buildDeps(cfg, st, nil, prometheus.NewRegistry(), logger)
	result, err := d.Accounts.AwardPoints(user.ID, points)
	if err != nil {
		return err
	}
	logger.Info("points credited",
		zap.String("username", username),
		zap.Int64("points", result.Points),
		zap.String("tier", string(result.Tier)))
	return nil
}

func runServe(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	if err := migrate(db); err != nil {
		return err
	}

	carts, closeCarts, err := newCartRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCarts()

	st := gormStores(db, carts)
	if cfg.SeedOnStart {
		if err := seedData(st, logger); err != nil {
			return fmt.Errorf("failed to seed data: %w", err)
		}
	}

	var publisher services.OrderEventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, logger.Named("rabbitmq"))
		if err != nil {
			return err
		}
		defer func() {
			if err := mqClient.Close(); err != nil {
				logger.Warn("error closing RabbitMQ client", zap.Error(err))
			}
		}()
		if err := mqClient.ConsumeOrderEvents(rabbitmq.OrderEventLogger(logger.Named("order-events"))); err != nil {
			return err
		}
		publisher = mqClient
	} else {
		logger.Info("RABBITMQ_URL not set, order events are not published")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app := newApp(buildDeps(cfg, st, publisher, reg, logger))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", zap.String("addr", cfg.AppPort))
		if err := app.Listen(cfg.AppPort); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("server gracefully stopped")
	return nil
}
