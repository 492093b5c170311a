package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cimillas/table-reservations/internal/app"
	"github.com/cimillas/table-reservations/internal/clock"
	"github.com/cimillas/table-reservations/internal/config"
	"github.com/cimillas/table-reservations/internal/events"
	"github.com/cimillas/table-reservations/internal/storage/cache"
	"github.com/cimillas/table-reservations/internal/storage/postgres"
	transporthttp "github.com/cimillas/table-reservations/internal/transport/http"
	"github.com/cimillas/table-reservations/migrations"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		port      string
		migrateUp bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if port != "" {
				if err := config.ValidatePort(port); err != nil {
					return err
				}
				cfg.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := openRuntime(ctx, cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			if migrateUp {
				applied, err := migrations.Apply(ctx, rt.pool)
				if err != nil {
					return fmt.Errorf("apply migrations: %w", err)
				}
				if len(applied) > 0 {
					rt.logger.Info("migrations applied", zap.Strings("applied", applied))
				}
			}

			return serve(ctx, rt)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup")
	cmd.Flags().Lookup("migrate").NoOptDefVal = "true"
	return cmd
}

func serve(ctx context.Context, rt *runtime) error {
	logger := rt.logger
	clk := clock.NewSystem()

	restaurantRepo := postgres.NewRestaurantRepository(rt.pool)
	reservationRepo := postgres.NewReservationRepository(rt.pool)

	var finder app.RestaurantFinder = restaurantRepo
	if rt.cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     rt.cfg.Redis.Addr,
			Password: rt.cfg.Redis.Password,
			DB:       rt.cfg.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, restaurant cache degraded", zap.String("addr", rt.cfg.Redis.Addr), zap.Error(err))
		}
		finder = cache.NewRestaurantCache(client, restaurantRepo, rt.cfg.Redis.CacheTTL, logger.Named("cache"))
		logger.Info("restaurant cache enabled", zap.String("addr", rt.cfg.Redis.Addr), zap.Duration("ttl", rt.cfg.Redis.CacheTTL))
	}

	reservationOpts := []app.ReservationServiceOption{app.WithReservationLogger(logger.Named("reservations"))}
	if rt.cfg.Kafka.Enabled() {
		publisher := events.NewKafkaPublisher(rt.cfg.Kafka.Brokers, rt.cfg.Kafka.ReservationsTopic)
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Warn("close kafka publisher", zap.Error(err))
			}
		}()
		reservationOpts = append(reservationOpts, app.WithPublisher(publisher))
		logger.Info("reservation events enabled",
			zap.Strings("brokers", rt.cfg.Kafka.Brokers),
			zap.String("topic", rt.cfg.Kafka.ReservationsTopic),
		)
	}

	router := transporthttp.NewRouter(transporthttp.Services{
		Restaurants:  app.NewRestaurantService(restaurantRepo, clk),
		Reservations: app.NewReservationService(reservationRepo, clk, reservationOpts...),
		Availability: app.NewAvailabilityService(finder, reservationRepo),
		DB:           rt.pool,
	})
	handler := transporthttp.RequestLogger(transporthttp.CORS(transporthttp.NewCORSPolicy(rt.cfg.CORSOrigins), router), logger.Named("http"))

	server := &http.Server{
		Addr:    ":" + rt.cfg.Port,
		Handler: handler,
	}

	logger.Info("api listening", zap.String("addr", server.Addr))

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
