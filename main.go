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

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/aladdinbruv/docproche-sub000/cache"
	"github.com/aladdinbruv/docproche-sub000/config"
	"github.com/aladdinbruv/docproche-sub000/events"
	"github.com/aladdinbruv/docproche-sub000/logger"
	"github.com/aladdinbruv/docproche-sub000/middleware"
	"github.com/aladdinbruv/docproche-sub000/repository"
	"github.com/aladdinbruv/docproche-sub000/routes"
	"github.com/aladdinbruv/docproche-sub000/services"
)

const serviceName = "docproche"

func main() {
	root := &cobra.Command{
		Use:           serviceName,
		Short:         "DocProche healthcare appointment API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	root.AddCommand(serveCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(notifyCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

// setup loads configuration and the logger shared by every command.
func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	format := "text"
	if !cfg.IsLocal() {
		format = "json"
	}
	log := logger.New(cfg.App.LogLevel, format)
	for _, w := range cfg.Warnings {
		log.WithComponent("config").Warn(w)
	}
	return cfg, log, nil
}

type publisher interface {
	services.EventPublisher
	Close() error
}

func newPublisher(cfg *config.Config, log *logger.Logger) (publisher, error) {
	if !cfg.RabbitMQ.Enabled {
		log.WithComponent("events").Warn("RabbitMQ disabled, events are only logged")
		return events.NewLogPublisher(log), nil
	}
	return events.NewRabbitPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log)
}

func newAvailabilityCache(ctx context.Context, cfg *config.Config, log *logger.Logger) (services.AvailabilityCache, func()) {
	if !cfg.Cache.Enabled {
		return cache.Noop{}, func() {}
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			// the in-process cache still works on its own
			log.WithComponent("cache").WithError(err).Warn("redis unavailable, running without shared cache")
		} else {
			rdb = client
		}
	}

	c := cache.NewAvailability(cfg.Cache.Size, cfg.Cache.TTL, rdb, cfg.Redis.TTL, log)
	return c, func() {
		if rdb != nil {
			rdb.Close()
		}
	}
}

func serve(ctx context.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	if err := middleware.RegisterValidators(); err != nil {
		return fmt.Errorf("register validators: %w", err)
	}

	client, err := config.NewSupabaseClient(cfg)
	if err != nil {
		return err
	}

	users := repository.NewUserRepository(client)
	doctors := repository.NewDoctorRepository(client)
	slots := repository.NewTimeSlotRepository(client)
	appointments := repository.NewAppointmentRepository(client)
	prescriptions := repository.NewPrescriptionRepository(client)
	records := repository.NewHealthRecordRepository(client)
	messages := repository.NewMessageRepository(client)
	payments := repository.NewPaymentRepository(client)
	files := repository.NewFileStore(client.Storage)

	availability, closeCache := newAvailabilityCache(ctx, cfg, log)
	defer closeCache()

	bus, err := newPublisher(cfg, log)
	if err != nil {
		return fmt.Errorf("connect rabbitmq: %w", err)
	}
	defer bus.Close()

	tokens := services.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL)
	sms := services.NewTwilioVerifyClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.VerifyServiceSID)
	gateway := services.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	video := services.NewTwilioVideoIssuer(cfg.Twilio.AccountSID, cfg.Twilio.APIKeySID, cfg.Twilio.APIKeySecret)

	refresh := repository.NewRefreshTokenRepository(client)
	svc := routes.Services{
		Auth: services.NewAuthService(users, doctors, refresh,
			repository.NewOTPRepository(client), sms, tokens, cfg, log),
		Profiles:      services.NewProfileService(users, doctors, files, cfg, log),
		Doctors:       services.NewDoctorService(doctors),
		TimeSlots:     services.NewTimeSlotService(slots, appointments, availability, cfg, log),
		Appointments:  services.NewAppointmentService(appointments, slots, doctors, availability, bus, cfg, log),
		Prescriptions: services.NewPrescriptionService(prescriptions, appointments, users, bus, log),
		HealthRecords: services.NewHealthRecordService(records, appointments, files, cfg, log),
		Messages:      services.NewMessageService(messages, users),
		Payments:      services.NewPaymentService(payments, appointments, doctors, gateway, bus, cfg, log),
		Video:         services.NewVideoService(appointments, video, cfg),
		Admin:         services.NewAdminService(users, refresh, log),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
	go limiter.Run(ctx)

	metrics := middleware.NewMetrics(serviceName)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(metrics.Middleware())
	router.Use(config.CORSMiddleware(cfg))

	routes.SetupRoutes(router, cfg, svc, routes.Middleware{
		Tokens:  tokens,
		Limiter: limiter,
		Metrics: metrics,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithComponent("http").WithField("addr", srv.Addr).
			WithField("version", cfg.App.Version).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.WithComponent("http").Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
