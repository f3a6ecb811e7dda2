package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Eursukkul/booking-microservice/adventure-service/config"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/audit"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/consumer"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/handler"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/middleware"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/notify"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/realtime"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/repository"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/service"
	"github.com/Eursukkul/booking-microservice/adventure-service/pkg/cache"
	"github.com/Eursukkul/booking-microservice/adventure-service/pkg/database"
	"github.com/Eursukkul/booking-microservice/adventure-service/pkg/mongodb"
	"github.com/Eursukkul/booking-microservice/adventure-service/pkg/rabbitmq"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

const serviceName = "adventure-service"

func main() {
	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresDB(cfg.DSN())
	if err != nil {
		logger.WithError(err).Fatal("database unavailable")
	}

	// Sinks run in the order added: the cache goes first so availability reads
	// never outlive the transition that changed them.
	events := notify.NewFanout(logger)

	var (
		availabilityCache service.AvailabilityCache
		invalidator       consumer.AvailabilityInvalidator
	)
	if cfg.RedisURL != "" {
		redisCache, err := cache.New(ctx, cfg.RedisURL, cfg.AvailabilityCacheTTL)
		if err != nil {
			logger.WithError(err).Fatal("redis unavailable")
		}
		defer redisCache.Close()
		availabilityCache = redisCache
		invalidator = redisCache
		events.Add(notify.NewCacheSink(redisCache))
	} else {
		logger.Warn("REDIS_URL not set; availability is read from the database")
	}

	var publisher *rabbitmq.Publisher
	if cfg.RabbitURL != "" {
		publisher, err = rabbitmq.NewPublisher(cfg.RabbitURL, logger)
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to RabbitMQ")
		}
		defer publisher.Close()
		events.Add(notify.NewBrokerSink(publisher))
	} else {
		logger.Warn("RABBITMQ_URL not set; booking events stay in-process")
	}

	var history handler.HistoryReader
	if cfg.MongoURI != "" {
		client, err := mongodb.Open(ctx, cfg.MongoURI)
		if err != nil {
			logger.WithError(err).Fatal("mongodb unavailable")
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(dctx)
		}()
		store := audit.NewStore(client.Database(cfg.MongoDB))
		if err := store.EnsureIndexes(ctx); err != nil {
			logger.WithError(err).Warn("failed to ensure audit indexes")
		}
		history = store
		events.Add(notify.NewAuditSink(store))
	} else {
		logger.Warn("MONGO_URI not set; audit trail disabled")
	}

	hub := realtime.NewHub(logger)
	go hub.Run(ctx)
	events.Add(notify.NewHubSink(hub))

	// Repositories
	adventureRepo := repository.NewAdventureRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	vehicleBookingRepo := repository.NewVehicleBookingRepository(db)

	// Services
	adventureSvc := service.NewAdventureService(adventureRepo, bookingRepo, availabilityCache, logger)
	bookingSvc := service.NewBookingService(bookingRepo, adventureRepo, events, logger)
	vehicleSvc := service.NewVehicleService(vehicleRepo, logger)
	vehicleBookingSvc := service.NewVehicleBookingService(vehicleBookingRepo, vehicleRepo, events, logger)
	reconciler := service.NewReconciler(adventureRepo, bookingRepo, events, logger)

	if cfg.ReconcileInterval > 0 {
		go reconciler.Run(ctx, cfg.ReconcileInterval)
	}

	// RabbitMQ consumer: sync adventures from the catalog feed
	if cfg.RabbitURL != "" {
		mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL, rabbitmq.ConsumerOptions{
			Queue:    cfg.CatalogQueue,
			Prefetch: cfg.CatalogPrefetch,
		}, logger)
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to RabbitMQ")
		}
		defer mqConsumer.Close()

		msgs, err := mqConsumer.Consume()
		if err != nil {
			logger.WithError(err).Fatal("failed to start consuming")
		}
		consumer.NewCatalogConsumer(adventureRepo, invalidator, cache.AvailabilityKey, logger).Start(ctx, msgs)
	}

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.Validator = middleware.NewRequestValidator()
	e.HTTPErrorHandler = middleware.ErrorHandler(logger)
	e.Use(echoMw.RequestIDWithConfig(echoMw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"request_id": v.RequestID,
			})
			if v.Error != nil {
				entry = entry.WithField("error", v.Error.Error())
			}
			entry.Info("request")
			return nil
		},
	}))
	e.Use(echoMw.Recover())
	e.Use(echoMw.CORS())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": serviceName})
	})

	public, admin := handler.NewRouteGroups(e, "/api/v1", middleware.JWTAuth(cfg.JWTSecret), middleware.RequireManager())

	handler.NewAdventureBookingHandler(bookingSvc).RegisterRoutes(public, admin)
	handler.NewAdventureHandler(adventureSvc).RegisterRoutes(public, admin)
	handler.NewVehicleHandler(vehicleSvc).RegisterRoutes(public, admin)
	handler.NewVehicleBookingHandler(vehicleBookingSvc).RegisterRoutes(public, admin)
	handler.NewAdminHandler(reconciler, history).RegisterRoutes(admin)
	handler.NewWebSocketHandler(hub).RegisterRoutes(admin)

	go func() {
		logger.WithField("port", cfg.ServerPort).Info("adventure service starting")
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	logger.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}
