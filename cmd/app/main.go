package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rocketr/rocketr-ipn/config"
	"github.com/rocketr/rocketr-ipn/internal/module/ipnapp/health"
	"github.com/rocketr/rocketr-ipn/internal/module/ipnapp/notification"
	"github.com/rocketr/rocketr-ipn/internal/module/ipnapp/order"
	"github.com/rocketr/rocketr-ipn/internal/pkg/mailer"
	"github.com/rocketr/rocketr-ipn/pkg/applogger"
	"github.com/rocketr/rocketr-ipn/pkg/kafka"
	"github.com/rocketr/rocketr-ipn/pkg/middleware"
	"github.com/rocketr/rocketr-ipn/pkg/monitoring"
	"github.com/rocketr/rocketr-ipn/pkg/postgresql"
	"github.com/rocketr/rocketr-ipn/pkg/pubsub"
	"github.com/rocketr/rocketr-ipn/pkg/redis"
	"github.com/rocketr/rocketr-ipn/pkg/server"
	"github.com/rocketr/rocketr-ipn/pkg/validator"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

var c *config.Config

func init() {
	c = config.Get()
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := applogger.GetLogrus()

	mon := monitoring.NewOpenTelemetry(
		c.Application.Name,
		c.Application.Environment,
		c.OpenTelemetry.Endpoint,
	)

	mon.Start(ctx)

	validate := validator.Get()

	psqldb := postgresql.GetDatabase()
	if err := psqldb.Ping(); err != nil {
		logger.WithContext(ctx).WithError(err).Error()
	}

	publisher := pubsub.PublisherFromConfluentKafkaProducer(logger, kafka.NewProducer())

	rc := redis.GetClient()
	if err := rc.Ping(context.Background()).Err(); err != nil {
		logger.WithContext(ctx).WithError(err).Error()
	}

	operatorMailer := mailer.NewSMTPMailer(mailer.SMTPMailerProperty{
		Logger:    logger,
		Enabled:   c.Alert.Enabled,
		Sender:    c.Alert.Sender,
		Recipient: c.Alert.Recipient,
		Host:      c.Alert.SMTPHost,
		Port:      c.Alert.SMTPPort,
		Username:  c.Alert.SMTPUsername,
		Password:  c.Alert.SMTPPassword,
	})

	router := mux.NewRouter()
	router.Use(
		otelmux.Middleware(c.Application.Name),
		middleware.HTTPResponseTraceInjection,
		middleware.NewHTTPRequestLogger(logger, c.Application.Debug, http.StatusInternalServerError).Middleware,
	)

	orderRepo := order.NewOrderRepository(logger, psqldb)
	noteRepo := order.NewNoteRepository(logger, psqldb)
	deliveryLogRepo := notification.NewDeliveryLogRepository(logger, rc, c.Redis.DeliveryTTL)

	notificationUseCase := notification.NewNotificationUseCase(notification.NotificationUseCaseProperty{
		Logger:                logger,
		StoreName:             c.Merchant.StoreName,
		OrderRepository:       orderRepo,
		NoteRepository:        noteRepo,
		DeliveryLogRepository: deliveryLogRepo,
		Publisher:             publisher,
		Mailer:                operatorMailer,
	})
	notification.InitHTTPHandler(router, validate, notificationUseCase, c.Rocketr.IPNSecret)
	health.InitHTTPHandler(router, psqldb, rc)

	handler := middleware.SetChain(
		router,
		cors.New(cors.Options{
			AllowedOrigins:   c.CORS.AllowedOrigins,
			AllowedMethods:   c.CORS.AllowedMethods,
			AllowedHeaders:   c.CORS.AllowedHeaders,
			ExposedHeaders:   c.CORS.ExposedHeaders,
			MaxAge:           c.CORS.MaxAge,
			AllowCredentials: c.CORS.AllowCredentials,
		}).Handler,
	)

	srv := &server.Server{
		Server: http.Server{
			Addr:         fmt.Sprintf(":%d", c.Application.Port),
			Handler:      handler,
			ReadTimeout:  c.Application.Timeout,
			WriteTimeout: c.Application.Timeout,
			IdleTimeout:  2 * time.Minute,
		},
		Logger: logger,
	}

	go func() {
		srv.ListenAndServe()
	}()

	sigterm := make(chan os.Signal, 1)
	signal.Notify(sigterm, syscall.SIGINT, syscall.SIGTERM)
	<-sigterm

	srv.Shutdown(ctx)
	publisher.Close()
	psqldb.Close()
	rc.Close()
	mon.Stop(ctx)
}
