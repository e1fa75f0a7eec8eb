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

	"github.com/rs/zerolog"

	"github.com/nurpe/collection-calendar/internal/auth"
	"github.com/nurpe/collection-calendar/internal/config"
	"github.com/nurpe/collection-calendar/internal/db"
	"github.com/nurpe/collection-calendar/internal/excel"
	httphandler "github.com/nurpe/collection-calendar/internal/http"
	"github.com/nurpe/collection-calendar/internal/http/middleware"
	"github.com/nurpe/collection-calendar/internal/logger"
	"github.com/nurpe/collection-calendar/internal/notify"
	"github.com/nurpe/collection-calendar/internal/pdf"
	"github.com/nurpe/collection-calendar/internal/repository"
	"github.com/nurpe/collection-calendar/internal/service"
)

type publisher interface {
	service.ReminderPublisher
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	catalogRepo := repository.NewCatalogRepository(database)
	scheduleRepo := repository.NewScheduleRepository(database)
	deviceRepo := repository.NewDeviceRepository(database)

	reminders, err := newPublisher(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("transport", cfg.Notify.Transport).Msg("failed to init reminder publisher")
	}
	defer reminders.Close()

	calendarService := service.NewCalendarService(catalogRepo, scheduleRepo, excel.NewGenerator(), pdf.NewGenerator(), cfg, log)
	catalogService := service.NewCatalogService(catalogRepo)
	scheduleService := service.NewScheduleService(catalogRepo, scheduleRepo)
	notificationService := service.NewNotificationService(deviceRepo, catalogRepo, scheduleRepo, reminders, cfg, log)

	scheduler, err := notify.NewScheduler(notificationService, cfg.Notify, cfg.Calendar.Location, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init scheduler")
	}
	scheduler.Start()

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(calendarService, catalogService, scheduleService, notificationService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, cfg.HTTP.AllowedOrigins, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	server := &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 10 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", addr).Msg("starting calendar service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	scheduler.Stop(shutdownCtx)
	log.Info().Msg("calendar service stopped")
}

func newPublisher(cfg *config.Config, log zerolog.Logger) (publisher, error) {
	switch cfg.Notify.Transport {
	case config.TransportMQTT:
		return notify.NewMQTTPublisher(cfg.MQTT, log)
	case config.TransportKafka:
		return notify.NewKafkaPublisher(cfg.Kafka, log), nil
	default:
		return notify.NewLogPublisher(log), nil
	}
}
