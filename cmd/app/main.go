package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/aviabooking/config"
	"github.com/Domenick1991/aviabooking/internal/bootstrap"
	"github.com/Domenick1991/aviabooking/internal/cache"
	"github.com/Domenick1991/aviabooking/internal/kafka"
	"github.com/Domenick1991/aviabooking/internal/metrics"
	"github.com/Domenick1991/aviabooking/internal/repository"
	"github.com/Domenick1991/aviabooking/internal/service/airplanes"
	"github.com/Domenick1991/aviabooking/internal/service/booking"
	"github.com/Domenick1991/aviabooking/internal/service/flights"
	"github.com/Domenick1991/aviabooking/internal/service/status"
	"github.com/Domenick1991/aviabooking/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Printf("WARNING: postgres unreachable at startup: %v", err)
	} else if cfg.Database.AutoMigrate {
		if err := migrations.Apply(ctx, pool); err != nil {
			log.Fatalf("apply migrations: %v", err)
		}
	}

	m := metrics.New()
	tx := repository.NewTransactor(pool)
	airplaneRepo := repository.NewAirplaneRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	statusRepo := repository.NewStatusRepository(pool)

	flightOpts := []flights.FlightServiceOption{flights.WithMetrics(m)}
	bookingOpts := []booking.BookingServiceOption{booking.WithMetrics(m)}

	if cfg.Redis.Enabled() {
		redisCache := cache.NewRedisCache(cfg.Redis)
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			log.Printf("WARNING: redis unreachable, flights cache will miss: %v", err)
		}
		flightOpts = append(flightOpts, flights.WithCache(redisCache))
		bookingOpts = append(bookingOpts, booking.WithCache(redisCache))
	}

	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		if err := producer.CheckConnection(ctx); err != nil {
			log.Printf("WARNING: kafka unreachable, booking events will be dropped: %v", err)
		}
		bookingOpts = append(bookingOpts,
			booking.WithProducer(producer, cfg.Kafka.BookingTopic),
			booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		)
	}

	svc := bootstrap.Services{
		Airplanes: airplanes.NewAirplaneService(airplaneRepo),
		Flights:   flights.NewFlightService(tx, flightRepo, airplaneRepo, bookingRepo, flightOpts...),
		Bookings:  booking.NewBookingService(tx, bookingRepo, flightRepo, bookingOpts...),
		Status:    status.NewStatusService(statusRepo),
	}

	if err := bootstrap.Run(ctx, cfg, svc, m); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
