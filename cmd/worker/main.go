package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/aviabooking/config"
	"github.com/Domenick1991/aviabooking/internal/kafka"
	"github.com/Domenick1991/aviabooking/internal/notify"
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
	if !cfg.Kafka.Enabled() {
		log.Fatalf("worker needs kafka.brokers and kafka.booking_topic")
	}

	topic := cfg.Kafka.NotificationsTopic
	if topic == "" {
		topic = cfg.Kafka.BookingTopic
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, topic)
	defer consumer.Close()

	notifier := notify.NewNotifier(log.Default())

	log.Printf("worker: consuming topic=%s group=%s", topic, cfg.Kafka.GroupID)
	if err := consumer.Consume(ctx, notifier.Send); err != nil {
		log.Fatalf("consumer stopped: %v", err)
	}
	log.Printf("worker: shutting down")
}
