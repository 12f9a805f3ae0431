package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/campus-canteen/internal/config"
	"github.com/example/campus-canteen/internal/email"
	"github.com/example/campus-canteen/internal/infrastructure/kafka"
	"github.com/example/campus-canteen/internal/notification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Notifier] Configuration error: %v", err)
	}
	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal("[Notifier] KAFKA_BROKERS environment variable is required")
	}

	log.Println("[Notifier] ========================================")
	log.Println("[Notifier] Campus Canteen Order Notifier")
	log.Println("[Notifier] ========================================")
	log.Printf("[Notifier] Kafka: %v topic=%s", cfg.KafkaBrokers, cfg.KafkaTopic)
	log.Printf("[Notifier] SMTP: %s:%s from=%s", cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	emailSvc := email.NewService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
	handler := notification.NewHandler(emailSvc)

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, "email-notifier")
	defer consumer.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Println("[Notifier] Consuming order events...")
		if err := consumer.Consume(ctx, handler.HandleEvent); err != nil {
			if ctx.Err() == nil {
				log.Printf("[Notifier] Consumer error: %v", err)
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[Notifier] Shutting down...")
	cancel()
	<-done
}
