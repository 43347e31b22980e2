package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"tollpass/internal/config"
	"tollpass/internal/email"
	"tollpass/internal/kafka"
)

// The receipt worker consumes booking receipt events and sends them out as
// email. Delivery is best-effort: the booking that produced an event is
// already durable, so failures here are logged, not retried.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.ReceiptTopic, cfg.Kafka.GroupID)
	defer consumer.Close()

	sender := email.NewSender()

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down receipt worker...")
		cancel()
	}()

	log.Printf("Receipt worker consuming topic %s", cfg.Kafka.ReceiptTopic)
	if err := consumer.Run(ctx, sender.Send); err != nil {
		log.Fatalf("receipt worker: %v", err)
	}

	log.Println("Receipt worker exited")
}
