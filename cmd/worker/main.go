// cmd/worker/main.go

// Standalone consumer that drains delivery events from RabbitMQ into the
// Postgres delivery log. Run it when the server publishes to AMQP_URL and
// you want persistence handled outside the request path.
package main

import (
	"encoding/json"
	"log"

	"github.com/joho/godotenv"

	"github.com/propreach/outreach-backend/internal/config"
	"github.com/propreach/outreach-backend/internal/db"
	"github.com/propreach/outreach-backend/internal/queue"
	"github.com/propreach/outreach-backend/internal/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required for the delivery worker")
	}
	if cfg.AMQPURL == "" {
		log.Fatal("AMQP_URL is required for the delivery worker")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	defer conn.Close()
	store := &repository.DeliveryRepository{DB: conn}

	amqpQueue, err := queue.DialAMQP(cfg.AMQPURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer amqpQueue.Close()

	err = amqpQueue.Subscribe(queue.TopicDeliveryEvents, func(payload []byte) error {
		var ev queue.DeliveryEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			log.Println("⚠️ invalid delivery event:", err)
			return nil
		}
		return queue.HandleDeliveryEvent(store, ev)
	})
	if err != nil {
		log.Fatalf("failed to start consumer: %v", err)
	}

	log.Println("Worker running, waiting for delivery events...")
	select {}
}
