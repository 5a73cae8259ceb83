// cmd/worker/main.go
//
// The scheduler companion process. Nothing in the request-handling surface
// ever promotes a scheduled campaign to sending; this binary does. It scans
// for status=scheduled campaigns whose send time has passed, enqueues their
// ids on RabbitMQ, and consumes the same queue to run the dispatch engine.
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/unclebandit/broadcast-backend/internal/config"
	"github.com/unclebandit/broadcast-backend/internal/db"
	"github.com/unclebandit/broadcast-backend/internal/queue"
	"github.com/unclebandit/broadcast-backend/internal/repository"
	"github.com/unclebandit/broadcast-backend/internal/sender"
	"github.com/unclebandit/broadcast-backend/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}
	cfg := config.Load()

	conn, err := db.Open(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	campaignRepo := &repository.CampaignRepository{DB: conn}
	recipientRepo := &repository.RecipientRepository{DB: conn}
	notificationRepo := &repository.NotificationRepository{DB: conn}

	engine := &service.DispatchEngine{
		CampaignRepo:     campaignRepo,
		NotificationRepo: notificationRepo,
		Resolver:         &service.AudienceResolver{Recipients: recipientRepo},
		Senders:          sender.ConsoleRegistry(),
		Concurrency:      cfg.SendConcurrency,
		SendTimeout:      cfg.SendTimeout,
	}

	q, err := queue.DialAMQP(cfg.AMQPURL)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ:", err)
	}
	defer q.Close()

	err = q.Subscribe(service.TopicCampaignSends, func(campaignID int) error {
		_, err := engine.Send(context.Background(), campaignID)
		return err
	})
	if err != nil {
		log.Fatal("Failed to register consumer:", err)
	}

	scheduler := &service.Scheduler{
		CampaignRepo: campaignRepo,
		Queue:        q,
		Interval:     cfg.SchedulerInterval,
	}

	log.Println("Worker running, waiting for due campaigns...")
	scheduler.Run(context.Background())
}
