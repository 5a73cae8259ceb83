// cmd/server/main.go
package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/unclebandit/broadcast-backend/internal/config"
	"github.com/unclebandit/broadcast-backend/internal/controller"
	"github.com/unclebandit/broadcast-backend/internal/db"
	"github.com/unclebandit/broadcast-backend/internal/metrics"
	"github.com/unclebandit/broadcast-backend/internal/repository"
	"github.com/unclebandit/broadcast-backend/internal/sender"
	"github.com/unclebandit/broadcast-backend/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}
	cfg := config.Load()

	conn, err := db.Open(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	m := metrics.New()
	metrics.SetGlobal(m)

	campaignRepo := &repository.CampaignRepository{DB: conn}
	recipientRepo := &repository.RecipientRepository{DB: conn}
	notificationRepo := &repository.NotificationRepository{DB: conn}

	resolver := &service.AudienceResolver{Recipients: recipientRepo}

	campaignService := &service.CampaignService{
		CampaignRepo: campaignRepo,
		Resolver:     resolver,
	}

	engine := &service.DispatchEngine{
		CampaignRepo:     campaignRepo,
		NotificationRepo: notificationRepo,
		Resolver:         resolver,
		Senders:          sender.ConsoleRegistry(),
		Concurrency:      cfg.SendConcurrency,
		SendTimeout:      cfg.SendTimeout,
	}

	tracker := &service.EngagementTracker{CampaignRepo: campaignRepo}

	campaignController := &controller.CampaignController{
		CampaignService: campaignService,
		Engine:          engine,
		Tracker:         tracker,
	}

	r := chi.NewRouter()
	r.Use(metrics.HTTPMiddleware)

	// Operator surface
	r.Group(func(r chi.Router) {
		r.Use(controller.RequireOperator)

		r.Post("/campaigns", campaignController.CreateCampaign)
		r.Get("/campaigns", campaignController.ListCampaigns)
		r.Get("/campaigns/{id}", campaignController.GetCampaign)
		r.Put("/campaigns/{id}", campaignController.UpdateCampaign)
		r.Post("/campaigns/{id}/send", campaignController.SendCampaign)
		r.Post("/campaigns/{id}/cancel", campaignController.CancelCampaign)
		r.Delete("/campaigns/{id}", campaignController.DeleteCampaign)
	})

	// Open surface: tracking pixels / link redirects and ops endpoints
	r.Post("/campaigns/{id}/track/open", campaignController.TrackOpen)
	r.Post("/campaigns/{id}/track/click", campaignController.TrackClick)
	r.Handle("/metrics", m.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	log.Println("🚀 Server running on :" + cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
