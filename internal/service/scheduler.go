// internal/service/scheduler.go
package service

import (
	"context"
	"log"
	"time"

	"github.com/unclebandit/broadcast-backend/internal/queue"
	"github.com/unclebandit/broadcast-backend/internal/repository"
)

// TopicCampaignSends is the queue topic carrying due campaign ids.
const TopicCampaignSends = "campaign_sends"

// Scheduler is the time-based trigger for scheduled campaigns: it scans for
// status=scheduled rows whose send time has passed and enqueues their ids.
// The consumer goes through the guarded dispatch path, so a campaign picked
// up twice loses the status race instead of double-sending.
type Scheduler struct {
	CampaignRepo repository.CampaignRepositoryInterface
	Queue        queue.Queue
	Interval     time.Duration
}

// Run loops until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Println("⏰ Scheduler running, interval", interval)
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Tick(now)
		}
	}
}

// Tick enqueues every campaign due at the given instant.
func (s *Scheduler) Tick(now time.Time) {
	due, err := s.CampaignRepo.ListDue(now)
	if err != nil {
		log.Println("⚠️ scheduler: list due campaigns:", err)
		return
	}

	for _, c := range due {
		if err := s.Queue.Publish(TopicCampaignSends, c.ID); err != nil {
			log.Println("⚠️ scheduler: enqueue campaign", c.ID, "failed:", err)
			continue
		}
		log.Println("📩 scheduler: enqueued due campaign", c.ID)
	}
}
