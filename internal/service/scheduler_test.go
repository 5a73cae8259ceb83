package service_test

import (
	"sync"
	"testing"
	"time"

	"github.com/unclebandit/broadcast-backend/internal/model"
	"github.com/unclebandit/broadcast-backend/internal/queue"
	"github.com/unclebandit/broadcast-backend/internal/service"
)

func TestSchedulerTickEnqueuesDueCampaigns(t *testing.T) {
	repo := newFakeCampaignRepo()
	now := time.Now()

	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	due := &model.Campaign{Channel: model.ChannelEmail, Subject: "Hi", Message: "Hello",
		AudienceSelector: model.AudienceAll, ScheduleType: model.ScheduleScheduled,
		ScheduledAt: &past, Status: model.StatusScheduled}
	notDue := &model.Campaign{Channel: model.ChannelEmail, Subject: "Hi", Message: "Hello",
		AudienceSelector: model.AudienceAll, ScheduleType: model.ScheduleScheduled,
		ScheduledAt: &future, Status: model.StatusScheduled}
	draft := &model.Campaign{Channel: model.ChannelEmail, Subject: "Hi", Message: "Hello",
		AudienceSelector: model.AudienceAll, ScheduleType: model.ScheduleSendNow,
		Status: model.StatusDraft}
	repo.Create(due)
	repo.Create(notDue)
	repo.Create(draft)

	q := queue.NewInMemoryQueue()
	var mu sync.Mutex
	published := []int{}
	q.Subscribe(service.TopicCampaignSends, func(campaignID int) error {
		mu.Lock()
		published = append(published, campaignID)
		mu.Unlock()
		return nil
	})

	s := &service.Scheduler{CampaignRepo: repo, Queue: q, Interval: time.Minute}
	s.Tick(now)

	mu.Lock()
	defer mu.Unlock()
	if len(published) != 1 || published[0] != due.ID {
		t.Fatalf("expected only campaign %d enqueued, got %v", due.ID, published)
	}
}

func TestSchedulerTickSkipsCancelled(t *testing.T) {
	repo := newFakeCampaignRepo()
	past := time.Now().Add(-time.Minute)

	c := &model.Campaign{Channel: model.ChannelEmail, Subject: "Hi", Message: "Hello",
		AudienceSelector: model.AudienceAll, ScheduleType: model.ScheduleScheduled,
		ScheduledAt: &past, Status: model.StatusScheduled}
	repo.Create(c)
	repo.UpdateStatus(c.ID, model.StatusCancelled)

	q := queue.NewInMemoryQueue()
	count := 0
	q.Subscribe(service.TopicCampaignSends, func(int) error { count++; return nil })

	s := &service.Scheduler{CampaignRepo: repo, Queue: q}
	s.Tick(time.Now())

	if count != 0 {
		t.Fatalf("cancelled campaigns must not be enqueued, got %d publishes", count)
	}
}
