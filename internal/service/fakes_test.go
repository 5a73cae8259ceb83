package service_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	appErrors "github.com/unclebandit/broadcast-backend/internal/errors"
	"github.com/unclebandit/broadcast-backend/internal/model"
)

// In-memory fakes mirroring the Postgres repositories closely enough for
// the lifecycle and dispatch semantics to be exercised without a database.

type fakeCampaignRepo struct {
	mu        sync.Mutex
	campaigns map[int]*model.Campaign
	nextID    int
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{campaigns: map[int]*model.Campaign{}, nextID: 1}
}

func (r *fakeCampaignRepo) put(c *model.Campaign) *model.Campaign {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == 0 {
		c.ID = r.nextID
		r.nextID++
	}
	cp := *c
	r.campaigns[c.ID] = &cp
	return c
}

func (r *fakeCampaignRepo) Create(c *model.Campaign) error {
	c.CreatedAt = time.Now()
	if c.Status == "" {
		c.Status = model.StatusDraft
	}
	r.put(c)
	return nil
}

func (r *fakeCampaignRepo) GetByID(id int) (*model.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCampaignRepo) ListCampaigns(offset, limit int, channel, status string) ([]*model.Campaign, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := []*model.Campaign{}
	for id := r.nextID - 1; id >= 1; id-- { // descending like the SQL ORDER BY
		c, ok := r.campaigns[id]
		if !ok {
			continue
		}
		if channel != "" && c.Channel != channel {
			continue
		}
		if status != "" && c.Status != status {
			continue
		}
		cp := *c
		all = append(all, &cp)
	}

	total := len(all)
	if offset >= total {
		return []*model.Campaign{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *fakeCampaignRepo) Update(c *model.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.campaigns[c.ID]; !ok {
		return appErrors.NewCampaignNotFound(c.ID)
	}
	cp := *c
	r.campaigns[c.ID] = &cp
	return nil
}

func (r *fakeCampaignRepo) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.campaigns[id]; !ok {
		return appErrors.NewCampaignNotFound(id)
	}
	delete(r.campaigns, id)
	return nil
}

func (r *fakeCampaignRepo) UpdateStatus(id int, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return appErrors.NewCampaignNotFound(id)
	}
	c.Status = status
	return nil
}

func (r *fakeCampaignRepo) MarkSending(id, total int, sentAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return false, appErrors.NewCampaignNotFound(id)
	}
	if c.Status != model.StatusDraft && c.Status != model.StatusScheduled {
		return false, nil
	}
	c.Status = model.StatusSending
	c.TotalRecipients = total
	c.SentAt = &sentAt
	return true, nil
}

func (r *fakeCampaignRepo) FinalizeSend(id, sent, failed int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return appErrors.NewCampaignNotFound(id)
	}
	c.Status = model.StatusSent
	c.SentCount = sent
	c.FailedCount = failed
	return nil
}

func (r *fakeCampaignRepo) IncrementOpened(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return appErrors.NewCampaignNotFound(id)
	}
	c.OpenedCount++
	c.RecomputeRates()
	return nil
}

func (r *fakeCampaignRepo) IncrementClicked(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return appErrors.NewCampaignNotFound(id)
	}
	c.ClickedCount++
	c.RecomputeRates()
	return nil
}

func (r *fakeCampaignRepo) ListDue(now time.Time) ([]*model.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	due := []*model.Campaign{}
	for id := 1; id < r.nextID; id++ {
		c, ok := r.campaigns[id]
		if !ok {
			continue
		}
		if c.Status == model.StatusScheduled && c.ScheduledAt != nil && !c.ScheduledAt.After(now) {
			cp := *c
			due = append(due, &cp)
		}
	}
	return due, nil
}

// ---------------------------------------------------------------------------

type fakeRecipientRepo struct {
	recipients []model.Recipient
}

func (r *fakeRecipientRepo) GetByID(id int) (*model.Recipient, error) {
	for _, rec := range r.recipients {
		if rec.ID == id {
			cp := rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRecipientRepo) FindByActive(active bool) ([]model.Recipient, error) {
	out := []model.Recipient{}
	for _, rec := range r.recipients {
		if rec.IsActive == active {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeRecipientRepo) FindActiveByIDs(ids []int64) ([]model.Recipient, error) {
	want := map[int64]bool{}
	for _, id := range ids {
		want[id] = true
	}
	out := []model.Recipient{}
	for _, rec := range r.recipients {
		if rec.IsActive && want[int64(rec.ID)] {
			out = append(out, rec)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------

type fakeNotificationRepo struct {
	mu      sync.Mutex
	created []model.Notification
	err     error
}

func (r *fakeNotificationRepo) Create(n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	n.CreatedAt = time.Now()
	r.created = append(r.created, *n)
	return nil
}

func (r *fakeNotificationRepo) ListByRecipient(recipientID int) ([]model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Notification{}
	for _, n := range r.created {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------

// fakeSender records every call and fails for addresses in failFor.
type fakeSender struct {
	mu      sync.Mutex
	calls   []string
	failFor map[string]bool
	delay   time.Duration
}

func (s *fakeSender) send(ctx context.Context, target string) error {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor[target] {
		return fmt.Errorf("send to %s refused", target)
	}
	s.calls = append(s.calls, target)
	return nil
}

func (s *fakeSender) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *fakeSender) SendEmail(ctx context.Context, to, subject, html string) error {
	return s.send(ctx, to)
}

func (s *fakeSender) SendSMS(ctx context.Context, to, text string) error {
	return s.send(ctx, to)
}

func (s *fakeSender) SendPush(ctx context.Context, recipientID int, title, body string) error {
	return s.send(ctx, fmt.Sprintf("recipient-%d", recipientID))
}
