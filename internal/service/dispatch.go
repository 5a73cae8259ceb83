// internal/service/dispatch.go
package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	appErrors "github.com/unclebandit/broadcast-backend/internal/errors"
	"github.com/unclebandit/broadcast-backend/internal/metrics"
	"github.com/unclebandit/broadcast-backend/internal/model"
	"github.com/unclebandit/broadcast-backend/internal/repository"
	"github.com/unclebandit/broadcast-backend/internal/sender"
)

const (
	defaultConcurrency = 8
	defaultSendTimeout = 5 * time.Second
)

// DispatchResult is the outcome of one full campaign send.
type DispatchResult struct {
	CampaignID      int `json:"campaign_id"`
	TotalRecipients int `json:"total_recipients"`
	SentCount       int `json:"sent_count"`
	FailedCount     int `json:"failed_count"`
}

// DispatchEngine fans a campaign out to its resolved recipients through the
// channel-matching adapter. Per-recipient failures are counted, never fatal;
// only systemic failures mark the campaign failed.
type DispatchEngine struct {
	CampaignRepo     repository.CampaignRepositoryInterface
	NotificationRepo repository.NotificationRepositoryInterface
	Resolver         *AudienceResolver
	Senders          sender.Registry

	// Concurrency bounds the parallel per-recipient sends; SendTimeout
	// bounds each individual adapter call.
	Concurrency int
	SendTimeout time.Duration
}

func (e *DispatchEngine) concurrency() int {
	if e.Concurrency > 0 {
		return e.Concurrency
	}
	return defaultConcurrency
}

func (e *DispatchEngine) timeout() time.Duration {
	if e.SendTimeout > 0 {
		return e.SendTimeout
	}
	return defaultSendTimeout
}

// Send runs the full dispatch for one campaign. At most one invocation per
// campaign can pass the guarded sending transition; concurrent or repeated
// callers fail with already_sending/already_sent instead of double-sending.
func (e *DispatchEngine) Send(ctx context.Context, campaignID int) (*DispatchResult, error) {
	campaign, err := e.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, err
	}

	switch campaign.Status {
	case model.StatusSent:
		return nil, appErrors.NewAlreadySent(campaignID)
	case model.StatusSending:
		return nil, appErrors.NewAlreadySending(campaignID)
	}
	if !campaign.CanSend() {
		return nil, appErrors.NewIllegalTransition(campaignID, campaign.Status, "send")
	}

	recipients, err := e.Resolver.Resolve(campaign.Channel, campaign.AudienceSelector, campaign.RecipientIDs)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return nil, appErrors.NewNoRecipients(campaignID)
	}

	if !e.hasAdapter(campaign.Channel) {
		_ = e.CampaignRepo.UpdateStatus(campaignID, model.StatusFailed)
		metrics.RecordCampaignFailed()
		return nil, appErrors.NewDelivery("no adapter configured for channel "+campaign.Channel, nil)
	}

	ok, err := e.CampaignRepo.MarkSending(campaignID, len(recipients), time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, appErrors.NewAlreadySending(campaignID)
	}

	counts := &deliveryCounts{}
	g := new(errgroup.Group)
	g.SetLimit(e.concurrency())

	for _, rec := range recipients {
		rec := rec
		g.Go(func() error {
			if err := e.deliver(ctx, campaign, rec); err != nil {
				log.Printf("⚠️ campaign %d: delivery to recipient %d failed: %v", campaignID, rec.ID, err)
				counts.fail()
				metrics.RecordDelivery(campaign.Channel, "failed")
				return nil // one recipient never aborts the batch
			}
			counts.ok()
			metrics.RecordDelivery(campaign.Channel, "sent")
			return nil
		})
	}
	_ = g.Wait()

	sent, failed := counts.totals()
	if err := e.CampaignRepo.FinalizeSend(campaignID, sent, failed); err != nil {
		_ = e.CampaignRepo.UpdateStatus(campaignID, model.StatusFailed)
		metrics.RecordCampaignFailed()
		return nil, appErrors.NewDelivery("persist dispatch outcome", err)
	}
	metrics.RecordCampaignSent()

	log.Printf("✅ campaign %d sent: %d ok, %d failed of %d", campaignID, sent, failed, len(recipients))

	return &DispatchResult{
		CampaignID:      campaignID,
		TotalRecipients: len(recipients),
		SentCount:       sent,
		FailedCount:     failed,
	}, nil
}

func (e *DispatchEngine) hasAdapter(channel string) bool {
	switch channel {
	case model.ChannelEmail:
		return e.Senders.Email != nil
	case model.ChannelSMS:
		return e.Senders.SMS != nil
	case model.ChannelPush:
		return e.Senders.Push != nil
	}
	return false
}

// deliver sends to a single recipient, bounded by the per-send timeout so a
// stalled adapter call cannot hold the whole batch.
func (e *DispatchEngine) deliver(ctx context.Context, c *model.Campaign, rec model.Recipient) error {
	switch c.Channel {
	case model.ChannelEmail:
		body := BuildEmailHTML(c.Message, c.Attachments)
		return e.withTimeout(ctx, func(ctx context.Context) error {
			return e.Senders.Email.SendEmail(ctx, rec.Email, c.Subject, body)
		})

	case model.ChannelSMS:
		return e.withTimeout(ctx, func(ctx context.Context) error {
			return e.Senders.SMS.SendSMS(ctx, rec.Phone, c.Message)
		})

	case model.ChannelPush:
		// The in-app record is written per attempted recipient and stays
		// even when the transport call itself fails.
		n := &model.Notification{
			ID:          uuid.NewString(),
			RecipientID: rec.ID,
			CampaignID:  c.ID,
			Title:       c.Title,
			Body:        c.Message,
		}
		if err := e.NotificationRepo.Create(n); err != nil {
			log.Printf("⚠️ campaign %d: notification record for recipient %d failed: %v", c.ID, rec.ID, err)
		}
		return e.withTimeout(ctx, func(ctx context.Context) error {
			return e.Senders.Push.SendPush(ctx, rec.ID, c.Title, c.Message)
		})
	}
	return appErrors.NewDelivery("no adapter configured for channel "+c.Channel, nil)
}

func (e *DispatchEngine) withTimeout(ctx context.Context, send func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- send(ctx) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
