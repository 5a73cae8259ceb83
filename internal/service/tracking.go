// internal/service/tracking.go
package service

import (
	appErrors "github.com/unclebandit/broadcast-backend/internal/errors"
	"github.com/unclebandit/broadcast-backend/internal/metrics"
	"github.com/unclebandit/broadcast-backend/internal/repository"
)

// EngagementTracker records open/click events against sent campaigns.
// These calls come from tracking pixels and link redirects, so the only
// input is the campaign id and no authentication is involved.
type EngagementTracker struct {
	CampaignRepo repository.CampaignRepositoryInterface
}

func (t *EngagementTracker) TrackOpen(campaignID int) error {
	return t.track(campaignID, "open", t.CampaignRepo.IncrementOpened)
}

func (t *EngagementTracker) TrackClick(campaignID int) error {
	return t.track(campaignID, "click", t.CampaignRepo.IncrementClicked)
}

func (t *EngagementTracker) track(campaignID int, event string, increment func(int) error) error {
	c, err := t.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return err
	}
	if !c.SupportsTracking() {
		return appErrors.NewNotSupported(event + " tracking is not supported for sms campaigns")
	}

	if err := increment(campaignID); err != nil {
		return err
	}
	metrics.RecordTrackingEvent(event)
	return nil
}
