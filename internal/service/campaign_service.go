// internal/service/campaign_service.go
package service

import (
	"strings"
	"time"

	appErrors "github.com/unclebandit/broadcast-backend/internal/errors"
	"github.com/unclebandit/broadcast-backend/internal/model"
	"github.com/unclebandit/broadcast-backend/internal/repository"
)

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	Resolver     *AudienceResolver
}

// CampaignInput carries the operator-supplied fields for create and update.
type CampaignInput struct {
	Channel          string     `json:"channel"`
	Subject          string     `json:"subject"`
	Title            string     `json:"title"`
	Message          string     `json:"message"`
	Attachments      []string   `json:"attachments"`
	AudienceSelector string     `json:"audience_selector"`
	RecipientIDs     []int64    `json:"recipient_ids"`
	ScheduleType     string     `json:"schedule_type"`
	ScheduledAt      *time.Time `json:"scheduled_at"`
}

// Channel-specific content rules, keyed on the channel tag.
var contentValidators = map[string]func(in *CampaignInput) error{
	model.ChannelEmail: func(in *CampaignInput) error {
		if strings.TrimSpace(in.Subject) == "" {
			return appErrors.NewValidation("subject is required for email campaigns")
		}
		return nil
	},
	model.ChannelSMS: func(in *CampaignInput) error {
		if len(in.Message) > model.MaxSMSLength {
			return appErrors.NewValidation("sms message exceeds %d characters", model.MaxSMSLength)
		}
		return nil
	},
	model.ChannelPush: func(in *CampaignInput) error {
		if strings.TrimSpace(in.Title) == "" {
			return appErrors.NewValidation("title is required for push campaigns")
		}
		return nil
	},
}

func validateInput(in *CampaignInput, now time.Time) error {
	if !model.ValidChannel(in.Channel) {
		return appErrors.NewValidation("unknown channel %q", in.Channel)
	}
	if strings.TrimSpace(in.Message) == "" {
		return appErrors.NewValidation("message is required")
	}
	if !model.ValidAudienceSelector(in.AudienceSelector) {
		return appErrors.NewValidation("unknown audience selector %q", in.AudienceSelector)
	}
	if !model.ValidScheduleType(in.ScheduleType) {
		return appErrors.NewValidation("unknown schedule type %q", in.ScheduleType)
	}

	if err := contentValidators[in.Channel](in); err != nil {
		return err
	}

	if in.AudienceSelector == model.AudienceCustom && len(in.RecipientIDs) == 0 {
		return appErrors.NewInvalidAudience("custom audience requires at least one explicit recipient")
	}

	if in.ScheduleType == model.ScheduleScheduled {
		if in.ScheduledAt == nil {
			return appErrors.NewValidation("scheduled_at is required for scheduled campaigns")
		}
		if !in.ScheduledAt.After(now) {
			return appErrors.NewValidation("scheduled_at must be in the future")
		}
	}

	return nil
}

func applyInput(c *model.Campaign, in *CampaignInput) {
	c.Subject = in.Subject
	c.Title = in.Title
	c.Message = in.Message
	c.AudienceSelector = in.AudienceSelector
	c.RecipientIDs = in.RecipientIDs
	c.ScheduleType = in.ScheduleType

	// Attachments only mean anything for email.
	if in.Channel == model.ChannelEmail {
		c.Attachments = in.Attachments
	} else {
		c.Attachments = nil
	}

	if in.ScheduleType == model.ScheduleScheduled {
		c.ScheduledAt = in.ScheduledAt
	} else {
		c.ScheduledAt = nil
	}
}

// CreateCampaign validates the input, caches the audience size, and persists
// the campaign as draft (send_now) or scheduled.
func (s *CampaignService) CreateCampaign(in CampaignInput, createdBy string) (*model.Campaign, error) {
	if err := validateInput(&in, time.Now()); err != nil {
		return nil, err
	}

	c := &model.Campaign{
		Channel:   in.Channel,
		Status:    model.StatusDraft,
		CreatedBy: createdBy,
	}
	applyInput(c, &in)
	if in.ScheduleType == model.ScheduleScheduled {
		c.Status = model.StatusScheduled
	}

	// The cached count is informational; dispatch re-resolves and overwrites
	// it when the send actually starts.
	recipients, err := s.Resolver.Resolve(c.Channel, c.AudienceSelector, c.RecipientIDs)
	if err != nil {
		return nil, err
	}
	c.TotalRecipients = len(recipients)

	if err := s.CampaignRepo.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCampaign re-validates and overwrites a draft or scheduled campaign.
// The channel is fixed at creation and cannot change.
func (s *CampaignService) UpdateCampaign(id int, in CampaignInput) (*model.Campaign, error) {
	c, err := s.CampaignRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !c.CanUpdate() {
		return nil, appErrors.NewIllegalTransition(id, c.Status, "update")
	}

	if in.Channel == "" {
		in.Channel = c.Channel
	}
	if in.Channel != c.Channel {
		return nil, appErrors.NewValidation("channel is fixed at creation")
	}
	if err := validateInput(&in, time.Now()); err != nil {
		return nil, err
	}

	applyInput(c, &in)
	if in.ScheduleType == model.ScheduleScheduled {
		c.Status = model.StatusScheduled
	} else {
		c.Status = model.StatusDraft
	}

	recipients, err := s.Resolver.Resolve(c.Channel, c.AudienceSelector, c.RecipientIDs)
	if err != nil {
		return nil, err
	}
	c.TotalRecipients = len(recipients)

	if err := s.CampaignRepo.Update(c); err != nil {
		return nil, err
	}
	return c, nil
}

// CancelCampaign moves a scheduled campaign to cancelled. Drafts, in-flight
// and finished campaigns are rejected.
func (s *CampaignService) CancelCampaign(id int) (*model.Campaign, error) {
	c, err := s.CampaignRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !c.CanCancel() {
		return nil, appErrors.NewIllegalTransition(id, c.Status, "cancel")
	}

	if err := s.CampaignRepo.UpdateStatus(id, model.StatusCancelled); err != nil {
		return nil, err
	}
	c.Status = model.StatusCancelled
	return c, nil
}

// DeleteCampaign removes the record permanently unless dispatch already
// started or finished.
func (s *CampaignService) DeleteCampaign(id int) error {
	c, err := s.CampaignRepo.GetByID(id)
	if err != nil {
		return err
	}
	if !c.CanDelete() {
		return appErrors.NewIllegalTransition(id, c.Status, "delete")
	}
	return s.CampaignRepo.Delete(id)
}

// GetCampaign fetches a campaign by ID
func (s *CampaignService) GetCampaign(id int) (*model.Campaign, error) {
	return s.CampaignRepo.GetByID(id)
}

// ListCampaigns fetches campaigns with pagination
func (s *CampaignService) ListCampaigns(page, pageSize int, channel, status string) ([]model.Campaign, map[string]int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	ptrs, total, err := s.CampaignRepo.ListCampaigns(offset, pageSize, channel, status)
	if err != nil {
		return nil, nil, err
	}

	campaigns := make([]model.Campaign, len(ptrs))
	for i, c := range ptrs {
		campaigns[i] = *c
	}

	totalPages := (total + pageSize - 1) / pageSize
	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}

	return campaigns, pagination, nil
}
