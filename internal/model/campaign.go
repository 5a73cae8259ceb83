// internal/model/campaign.go
package model

import (
	"math"
	"time"
)

// Channels
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelPush  = "push"
)

// Lifecycle statuses
const (
	StatusDraft     = "draft"
	StatusScheduled = "scheduled"
	StatusSending   = "sending"
	StatusSent      = "sent"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Audience selectors
const (
	AudienceAll            = "all"
	AudienceActive         = "active"
	AudienceInactive       = "inactive"
	AudienceAllMobileUsers = "all_mobile_users"
	AudienceCustom         = "custom"
)

// Schedule types
const (
	ScheduleSendNow   = "send_now"
	ScheduleScheduled = "scheduled"
)

// MaxSMSLength is the hard limit on sms message bodies.
const MaxSMSLength = 160

// Campaign is the single persisted broadcast entity, tagged by channel.
// Which content fields are mandatory depends on the channel tag.
type Campaign struct {
	ID               int        `db:"id" json:"id"`
	Channel          string     `db:"channel" json:"channel"`
	Subject          string     `db:"subject" json:"subject,omitempty"`
	Title            string     `db:"title" json:"title,omitempty"`
	Message          string     `db:"message" json:"message"`
	Attachments      []string   `db:"attachments" json:"attachments,omitempty"`
	AudienceSelector string     `db:"audience_selector" json:"audience_selector"`
	RecipientIDs     []int64    `db:"recipient_ids" json:"recipient_ids,omitempty"`
	ScheduleType     string     `db:"schedule_type" json:"schedule_type"`
	ScheduledAt      *time.Time `db:"scheduled_at" json:"scheduled_at,omitempty"`
	Status           string     `db:"status" json:"status"`
	TotalRecipients  int        `db:"total_recipients" json:"total_recipients"`
	SentCount        int        `db:"sent_count" json:"sent_count"`
	FailedCount      int        `db:"failed_count" json:"failed_count"`
	OpenedCount      int        `db:"opened_count" json:"opened_count"`
	OpenedRate       float64    `db:"opened_rate" json:"opened_rate"`
	ClickedCount     int        `db:"clicked_count" json:"clicked_count"`
	ClickedRate      float64    `db:"clicked_rate" json:"clicked_rate"`
	CreatedBy        string     `db:"created_by" json:"created_by"`
	SentAt           *time.Time `db:"sent_at" json:"sent_at,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// CanSend reports whether dispatch may start from the current status.
func (c *Campaign) CanSend() bool {
	return c.Status == StatusDraft || c.Status == StatusScheduled
}

// CanUpdate reports whether content/audience/schedule mutation is still allowed.
func (c *Campaign) CanUpdate() bool {
	return c.Status == StatusDraft || c.Status == StatusScheduled
}

// CanCancel reports whether the campaign may be cancelled. Only scheduled
// campaigns that have not started dispatch are cancellable.
func (c *Campaign) CanCancel() bool {
	return c.Status == StatusScheduled
}

// CanDelete reports whether hard deletion is allowed.
func (c *Campaign) CanDelete() bool {
	return c.Status != StatusSent && c.Status != StatusSending
}

// SupportsTracking reports whether open/click events make sense for the
// campaign's channel. SMS has no open or click concept.
func (c *Campaign) SupportsTracking() bool {
	return c.Channel != ChannelSMS
}

// RecomputeRates refreshes opened_rate/clicked_rate from the counters.
// Rates are percentages rounded to two decimals, 0 when nothing was sent.
func (c *Campaign) RecomputeRates() {
	c.OpenedRate = Rate(c.OpenedCount, c.SentCount)
	c.ClickedRate = Rate(c.ClickedCount, c.SentCount)
}

// Rate returns round2(count/sent*100), or 0 when sent is 0.
func Rate(count, sent int) float64 {
	if sent <= 0 {
		return 0
	}
	return math.Round(float64(count)/float64(sent)*100*100) / 100
}

// ValidChannel reports whether ch is a known delivery channel.
func ValidChannel(ch string) bool {
	return ch == ChannelEmail || ch == ChannelSMS || ch == ChannelPush
}

// ValidAudienceSelector reports whether sel is a known selector.
func ValidAudienceSelector(sel string) bool {
	switch sel {
	case AudienceAll, AudienceActive, AudienceInactive, AudienceAllMobileUsers, AudienceCustom:
		return true
	}
	return false
}

// ValidScheduleType reports whether st is a known schedule type.
func ValidScheduleType(st string) bool {
	return st == ScheduleSendNow || st == ScheduleScheduled
}
