// internal/model/notification.go
package model

import "time"

// Notification is the durable in-app record written for every push
// recipient a dispatch attempts, independent of the transport outcome.
type Notification struct {
	ID          string    `db:"id" json:"id"`
	RecipientID int       `db:"recipient_id" json:"recipient_id"`
	CampaignID  int       `db:"campaign_id" json:"campaign_id"`
	Title       string    `db:"title" json:"title"`
	Body        string    `db:"body" json:"body"`
	Read        bool      `db:"read" json:"read"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
