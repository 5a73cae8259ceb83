package repository

import (
	"database/sql"
	"time"

	"github.com/unclebandit/broadcast-backend/internal/model"
)

type NotificationRepositoryInterface interface {
	Create(n *model.Notification) error
	ListByRecipient(recipientID int) ([]model.Notification, error)
}

type NotificationRepository struct {
	DB *sql.DB
}

// Create inserts a durable in-app notification record.
func (r *NotificationRepository) Create(n *model.Notification) error {
	n.CreatedAt = time.Now()
	query := `
        INSERT INTO notifications (id, recipient_id, campaign_id, title, body, read, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := r.DB.Exec(query, n.ID, n.RecipientID, n.CampaignID, n.Title, n.Body, n.Read, n.CreatedAt)
	return err
}

// ListByRecipient fetches a recipient's notifications, newest first.
func (r *NotificationRepository) ListByRecipient(recipientID int) ([]model.Notification, error) {
	query := `
        SELECT id, recipient_id, campaign_id, title, body, read, created_at
        FROM notifications
        WHERE recipient_id=$1
        ORDER BY created_at DESC
    `
	rows, err := r.DB.Query(query, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []model.Notification{}
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.CampaignID, &n.Title, &n.Body, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

var _ NotificationRepositoryInterface = (*NotificationRepository)(nil)
