package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	appErrors "github.com/unclebandit/broadcast-backend/internal/errors"
	"github.com/unclebandit/broadcast-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	// Campaign CRUD
	Create(c *model.Campaign) error
	GetByID(id int) (*model.Campaign, error)
	ListCampaigns(offset, limit int, channel, status string) ([]*model.Campaign, int, error)
	Update(c *model.Campaign) error
	Delete(id int) error
	UpdateStatus(campaignID int, status string) error

	// Dispatch transitions
	MarkSending(campaignID, totalRecipients int, sentAt time.Time) (bool, error)
	FinalizeSend(campaignID, sentCount, failedCount int) error

	// Engagement counters
	IncrementOpened(campaignID int) error
	IncrementClicked(campaignID int) error

	// Scheduler
	ListDue(now time.Time) ([]*model.Campaign, error)
}

type CampaignRepository struct {
	DB *sql.DB
}

const campaignColumns = `id, channel, subject, title, message, attachments,
	audience_selector, recipient_ids, schedule_type, scheduled_at, status,
	total_recipients, sent_count, failed_count,
	opened_count, opened_rate, clicked_count, clicked_rate,
	created_by, sent_at, created_at, updated_at`

func scanCampaign(row interface{ Scan(...any) error }) (*model.Campaign, error) {
	var c model.Campaign
	var attachments pq.StringArray
	var recipientIDs pq.Int64Array
	err := row.Scan(
		&c.ID, &c.Channel, &c.Subject, &c.Title, &c.Message, &attachments,
		&c.AudienceSelector, &recipientIDs, &c.ScheduleType, &c.ScheduledAt, &c.Status,
		&c.TotalRecipients, &c.SentCount, &c.FailedCount,
		&c.OpenedCount, &c.OpenedRate, &c.ClickedCount, &c.ClickedRate,
		&c.CreatedBy, &c.SentAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Attachments = []string(attachments)
	c.RecipientIDs = []int64(recipientIDs)
	return &c, nil
}

// ====================== Campaign CRUD ======================

func (r *CampaignRepository) Create(c *model.Campaign) error {
	c.CreatedAt = time.Now()
	if c.Status == "" {
		c.Status = model.StatusDraft
	}
	query := `
        INSERT INTO campaigns (channel, subject, title, message, attachments,
            audience_selector, recipient_ids, schedule_type, scheduled_at, status,
            total_recipients, created_by, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING id
    `
	return r.DB.QueryRow(query,
		c.Channel, c.Subject, c.Title, c.Message, pq.Array(c.Attachments),
		c.AudienceSelector, pq.Array(c.RecipientIDs), c.ScheduleType, c.ScheduledAt, c.Status,
		c.TotalRecipients, c.CreatedBy, c.CreatedAt,
	).Scan(&c.ID)
}

func (r *CampaignRepository) GetByID(id int) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id=$1`
	c, err := scanCampaign(r.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return c, nil
}

func (r *CampaignRepository) Update(c *model.Campaign) error {
	query := `
        UPDATE campaigns
        SET subject=$1, title=$2, message=$3, attachments=$4,
            audience_selector=$5, recipient_ids=$6, schedule_type=$7, scheduled_at=$8,
            status=$9, total_recipients=$10, updated_at=NOW()
        WHERE id=$11
    `
	_, err := r.DB.Exec(query,
		c.Subject, c.Title, c.Message, pq.Array(c.Attachments),
		c.AudienceSelector, pq.Array(c.RecipientIDs), c.ScheduleType, c.ScheduledAt,
		c.Status, c.TotalRecipients, c.ID,
	)
	return err
}

func (r *CampaignRepository) Delete(id int) error {
	res, err := r.DB.Exec(`DELETE FROM campaigns WHERE id=$1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return appErrors.NewCampaignNotFound(id)
	}
	return nil
}

func (r *CampaignRepository) UpdateStatus(campaignID int, status string) error {
	query := `UPDATE campaigns SET status=$1, updated_at=$2 WHERE id=$3`
	_, err := r.DB.Exec(query, status, time.Now(), campaignID)
	return err
}

func (r *CampaignRepository) ListCampaigns(offset, limit int, channel, status string) ([]*model.Campaign, int, error) {
	campaigns := []*model.Campaign{}
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if channel != "" {
		query += fmt.Sprintf(" AND channel=$%d", argPos)
		args = append(args, channel)
		argPos++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status=$%d", argPos)
		args = append(args, status)
		argPos++
	}

	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, err
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// Count total
	countQuery := `SELECT COUNT(*) FROM campaigns WHERE 1=1`
	argsCount := []interface{}{}
	argPosCount := 1
	if channel != "" {
		countQuery += fmt.Sprintf(" AND channel=$%d", argPosCount)
		argsCount = append(argsCount, channel)
		argPosCount++
	}
	if status != "" {
		countQuery += fmt.Sprintf(" AND status=$%d", argPosCount)
		argsCount = append(argsCount, status)
	}

	var total int
	if err := r.DB.QueryRow(countQuery, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return campaigns, total, nil
}

// ====================== Dispatch transitions ======================

// MarkSending performs the guarded sending transition in one statement.
// It only succeeds while the campaign is still draft or scheduled, so a
// concurrent second dispatcher loses the race and gets false back.
func (r *CampaignRepository) MarkSending(campaignID, totalRecipients int, sentAt time.Time) (bool, error) {
	query := `
        UPDATE campaigns
        SET status=$1, total_recipients=$2, sent_at=$3, updated_at=NOW()
        WHERE id=$4 AND status IN ($5, $6)
    `
	res, err := r.DB.Exec(query,
		model.StatusSending, totalRecipients, sentAt,
		campaignID, model.StatusDraft, model.StatusScheduled,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// FinalizeSend writes the terminal sent status together with both counters
// so the record never shows a half-updated dispatch outcome.
func (r *CampaignRepository) FinalizeSend(campaignID, sentCount, failedCount int) error {
	query := `
        UPDATE campaigns
        SET status=$1, sent_count=$2, failed_count=$3, updated_at=NOW()
        WHERE id=$4
    `
	_, err := r.DB.Exec(query, model.StatusSent, sentCount, failedCount, campaignID)
	return err
}

// ====================== Engagement counters ======================

// IncrementOpened bumps opened_count and recomputes opened_rate in a single
// statement, so concurrent tracking hits never lose updates.
func (r *CampaignRepository) IncrementOpened(campaignID int) error {
	query := `
        UPDATE campaigns
        SET opened_count = opened_count + 1,
            opened_rate = CASE WHEN sent_count > 0
                THEN ROUND((opened_count + 1) * 100.0 / sent_count, 2)
                ELSE 0 END,
            updated_at = NOW()
        WHERE id=$1
    `
	_, err := r.DB.Exec(query, campaignID)
	return err
}

func (r *CampaignRepository) IncrementClicked(campaignID int) error {
	query := `
        UPDATE campaigns
        SET clicked_count = clicked_count + 1,
            clicked_rate = CASE WHEN sent_count > 0
                THEN ROUND((clicked_count + 1) * 100.0 / sent_count, 2)
                ELSE 0 END,
            updated_at = NOW()
        WHERE id=$1
    `
	_, err := r.DB.Exec(query, campaignID)
	return err
}

// ====================== Scheduler ======================

// ListDue returns scheduled campaigns whose send time has passed.
func (r *CampaignRepository) ListDue(now time.Time) ([]*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + `
        FROM campaigns
        WHERE status=$1 AND scheduled_at IS NOT NULL AND scheduled_at <= $2
        ORDER BY scheduled_at ASC`
	rows, err := r.DB.Query(query, model.StatusScheduled, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	due := []*model.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		due = append(due, c)
	}
	return due, rows.Err()
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
