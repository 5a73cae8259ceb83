package repository

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/unclebandit/broadcast-backend/internal/model"
)

// RecipientRepositoryInterface is the read-only view of the recipient
// directory consumed by the audience resolver.
type RecipientRepositoryInterface interface {
	GetByID(id int) (*model.Recipient, error)
	FindByActive(active bool) ([]model.Recipient, error)
	FindActiveByIDs(ids []int64) ([]model.Recipient, error)
}

// RecipientRepository is the concrete Postgres implementation
type RecipientRepository struct {
	DB *sql.DB
}

// GetByID fetches a recipient by ID
func (r *RecipientRepository) GetByID(id int) (*model.Recipient, error) {
	query := `
        SELECT id, COALESCE(email, ''), COALESCE(phone, ''), is_active
        FROM recipients
        WHERE id = $1
    `
	row := r.DB.QueryRow(query, id)

	var rec model.Recipient
	if err := row.Scan(&rec.ID, &rec.Email, &rec.Phone, &rec.IsActive); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return &rec, nil
}

// FindByActive fetches all recipients matching the active flag
func (r *RecipientRepository) FindByActive(active bool) ([]model.Recipient, error) {
	query := `
        SELECT id, COALESCE(email, ''), COALESCE(phone, ''), is_active
        FROM recipients
        WHERE is_active = $1
        ORDER BY id
    `
	return r.collect(r.DB.Query(query, active))
}

// FindActiveByIDs fetches the active recipients among the given ids.
// Stale ids and inactive members simply drop out of the result.
func (r *RecipientRepository) FindActiveByIDs(ids []int64) ([]model.Recipient, error) {
	query := `
        SELECT id, COALESCE(email, ''), COALESCE(phone, ''), is_active
        FROM recipients
        WHERE id = ANY($1) AND is_active = TRUE
        ORDER BY id
    `
	return r.collect(r.DB.Query(query, pq.Array(ids)))
}

func (r *RecipientRepository) collect(rows *sql.Rows, err error) ([]model.Recipient, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipients := []model.Recipient{}
	for rows.Next() {
		var rec model.Recipient
		if err := rows.Scan(&rec.ID, &rec.Email, &rec.Phone, &rec.IsActive); err != nil {
			return nil, err
		}
		recipients = append(recipients, rec)
	}
	return recipients, rows.Err()
}

var _ RecipientRepositoryInterface = (*RecipientRepository)(nil)
