// internal/repository/delivery_repository.go
package repository

import (
	"database/sql"
	"time"

	"github.com/propreach/outreach-backend/internal/model"
)

// DeliveryStore is what the event subscriber and handlers need from the
// delivery log.
type DeliveryStore interface {
	Create(rec *model.DeliveryRecord) error
	GetBySID(sid string) (*model.DeliveryRecord, error)
	UpdateStatusBySID(sid, status, lastError string) error
	ListRecent(limit int) ([]model.DeliveryRecord, error)
}

// DeliveryRepository is the Postgres implementation.
type DeliveryRepository struct {
	DB *sql.DB
}

// Create inserts a new delivery record and fills in its ID.
func (r *DeliveryRepository) Create(rec *model.DeliveryRecord) error {
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	query := `
        INSERT INTO deliveries (kind, sid, to_number, from_number, status, media_url, last_error, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id
    `
	return r.DB.QueryRow(query,
		rec.Kind, rec.SID, rec.To, rec.From, rec.Status,
		rec.MediaURL, rec.LastError, rec.CreatedAt, rec.UpdatedAt,
	).Scan(&rec.ID)
}

// GetBySID fetches a delivery by provider SID, nil when absent.
func (r *DeliveryRepository) GetBySID(sid string) (*model.DeliveryRecord, error) {
	query := `
        SELECT id, kind, sid, to_number, from_number, status, media_url, last_error, created_at, updated_at
        FROM deliveries WHERE sid=$1
    `
	var rec model.DeliveryRecord
	err := r.DB.QueryRow(query, sid).Scan(
		&rec.ID, &rec.Kind, &rec.SID, &rec.To, &rec.From,
		&rec.Status, &rec.MediaURL, &rec.LastError, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// UpdateStatusBySID records a provider status transition.
func (r *DeliveryRepository) UpdateStatusBySID(sid, status, lastError string) error {
	query := `UPDATE deliveries SET status=$1, last_error=$2, updated_at=NOW() WHERE sid=$3`
	_, err := r.DB.Exec(query, status, lastError, sid)
	return err
}

// ListRecent returns the newest deliveries, most recent first.
func (r *DeliveryRepository) ListRecent(limit int) ([]model.DeliveryRecord, error) {
	if limit < 1 {
		limit = 50
	}
	query := `
        SELECT id, kind, sid, to_number, from_number, status, media_url, last_error, created_at, updated_at
        FROM deliveries ORDER BY id DESC LIMIT $1
    `
	rows, err := r.DB.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []model.DeliveryRecord{}
	for rows.Next() {
		var rec model.DeliveryRecord
		if err := rows.Scan(
			&rec.ID, &rec.Kind, &rec.SID, &rec.To, &rec.From,
			&rec.Status, &rec.MediaURL, &rec.LastError, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

var _ DeliveryStore = (*DeliveryRepository)(nil)
