// internal/model/delivery.go
package model

import "time"

// Delivery kinds.
const (
	DeliverySMS        = "sms"
	DeliveryMMS        = "mms"
	DeliveryCall       = "call"
	DeliveryVideoEmail = "video_email"
)

// DeliveryRecord is one outbound send and its latest provider status.
type DeliveryRecord struct {
	ID        int       `db:"id" json:"id"`
	Kind      string    `db:"kind" json:"kind"`
	SID       string    `db:"sid" json:"sid"` // provider message/call identifier
	To        string    `db:"to_number" json:"to"`
	From      string    `db:"from_number" json:"from"`
	Status    string    `db:"status" json:"status"`
	MediaURL  string    `db:"media_url" json:"media_url,omitempty"`
	LastError string    `db:"last_error" json:"last_error,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
