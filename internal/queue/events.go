// internal/queue/events.go
package queue

import (
	"encoding/json"
	"log"
	"time"
)

// DeliveryEvent records a send or a provider status transition.
type DeliveryEvent struct {
	Kind       string    `json:"kind"` // sms, mms, call, video_email
	SID        string    `json:"sid"`
	To         string    `json:"to"`
	From       string    `json:"from"`
	Status     string    `json:"status"`
	MediaURL   string    `json:"media_url,omitempty"`
	Error      string    `json:"error,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PublishDelivery publishes an event, logging instead of failing the caller:
// delivery bookkeeping must never break a send that already happened.
func PublishDelivery(q Queue, ev DeliveryEvent) {
	if q == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Println("⚠️ failed to encode delivery event:", err)
		return
	}
	if err := q.Publish(TopicDeliveryEvents, payload); err != nil {
		log.Println("⚠️ failed to publish delivery event:", err)
	}
}
