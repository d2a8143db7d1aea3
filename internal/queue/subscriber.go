// internal/queue/subscriber.go
package queue

import (
	"encoding/json"
	"log"

	"github.com/propreach/outreach-backend/internal/model"
	"github.com/propreach/outreach-backend/internal/repository"
)

// StartDeliverySubscriber persists delivery events into the delivery log.
// With a nil store the subscriber only logs, which keeps the event path
// identical whether or not a database is configured.
func StartDeliverySubscriber(q Queue, store repository.DeliveryStore) {
	err := q.Subscribe(TopicDeliveryEvents, func(payload []byte) error {
		var ev DeliveryEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			log.Println("⚠️ invalid delivery event payload:", err)
			return nil // malformed events are not worth a retry
		}
		return HandleDeliveryEvent(store, ev)
	})
	if err != nil {
		log.Println("⚠️ failed to subscribe for delivery events:", err)
	}
}

// HandleDeliveryEvent applies one event to the store: first sight of a SID
// creates a record, later events update its status.
func HandleDeliveryEvent(store repository.DeliveryStore, ev DeliveryEvent) error {
	log.Printf("📩 delivery event: kind=%s sid=%s status=%s to=%s", ev.Kind, ev.SID, ev.Status, ev.To)
	if store == nil || ev.SID == "" {
		return nil
	}

	existing, err := store.GetBySID(ev.SID)
	if err != nil {
		return err
	}
	if existing == nil {
		return store.Create(&model.DeliveryRecord{
			Kind:      ev.Kind,
			SID:       ev.SID,
			To:        ev.To,
			From:      ev.From,
			Status:    ev.Status,
			MediaURL:  ev.MediaURL,
			LastError: ev.Error,
		})
	}
	return store.UpdateStatusBySID(ev.SID, ev.Status, ev.Error)
}
