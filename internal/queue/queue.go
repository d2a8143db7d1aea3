// internal/queue/queue.go

// Package queue fans delivery events out to subscribers. An in-memory
// implementation covers single-process setups; a RabbitMQ implementation
// carries the same events across processes so cmd/worker can persist them.
package queue

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// TopicDeliveryEvents is the queue topic for send and status events.
const TopicDeliveryEvents = "delivery_events"

// Queue publishes and subscribes raw event payloads by topic.
type Queue interface {
	Publish(topic string, payload []byte) error
	Subscribe(topic string, handler func(payload []byte) error) error
}

// InMemoryQueue dispatches to in-process handlers with bounded retry.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload []byte) error
}

// NewInMemoryQueue creates an empty queue.
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{handlers: make(map[string][]func(payload []byte) error)}
}

type job struct {
	payload    []byte
	retryCount int
	maxRetries int
}

// Publish sends the payload to every subscriber of topic.
func (q *InMemoryQueue) Publish(topic string, payload []byte) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	j := job{payload: payload, maxRetries: 3}
	for _, handler := range handlers {
		go q.process(handler, j)
	}
	return nil
}

// process retries a failing handler with linear backoff, then drops the job.
func (q *InMemoryQueue) process(handler func([]byte) error, j job) {
	for j.retryCount <= j.maxRetries {
		err := handler(j.payload)
		if err == nil {
			return
		}

		j.retryCount++
		log.Printf("⚠️ event handler failed (attempt %d/%d): %v", j.retryCount, j.maxRetries, err)
		if j.retryCount > j.maxRetries {
			log.Printf("⚠️ event permanently dropped after %d attempts", j.maxRetries)
			return
		}
		time.Sleep(time.Duration(j.retryCount*500) * time.Millisecond)
	}
}

// Subscribe registers a handler for a topic.
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload []byte) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}
