// internal/queue/amqp.go
package queue

import (
	"fmt"
	"log"

	"github.com/streadway/amqp"
)

// AMQPQueue carries delivery events over RabbitMQ with durable queues, so a
// separate worker process can consume them.
type AMQPQueue struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// DialAMQP connects to RabbitMQ and opens a channel.
func DialAMQP(url string) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	return &AMQPQueue{conn: conn, channel: ch}, nil
}

// Close tears down the channel and connection.
func (q *AMQPQueue) Close() {
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		q.conn.Close()
	}
}

func (q *AMQPQueue) declare(topic string) (amqp.Queue, error) {
	return q.channel.QueueDeclare(
		topic,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
}

// Publish enqueues the payload on a durable queue named after the topic.
func (q *AMQPQueue) Publish(topic string, payload []byte) error {
	queue, err := q.declare(topic)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", topic, err)
	}
	return q.channel.Publish(
		"",
		queue.Name,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        payload,
		},
	)
}

// maxEventRetries caps redeliveries of a failing event before it is dropped.
const maxEventRetries = 3

// eventPublisher is the slice of amqp.Channel the consumer loop needs to
// requeue a failed delivery.
type eventPublisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// deliverySettler is the slice of amqp.Delivery the consumer loop needs to
// settle a message.
type deliverySettler interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// Subscribe consumes the topic queue on a background goroutine. Failed
// handlers are redelivered up to three times via the x-retry-count header.
func (q *AMQPQueue) Subscribe(topic string, handler func(payload []byte) error) error {
	queue, err := q.declare(topic)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", topic, err)
	}
	msgs, err := q.channel.Consume(
		queue.Name,
		"",
		false, // manual ack for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for d := range msgs {
			dispatchDelivery(q.channel, queue.Name, handler, d, d.Body, d.Headers)
		}
	}()
	return nil
}

// dispatchDelivery runs the handler and settles the message: ack on success,
// requeue with an incremented retry header on failure, drop once the retry
// budget is spent. A plain Nack-requeue would redeliver the message with its
// original headers and the count would never advance, so failures are
// republished instead and the old delivery acked.
func dispatchDelivery(pub eventPublisher, queueName string, handler func([]byte) error, d deliverySettler, body []byte, headers amqp.Table) {
	err := handler(body)
	if err == nil {
		d.Ack(false)
		return
	}

	retries := retryCountOf(headers)
	log.Printf("⚠️ event handler failed (attempt %d/%d): %v", retries+1, maxEventRetries+1, err)
	if retries >= maxEventRetries {
		log.Printf("⚠️ event permanently dropped after %d attempts", maxEventRetries+1)
		d.Ack(false)
		return
	}

	pubErr := pub.Publish("", queueName, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
		Headers:     amqp.Table{"x-retry-count": retries + 1},
	})
	if pubErr != nil {
		log.Println("⚠️ failed to requeue event:", pubErr)
		d.Nack(false, true)
		return
	}
	d.Ack(false)
}

// retryCountOf reads the x-retry-count header, tolerating the integer widths
// the broker may hand back.
func retryCountOf(headers amqp.Table) int32 {
	switch v := headers["x-retry-count"].(type) {
	case int32:
		return v
	case int64:
		return int32(v)
	case int:
		return int32(v)
	}
	return 0
}
