// Package rabbitmq publishes customer notifications to a RabbitMQ topic
// exchange. Consumers bind queues with routing keys like "notification.#"
// or "notification.delivery_completed".
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"marketplace/internal/core/domain/model/notification"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange is the durable topic exchange notifications are published to.
const Exchange = "notifications"

var ErrPublisherClosed = errors.New("rabbitmq publisher is closed")

// Message is the JSON body of a published notification.
type Message struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"orderId"`
	RecipientID string    `json:"recipientId"`
	ActorID     string    `json:"actorId"`
	StoreID     *string   `json:"storeId,omitempty"`
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"createdAt"`
}

func NewMessage(n *notification.Notification) Message {
	msg := Message{
		ID:          n.ID().String(),
		OrderID:     n.OrderID().String(),
		RecipientID: n.RecipientID().String(),
		ActorID:     n.ActorID().String(),
		Type:        string(n.Type()),
		Message:     n.Message(),
		CreatedAt:   n.CreatedAt(),
	}
	if storeID := n.StoreID(); storeID != nil {
		s := storeID.String()
		msg.StoreID = &s
	}
	return msg
}

// Publisher owns one connection and channel. A lost connection is redialled
// on the next publish.
type Publisher struct {
	url    string
	logger *slog.Logger

	mu     sync.Mutex
	conn   *amqp.Connection
	ch     *amqp.Channel
	closed bool
}

func NewPublisher(url string, logger *slog.Logger) (*Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Publisher{url: url, logger: logger.With("component", "rabbitmq_publisher")}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

// connect dials the broker and declares the exchange. Callers hold mu.
func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open rabbitmq channel: %w", err)
	}

	if err = ch.ExchangeDeclare(
		Exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare exchange %q: %w", Exchange, err)
	}

	p.conn, p.ch = conn, ch
	return nil
}

func (p *Publisher) Publish(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(NewMessage(n))
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPublisherClosed
	}
	if p.conn == nil || p.conn.IsClosed() || p.ch == nil || p.ch.IsClosed() {
		p.logger.WarnContext(ctx, "rabbitmq connection lost, reconnecting")
		if err = p.connect(); err != nil {
			return err
		}
		p.logger.InfoContext(ctx, "rabbitmq reconnected")
	}

	return p.ch.PublishWithContext(ctx,
		Exchange,              // exchange
		n.Type().RoutingKey(), // routing key
		false,                 // mandatory
		false,                 // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    n.ID().String(),
			Timestamp:    n.CreatedAt(),
			Body:         body,
		})
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	var errCh, errConn error
	if p.ch != nil && !p.ch.IsClosed() {
		errCh = p.ch.Close()
	}
	if p.conn != nil && !p.conn.IsClosed() {
		errConn = p.conn.Close()
	}
	return errors.Join(errCh, errConn)
}
