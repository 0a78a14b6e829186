package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/antifraud/antifraud-system/internal/core/domain"
)

// AuditPublisher forwards account audit events to a durable RabbitMQ queue.
type AuditPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string

	// amqp channels are not safe for concurrent publishing.
	mu sync.Mutex
}

// NewAuditPublisher dials url and declares queue.
func NewAuditPublisher(url, queue string) (*AuditPublisher, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("rabbitmq url is required")
	}
	if strings.TrimSpace(queue) == "" {
		return nil, errors.New("rabbitmq queue is required")
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq declare %s: %w", queue, err)
	}

	return &AuditPublisher{conn: conn, channel: ch, queue: queue}, nil
}

type auditMessage struct {
	Username   string    `json:"username"`
	Action     string    `json:"action"`
	Actor      string    `json:"actor,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (p *AuditPublisher) Publish(ctx context.Context, event *domain.AuditEvent) error {
	body, err := json.Marshal(auditMessage{
		Username:   event.Username,
		Action:     string(event.Action),
		Actor:      event.Actor,
		Detail:     event.Detail,
		OccurredAt: event.OccurredAt.UTC(),
	})
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.channel.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    event.OccurredAt.UTC(),
		Type:         string(event.Action),
		Body:         body,
	})
}

// Ping reports whether the connection is still open.
func (p *AuditPublisher) Ping(context.Context) error {
	if p.conn.IsClosed() {
		return errors.New("rabbitmq connection closed")
	}
	return nil
}

func (p *AuditPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	chErr := p.channel.Close()
	connErr := p.conn.Close()
	return errors.Join(chErr, connErr)
}
