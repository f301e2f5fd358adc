package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/streadway/amqp"
)

const (
	ReportCompletedRoutingKey = "report.completed"
	ReportStatusCompleted     = "completed"
)

type ReportEvent struct {
	AnalysisID string    `json:"analysis_id"`
	MatchScore int       `json:"match_score"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}

// EventPublisher announces finished analyses to other services.
type EventPublisher interface {
	PublishReportCompleted(event ReportEvent) error
	Close() error
}

type noopPublisher struct{}

func NewNoopPublisher() EventPublisher {
	return noopPublisher{}
}

func (noopPublisher) PublishReportCompleted(ReportEvent) error { return nil }
func (noopPublisher) Close() error                             { return nil }

type amqpPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	exchange string
}

// NewAMQPPublisher dials RabbitMQ and declares the report topic exchange.
func NewAMQPPublisher(url, exchange string) (EventPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	log.Printf("✅ RabbitMQ exchange '%s' ready\n", exchange)
	return &amqpPublisher{conn: conn, exchange: exchange}, nil
}

func (p *amqpPublisher) PublishReportCompleted(event ReportEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode report event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	return ch.Publish(
		p.exchange,
		ReportCompletedRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   event.Timestamp,
			Body:        body,
		},
	)
}

func (p *amqpPublisher) Close() error {
	return p.conn.Close()
}
