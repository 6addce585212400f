// Package events publishes ledger events to RabbitMQ so downstream consumers
// (statements, reporting) can follow every balance change without querying
// the bank.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/okavango-bank/corebank/internal/domain"
)

const (
	routingKeyEntryPosted   = "bank.ledger.entry.posted"
	routingKeyInterestSwept = "bank.ledger.interest.swept"
)

// RabbitMQPublisher implements domain.EventPublisher on a topic exchange.
type RabbitMQPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewRabbitMQPublisher connects to RabbitMQ and declares the topic exchange.
func NewRabbitMQPublisher(url, exchange string) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &RabbitMQPublisher{conn: conn, channel: channel, exchange: exchange}, nil
}

// ledgerEntryEvent is the wire form of a posted ledger entry.
type ledgerEntryEvent struct {
	EventType     string    `json:"eventType"`
	TransactionID string    `json:"transactionId"`
	AccountNumber string    `json:"accountNumber"`
	Type          string    `json:"type"`
	Amount        string    `json:"amount"`
	BalanceAfter  string    `json:"balanceAfter"`
	Description   string    `json:"description"`
	Timestamp     time.Time `json:"timestamp"`
}

// interestSweepEvent is the wire form of a completed interest run.
type interestSweepEvent struct {
	EventType         string    `json:"eventType"`
	AccountsProcessed int       `json:"accountsProcessed"`
	TotalInterest     string    `json:"totalInterest"`
	SweptAt           time.Time `json:"sweptAt"`
}

// PublishLedgerEntry publishes one posted ledger entry.
func (p *RabbitMQPublisher) PublishLedgerEntry(ctx context.Context, entry domain.Transaction) error {
	event := ledgerEntryEvent{
		EventType:     "ledger.entry.posted",
		TransactionID: entry.ID,
		AccountNumber: entry.AccountNumber,
		Type:          string(entry.Type),
		Amount:        entry.Amount.StringFixed(2),
		BalanceAfter:  entry.BalanceAfter.StringFixed(2),
		Description:   entry.Description,
		Timestamp:     entry.Timestamp,
	}
	return p.publish(ctx, routingKeyEntryPosted, event)
}

// PublishInterestSweep publishes the summary of one monthly interest run.
func (p *RabbitMQPublisher) PublishInterestSweep(ctx context.Context, sweep domain.InterestSweep) error {
	event := interestSweepEvent{
		EventType:         "ledger.interest.swept",
		AccountsProcessed: sweep.AccountsProcessed,
		TotalInterest:     sweep.TotalInterest.StringFixed(2),
		SweptAt:           sweep.SweptAt,
	}
	return p.publish(ctx, routingKeyInterestSwept, event)
}

func (p *RabbitMQPublisher) publish(ctx context.Context, routingKey string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx,
		p.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close closes the channel and connection.
func (p *RabbitMQPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return fmt.Errorf("failed to close channel: %w", err)
	}
	return p.conn.Close()
}
