package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"studentwallet/internal/logger"
)

const publishTimeout = 5 * time.Second

// A revoke that fails this many times is dead-lettered to "<queue>.dead".
const (
	maxDeliveryAttempts = 5
	attemptsHeader      = "x-attempts"
)

// Client publishes and consumes revoke messages over RabbitMQ using a
// durable direct exchange bound to a durable queue.
type Client struct {
	conn         *amqp.Connection
	channel      *amqp.Channel
	exchangeName string
	queueName    string
}

// NewClient dials the broker and declares the exchange and queue.
func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.setup(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) deadQueueName() string {
	return c.queueName + ".dead"
}

func (c *Client) setup() error {
	if err := c.channel.ExchangeDeclare(c.exchangeName, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	dead := c.deadQueueName()
	if _, err := c.channel.QueueDeclare(dead, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare dead-letter queue: %w", err)
	}
	if err := c.channel.QueueBind(dead, dead, c.exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind dead-letter queue: %w", err)
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    c.exchangeName,
		"x-dead-letter-routing-key": dead,
	}
	if _, err := c.channel.QueueDeclare(c.queueName, true, false, false, false, args); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	// routing key is the queue name
	if err := c.channel.QueueBind(c.queueName, c.queueName, c.exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	// one unacked delivery at a time so a slow purge does not starve others
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	return nil
}

func (c *Client) publish(ctx context.Context, body []byte, headers amqp.Table) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return c.channel.PublishWithContext(ctx, c.exchangeName, c.queueName, false, false, amqp.Publishing{
		Headers:      headers,
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

// PublishUserRevoked publishes a persistent revoke message.
func (c *Client) PublishUserRevoked(ctx context.Context, userID string) error {
	body, err := NewUserRevokedMessage(userID).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	if err := c.publish(ctx, body, nil); err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	logger.Named("events").Infow("Published user revoke message",
		"user_id", userID,
		"exchange", c.exchangeName,
		"queue", c.queueName,
	)
	return nil
}

// ConsumeUserRevoked delivers messages to handler until ctx is done or the
// channel closes. Malformed messages are dropped; handler failures are
// retried up to maxDeliveryAttempts times, then dead-lettered.
func (c *Client) ConsumeUserRevoked(ctx context.Context, handler Handler) error {
	msgs, err := c.channel.Consume(c.queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	log := logger.Named("events")
	log.Infow("Started consuming user revoke messages", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			log.Infow("Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return errors.New("message channel closed")
			}
			handleDelivery(ctx, delivery.Body, deliveryAttempts(delivery.Headers), &delivery, c.retry, handler)
		}
	}
}

// acknowledger is the part of amqp.Delivery that handleDelivery needs.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// retryFunc puts body back on the queue carrying its attempt count.
type retryFunc func(ctx context.Context, body []byte, attempts int) error

func (c *Client) retry(ctx context.Context, body []byte, attempts int) error {
	return c.publish(ctx, body, amqp.Table{attemptsHeader: int32(attempts)})
}

func deliveryAttempts(headers amqp.Table) int {
	switch v := headers[attemptsHeader].(type) {
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func handleDelivery(ctx context.Context, body []byte, attempts int, ack acknowledger, retry retryFunc, handler Handler) {
	log := logger.Named("events")

	msg, err := UserRevokedMessageFromJSON(body)
	if err != nil {
		log.Errorw("Failed to decode user revoke message", "error", err)
		_ = ack.Nack(false, false)
		return
	}

	if err := handler(ctx, msg); err != nil {
		attempts++
		if attempts >= maxDeliveryAttempts {
			log.Errorw("Dead-lettering user revoke message", "error", err, "user_id", msg.UserID, "attempts", attempts)
			_ = ack.Nack(false, false)
			return
		}
		log.Warnw("Retrying user revoke message", "error", err, "user_id", msg.UserID, "attempts", attempts)
		if retryErr := retry(ctx, body, attempts); retryErr != nil {
			log.Errorw("Failed to requeue user revoke message", "error", retryErr, "user_id", msg.UserID)
			_ = ack.Nack(false, true)
			return
		}
		_ = ack.Ack(false)
		return
	}

	_ = ack.Ack(false)
	log.Infow("Processed user revoke message", "user_id", msg.UserID)
}

// Close closes the channel and connection.
func (c *Client) Close() error {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

type publishCloser interface {
	Publisher
	Close() error
}

// RedialingPublisher publishes through a broker Client and redials once
// when the connection turns out to be gone.
type RedialingPublisher struct {
	mu     sync.Mutex
	dial   func() (publishCloser, error)
	client publishCloser
}

// NewRedialingPublisher dials the broker up front so a bad URL fails at startup.
func NewRedialingPublisher(url, exchangeName, queueName string) (*RedialingPublisher, error) {
	p := &RedialingPublisher{dial: func() (publishCloser, error) {
		client, err := NewClient(url, exchangeName, queueName)
		if err != nil {
			return nil, err
		}
		return client, nil
	}}
	if err := p.connectLocked(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *RedialingPublisher) connectLocked() error {
	client, err := p.dial()
	if err != nil {
		return err
	}
	p.client = client
	return nil
}

func (p *RedialingPublisher) dropLocked() {
	if p.client != nil {
		_ = p.client.Close()
		p.client = nil
	}
}

// PublishUserRevoked publishes userID, redialing if the connection dropped.
func (p *RedialingPublisher) PublishUserRevoked(ctx context.Context, userID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client == nil {
		if err := p.connectLocked(); err != nil {
			return err
		}
	}

	err := p.client.PublishUserRevoked(ctx, userID)
	if err == nil || !isConnectionError(err) {
		return err
	}

	logger.Named("events").Warnw("Broker connection lost, redialing publisher", "error", err)
	p.dropLocked()
	if err := p.connectLocked(); err != nil {
		return err
	}
	return p.client.PublishUserRevoked(ctx, userID)
}

// Close releases the current connection.
func (p *RedialingPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dropLocked()
	return nil
}

// ConsumeWithReconnect keeps a consumer running, redialing with exponential
// backoff when the broker connection drops.
func ConsumeWithReconnect(ctx context.Context, url, exchangeName, queueName string, handler Handler) error {
	log := logger.Named("events")
	attempt := 0
	for {
		client, err := NewClient(url, exchangeName, queueName)
		if err == nil {
			attempt = 0
			err = client.ConsumeUserRevoked(ctx, handler)
			_ = client.Close()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil && !isConnectionError(err) {
			return err
		}

		wait := exponentialBackoff(attempt)
		log.Warnw("Broker connection lost, reconnecting", "error", err, "retry_in", wait)
		attempt++

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

const maxBackoff = 30 * time.Second

func exponentialBackoff(attempt int) time.Duration {
	if attempt > 5 {
		return maxBackoff
	}
	d := time.Second << attempt
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, amqp.ErrClosed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection", "eof", "broken pipe", "channel closed", "dial"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
