package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"courtfinder/internal/domain"
	"courtfinder/internal/intake"
)

type Config struct {
	RabbitURL   string
	Exchange    string
	Queue       string
	Bindings    []string
	Prefetch    int
	ServiceName string
}

// Consumer reads upstream change events from a RabbitMQ queue and hands them
// one at a time to the change event handler.
type Consumer struct {
	cfg     Config
	handler domain.ChangeEventHandler
	logger  *slog.Logger

	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewConsumer(cfg Config, handler domain.ChangeEventHandler, logger *slog.Logger) *Consumer {
	if len(cfg.Bindings) == 0 {
		cfg.Bindings = []string{"#"}
	}
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 1
	}
	return &Consumer{cfg: cfg, handler: handler, logger: logger}
}

// Connect dials RabbitMQ, declares the exchange and queue and binds them.
func (c *Consumer) Connect() error {
	conn, err := amqp.Dial(c.cfg.RabbitURL)
	if err != nil {
		return fmt.Errorf("rabbit dial failed: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel failed: %w", err)
	}
	fail := func(err error) error {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}
	if err := ch.ExchangeDeclare(c.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fail(fmt.Errorf("declare exchange %s failed: %w", c.cfg.Exchange, err))
	}
	q, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, nil)
	if err != nil {
		return fail(fmt.Errorf("declare queue failed: %w", err))
	}
	for _, key := range c.cfg.Bindings {
		if err := ch.QueueBind(q.Name, key, c.cfg.Exchange, false, nil); err != nil {
			return fail(fmt.Errorf("bind queue to exchange=%s key=%s failed: %w", c.cfg.Exchange, key, err))
		}
	}
	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		return fail(fmt.Errorf("set qos failed: %w", err))
	}
	c.conn = conn
	c.ch = ch
	return nil
}

func (c *Consumer) Close() {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// Run consumes until ctx is done or the delivery channel closes.
func (c *Consumer) Run(ctx context.Context) error {
	msgs, err := c.ch.ConsumeWithContext(ctx, c.cfg.Queue, c.cfg.ServiceName, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume failed: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			c.process(ctx, d)
		}
	}
}

// process handles one delivery. Malformed or unknown events are rejected
// without requeue; handler failures are requeued.
func (c *Consumer) process(ctx context.Context, d amqp.Delivery) {
	event, err := intake.Decode(d.Body)
	if err != nil {
		c.logger.WarnContext(ctx, "rejecting change event", "routing_key", d.RoutingKey, "err", err)
		_ = d.Reject(false)
		return
	}
	if err := c.handler.Handle(ctx, event); err != nil {
		if errors.Is(err, domain.ErrUnknownEventType) || errors.Is(err, domain.ErrInvalidInput) {
			c.logger.WarnContext(ctx, "rejecting change event", "routing_key", d.RoutingKey, "err", err)
			_ = d.Reject(false)
			return
		}
		c.logger.ErrorContext(ctx, "change event failed, requeueing", "routing_key", d.RoutingKey, "err", err)
		_ = d.Nack(false, true)
		return
	}
	_ = d.Ack(false)
}
