package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/aladdinbruv/docproche-sub000/logger"
)

type Handler interface {
	Handle(ctx context.Context, evt Event) error
}

type HandlerFunc func(ctx context.Context, evt Event) error

func (f HandlerFunc) Handle(ctx context.Context, evt Event) error { return f(ctx, evt) }

type outcome int

const (
	ack outcome = iota
	requeue
	drop
)

// Consumer feeds every event on the exchange to a handler.
type Consumer struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	queue    string
	handler  Handler
	log      *logger.Logger
}

func NewConsumer(url, exchange, queue string, handler Handler, log *logger.Logger) (*Consumer, error) {
	conn, channel, err := dial(url, exchange)
	if err != nil {
		return nil, err
	}
	return &Consumer{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		queue:    queue,
		handler:  handler,
		log:      log,
	}, nil
}

// Run consumes until ctx is cancelled or the channel closes.
func (c *Consumer) Run(ctx context.Context) error {
	queue, err := c.channel.QueueDeclare(
		c.queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := c.channel.QueueBind(queue.Name, "#", c.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	if err := c.channel.Qos(10, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	msgs, err := c.channel.Consume(
		queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	log := c.log.WithComponent("notify")
	log.WithField("queue", queue.Name).Info("consumer started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}

			var err error
			switch c.process(ctx, msg.Body, msg.Redelivered) {
			case ack:
				err = msg.Ack(false)
			case requeue:
				err = msg.Nack(false, true)
			case drop:
				err = msg.Nack(false, false)
			}
			if err != nil {
				log.WithError(err).Error("failed to settle message")
			}
		}
	}
}

// process decides the fate of one delivery. Undecodable bodies and
// permanent handler errors are dropped; other failures are retried once.
func (c *Consumer) process(ctx context.Context, body []byte, redelivered bool) outcome {
	log := c.log.WithComponent("notify")

	var evt Event
	if err := json.Unmarshal(body, &evt); err != nil || evt.Type == "" {
		log.WithField("body", string(body)).Warn("dropping malformed message")
		return drop
	}

	err := c.handler.Handle(ctx, evt)
	switch {
	case err == nil:
		return ack
	case errors.Is(err, ErrDrop):
		log.WithError(err).WithField("event", evt.Type).Warn("dropping message")
		return drop
	case redelivered:
		log.WithError(err).WithField("event", evt.Type).Error("message failed twice, dropping")
		return drop
	default:
		log.WithError(err).WithField("event", evt.Type).Warn("message failed, requeueing")
		return requeue
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.channel == nil {
		return nil
	}
	if err := c.channel.Close(); err != nil {
		return err
	}
	return c.conn.Close()
}
