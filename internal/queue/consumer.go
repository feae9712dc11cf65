// Package queue accepts address batches from RabbitMQ and turns them into
// mapping jobs.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/conon21154/lineguide/internal/model"
	"github.com/conon21154/lineguide/internal/service"
)

const prefetchCount = 1

type Submitter interface {
	SubmitRows(ctx context.Context, rows []model.AddressRow) (*model.Job, error)
}

// BatchMessage is the queue payload.
type BatchMessage struct {
	Rows []model.AddressRow `json:"rows"`
}

type outcome int

const (
	outcomeAck outcome = iota
	outcomeReject
	outcomeRequeue
)

type Consumer struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	queueName string
	submitter Submitter
	log       zerolog.Logger
}

func NewConsumer(url, queueName string, submitter Submitter, log zerolog.Logger) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.Qos(prefetchCount, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}

	if _, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue %q: %w", queueName, err)
	}

	return &Consumer{
		conn:      conn,
		channel:   ch,
		queueName: queueName,
		submitter: submitter,
		log:       log.With().Str("component", "queue_consumer").Str("queue", queueName).Logger(),
	}, nil
}

// Run consumes until ctx is done or the broker closes the channel.
func (c *Consumer) Run(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		c.queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}
	c.log.Info().Msg("consuming batches")

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.deliver(ctx, d)
		}
	}
}

func (c *Consumer) deliver(ctx context.Context, d amqp.Delivery) {
	var err error
	switch c.handle(ctx, d.Body) {
	case outcomeAck:
		err = d.Ack(false)
	case outcomeReject:
		err = d.Nack(false, false)
	case outcomeRequeue:
		err = d.Nack(false, true)
	}
	if err != nil {
		c.log.Error().Err(err).Str("message_id", d.MessageId).Msg("failed to settle delivery")
	}
}

func (c *Consumer) handle(ctx context.Context, body []byte) outcome {
	var msg BatchMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		c.log.Warn().Err(err).Msg("malformed batch message")
		return outcomeReject
	}

	job, err := c.submitter.SubmitRows(ctx, msg.Rows)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.log.Warn().Err(err).Int("rows", len(msg.Rows)).Msg("batch rejected")
			return outcomeReject
		}
		c.log.Error().Err(err).Msg("batch submit failed")
		return outcomeRequeue
	}

	c.log.Info().Str("job_id", job.ID.String()).Int("records", job.Total).Msg("batch queued")
	return outcomeAck
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			return err
		}
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
