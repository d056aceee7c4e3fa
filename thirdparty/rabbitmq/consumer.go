package rabbitmq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/muhammadheryan/landing-api/cmd/config"
	"github.com/muhammadheryan/landing-api/model"
	"github.com/muhammadheryan/landing-api/utils/logger"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Sender delivers one submission notification, usually by email.
type Sender interface {
	Notify(ctx context.Context, sub *model.SubmissionEntity) error
}

// acknowledger is the part of amqp091.Delivery the consumer needs.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

type Consumer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	sender  Sender
	timeout time.Duration
}

func NewConsumer(cfg config.RabbitMQConfig, sender Sender, timeout time.Duration) (*Consumer, error) {
	conn, channel, err := dial(cfg)
	if err != nil {
		return nil, err
	}
	return &Consumer{
		conn:    conn,
		channel: channel,
		sender:  sender,
		timeout: timeout,
	}, nil
}

func (c *Consumer) Start(ctx context.Context) error {
	// Set QoS to 1 - process one message at a time
	err := c.channel.Qos(1, 0, false)
	if err != nil {
		return err
	}

	msgs, err := c.channel.Consume(
		notificationQueue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Warn("[Consumer] delivery channel closed")
					return
				}
				c.handle(ctx, msg.Body, msg)
			}
		}
	}()

	return nil
}

// handle sends one queued notification. Failed deliveries are dropped, not
// requeued: notifications are best-effort.
func (c *Consumer) handle(ctx context.Context, body []byte, ack acknowledger) {
	var sub model.SubmissionEntity
	if err := json.Unmarshal(body, &sub); err != nil {
		logger.Error("[Consumer] err unmarshal message", zap.String("error", err.Error()))
		_ = ack.Nack(false, false)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.sender.Notify(sendCtx, &sub); err != nil {
		logger.Error("[Consumer] err sender.Notify",
			zap.String("id", sub.ID),
			zap.String("error", err.Error()),
		)
		_ = ack.Nack(false, false)
		return
	}

	_ = ack.Ack(false)
	logger.Info("[Consumer] notification sent", zap.String("id", sub.ID))
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
	return nil
}
