package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/muhammadheryan/landing-api/cmd/config"
	"github.com/muhammadheryan/landing-api/model"
	"github.com/rabbitmq/amqp091-go"
)

const (
	notificationExchange   = "contact_notification_exchange"
	notificationQueue      = "contact_notification_queue"
	notificationRoutingKey = "contact_notification"
)

type Publisher struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func dial(cfg config.RabbitMQConfig) (*amqp091.Connection, *amqp091.Channel, error) {
	dsn := fmt.Sprintf("amqp://%s:%s@%s:%d/", cfg.User, cfg.Password, cfg.Host, cfg.Port)
	conn, err := amqp091.Dial(dsn)
	if err != nil {
		return nil, nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	if err := declareTopology(channel); err != nil {
		channel.Close()
		conn.Close()
		return nil, nil, err
	}
	return conn, channel, nil
}

// declareTopology sets up the direct exchange and durable queue shared by
// the publisher and the consumer.
func declareTopology(channel *amqp091.Channel) error {
	err := channel.ExchangeDeclare(
		notificationExchange, // name
		"direct",             // type
		true,                 // durable
		false,                // auto-delete
		false,                // internal
		false,                // no-wait
		nil,                  // arguments
	)
	if err != nil {
		return err
	}

	_, err = channel.QueueDeclare(
		notificationQueue, // name
		true,              // durable
		false,             // auto-delete
		false,             // exclusive
		false,             // no-wait
		nil,               // arguments
	)
	if err != nil {
		return err
	}

	return channel.QueueBind(
		notificationQueue,      // queue name
		notificationRoutingKey, // routing key
		notificationExchange,   // exchange
		false,                  // no-wait
		nil,                    // arguments
	)
}

func NewPublisher(cfg config.RabbitMQConfig) (*Publisher, error) {
	conn, channel, err := dial(cfg)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, channel: channel}, nil
}

// Notify queues sub for delivery by the Consumer.
func (p *Publisher) Notify(ctx context.Context, sub *model.SubmissionEntity) error {
	body, err := json.Marshal(sub)
	if err != nil {
		return err
	}

	return p.channel.PublishWithContext(
		ctx,
		notificationExchange,   // exchange
		notificationRoutingKey, // routing key
		false,                  // mandatory
		false,                  // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    sub.ID,
			Body:         body,
		},
	)
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
