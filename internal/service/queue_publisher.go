// Package service publishes lineup events to RabbitMQ.  Errors are logged and
// returned so callers can ignore them without interrupting the request.
package service

import (
    "context"
    "encoding/json"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"

    "github.com/iliyamo/team-lineup/internal/queue"
)

// AMQPPublisher sends LineupChangedEvent messages to the lineup.changed
// queue.  It dials per publish; lineup edits are rare enough that a pooled
// connection is not worth the reconnect handling.
type AMQPPublisher struct {
    url string
    log *zap.Logger
}

// NewAMQPPublisher returns a publisher for the broker at url.
func NewAMQPPublisher(url string, log *zap.Logger) *AMQPPublisher {
    if log == nil {
        log = zap.NewNop()
    }
    return &AMQPPublisher{url: url, log: log}
}

// Publish sends ev as a persistent JSON message.
func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.LineupChangedEvent) error {
    conn, err := amqp.Dial(p.url)
    if err != nil {
        p.log.Warn("rabbitmq dial failed", zap.Error(err))
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        p.log.Warn("rabbitmq channel open failed", zap.Error(err))
        return err
    }
    defer func() { _ = ch.Close() }()

    if _, err := ch.QueueDeclare(
        queue.LineupQueueName, // name
        true,                  // durable
        false,                 // autoDelete
        false,                 // exclusive
        false,                 // noWait
        nil,                   // args
    ); err != nil {
        p.log.Warn("rabbitmq queue declare failed", zap.Error(err))
        return err
    }

    body, err := json.Marshal(ev)
    if err != nil {
        p.log.Warn("marshal lineup event failed", zap.Error(err))
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        MessageId:    ev.EventID,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", queue.LineupQueueName, false, false, pub); err != nil {
        p.log.Warn("rabbitmq publish failed", zap.Error(err))
        return err
    }
    return nil
}

// NopPublisher drops every event.  It is used when no broker is configured.
type NopPublisher struct{}

// Publish implements the publisher contract and always succeeds.
func (NopPublisher) Publish(context.Context, queue.LineupChangedEvent) error { return nil }

