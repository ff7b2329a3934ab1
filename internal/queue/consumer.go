package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"
)

// DefaultLogDir is where StartLineupConsumer appends lineup.log.
const DefaultLogDir = "logs"

// StartLineupConsumer connects to the broker at url, declares the
// lineup.changed queue (durable) and appends each event to logDir/lineup.log
// as a single line.  It reconnects with backoff until ctx is cancelled.
// Messages that cannot be handled are rejected without requeue.
func StartLineupConsumer(ctx context.Context, url, logDir string, log *zap.Logger) error {
    if log == nil {
        log = zap.NewNop()
    }
    if logDir == "" {
        logDir = DefaultLogDir
    }
    log = log.With(zap.String("queue", LineupQueueName))

    backoff := time.Second
    for {
        if err := ctx.Err(); err != nil {
            return err
        }
        conn, err := amqp.Dial(url)
        if err != nil {
            log.Warn("lineup consumer dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
            if !sleepCtx(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = consumeLoop(ctx, conn, logDir, log)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.Warn("lineup consumer loop ended; reconnecting", zap.Error(err))
        if !sleepCtx(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, logDir string, log *zap.Logger) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Warn("lineup consumer set QoS failed", zap.Error(err))
    }
    if _, err := ch.QueueDeclare(LineupQueueName, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(LineupQueueName, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := handleMessage(logDir, d.Body); err != nil {
                log.Warn("lineup consumer handle message failed", zap.Error(err))
                _ = d.Nack(false, false)
                continue
            }
            _ = d.Ack(false)
        }
    }
}

func handleMessage(logDir string, body []byte) error {
    var ev LineupChangedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.Action == "" {
        return errors.New("event without action")
    }
    if err := os.MkdirAll(logDir, 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    f, err := os.OpenFile(filepath.Join(logDir, "lineup.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(formatLine(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

func formatLine(ev LineupChangedEvent) string {
    line := fmt.Sprintf("[%s] Lineup %s | event_id=%s | actor=%q | formation=%q | field=%d | bench=%d | staff=%d | available=%d",
        ev.OccurredAt, ev.Action, ev.EventID, ev.Actor, ev.Formation, ev.OnField, ev.OnBench, ev.Staff, ev.Available)
    if ev.Detail != "" {
        line += fmt.Sprintf(" | detail=%q", ev.Detail)
    }
    return line + "\n"
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}
