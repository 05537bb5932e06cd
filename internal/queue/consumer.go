package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// SessionHandler processes session completion events
type SessionHandler func(ctx context.Context, event *SessionCompletedEvent) error

// SubmissionHandler processes graded submission events
type SubmissionHandler func(ctx context.Context, event *SubmissionGradedEvent) error

// Consumer consumes learning events from the queues for downstream
// processing such as analytics or notifications
type Consumer struct {
	conn        *Connection
	sessions    SessionHandler
	submissions SubmissionHandler
	workers     int
	prefetch    int
	timeout     time.Duration
	cancelFunc  context.CancelFunc
	wg          sync.WaitGroup
}

// ConsumerConfig holds consumer configuration
type ConsumerConfig struct {
	Workers  int           // Number of concurrent workers per queue
	Prefetch int           // Prefetch count per worker
	Timeout  time.Duration // Per-event handler timeout
}

// DefaultConsumerConfig returns sensible defaults
func DefaultConsumerConfig() ConsumerConfig {
	return ConsumerConfig{
		Workers:  3,
		Prefetch: 1, // Process one at a time per worker for fairness
		Timeout:  30 * time.Second,
	}
}

// NewConsumer creates a new queue consumer. A nil handler skips consuming
// that queue entirely.
func NewConsumer(conn *Connection, sessions SessionHandler, submissions SubmissionHandler, cfg ConsumerConfig) *Consumer {
	if cfg.Workers <= 0 {
		cfg.Workers = 3
	}
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Consumer{
		conn:        conn,
		sessions:    sessions,
		submissions: submissions,
		workers:     cfg.Workers,
		prefetch:    cfg.Prefetch,
		timeout:     cfg.Timeout,
	}
}

// Start begins consuming messages
func (c *Consumer) Start(ctx context.Context) error {
	ctx, c.cancelFunc = context.WithCancel(ctx)

	ch := c.conn.Channel()

	// Set QoS (prefetch)
	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	if c.sessions != nil {
		msgs, err := c.consume(ch, SessionQueueName)
		if err != nil {
			return err
		}
		for i := 0; i < c.workers; i++ {
			c.wg.Add(1)
			go c.worker(ctx, i, SessionQueueName, msgs)
		}
	}

	if c.submissions != nil {
		msgs, err := c.consume(ch, SubmissionQueueName)
		if err != nil {
			return err
		}
		for i := 0; i < c.workers; i++ {
			c.wg.Add(1)
			go c.worker(ctx, i, SubmissionQueueName, msgs)
		}
	}

	slog.Info("starting event consumer", "workers", c.workers, "prefetch", c.prefetch)
	return nil
}

func (c *Consumer) consume(ch *amqp.Channel, queue string) (<-chan amqp.Delivery, error) {
	msgs, err := ch.Consume(
		queue,
		"",    // consumer tag (auto-generated)
		false, // auto-ack (manual ack for reliability)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming %s: %w", queue, err)
	}
	return msgs, nil
}

// worker processes messages from one queue
func (c *Consumer) worker(ctx context.Context, id int, queue string, msgs <-chan amqp.Delivery) {
	defer c.wg.Done()

	slog.Info("worker started", "worker_id", id, "queue", queue)

	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopping", "worker_id", id, "queue", queue)
			return

		case msg, ok := <-msgs:
			if !ok {
				slog.Info("message channel closed", "worker_id", id, "queue", queue)
				return
			}

			c.processMessage(ctx, id, queue, msg)
		}
	}
}

// processMessage handles a single message
func (c *Consumer) processMessage(ctx context.Context, workerID int, queue string, msg amqp.Delivery) {
	start := time.Now()

	eventCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var err error
	switch queue {
	case SessionQueueName:
		var event SessionCompletedEvent
		if err = json.Unmarshal(msg.Body, &event); err == nil {
			err = c.sessions(eventCtx, &event)
		}
	case SubmissionQueueName:
		var event SubmissionGradedEvent
		if err = json.Unmarshal(msg.Body, &event); err == nil {
			err = c.submissions(eventCtx, &event)
		}
	default:
		err = fmt.Errorf("unexpected queue %q", queue)
	}

	duration := time.Since(start)

	if err != nil {
		slog.Error("event processing failed",
			"worker_id", workerID,
			"queue", queue,
			"error", err,
			"duration", duration,
		)
		// Reject without requeue so a poison message cannot loop forever
		if rejectErr := msg.Reject(false); rejectErr != nil {
			slog.Error("failed to reject message",
				"worker_id", workerID,
				"queue", queue,
				"error", rejectErr,
			)
		}
		return
	}

	slog.Info("event processed",
		"worker_id", workerID,
		"queue", queue,
		"duration", duration,
	)

	// Acknowledge message
	if err := msg.Ack(false); err != nil {
		slog.Error("failed to ack message",
			"worker_id", workerID,
			"queue", queue,
			"error", err,
		)
	}
}

// Stop gracefully stops the consumer
func (c *Consumer) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
	slog.Info("consumer stopped")
}
