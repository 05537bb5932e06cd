// The worker consumes practice hub events from RabbitMQ. It keeps the live
// leaderboard cache fresh by invalidating it whenever a learner completes a
// level, and records graded submission events for log-based analytics.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jhananishri-B/practice-hub/internal/config"
	"github.com/Jhananishri-B/practice-hub/internal/leaderboard"
	"github.com/Jhananishri-B/practice-hub/internal/queue"
)

func main() {
	if err := run(); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.RabbitMQURL == "" {
		return fmt.Errorf("RABBITMQ_URL is required for the worker")
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	conn, err := queue.NewConnection(cfg.RabbitMQURL)
	if err != nil {
		return fmt.Errorf("connect rabbitmq: %w", err)
	}
	defer conn.Close()

	// The cache source is only used for invalidation here; reads stay in
	// the API process.
	var cache *leaderboard.RedisSource
	if cfg.RedisURL != "" {
		cache, err = leaderboard.NewRedisSource(cfg.RedisURL, leaderboard.NewStaticSource(nil), time.Minute)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer cache.Close()
	}

	onSession := func(ctx context.Context, event *queue.SessionCompletedEvent) error {
		slog.Info("session completed",
			"session_id", event.SessionID,
			"user_id", event.UserID,
			"level_id", event.LevelID,
			"level_completed", event.LevelCompleted,
		)
		if event.LevelCompleted && cache != nil {
			if err := cache.Invalidate(ctx); err != nil {
				return fmt.Errorf("invalidate leaderboard cache: %w", err)
			}
		}
		return nil
	}

	onSubmission := func(ctx context.Context, event *queue.SubmissionGradedEvent) error {
		slog.Info("submission graded",
			"submission_id", event.SubmissionID,
			"user_id", event.UserID,
			"question_id", event.QuestionID,
			"type", event.SubmissionType,
			"correct", event.IsCorrect,
		)
		return nil
	}

	consumer := queue.NewConsumer(conn, onSession, onSubmission, queue.DefaultConsumerConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		return fmt.Errorf("start consumer: %w", err)
	}

	slog.Info("worker started", "redis_cache", cache != nil)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	slog.Info("received signal, shutting down", "signal", sig.String())
	consumer.Stop()
	return nil
}
