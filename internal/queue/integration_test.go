//go:build integration

package queue_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Jhananishri-B/practice-hub/internal/domain"
	"github.com/Jhananishri-B/practice-hub/internal/queue"
	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
)

// setupRabbitMQ creates a RabbitMQ container for testing
func setupRabbitMQ(t *testing.T) (string, func()) {
	ctx := context.Background()

	container, err := rabbitmq.Run(ctx, "rabbitmq:3.12-management")
	if err != nil {
		t.Fatalf("failed to start RabbitMQ container: %v", err)
	}

	amqpURL, err := container.AmqpURL(ctx)
	if err != nil {
		container.Terminate(ctx)
		t.Fatalf("failed to get AMQP URL: %v", err)
	}

	cleanup := func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return amqpURL, cleanup
}

func completedSession() *domain.PracticeSession {
	completedAt := time.Now()
	return &domain.PracticeSession{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		CourseID:       uuid.New(),
		LevelID:        uuid.New(),
		SessionType:    domain.SessionTypeCoding,
		Status:         domain.SessionStatusCompleted,
		TotalQuestions: 2,
		StartedAt:      completedAt.Add(-5 * time.Minute),
		CompletedAt:    &completedAt,
	}
}

func TestIntegration_Connection_ConnectAndClose(t *testing.T) {
	amqpURL, cleanup := setupRabbitMQ(t)
	defer cleanup()

	conn, err := queue.NewConnection(amqpURL)
	if err != nil {
		t.Fatalf("failed to create connection: %v", err)
	}

	if !conn.IsConnected() {
		t.Error("expected connection to be active")
	}

	if err := conn.Close(); err != nil {
		t.Errorf("failed to close connection: %v", err)
	}
}

func TestIntegration_Connection_InvalidURL(t *testing.T) {
	_, err := queue.NewConnection("amqp://invalid:5672")
	if err == nil {
		t.Error("expected error for invalid URL")
	}
}

func TestIntegration_Publisher_PublishSessionCompleted(t *testing.T) {
	amqpURL, cleanup := setupRabbitMQ(t)
	defer cleanup()

	conn, err := queue.NewConnection(amqpURL)
	if err != nil {
		t.Fatalf("failed to create connection: %v", err)
	}
	defer conn.Close()

	publisher := queue.NewPublisher(conn)
	ctx := context.Background()

	if err := publisher.PublishSessionCompleted(ctx, completedSession(), true); err != nil {
		t.Fatalf("failed to publish session completed event: %v", err)
	}

	// Verify by checking queue has a message
	ch := conn.Channel()
	q, err := ch.QueueInspect(queue.SessionQueueName)
	if err != nil {
		t.Fatalf("failed to inspect queue: %v", err)
	}

	if q.Messages != 1 {
		t.Errorf("expected 1 message in queue, got %d", q.Messages)
	}
}

func TestIntegration_Publisher_PublishSubmissionGraded(t *testing.T) {
	amqpURL, cleanup := setupRabbitMQ(t)
	defer cleanup()

	conn, err := queue.NewConnection(amqpURL)
	if err != nil {
		t.Fatalf("failed to create connection: %v", err)
	}
	defer conn.Close()

	publisher := queue.NewPublisher(conn)
	ctx := context.Background()

	sub := &domain.UserSubmission{
		ID:              uuid.New(),
		SessionID:       uuid.New(),
		QuestionID:      uuid.New(),
		UserID:          uuid.New(),
		SubmissionType:  domain.QuestionTypeCoding,
		IsCorrect:       true,
		TestCasesPassed: 3,
		TotalTestCases:  3,
		SubmittedAt:     time.Now(),
	}

	if err := publisher.PublishSubmissionGraded(ctx, sub); err != nil {
		t.Fatalf("failed to publish submission graded event: %v", err)
	}

	ch := conn.Channel()
	q, err := ch.QueueInspect(queue.SubmissionQueueName)
	if err != nil {
		t.Fatalf("failed to inspect queue: %v", err)
	}

	if q.Messages != 1 {
		t.Errorf("expected 1 message in queue, got %d", q.Messages)
	}
}

func TestIntegration_Consumer_ReceivesSessionEvents(t *testing.T) {
	amqpURL, cleanup := setupRabbitMQ(t)
	defer cleanup()

	conn, err := queue.NewConnection(amqpURL)
	if err != nil {
		t.Fatalf("failed to create connection: %v", err)
	}
	defer conn.Close()

	session := completedSession()

	var mu sync.Mutex
	var received []*queue.SessionCompletedEvent
	done := make(chan struct{})

	handler := func(ctx context.Context, event *queue.SessionCompletedEvent) error {
		mu.Lock()
		received = append(received, event)
		mu.Unlock()
		close(done)
		return nil
	}

	consumer := queue.NewConsumer(conn, handler, nil, queue.DefaultConsumerConfig())

	ctx := context.Background()
	if err := consumer.Start(ctx); err != nil {
		t.Fatalf("failed to start consumer: %v", err)
	}
	defer consumer.Stop()

	publisher := queue.NewPublisher(conn)
	if err := publisher.PublishSessionCompleted(ctx, session, false); err != nil {
		t.Fatalf("failed to publish: %v", err)
	}

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	mu.Lock()
	defer mu.Unlock()

	if len(received) != 1 {
		t.Fatalf("received %d events; want 1", len(received))
	}
	if received[0].SessionID != session.ID {
		t.Errorf("SessionID = %v; want %v", received[0].SessionID, session.ID)
	}
	if received[0].LevelCompleted {
		t.Error("LevelCompleted should be false")
	}
}

func TestIntegration_Consumer_ReceivesSubmissionEvents(t *testing.T) {
	amqpURL, cleanup := setupRabbitMQ(t)
	defer cleanup()

	conn, err := queue.NewConnection(amqpURL)
	if err != nil {
		t.Fatalf("failed to create connection: %v", err)
	}
	defer conn.Close()

	sub := &domain.UserSubmission{
		ID:             uuid.New(),
		SessionID:      uuid.New(),
		QuestionID:     uuid.New(),
		UserID:         uuid.New(),
		SubmissionType: domain.QuestionTypeMCQ,
		IsCorrect:      false,
		SubmittedAt:    time.Now(),
	}

	done := make(chan *queue.SubmissionGradedEvent, 1)

	handler := func(ctx context.Context, event *queue.SubmissionGradedEvent) error {
		done <- event
		return nil
	}

	consumer := queue.NewConsumer(conn, nil, handler, queue.DefaultConsumerConfig())

	ctx := context.Background()
	if err := consumer.Start(ctx); err != nil {
		t.Fatalf("failed to start consumer: %v", err)
	}
	defer consumer.Stop()

	publisher := queue.NewPublisher(conn)
	if err := publisher.PublishSubmissionGraded(ctx, sub); err != nil {
		t.Fatalf("failed to publish: %v", err)
	}

	select {
	case event := <-done:
		if event.SubmissionID != sub.ID {
			t.Errorf("SubmissionID = %v; want %v", event.SubmissionID, sub.ID)
		}
		if event.IsCorrect {
			t.Error("IsCorrect should be false")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}
