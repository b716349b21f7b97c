package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/KOFI-GYIMAH/hacktrack/internal/models"
	"github.com/KOFI-GYIMAH/hacktrack/pkg/logger"
	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

const (
	SyncQueue     = "repo_sync"
	SnapshotQueue = "repo_snapshots"
)

type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	// * amqp channels are not safe for concurrent publishing
	pubMu sync.Mutex
}

func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	for _, name := range []string{SyncQueue, SnapshotQueue} {
		if _, err := channel.QueueDeclare(name, true, false, false, false, nil); err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("declare queue %s: %w", name, err)
		}
	}

	logger.Info("connected to RabbitMQ, queues %s and %s ready", SyncQueue, SnapshotQueue)
	return &RabbitMQ{
		conn:    conn,
		channel: channel,
	}, nil
}

// * NewSyncRequest stamps a request for target with a fresh ID
func NewSyncRequest(target models.Target) models.SyncRequest {
	return models.SyncRequest{
		ID:          uuid.NewString(),
		TeamKey:     target.TeamKey,
		RepoURL:     target.RepoURL,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func (r *RabbitMQ) publish(queue, messageID string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}

	r.pubMu.Lock()
	defer r.pubMu.Unlock()

	return r.channel.Publish(
		"",
		queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    messageID,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}

func (r *RabbitMQ) PublishSyncRequest(ctx context.Context, req models.SyncRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.publish(SyncQueue, req.ID, req)
}

func (r *RabbitMQ) PublishSnapshot(ctx context.Context, event models.SnapshotEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.publish(SnapshotQueue, event.ID, event)
}

func decodeSyncRequest(body []byte) (models.SyncRequest, error) {
	var req models.SyncRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return req, err
	}
	if req.RepoURL == "" {
		return req, fmt.Errorf("sync request %q has no repo_url", req.ID)
	}
	return req, nil
}

// * ConsumeSyncRequests hands each request to handler and blocks until ctx is
// * done or the broker closes the delivery channel. Malformed messages are
// * dropped; handler failures are logged and acknowledged.
func (r *RabbitMQ) ConsumeSyncRequests(ctx context.Context, handler func(ctx context.Context, req models.SyncRequest) error) error {
	msgs, err := r.channel.Consume(
		SyncQueue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel for %s closed", SyncQueue)
			}

			req, err := decodeSyncRequest(d.Body)
			if err != nil {
				logger.Error("Error decoding sync request: %v", err)
				_ = d.Nack(false, false)
				continue
			}

			if err := handler(ctx, req); err != nil {
				logger.Error("Error handling sync request %s: %v", req.ID, err)
			}
			_ = d.Ack(false)
		}
	}
}

func (r *RabbitMQ) Close() error {
	if err := r.channel.Close(); err != nil {
		return err
	}
	return r.conn.Close()
}
