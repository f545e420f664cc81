package catalogsync

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
)

const (
	EventRunCompleted = "CatalogSyncCompleted"
	EventRunFailed    = "CatalogSyncFailed"
)

type RunEvent struct {
	EventID     string            `json:"event_id"`
	EventType   string            `json:"event_type"`
	Resource    string            `json:"resource"`
	Mode        string            `json:"mode,omitempty"`
	RequestedBy string            `json:"requested_by,omitempty"`
	Report      *model.SyncReport `json:"report,omitempty"`
	Error       string            `json:"error,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event RunEvent) error
}

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer MessageWriter
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

func NewKafkaPublisher(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// Publish keys messages by resource so one resource's events stay ordered.
func (p *KafkaPublisher) Publish(ctx context.Context, event RunEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Resource),
		Value: data,
		Time:  event.Timestamp,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
