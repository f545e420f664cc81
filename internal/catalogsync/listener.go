package catalogsync

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/omnipos-catalog-sync/internal/logger"
	"github.com/fekuna/omnipos-catalog-sync/internal/synclock"
	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafka.Reader the listener uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 1e6,
	})
}

// CommandListener triggers runs from the command topic. A command is
// committed once handled, whatever the run's outcome, so a poisoned command
// cannot wedge the partition.
type CommandListener struct {
	reader MessageReader
	runner Runner
	logger logger.ZapLogger
}

func NewCommandListener(reader MessageReader, runner Runner, log logger.ZapLogger) *CommandListener {
	return &CommandListener{reader: reader, runner: runner, logger: log}
}

func (l *CommandListener) Start(ctx context.Context) {
	l.logger.Info("Starting sync command listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping sync command listener")
			return
		default:
			msg, err := l.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read sync command", zap.Error(err))
				time.Sleep(time.Second)
				continue
			}

			l.processMessage(ctx, msg)

			if err := l.reader.CommitMessages(ctx, msg); err != nil {
				l.logger.Error("Failed to commit sync command", zap.Int64("offset", msg.Offset), zap.Error(err))
			}
		}
	}
}

func (l *CommandListener) processMessage(ctx context.Context, msg kafka.Message) {
	var req Request
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		l.logger.Error("Failed to unmarshal sync command", zap.Error(err), zap.ByteString("value", msg.Value))
		return
	}
	if req.RequestedBy == "" {
		req.RequestedBy = "kafka"
	}

	report, err := l.runner.Run(ctx, req)
	switch {
	case errors.Is(err, synclock.ErrLocked):
		l.logger.Info("Sync already running, dropping command", zap.String("resource", req.Resource), zap.String("mode", req.Mode))
	case err != nil:
		l.logger.Error("Sync command failed", zap.String("resource", req.Resource), zap.String("mode", req.Mode), zap.Error(err))
	default:
		l.logger.Info("Sync command completed", zap.String("resource", report.Resource), zap.String("summary", report.Message))
	}
}
