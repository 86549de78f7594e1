package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/bloomwatch/internal/config"
	"github.com/couchcryptid/bloomwatch/internal/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes metric snapshots to a Kafka topic.
// It implements feed.Sink.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured snapshot topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.LeastBytes{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish writes one snapshot. The feed calls it after every refresh.
func (w *Writer) Publish(ctx context.Context, snap domain.MetricsSnapshot) error {
	msg, err := serializeToMessage(snap)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	w.logger.Debug("snapshot written to kafka", "timestamp", snap.Timestamp)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a snapshot into a Kafka message keyed by its
// timestamp.
func serializeToMessage(snap domain.MetricsSnapshot) (kafkago.Message, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot: %w", err)
	}
	ts := snap.Timestamp.UTC().Format(time.RFC3339Nano)
	return kafkago.Message{
		Key:   []byte(ts),
		Value: data,
		Time:  snap.Timestamp,
		Headers: []kafkago.Header{
			{Key: "generated_at", Value: []byte(ts)},
			{Key: "active_blooms", Value: []byte(strconv.Itoa(snap.ActiveBlooms))},
		},
	}, nil
}
