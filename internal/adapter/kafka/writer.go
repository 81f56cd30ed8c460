package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/couchcryptid/birdband-service/internal/config"
	"github.com/couchcryptid/birdband-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces bird summaries to a Kafka topic.
// It implements pipeline.BirdLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured bird topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaBirdTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBirds publishes bird summaries in a single WriteMessages call. Messages
// are keyed by band number so updates for one bird stay ordered.
func (w *Writer) LoadBirds(ctx context.Context, birds []domain.BirdSummary) error {
	if len(birds) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(birds))
	for i := range birds {
		msg, err := serializeToMessage(birds[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a BirdSummary into a Kafka message.
func serializeToMessage(bird domain.BirdSummary) (kafkago.Message, error) {
	data, err := json.Marshal(bird)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize bird summary: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(bird.BandNumber.String()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "bandstring", Value: []byte(bird.BandString)},
			{Key: "num_sightings", Value: []byte(strconv.Itoa(bird.NumSightings))},
		},
	}, nil
}
