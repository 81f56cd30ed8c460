package domain

import (
	"context"
	"time"
)

// RawEvent is an unprocessed feed row read from the sighting stream topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}
