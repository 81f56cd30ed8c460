// Package feed fetches the sighting spreadsheet feed.
package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/couchcryptid/birdband-service/internal/domain"
)

// ErrEmptyFeed is returned when the document decodes but holds no rows.
var ErrEmptyFeed = errors.New("feed has no rows")

// envelope is the published spreadsheet document: {"feed": {"entry": [...]}}.
type envelope struct {
	Feed *struct {
		Entry []domain.RawRecord `json:"entry"`
	} `json:"feed"`
}

// Decode reads a feed document. It accepts the spreadsheet envelope or a bare
// JSON array of rows.
func Decode(r io.Reader) ([]domain.RawRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && env.Feed != nil {
		if len(env.Feed.Entry) == 0 {
			return nil, ErrEmptyFeed
		}
		return env.Feed.Entry, nil
	}

	var rows []domain.RawRecord
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode feed as envelope or array: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFeed
	}
	return rows, nil
}
