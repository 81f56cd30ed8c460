// Command birdsearch loads a sighting feed document and prints the birds it
// aggregates or the results of a band search.
//
// Usage:
//
//	go run ./cmd/birdsearch -feed internal/adapter/feed/testdata/feed.json
//	go run ./cmd/birdsearch -feed feed.json -q ACB -limit 5
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/couchcryptid/birdband-service/internal/adapter/feed"
	"github.com/couchcryptid/birdband-service/internal/aggregate"
	"github.com/couchcryptid/birdband-service/internal/observability"
	"github.com/couchcryptid/birdband-service/internal/pipeline"
	"github.com/couchcryptid/birdband-service/internal/search"
	"github.com/couchcryptid/birdband-service/internal/store"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("birdsearch", flag.ContinueOnError)
	feedPath := fs.String("feed", "", "path to the feed JSON document")
	query := fs.String("q", "", "band-string or band-number prefix to search for")
	limit := fs.Int("limit", search.DefaultLimit, "maximum number of search results")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *feedPath == "" {
		fs.Usage()
		return fmt.Errorf("missing required flag: -feed")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	st := store.New(aggregate.New(nil), logger, metrics)
	p := pipeline.New(feed.NewFile(*feedPath), st, search.NewIndex(*limit, 0), logger, metrics)

	if err := p.Run(context.Background()); err != nil {
		return err
	}

	if *query == "" {
		for _, b := range p.Birds() {
			fmt.Fprintf(out, "%-10s %s  sightings=%d  marker=%s  tagged_at=%q\n",
				b.BandNumber, b.BandString, b.NumSightings, markerName(b.MarkerURL), b.TaggedAt)
		}
		fmt.Fprintf(out, "%d sightings, %d birds\n", st.Len(), st.Aggregator().Len())
		return nil
	}

	for _, e := range p.Search(*query, *limit) {
		fmt.Fprintf(out, "%-10s %-6s sighting=%d\n", e.Type, e.Val, e.Source.Seq)
	}
	return nil
}

func markerName(url string) string {
	if url == "" {
		return "-"
	}
	return url
}
