package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/birdband-service/internal/domain"
	"github.com/couchcryptid/birdband-service/internal/search"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Catalog is the read side of the ingestion pipeline.
type Catalog interface {
	Search(partial string, limit int) []search.Entry
	Birds() []domain.BirdSummary
	Bird(id domain.BandNumber) (domain.BirdSummary, bool)
	Owner(s *domain.Sighting) (domain.BirdSummary, bool)
}

// Server exposes health, readiness, metrics, bird and search HTTP endpoints.
type Server struct {
	httpServer *http.Server
	catalog    Catalog
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, /birds,
// /birds/{bandnumber} and /search routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, catalog Catalog, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		catalog: catalog,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /birds", s.handleBirds)
	mux.HandleFunc("GET /birds/{bandnumber}", s.handleBird)
	mux.HandleFunc("GET /search", s.handleSearch)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleBirds(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Birds())
}

func (s *Server) handleBird(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.ParseFloat(r.PathValue("bandnumber"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid band number"})
		return
	}
	bird, ok := s.catalog.Bird(domain.BandNumber(n))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "bird not found"})
		return
	}
	writeJSON(w, http.StatusOK, bird)
}

// searchResult is a selected index entry. Band-number results carry the
// owning bird; band-string results carry only the sighting.
type searchResult struct {
	Type     search.EntryType       `json:"type"`
	Val      string                 `json:"val"`
	Sighting domain.SightingSummary `json:"sighting"`
	Bird     *domain.BirdSummary    `json:"bird,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}

	entries := s.catalog.Search(r.URL.Query().Get("q"), limit)
	results := make([]searchResult, 0, len(entries))
	for _, e := range entries {
		sel := e.Select()
		res := searchResult{
			Type:     sel.Type,
			Val:      sel.Val,
			Sighting: sel.Source.Summarize(),
		}
		switch sel.Type {
		case search.BandNumberEntry:
			if bird, ok := s.catalog.Owner(sel.Source); ok {
				res.Bird = &bird
			}
		case search.BandStringEntry:
			// the sighting is the whole answer
		}
		results = append(results, res)
	}
	writeJSON(w, http.StatusOK, results)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
