// Package federation exchanges Searchable records with peer nodes over
// pull-based HTTP: each node exposes its projection as a flat JSON array and
// imports its peers' exports on a schedule.
package federation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/GetTogetherComm/GetTogether/internal/metrics"
	"github.com/GetTogetherComm/GetTogether/internal/models/domain"
	"github.com/GetTogetherComm/GetTogether/internal/utils/logger/sl"
)

// SearchableWriter upserts one imported record, keyed by EventURI. Each
// record is its own write; there is no batch transaction to roll back.
type SearchableWriter interface {
	SaveSearchable(ctx context.Context, s domain.Searchable) error
}

type Importer struct {
	log     *slog.Logger
	http    *http.Client
	repo    SearchableWriter
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewImporter(log *slog.Logger, repo SearchableWriter, m *metrics.Metrics) *Importer {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &Importer{
		log:     log,
		http:    &http.Client{Timeout: 30 * time.Second, Transport: tr},
		repo:    repo,
		metrics: m,
		now:     time.Now,
	}
}

// Import pulls a peer's searchable export and merges it into the local
// table. Every record is stamped with the source URL and the import time;
// a record that fails to save is logged and skipped, not rolled back.
// Returns the number of records imported.
func (im *Importer) Import(ctx context.Context, url string) (int, error) {
	op := "federation.Importer.Import()"
	log := im.log.With(slog.String("op", op), slog.String("node", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := im.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s: fetch export: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%s: peer returned status %d", op, resp.StatusCode)
	}

	var records []Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return 0, fmt.Errorf("%s: decode export: %w", op, err)
	}

	stamp := im.now().UTC()
	imported := 0
	for _, rec := range records {
		searchable := rec.ToDomain()
		if searchable.EventURI == "" {
			log.Warn("skipping record with no usable key", slog.String("title", rec.EventTitle))
			continue
		}
		searchable.FederationNode = url
		searchable.FederationTime = stamp

		if err := im.repo.SaveSearchable(ctx, searchable); err != nil {
			if im.metrics != nil {
				im.metrics.ImportErrors.WithLabelValues(url).Inc()
			}
			log.Error("failed to import record", slog.String("uri", searchable.EventURI), sl.Err(err))
			continue
		}
		imported++
	}

	if im.metrics != nil {
		im.metrics.FederationImports.WithLabelValues(url).Add(float64(imported))
	}
	log.Info("import finished", slog.Int("imported", imported), slog.Int("received", len(records)))
	return imported, nil
}
