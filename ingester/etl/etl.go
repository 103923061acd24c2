package etl

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/yaron8/rca-telemetry-synth/ingester/dao"
	"github.com/yaron8/rca-telemetry-synth/logi"
	"github.com/yaron8/rca-telemetry-synth/telemetrics"
)

type ETL struct {
	dao          *dao.DAOObservations
	interval     time.Duration
	generatorURL string
	client       *http.Client
	logger       *zap.Logger

	// etag of the last ingested snapshot, sent as If-None-Match.
	etag string
}

func NewETL(dao *dao.DAOObservations, interval time.Duration, generatorURL string) *ETL {
	return &ETL{
		dao:          dao,
		interval:     interval,
		generatorURL: generatorURL,
		client:       &http.Client{Timeout: 30 * time.Second},
		logger:       logi.GetLogger(),
	}
}

// Run pulls the dataset every interval until ctx is done.
func (etl *ETL) Run(ctx context.Context) {
	etl.logger.Info("ETL starting", zap.Duration("interval", etl.interval), zap.String("generator_url", etl.generatorURL))
	for {
		if err := etl.Sync(ctx); err != nil {
			etl.logger.Error("Error updating observations", zap.Error(err))
		}

		// Sleep until the next interval
		select {
		case <-ctx.Done():
			etl.logger.Info("ETL stopped")
			return
		case <-time.After(etl.interval):
		}
	}
}

// Sync performs one pull. An unchanged snapshot (304) is a no-op.
func (etl *ETL) Sync(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, etl.generatorURL+"/dataset", nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if etl.etag != "" {
		req.Header.Set("If-None-Match", etl.etag)
	}

	resp, err := etl.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		// No logging on hot path - cache hit is normal
		return nil
	case http.StatusOK:
		etl.logger.Info("Fetching new dataset from generator", zap.String("etag", resp.Header.Get("ETag")))
		if err := etl.ingest(ctx, resp.Body); err != nil {
			return fmt.Errorf("failed to ingest dataset: %w", err)
		}
		etl.etag = resp.Header.Get("ETag")
	default:
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}

// ingest stores every parseable record and then the newest timestamp seen.
// Malformed records are logged and skipped.
func (etl *ETL) ingest(ctx context.Context, body io.Reader) error {
	reader := csv.NewReader(body)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error reading header: %w", err)
	}
	if !slices.Equal(header, telemetrics.GetCSVHeader()) {
		return fmt.Errorf("unexpected header with %d columns", len(header))
	}

	var lastUpdate time.Time
	lineNumber := 1
	stored, errorCount := 0, 0

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		lineNumber++
		if err != nil {
			errorCount++
			etl.logger.Error("Error reading line", zap.Int("line_number", lineNumber), zap.Error(err))
			continue
		}

		row, err := telemetrics.ParseCSVRecord(record)
		if err != nil {
			errorCount++
			etl.logger.Error("Error parsing line", zap.Int("line_number", lineNumber), zap.Error(err))
			continue
		}

		if err := etl.dao.AddObservation(ctx, row); err != nil {
			return fmt.Errorf("line %d: %w", lineNumber, err)
		}
		stored++

		if row.Timestamp.After(lastUpdate) {
			lastUpdate = row.Timestamp
		}
	}

	if stored == 0 {
		etl.logger.Warn("Dataset contained no valid observations", zap.Int("errors", errorCount))
		return nil
	}

	if err := etl.dao.SetLastUpdate(ctx, lastUpdate); err != nil {
		return fmt.Errorf("failed to set last update time: %w", err)
	}
	etl.logger.Info("Observations processed successfully",
		zap.Int("stored", stored),
		zap.Int("errors", errorCount),
		zap.Time("last_timestamp", lastUpdate))
	return nil
}
