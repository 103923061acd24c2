package metrics

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/yaron8/rca-telemetry-synth/generator/dataset"
	"github.com/yaron8/rca-telemetry-synth/telemetrics"
)

// RunSource produces a fresh dataset run.
type RunSource func() (*dataset.Run, error)

type CSVMetricsResponse struct {
	CSVData          string
	HTTPResponseCode int
	ETag             string
}

// CSVMetrics serves the latest generated run as CSV. A run is kept as a
// snapshot for cacheTTL and identified by an ETag derived from its run id.
type CSVMetrics struct {
	mu         sync.RWMutex
	cachedData string
	cachedETag string
	cacheTime  time.Time
	cacheTTL   time.Duration
	generate   RunSource
}

func NewCSVMetrics(cacheTTL time.Duration, generate RunSource) *CSVMetrics {
	return &CSVMetrics{
		cacheTTL: cacheTTL,
		generate: generate,
	}
}

// GetCSVMetrics returns the current snapshot, regenerating it once expired.
// When ifNoneMatch equals the snapshot ETag the response is 304 with no data.
func (cm *CSVMetrics) GetCSVMetrics(ifNoneMatch string) (*CSVMetricsResponse, error) {
	data, etag, err := cm.snapshot()
	if err != nil {
		return nil, err
	}

	if ifNoneMatch != "" && ifNoneMatch == etag {
		return &CSVMetricsResponse{HTTPResponseCode: http.StatusNotModified, ETag: etag}, nil
	}
	return &CSVMetricsResponse{CSVData: data, HTTPResponseCode: http.StatusOK, ETag: etag}, nil
}

func (cm *CSVMetrics) snapshot() (string, string, error) {
	// Check if cache is valid
	cm.mu.RLock()
	if time.Since(cm.cacheTime) < cm.cacheTTL && cm.cachedData != "" {
		data, etag := cm.cachedData, cm.cachedETag
		cm.mu.RUnlock()
		return data, etag, nil
	}
	cm.mu.RUnlock()

	cm.mu.Lock()
	defer cm.mu.Unlock()

	// Double-check after acquiring write lock (another goroutine might have updated it)
	if time.Since(cm.cacheTime) < cm.cacheTTL && cm.cachedData != "" {
		return cm.cachedData, cm.cachedETag, nil
	}

	run, err := cm.generate()
	if err != nil {
		return "", "", fmt.Errorf("error generating dataset: %w", err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, run.Rows); err != nil {
		return "", "", err
	}

	cm.cachedData = buf.String()
	cm.cachedETag = ETag(run)
	cm.cacheTime = time.Now()

	return cm.cachedData, cm.cachedETag, nil
}

// ETag is the entity tag of a run.
func ETag(run *dataset.Run) string {
	return `"` + run.ID.String() + `"`
}

// WriteCSV writes the header and one record per row.
func WriteCSV(w io.Writer, rows []telemetrics.Row) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(telemetrics.GetCSVHeader()); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}

	for i, row := range rows {
		if err := writer.Write(row.CSVRecord()); err != nil {
			return fmt.Errorf("error writing row %d: %w", i, err)
		}
	}

	// Flush the writer to ensure all data is written
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("error flushing writer: %w", err)
	}
	return nil
}
