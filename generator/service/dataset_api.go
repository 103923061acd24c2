package service

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// datasetHandler handles the /dataset endpoint
func (api *APIServer) datasetHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	csvMetricsResponse, err := api.csvMetrics.GetCSVMetrics(r.Header.Get("If-None-Match"))
	if err != nil {
		api.logger.Error("Error generating dataset", zap.Error(err))
		http.Error(w, fmt.Sprintf("Error generating dataset: %v", err),
			http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", csvMetricsResponse.ETag)
	if csvMetricsResponse.HTTPResponseCode == http.StatusNotModified {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(csvMetricsResponse.HTTPResponseCode)
	fmt.Fprint(w, csvMetricsResponse.CSVData)
}
