package service

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// RootCausesHandler lists the devices whose latest observation is labeled
// as a root cause, oldest first.
func (api *APIServer) RootCausesHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := api.dao.RootCauses(r.Context())
	if err != nil {
		api.logger.Error("Error retrieving root causes", zap.Error(err))
		http.Error(w, fmt.Sprintf("Error retrieving root causes: %v", err),
			http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(rows); err != nil {
		api.logger.Error("Error encoding root causes to JSON", zap.Error(err))
	}
}
