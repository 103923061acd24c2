package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/yaron8/rca-telemetry-synth/ingester/dao"
)

func (api *APIServer) GetObservationHandler(w http.ResponseWriter, r *http.Request) {
	equipmentID := r.URL.Query().Get("equipment_id")
	if equipmentID == "" {
		http.Error(w, "Missing equipment_id parameter", http.StatusBadRequest)
		return
	}

	row, err := api.dao.GetLatest(r.Context(), equipmentID)
	if errors.Is(err, dao.ErrNotFound) {
		http.Error(w, fmt.Sprintf("No observation for %s", equipmentID), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Error retrieving observation: %v", err),
			http.StatusInternalServerError)
		return
	}

	jsonData, err := json.Marshal(row)
	if err != nil {
		http.Error(w, fmt.Sprintf("Error encoding value to JSON: %v", err),
			http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(jsonData)
}
