package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/yaron8/rca-telemetry-synth/ingester/dao"
)

type ListDevicesResponse struct {
	Devices    []string   `json:"devices"`
	LastUpdate *time.Time `json:"last_update,omitempty"`
}

func (api *APIServer) ListDevicesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	api.logger.Debug("ListDevicesHandler called")

	devices, err := api.dao.ListDevices(ctx)
	if err != nil {
		api.logger.Error("Error retrieving devices", zap.Error(err))
		http.Error(w, fmt.Sprintf("Error retrieving devices: %v", err),
			http.StatusInternalServerError)
		return
	}

	resp := ListDevicesResponse{Devices: devices}
	lastUpdate, err := api.dao.GetLastUpdate(ctx)
	switch {
	case err == nil:
		resp.LastUpdate = &lastUpdate
	case !errors.Is(err, dao.ErrNotFound):
		api.logger.Error("Error retrieving last update", zap.Error(err))
		http.Error(w, fmt.Sprintf("Error retrieving last update: %v", err),
			http.StatusInternalServerError)
		return
	}

	// Set content type and status code before encoding
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		// Can't send error response after WriteHeader, just log it
		api.logger.Error("Error encoding devices to JSON", zap.Error(err))
	}
}
