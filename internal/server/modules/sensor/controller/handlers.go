package controller

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/sastro1825/monitoringsuhu/internal/httpapi"
	"github.com/sastro1825/monitoringsuhu/internal/server/metrics"
	"github.com/sastro1825/monitoringsuhu/internal/server/modules/sensor/store"
	"github.com/sastro1825/monitoringsuhu/internal/server/modules/sensor/types"
)

// maxPayloadBytes bounds device POST bodies; readings are tiny.
const maxPayloadBytes = 64 << 10

// TelemetryStore is what the controller needs from the state store.
type TelemetryStore interface {
	Ingest(raw []byte) (types.Reading, error)
	Snapshot() store.Snapshot
	Logs() store.LogsView
}

type SensorController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type sensorControllerImpl struct {
	store TelemetryStore
}

func NewSensorController(st TelemetryStore) SensorController {
	return &sensorControllerImpl{store: st}
}

func (c *sensorControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	// One route, method dispatch inside: the endpoint answers OPTIONS
	// preflights and 405s itself, always with CORS headers.
	mux.HandleFunc("/api/sensor", c.handleSensor)
}

func (c *sensorControllerImpl) handleSensor(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	case http.MethodPost:
		c.handleIngest(w, r)
	case http.MethodGet:
		if r.URL.Query().Get("action") == "logs" {
			c.handleLogs(w)
			return
		}
		c.handleSnapshot(w)
	default:
		httpapi.WriteJSON(w, http.StatusMethodNotAllowed, map[string]any{
			"success": false,
			"message": "Method not allowed",
		})
	}
}

func setCORS(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

func (c *sensorControllerImpl) handleIngest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		slog.Error("ingest: read body failed", "error", err)
		metrics.IngestError.Inc()
		httpapi.WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": "Error processing data",
			"error":   err.Error(),
		})
		return
	}

	reading, err := c.store.Ingest(body)
	if err != nil {
		slog.Warn("ingest rejected", "error", err)
		metrics.IngestError.Inc()
		httpapi.WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": "Error processing data",
			"error":   err.Error(),
		})
		return
	}

	metrics.IngestSuccess.Inc()
	slog.Debug("reading accepted",
		"co2", reading.GasPPM.String(),
		"ispu", reading.AirQuality.String(),
	)
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Data received",
		"data":    reading,
	})
}

func (c *sensorControllerImpl) handleSnapshot(w http.ResponseWriter) {
	snap := c.store.Snapshot()
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"data":       snap.Reading,
		"isStale":    snap.IsStale,
		"serverTime": snap.ServerTime,
	})
}

func (c *sensorControllerImpl) handleLogs(w http.ResponseWriter) {
	view := c.store.Logs()

	success := view.Success
	if success == nil {
		success = []types.LogRecord{}
	}
	errorLogs := view.Error
	if errorLogs == nil {
		errorLogs = []types.LogRecord{}
	}

	httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"latestData": view.Latest,
		"isStale":    view.IsStale,
		"logs": map[string]any{
			"success": success,
			"error":   errorLogs,
			"total": map[string]int{
				"success": view.SuccessTotal,
				"error":   view.ErrorTotal,
			},
		},
		"serverTime": view.ServerTime,
	})
}
