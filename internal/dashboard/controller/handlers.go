package controller

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/sastro1825/monitoringsuhu/internal/dashboard/archive"
	"github.com/sastro1825/monitoringsuhu/internal/httpapi"
)

// Dataset is what the controller needs from the poll loop.
type Dataset interface {
	Current() (records []archive.Record, lastUpdate string, errMsg string)
}

// historyRecord is one table row plus its derived display classifications.
type historyRecord struct {
	archive.Record
	AirQuality string `json:"statusUdara"`
	Signal     string `json:"statusSinyal"`
}

type DashboardController interface {
	RegisterRoutes(router *mux.Router)
}

type dashboardControllerImpl struct {
	dataset    Dataset
	sensorURL  string
	httpClient *http.Client
}

func NewDashboardController(dataset Dataset, sensorURL string) DashboardController {
	return &dashboardControllerImpl{
		dataset:    dataset,
		sensorURL:  sensorURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *dashboardControllerImpl) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/history", c.handleHistory).Methods(http.MethodGet)
	router.HandleFunc("/api/realtime", c.handleRealtime).Methods(http.MethodGet)
	router.HandleFunc("/healthz", c.handleHealthz).Methods(http.MethodGet)
}

func (c *dashboardControllerImpl) handleHealthz(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleHistory serves the filtered archive table. Filters come straight
// from the query string: date=YYYY-MM-DD, start=HH:MM, end=HH:MM.
func (c *dashboardControllerImpl) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	records, lastUpdate, errMsg := c.dataset.Current()

	filtered := archive.Filter(records, archive.Query{
		Date:      q.Get("date"),
		StartTime: q.Get("start"),
		EndTime:   q.Get("end"),
	})

	rows := make([]historyRecord, 0, len(filtered))
	for _, rec := range filtered {
		rows = append(rows, historyRecord{
			Record:     rec,
			AirQuality: archive.AirQualityLabel(rec.GasPPM),
			Signal:     archive.SignalLabel(rec.SignalDBM),
		})
	}

	// The "current" card ignores the table filters: latest is always the
	// newest record of the whole dataset.
	var latest *historyRecord
	if len(records) > 0 {
		latest = &historyRecord{
			Record:     records[0],
			AirQuality: archive.AirQualityLabel(records[0].GasPPM),
			Signal:     archive.SignalLabel(records[0].SignalDBM),
		}
	}

	httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"data":       rows,
		"latest":     latest,
		"lastUpdate": lastUpdate,
		"error":      errMsg,
	})
}

// handleRealtime forwards the ingest server's snapshot so the browser polls
// one origin only.
func (c *dashboardControllerImpl) handleRealtime(w http.ResponseWriter, r *http.Request) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, c.sensorURL, nil)
	if err != nil {
		slog.Error("realtime: build request failed", "error", err)
		httpapi.WriteError(w, http.StatusInternalServerError, "failed to reach sensor API")
		return
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("realtime: sensor API unreachable", "error", err)
		httpapi.WriteJSON(w, http.StatusBadGateway, map[string]any{
			"success": false,
			"message": "sensor API unreachable",
		})
		return
	}
	defer resp.Body.Close()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		slog.Error("realtime: copy response failed", "error", err)
	}
}
