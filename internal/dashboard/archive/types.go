// Package archive pulls the long-term telemetry history out of the
// spreadsheet-backed feed: fetching and unwrapping the gviz payload,
// rebuilding typed records from its cells, and filtering them by date and
// time-of-day.
package archive

// Cell is one spreadsheet cell from the gviz table. The feed sends a raw
// value and, for formatted columns (dates, times), a display string.
type Cell struct {
	Value     any    `json:"v"`
	Formatted string `json:"f"`
}

// Row is one feed row; absent cells are nil, not zero values.
type Row struct {
	Cells []*Cell `json:"c"`
}

// document is the JSON inside the gviz wrapper.
type document struct {
	Table struct {
		Rows []Row `json:"rows"`
	} `json:"table"`
}

// Record is one reconstructed history row. All fields are display strings
// with "-" for missing data, matching the realtime wire format.
type Record struct {
	DisplayIndex int    `json:"id"`
	Date         string `json:"tanggal"`
	Time         string `json:"waktu"`
	Temperature  string `json:"suhu"`
	Humidity     string `json:"kelembapan"`
	GasPPM       string `json:"kualitasUdara"`
	DeviceIP     string `json:"ip"`
	SignalDBM    string `json:"rssi"`
}
