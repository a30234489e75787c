// Package store holds the process-wide telemetry state: the current reading
// plus two bounded logs of ingestion outcomes. All operations are in-memory,
// synchronous, and serialized behind one mutex.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sastro1825/monitoringsuhu/internal/server/modules/sensor/types"
)

const (
	ringCapacity = 50
	logsLimit    = 20

	// displayTimeLayout is the dd/mm/yyyy format the dashboard log panel
	// shows for ingestion outcomes.
	displayTimeLayout = "02/01/2006 15:04:05"
)

// ErrMalformedPayload marks ingest failures caused by a payload that is not
// a JSON object. Callers surface it as HTTP 500 without touching the
// current reading.
var ErrMalformedPayload = errors.New("malformed telemetry payload")

// Snapshot is the read view served to polling clients.
type Snapshot struct {
	Reading    types.Reading
	IsStale    bool
	ServerTime string
}

// LogsView is the read view of both outcome logs.
type LogsView struct {
	Latest       types.Reading
	IsStale      bool
	Success      []types.LogRecord
	Error        []types.LogRecord
	SuccessTotal int
	ErrorTotal   int
	ServerTime   string
}

// Store is safe for concurrent use.
type Store struct {
	now func() time.Time

	mu      sync.Mutex
	current types.Reading
	success *ring[types.LogRecord]
	failure *ring[types.LogRecord]
}

func New() *Store {
	return NewWithClock(time.Now)
}

// NewWithClock lets tests pin the wall clock.
func NewWithClock(now func() time.Time) *Store {
	return &Store{
		now:     now,
		current: types.EmptyReading(),
		success: newRing[types.LogRecord](ringCapacity),
		failure: newRing[types.LogRecord](ringCapacity),
	}
}

// Ingest decodes one device payload, replaces the current reading wholesale,
// and records the outcome. Missing fields are defaulted, never rejected; the
// only failure is a payload that does not decode as a JSON object, in which
// case the current reading is left untouched and the failure is logged to
// the error ring.
func (s *Store) Ingest(raw []byte) (types.Reading, error) {
	now := s.now()

	// json.Unmarshal leaves the struct untouched on a literal null, so an
	// object check has to come first.
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '{' {
		err := errors.New("payload is not a JSON object")
		s.recordFailure(now, err, raw)
		return types.Reading{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	var payload types.Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		s.recordFailure(now, err, raw)
		return types.Reading{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	reading := types.NewReading(payload, now.UTC().Format(time.RFC3339))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = reading
	s.success.prepend(types.LogRecord{
		OccurredAt: now.Local().Format(displayTimeLayout),
		Kind:       types.LogKindSuccess,
		Message: fmt.Sprintf("data diterima: co2 %s ppm, ispu %s",
			reading.GasPPM, reading.AirQuality),
		Reading: &reading,
	})
	return reading, nil
}

func (s *Store) recordFailure(now time.Time, cause error, raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failure.prepend(types.LogRecord{
		OccurredAt: now.Local().Format(displayTimeLayout),
		Kind:       types.LogKindError,
		Message:    "gagal memproses data sensor",
		Error:      cause.Error(),
		Detail:     diagnosticDetail(raw),
	})
}

// diagnosticDetail keeps a bounded copy of the offending payload so the
// error log stays useful without growing unbounded.
func diagnosticDetail(raw []byte) string {
	const maxDetail = 512
	if len(raw) > maxDetail {
		raw = raw[:maxDetail]
	}
	return string(raw)
}

// Snapshot returns the current reading with freshness info. Never blocks on
// anything but the store mutex.
func (s *Store) Snapshot() Snapshot {
	now := s.now()

	s.mu.Lock()
	reading := s.current
	s.mu.Unlock()

	return Snapshot{
		Reading:    reading,
		IsStale:    IsStale(reading.SourceTimestamp, now),
		ServerTime: now.UTC().Format(time.RFC3339),
	}
}

// Logs returns the most recent outcomes of each kind (at most 20) together
// with overall totals.
func (s *Store) Logs() LogsView {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	return LogsView{
		Latest:       s.current,
		IsStale:      IsStale(s.current.SourceTimestamp, now),
		Success:      s.success.recent(logsLimit),
		Error:        s.failure.recent(logsLimit),
		SuccessTotal: s.success.size(),
		ErrorTotal:   s.failure.size(),
		ServerTime:   now.UTC().Format(time.RFC3339),
	}
}
