// Package types holds the data contracts between the sensor device, the
// telemetry store, and the dashboard. Wire field names follow the device
// firmware (suhu = temperature, kelembapan = humidity, co2 = gas
// concentration, ispu = air quality index, rssi = WiFi signal).
package types

// Payload is the raw ingest body as sent by the device. Every field is
// optional; defaulting happens when the payload is turned into a Reading.
type Payload struct {
	Temperature Value `json:"suhu"`
	Humidity    Value `json:"kelembapan"`
	GasPPM      Value `json:"co2"`
	AirQuality  Value `json:"ispu"`
	Status      Value `json:"status"`
	DeviceIP    Value `json:"ip"`
	SignalDBM   Value `json:"rssi"`
	Timestamp   Value `json:"timestamp"`
	Uptime      Value `json:"uptime"`
}

// Reading is the latest known sensor sample. Exactly one Reading is current
// at any instant; it is replaced wholesale on each accepted ingestion.
type Reading struct {
	Temperature Value `json:"suhu"`
	Humidity    Value `json:"kelembapan"`
	GasPPM      Value `json:"co2"`
	AirQuality  Value `json:"ispu"`
	Status      Value `json:"status"`
	DeviceIP    Value `json:"ip"`
	SignalDBM   Value `json:"rssi"`

	// SourceTimestamp is the sample time claimed by the device, nil when the
	// device never reported one.
	SourceTimestamp *string `json:"timestamp"`

	// ReceivedAt is when the server accepted the sample.
	ReceivedAt string `json:"receivedAt"`

	UptimeSeconds int64 `json:"uptime"`
}

// NewReading applies the sentinel defaulting policy to a device payload.
// Missing or falsy fields stay unknown ("-" on the wire); uptime defaults
// to 0 and never goes negative.
func NewReading(p Payload, receivedAt string) Reading {
	r := Reading{
		Temperature: p.Temperature,
		Humidity:    p.Humidity,
		GasPPM:      p.GasPPM,
		AirQuality:  p.AirQuality,
		Status:      p.Status,
		DeviceIP:    p.DeviceIP,
		SignalDBM:   p.SignalDBM,
		ReceivedAt:  receivedAt,
	}
	if p.Timestamp.IsSet() {
		ts := p.Timestamp.String()
		r.SourceTimestamp = &ts
	}
	if n, ok := p.Uptime.Int64(); ok && n > 0 {
		r.UptimeSeconds = n
	}
	return r
}

// EmptyReading is the all-sentinel reading installed at process start.
func EmptyReading() Reading {
	return Reading{ReceivedAt: "-"}
}

// Log record kinds.
const (
	LogKindSuccess = "success"
	LogKindError   = "error"
)

// LogRecord is one ingestion outcome: the accepted reading for successes, an
// error description plus diagnostic detail for failures.
type LogRecord struct {
	OccurredAt string   `json:"occurredAt"`
	Kind       string   `json:"kind"`
	Message    string   `json:"message"`
	Reading    *Reading `json:"data,omitempty"`
	Error      string   `json:"error,omitempty"`
	Detail     string   `json:"detail,omitempty"`
}
