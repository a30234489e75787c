package types

import (
	"encoding/json"
	"testing"
)

func TestValue_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantSet  bool
		wantText string
	}{
		{"string value", `"28.5"`, true, "28.5"},
		{"numeric value", `28.5`, true, "28.5"},
		{"integer value", `612`, true, "612"},
		{"negative number", `-67`, true, "-67"},
		{"empty string is unknown", `""`, false, "-"},
		{"sentinel stays unknown", `"-"`, false, "-"},
		{"zero is unknown", `0`, false, "-"},
		{"null is unknown", `null`, false, "-"},
		{"false is unknown", `false`, false, "-"},
		{"true is set", `true`, true, "true"},
		{"object is unknown", `{"a":1}`, false, "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Value
			if err := json.Unmarshal([]byte(tt.input), &v); err != nil {
				t.Fatalf("unmarshal %q: %v", tt.input, err)
			}
			if v.IsSet() != tt.wantSet {
				t.Errorf("IsSet() = %v; want %v", v.IsSet(), tt.wantSet)
			}
			if v.String() != tt.wantText {
				t.Errorf("String() = %q; want %q", v.String(), tt.wantText)
			}
		})
	}
}

func TestValue_MarshalJSON(t *testing.T) {
	t.Run("unknown marshals to sentinel", func(t *testing.T) {
		b, err := json.Marshal(Value{})
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(b) != `"-"` {
			t.Errorf("marshal = %s; want \"-\"", b)
		}
	})

	t.Run("numbers stay numbers on the wire", func(t *testing.T) {
		var v Value
		if err := json.Unmarshal([]byte(`28.5`), &v); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(b) != `28.5` {
			t.Errorf("marshal = %s; want 28.5", b)
		}
	})

	t.Run("strings round-trip", func(t *testing.T) {
		b, err := json.Marshal(StringValue("192.168.1.7"))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(b) != `"192.168.1.7"` {
			t.Errorf("marshal = %s; want \"192.168.1.7\"", b)
		}
	})
}

func TestValue_Int64(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte(`-67`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	n, ok := v.Int64()
	if !ok || n != -67 {
		t.Errorf("Int64() = %d, %v; want -67, true", n, ok)
	}

	if _, ok := StringValue("abc").Int64(); ok {
		t.Error("Int64() on non-numeric text should not be ok")
	}
	if _, ok := (Value{}).Int64(); ok {
		t.Error("Int64() on unknown value should not be ok")
	}
}

func TestNewReading(t *testing.T) {
	t.Run("defaults missing fields", func(t *testing.T) {
		r := NewReading(Payload{}, "2025-10-05T08:30:00Z")
		for name, got := range map[string]string{
			"suhu":       r.Temperature.String(),
			"kelembapan": r.Humidity.String(),
			"co2":        r.GasPPM.String(),
			"ispu":       r.AirQuality.String(),
			"status":     r.Status.String(),
			"ip":         r.DeviceIP.String(),
			"rssi":       r.SignalDBM.String(),
		} {
			if got != "-" {
				t.Errorf("%s = %q; want \"-\"", name, got)
			}
		}
		if r.SourceTimestamp != nil {
			t.Errorf("SourceTimestamp = %v; want nil", *r.SourceTimestamp)
		}
		if r.UptimeSeconds != 0 {
			t.Errorf("UptimeSeconds = %d; want 0", r.UptimeSeconds)
		}
		if r.ReceivedAt != "2025-10-05T08:30:00Z" {
			t.Errorf("ReceivedAt = %q", r.ReceivedAt)
		}
	})

	t.Run("keeps supplied fields", func(t *testing.T) {
		var p Payload
		body := `{"suhu":28.5,"kelembapan":"65","co2":612,"ispu":48,"status":"normal",` +
			`"ip":"192.168.1.7","rssi":-67,"timestamp":"2025-10-05T08:30:00Z","uptime":3600}`
		if err := json.Unmarshal([]byte(body), &p); err != nil {
			t.Fatalf("unmarshal payload: %v", err)
		}
		r := NewReading(p, "2025-10-05T08:30:01Z")
		if r.Temperature.String() != "28.5" {
			t.Errorf("Temperature = %q", r.Temperature.String())
		}
		if r.Humidity.String() != "65" {
			t.Errorf("Humidity = %q", r.Humidity.String())
		}
		if r.SourceTimestamp == nil || *r.SourceTimestamp != "2025-10-05T08:30:00Z" {
			t.Errorf("SourceTimestamp = %v", r.SourceTimestamp)
		}
		if r.UptimeSeconds != 3600 {
			t.Errorf("UptimeSeconds = %d; want 3600", r.UptimeSeconds)
		}
	})

	t.Run("negative uptime clamps to zero", func(t *testing.T) {
		var p Payload
		if err := json.Unmarshal([]byte(`{"uptime":-5}`), &p); err != nil {
			t.Fatalf("unmarshal payload: %v", err)
		}
		if r := NewReading(p, "now"); r.UptimeSeconds != 0 {
			t.Errorf("UptimeSeconds = %d; want 0", r.UptimeSeconds)
		}
	})
}
