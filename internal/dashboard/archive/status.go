package archive

import "strconv"

// AirQualityLabel classifies a gas concentration (ppm) into the display
// categories used by the dashboard. Unknown or unparseable readings stay
// "-".
func AirQualityLabel(ppm string) string {
	if ppm == "-" {
		return "-"
	}
	value, err := strconv.ParseFloat(ppm, 64)
	if err != nil {
		return "-"
	}
	switch {
	case value < 400:
		return "Baik"
	case value < 1000:
		return "Sedang"
	case value < 2000:
		return "Buruk"
	default:
		return "Bahaya"
	}
}

// SignalLabel classifies a WiFi signal strength (dBm). A missing reading
// means the device is offline.
func SignalLabel(rssi string) string {
	if rssi == "-" {
		return "Tidak Terhubung"
	}
	value, err := strconv.Atoi(rssi)
	if err != nil {
		return "Tidak Terhubung"
	}
	switch {
	case value > -50:
		return "Excellent"
	case value > -60:
		return "Good"
	case value > -70:
		return "Fair"
	default:
		return "Weak"
	}
}
