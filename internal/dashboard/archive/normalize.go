package archive

import "strconv"

// Fixed column positions in the sheet.
const (
	colDate = iota
	colTime
	colTemperature
	colHumidity
	colGasPPM
	colDeviceIP
	colSignalDBM
)

// Normalize rebuilds typed records from the raw feed rows. The first row is
// the sheet header and is dropped; the rest arrive chronological
// top-to-bottom, so the order is reversed to put the newest record first.
// DisplayIndex is the 0-based post-reversal position, not anything from the
// source.
func Normalize(rows []Row) []Record {
	if len(rows) <= 1 {
		return nil
	}
	data := rows[1:]

	out := make([]Record, 0, len(data))
	for i := len(data) - 1; i >= 0; i-- {
		row := data[i]
		out = append(out, Record{
			DisplayIndex: len(data) - 1 - i,
			Date:         cellText(row, colDate),
			Time:         cellText(row, colTime),
			Temperature:  cellText(row, colTemperature),
			Humidity:     cellText(row, colHumidity),
			GasPPM:       cellText(row, colGasPPM),
			DeviceIP:     cellText(row, colDeviceIP),
			SignalDBM:    cellText(row, colSignalDBM),
		})
	}
	return out
}

// cellText extracts the display text of one cell, preferring the formatted
// string over the raw value. Absent cells and falsy raw values (empty
// string, 0, false) come back as "-".
func cellText(row Row, idx int) string {
	if idx >= len(row.Cells) || row.Cells[idx] == nil {
		return "-"
	}
	cell := row.Cells[idx]
	if cell.Formatted != "" {
		return cell.Formatted
	}
	switch v := cell.Value.(type) {
	case string:
		if v == "" {
			return "-"
		}
		return v
	case float64:
		if v == 0 {
			return "-"
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if !v {
			return "-"
		}
		return "true"
	default:
		return "-"
	}
}
