package archive

import (
	"strconv"
	"strings"
	"time"
)

// maxResults caps filtered history at the 10 newest matching records.
const maxResults = 10

const endOfDaySeconds = 23*3600 + 59*60 + 59

// Query is an ad-hoc history filter. Date is a calendar day in YYYY-MM-DD
// form; StartTime and EndTime are HH:MM bounds, inclusive at :00 and :59 of
// the named minutes. Empty fields leave their dimension unfiltered, and so
// do malformed ones.
type Query struct {
	Date      string
	StartTime string
	EndTime   string
}

// Filter applies the date and time predicates (combined with AND) over
// records that are already newest-first, then truncates to maxResults.
// Records whose own date or time text does not parse are excluded once the
// corresponding filter is active.
func Filter(records []Record, q Query) []Record {
	byDate, wantDay, wantMonth, wantYear := dateFilter(q.Date)
	byTime, startSec, endSec := timeFilter(q.StartTime, q.EndTime)

	out := make([]Record, 0, maxResults)
	for _, rec := range records {
		if byDate {
			day, month, year, ok := parseRecordDate(rec.Date)
			if !ok || day != wantDay || month != wantMonth || year != wantYear {
				continue
			}
		}
		if byTime {
			sec, ok := parseClock(rec.Time)
			if !ok || sec < startSec || sec > endSec {
				continue
			}
		}
		out = append(out, rec)
		if len(out) == maxResults {
			break
		}
	}
	return out
}

func dateFilter(date string) (active bool, day, month, year int) {
	if date == "" {
		return false, 0, 0, 0
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		// Malformed filter input: treat the dimension as not applicable.
		return false, 0, 0, 0
	}
	return true, t.Day(), int(t.Month()), t.Year()
}

func timeFilter(start, end string) (active bool, startSec, endSec int) {
	if start == "" && end == "" {
		return false, 0, 0
	}
	startSec = 0
	endSec = endOfDaySeconds
	if start != "" {
		// A start bound of HH:MM begins at second :00 of that minute.
		if sec, ok := parseClock(start + ":00"); ok {
			startSec = sec
		}
	}
	if end != "" {
		// An end bound of HH:MM runs through second :59 of that minute.
		if sec, ok := parseClock(end + ":59"); ok {
			endSec = sec
		}
	}
	return true, startSec, endSec
}

// parseRecordDate reads slash-separated day-first dates ("05/10/2025").
func parseRecordDate(s string) (day, month, year int, ok bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, false
	}
	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, false
	}
	year, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, false
	}
	return day, month, year, true
}

// parseClock converts an HH:MM[:SS] string to seconds since midnight.
func parseClock(s string) (int, bool) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	seconds := 0
	if len(parts) > 2 {
		seconds, err = strconv.Atoi(parts[2])
		if err != nil {
			return 0, false
		}
	}
	return hours*3600 + minutes*60 + seconds, true
}
