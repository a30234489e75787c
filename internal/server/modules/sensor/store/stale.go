package store

import "time"

// staleAfter is how old a reading may get before the dashboard treats the
// device as offline.
const staleAfter = 30 * time.Second

// IsStale reports whether a reading is too old to trust. A missing or
// unparseable source timestamp counts as stale rather than as an error.
func IsStale(sourceTimestamp *string, now time.Time) bool {
	if sourceTimestamp == nil {
		return true
	}
	t, err := time.Parse(time.RFC3339Nano, *sourceTimestamp)
	if err != nil {
		t, err = time.Parse(time.RFC3339, *sourceTimestamp)
		if err != nil {
			return true
		}
	}
	return now.Sub(t) > staleAfter
}
