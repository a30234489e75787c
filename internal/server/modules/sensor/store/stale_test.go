package store

import (
	"testing"
	"time"
)

func TestIsStale(t *testing.T) {
	now := time.Date(2025, 10, 5, 8, 30, 30, 0, time.UTC)

	ts := func(d time.Duration) *string {
		s := now.Add(-d).Format(time.RFC3339Nano)
		return &s
	}

	tests := []struct {
		name string
		ts   *string
		want bool
	}{
		{"nil timestamp is stale", nil, true},
		{"fresh reading", ts(time.Second), false},
		{"exactly 29999ms is fresh", ts(29999 * time.Millisecond), false},
		{"exactly 30s is fresh", ts(30 * time.Second), false},
		{"30001ms is stale", ts(30001 * time.Millisecond), true},
		{"one hour old is stale", ts(time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsStale(tt.ts, now); got != tt.want {
				t.Errorf("IsStale = %v; want %v", got, tt.want)
			}
		})
	}

	t.Run("unparseable timestamp is stale", func(t *testing.T) {
		bad := "yesterday-ish"
		if !IsStale(&bad, now) {
			t.Error("IsStale = false; want true")
		}
	})

	t.Run("plain RFC3339 parses too", func(t *testing.T) {
		s := now.Add(-time.Second).Format(time.RFC3339)
		if IsStale(&s, now) {
			t.Error("IsStale = true; want false")
		}
	})
}
