package archive

import (
	"fmt"
	"testing"
)

func TestFilter_Date(t *testing.T) {
	records := []Record{
		{DisplayIndex: 0, Date: "05/10/2025", Time: "08:30:00"},
		{DisplayIndex: 1, Date: "06/10/2025", Time: "09:00:00"},
	}

	t.Run("keeps exact calendar matches", func(t *testing.T) {
		got := Filter(records, Query{Date: "2025-10-05"})
		if len(got) != 1 || got[0].DisplayIndex != 0 {
			t.Fatalf("Filter = %v; want only the 05/10 record", got)
		}
	})

	t.Run("unparseable record date is excluded when filter active", func(t *testing.T) {
		recs := append([]Record{{Date: "-", Time: "08:00:00"}}, records...)
		got := Filter(recs, Query{Date: "2025-10-05"})
		if len(got) != 1 {
			t.Fatalf("Filter = %v; want 1 record", got)
		}
	})

	t.Run("malformed filter date deactivates the dimension", func(t *testing.T) {
		got := Filter(records, Query{Date: "not-a-date"})
		if len(got) != 2 {
			t.Fatalf("Filter = %d records; want all 2", len(got))
		}
	})
}

func TestFilter_Time(t *testing.T) {
	records := []Record{
		{DisplayIndex: 0, Date: "05/10/2025", Time: "08:30:00"},
		{DisplayIndex: 1, Date: "05/10/2025", Time: "09:00:00"},
	}

	t.Run("keeps records inside the range", func(t *testing.T) {
		got := Filter(records, Query{StartTime: "08:00", EndTime: "08:45"})
		if len(got) != 1 || got[0].Time != "08:30:00" {
			t.Fatalf("Filter = %v; want only 08:30:00", got)
		}
	})

	t.Run("end bound is inclusive through :59", func(t *testing.T) {
		recs := []Record{{Time: "08:45:59"}}
		got := Filter(recs, Query{EndTime: "08:45"})
		if len(got) != 1 {
			t.Fatalf("Filter = %v; want the 08:45:59 record kept", got)
		}
	})

	t.Run("start-only defaults the end to end of day", func(t *testing.T) {
		got := Filter(records, Query{StartTime: "08:45"})
		if len(got) != 1 || got[0].Time != "09:00:00" {
			t.Fatalf("Filter = %v; want only 09:00:00", got)
		}
	})

	t.Run("end-only defaults the start to midnight", func(t *testing.T) {
		got := Filter(records, Query{EndTime: "08:45"})
		if len(got) != 1 || got[0].Time != "08:30:00" {
			t.Fatalf("Filter = %v; want only 08:30:00", got)
		}
	})

	t.Run("unparseable record time is excluded when filter active", func(t *testing.T) {
		recs := append([]Record{{Time: "-"}}, records...)
		got := Filter(recs, Query{StartTime: "00:00"})
		if len(got) != 2 {
			t.Fatalf("Filter = %d records; want 2", len(got))
		}
	})
}

func TestFilter_Combined(t *testing.T) {
	records := []Record{
		{Date: "05/10/2025", Time: "08:30:00"},
		{Date: "05/10/2025", Time: "10:00:00"},
		{Date: "06/10/2025", Time: "08:30:00"},
	}

	got := Filter(records, Query{Date: "2025-10-05", StartTime: "08:00", EndTime: "09:00"})
	if len(got) != 1 || got[0].Date != "05/10/2025" || got[0].Time != "08:30:00" {
		t.Fatalf("Filter = %v; want the single record matching both predicates", got)
	}
}

func TestFilter_NoPredicates(t *testing.T) {
	records := []Record{
		{Date: "05/10/2025", Time: "08:30:00"},
		{Date: "-", Time: "-"},
	}
	got := Filter(records, Query{})
	if len(got) != 2 {
		t.Fatalf("Filter = %d records; want all, unparseable included", len(got))
	}
}

func TestFilter_CapsResults(t *testing.T) {
	var records []Record
	for i := 0; i < 25; i++ {
		records = append(records, Record{
			DisplayIndex: i,
			Date:         "05/10/2025",
			Time:         fmt.Sprintf("08:%02d:00", i),
		})
	}

	got := Filter(records, Query{Date: "2025-10-05"})
	if len(got) != 10 {
		t.Fatalf("Filter = %d records; want cap of 10", len(got))
	}
	// Input order (newest first) is preserved up to the cap.
	for i := 0; i < 10; i++ {
		if got[i].DisplayIndex != i {
			t.Fatalf("got[%d].DisplayIndex = %d; want %d", i, got[i].DisplayIndex, i)
		}
	}
}
