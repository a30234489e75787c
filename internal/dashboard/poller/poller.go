// Package poller drives the dashboard's fixed-interval archive refresh.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sastro1825/monitoringsuhu/internal/dashboard/archive"
	"github.com/sastro1825/monitoringsuhu/internal/dashboard/cache"
)

// lastUpdateLayout matches the dd/mm/yyyy display string shown next to the
// history table.
const lastUpdateLayout = "02/01/2006 15:04:05"

// fetchErrMessage is the user-visible banner text for feed failures.
const fetchErrMessage = "Gagal mengambil data. Pastikan Google Sheet sudah di-publish dan Spreadsheet ID sudah benar."

// Fetcher is the archive feed collaborator.
type Fetcher interface {
	Fetch(ctx context.Context) ([]archive.Row, error)
}

// Poller refreshes the normalized dataset on a fixed interval. A failed
// refresh keeps the previous dataset and raises an error banner; the next
// tick is the retry.
type Poller struct {
	fetcher  Fetcher
	repo     cache.ArchiveRepository // nil when the cache is unavailable
	interval time.Duration

	mu         sync.RWMutex
	records    []archive.Record
	lastUpdate string
	lastErr    string
}

func New(fetcher Fetcher, repo cache.ArchiveRepository, interval time.Duration) *Poller {
	return &Poller{
		fetcher:  fetcher,
		repo:     repo,
		interval: interval,
	}
}

// Run refreshes once immediately, then on every tick until ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	p.restore()
	p.refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

// restore seeds the dataset from the sqlite snapshot so the first render
// after a restart is not empty.
func (p *Poller) restore() {
	if p.repo == nil {
		return
	}
	records, err := p.repo.Load()
	if err != nil {
		slog.Warn("archive cache load failed", "error", err)
		return
	}
	if len(records) == 0 {
		return
	}
	p.mu.Lock()
	p.records = records
	p.mu.Unlock()
	slog.Info("archive cache restored", "records", len(records))
}

func (p *Poller) refresh(ctx context.Context) {
	rows, err := p.fetcher.Fetch(ctx)
	if err != nil {
		slog.Warn("archive refresh failed", "error", err)
		p.mu.Lock()
		p.lastErr = fetchErrMessage
		p.mu.Unlock()
		return
	}

	records := archive.Normalize(rows)

	p.mu.Lock()
	p.records = records
	p.lastUpdate = time.Now().Local().Format(lastUpdateLayout)
	p.lastErr = ""
	p.mu.Unlock()

	slog.Debug("archive refreshed", "records", len(records))

	if p.repo != nil {
		if err := p.repo.Replace(records); err != nil {
			slog.Warn("archive cache write failed", "error", err)
		}
	}
}

// Current returns the latest dataset together with the last successful
// update time and the current error banner ("" when healthy).
func (p *Poller) Current() (records []archive.Record, lastUpdate string, errMsg string) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.records, p.lastUpdate, p.lastErr
}
