package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/sastro1825/monitoringsuhu/internal/dashboard/archive"
	"github.com/sastro1825/monitoringsuhu/internal/dashboard/cache"
	"github.com/sastro1825/monitoringsuhu/internal/dashboard/config"
	"github.com/sastro1825/monitoringsuhu/internal/dashboard/controller"
	"github.com/sastro1825/monitoringsuhu/internal/dashboard/poller"
	"github.com/sastro1825/monitoringsuhu/internal/httpapi"
)

func Run(ctx context.Context, cfg config.Config) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"sheetName", cfg.SheetName,
		"pollInterval", cfg.PollInterval,
		"fetchTimeout", cfg.FetchTimeout,
		"cachePath", cfg.CachePath,
		"sensorAPIURL", cfg.SensorAPIURL,
	)

	// The snapshot cache is best-effort: without it the dashboard still
	// works, it just starts empty.
	var repo cache.ArchiveRepository
	if cfg.CachePath != "" {
		db, err := cache.Open(cfg.CachePath)
		if err != nil {
			slog.Warn("archive cache unavailable (continuing without cache)", "error", err)
		} else {
			defer func() {
				if closeErr := db.Close(); closeErr != nil {
					slog.Error("db close", "error", closeErr)
				}
			}()
			repo, err = cache.NewRepository(db)
			if err != nil {
				slog.Warn("archive cache unavailable (continuing without cache)", "error", err)
				repo = nil
			}
		}
	}

	feedURL := archive.FeedURL(cfg.SpreadsheetID, cfg.SheetName)
	fetcher := archive.NewFetcher(feedURL, cfg.FetchTimeout)
	archivePoller := poller.New(fetcher, repo, cfg.PollInterval)

	pollCtx, stopPoller := context.WithCancel(ctx)
	defer stopPoller()
	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		if err := archivePoller.Run(pollCtx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("poller stopped", "error", err)
		}
	}()

	router := mux.NewRouter()
	dashboardController := controller.NewDashboardController(archivePoller, cfg.SensorAPIURL)
	dashboardController.RegisterRoutes(router)

	srv := httpapi.NewServer(cfg.HTTPAddr, router)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			stopPoller()
			<-pollDone
			return err
		}
		stopPoller()
		<-pollDone
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("stopping archive poller")
	stopPoller()
	<-pollDone

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err := <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
