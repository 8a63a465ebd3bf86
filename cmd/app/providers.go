package main

import (
	"context"
	"log/slog"

	"github.com/yanqian/horoscope/internal/bootstrap"
	"github.com/yanqian/horoscope/internal/domain/geo"
	"github.com/yanqian/horoscope/internal/domain/horoscope"
	"github.com/yanqian/horoscope/internal/domain/snapshot"
	"github.com/yanqian/horoscope/internal/infra/config"
	"github.com/yanqian/horoscope/internal/infra/geo/ipapi"
	"github.com/yanqian/horoscope/internal/scheduler"
)

func provideHoroscopeConfig(cfg *config.Config) horoscope.Config {
	return bootstrap.HoroscopeConfig(cfg)
}

func provideGeoConfig(cfg *config.Config) geo.Config {
	return bootstrap.GeoConfig(cfg)
}

func provideSnapshotConfig(cfg *config.Config) snapshot.Config {
	return bootstrap.SnapshotConfig(cfg)
}

func provideEngine(cfg horoscope.Config) (*horoscope.Engine, error) {
	return horoscope.NewEngine(horoscope.DefaultCatalog(), cfg.Method)
}

func provideGeoProvider(cfg *config.Config) *ipapi.Client {
	return ipapi.NewClient(cfg.Geo.BaseURL, cfg.Geo.Timeout)
}

func provideGeoStore(cfg *config.Config, logger *slog.Logger) (geo.Store, func()) {
	return bootstrap.NewGeoStore(cfg, logger)
}

func provideLedger(cfg *config.Config, logger *slog.Logger) (horoscope.Ledger, func(), error) {
	return bootstrap.OpenLedger(context.Background(), cfg, logger)
}

func provideSnapshotStorage(cfg *config.Config, logger *slog.Logger) snapshot.ObjectStorage {
	return bootstrap.NewSnapshotStorage(cfg, logger)
}

func provideScheduler(cfg *config.Config, logger *slog.Logger, publisher *snapshot.Publisher) (*scheduler.Scheduler, error) {
	sched := scheduler.New(logger, cfg.Snapshot.Timeout)
	if !cfg.Snapshot.Enabled {
		logger.Info("snapshot publishing disabled")
		return sched, nil
	}
	if err := sched.AddJob(cfg.Snapshot.Schedule, publisher); err != nil {
		return nil, err
	}
	return sched, nil
}
