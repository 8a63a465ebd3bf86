package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/yanqian/horoscope/internal/bootstrap"
	"github.com/yanqian/horoscope/internal/domain/geo"
	"github.com/yanqian/horoscope/internal/domain/horoscope"
	"github.com/yanqian/horoscope/internal/infra/config"
	"github.com/yanqian/horoscope/internal/infra/ephemeris"
	"github.com/yanqian/horoscope/internal/infra/geo/ipapi"
	"github.com/yanqian/horoscope/internal/infra/geostore"
	"github.com/yanqian/horoscope/pkg/logger"
)

// services is the slice of the service graph the CLI needs.
type services struct {
	logger  *slog.Logger
	engine  *horoscope.Engine
	service horoscope.Service
	close   func()
}

func newServices(ctx context.Context, cfg *config.Config, logs io.Writer) (*services, error) {
	log := logger.NewTo(logs).With("component", "horoscopectl")
	hcfg := bootstrap.HoroscopeConfig(cfg)
	engine, err := horoscope.NewEngine(horoscope.DefaultCatalog(), hcfg.Method)
	if err != nil {
		return nil, err
	}
	ledger, closeLedger, err := bootstrap.OpenLedger(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	locator := geo.NewService(bootstrap.GeoConfig(cfg), ipapi.NewClient(cfg.Geo.BaseURL, cfg.Geo.Timeout), geostore.NewMemoryStore(), log)
	service := horoscope.NewService(hcfg, engine, locator, ephemeris.NewMeeus(), ledger, log)
	return &services{logger: log, engine: engine, service: service, close: closeLedger}, nil
}
