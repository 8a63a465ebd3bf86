//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/horoscope/internal/bootstrap"
	"github.com/yanqian/horoscope/internal/domain/geo"
	"github.com/yanqian/horoscope/internal/domain/horoscope"
	"github.com/yanqian/horoscope/internal/domain/snapshot"
	"github.com/yanqian/horoscope/internal/infra/config"
	"github.com/yanqian/horoscope/internal/infra/ephemeris"
	"github.com/yanqian/horoscope/internal/infra/geo/ipapi"
	httpiface "github.com/yanqian/horoscope/internal/interface/http"
	"github.com/yanqian/horoscope/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideHoroscopeConfig,
		provideGeoConfig,
		provideSnapshotConfig,
		provideEngine,
		provideGeoProvider,
		provideGeoStore,
		provideLedger,
		provideSnapshotStorage,
		provideScheduler,
		ephemeris.NewMeeus,
		geo.NewService,
		horoscope.NewService,
		snapshot.NewPublisher,
		wire.Bind(new(geo.Provider), new(*ipapi.Client)),
		wire.Bind(new(horoscope.Ephemeris), new(*ephemeris.Meeus)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
