//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/ziwei-api/internal/bootstrap"
	"github.com/yanqian/ziwei-api/internal/domain/chart"
	"github.com/yanqian/ziwei-api/internal/infra/config"
	"github.com/yanqian/ziwei-api/internal/infra/engine/iztro"
	httpiface "github.com/yanqian/ziwei-api/internal/interface/http"
	"github.com/yanqian/ziwei-api/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideChartConfig,
		provideEngineClient,
		provideChartStore,
		provideCounters,
		chart.NewService,
		wire.Bind(new(chart.Engine), new(*iztro.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
