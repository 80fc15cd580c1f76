package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/ziwei-api/internal/domain/chart"
	"github.com/yanqian/ziwei-api/internal/infra/chartstore"
	"github.com/yanqian/ziwei-api/internal/infra/config"
	"github.com/yanqian/ziwei-api/internal/infra/engine/iztro"
	"github.com/yanqian/ziwei-api/pkg/metrics"
)

func provideChartConfig(cfg *config.Config) chart.Config {
	return chart.Config{
		Locale:         cfg.Chart.Locale,
		CacheTTL:       cfg.Chart.CacheTTL,
		TimeForm:       chart.TimeForm(cfg.Chart.TimeForm),
		LateSlotPolicy: chart.LateSlotPolicy(cfg.Chart.LateSlotPolicy),
		ViewerBaseURL:  cfg.Chart.ViewerBaseURL,
	}
}

func provideEngineClient(cfg *config.Config) *iztro.Client {
	return iztro.NewClient(cfg.Chart.EngineURL)
}

func provideCounters() *metrics.Counters {
	return metrics.NewCounters()
}

func provideChartStore(cfg *config.Config, logger *slog.Logger) chart.Store {
	if cfg.Chart.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return chartstore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return chartstore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
			client.Close()
		} else {
			logger.Info("chart valkey store enabled", "addr", cfg.Chart.Valkey.Addr)
			return chartstore.NewValkeyStore(client, "chart")
		}
	}
	return chartstore.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Chart.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Chart.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Chart.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
