package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"clarity_engine/internal/app/port"
	"clarity_engine/internal/app/provider"
	"clarity_engine/internal/app/service"
	"clarity_engine/internal/infrastructure/configloader"
	clientprovider "clarity_engine/internal/infrastructure/network/client"
	networkdefinition "clarity_engine/internal/infrastructure/network/definition"
	"clarity_engine/internal/infrastructure/portfolio"
	"clarity_engine/internal/infrastructure/simulation"
	"clarity_engine/internal/pkg/logger"
	"clarity_engine/internal/pkg/metrics"
)

// application is the fully wired service graph shared by every subcommand.
type application struct {
	registry   *prometheus.Registry
	metrics    *metrics.Metrics
	clients    *clientprovider.EVMClientProvider
	simulation port.SimulationService
	riskScan   port.RiskScanService
	logger     port.Logger
}

func buildApplication(cfg *configloader.Config) (*application, error) {
	appLogger := logger.NewSlogAdapter()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	netDefProvider := networkdefinition.NewNetworkDefinitionProvider(appLogger, strings.Split(cfg.Network.Supported, ","), cfg.RPCURL())

	clients := clientprovider.NewEVMClientProvider(clientprovider.ClientOptions{
		DialTimeout:    time.Duration(cfg.Network.DialTimeoutMs) * time.Millisecond,
		RPCCallTimeout: time.Duration(cfg.Network.RPCTimeoutMs) * time.Millisecond,
		RateLimit:      rate.Limit(cfg.Network.RateLimit),
		Burst:          cfg.Network.BurstLimit,
		Metrics:        m,
	}, appLogger)

	var simProvider port.SimulationProvider
	if cfg.Alchemy.SimulationMode == configloader.SimulationModeProvider {
		simProvider = simulation.NewAlchemyClient(
			cfg.Alchemy.BaseURL,
			cfg.Alchemy.APIKey,
			time.Duration(cfg.Alchemy.RequestTimeoutMs)*time.Millisecond,
			zapLogger.Named("AlchemySimulationClient"),
			m,
		)
		appLogger.Info("Simulation provider enabled", "baseURL", cfg.Alchemy.BaseURL)
	}

	nativePrice, err := decimal.NewFromString(cfg.Pricing.NativePriceUSD)
	if err != nil {
		return nil, fmt.Errorf("invalid pricing.nativePriceUSD %q: %w", cfg.Pricing.NativePriceUSD, err)
	}

	var portfolioProvider port.PortfolioProvider
	switch cfg.Portfolio.Source {
	case configloader.PortfolioSourceZapper:
		portfolioProvider = portfolio.NewZapperClient(
			cfg.Portfolio.Zapper.BaseURL,
			cfg.Portfolio.Zapper.APIKey,
			time.Duration(cfg.Portfolio.Zapper.RequestTimeoutMs)*time.Millisecond,
			zapLogger.Named("ZapperClient"),
			m,
		)
	default:
		netDef, ok := netDefProvider.GetNetworkDefinitionByName(strings.TrimSpace(strings.Split(cfg.Network.Supported, ",")[0]))
		if !ok {
			return nil, fmt.Errorf("network %q has no known definition", cfg.Network.Supported)
		}
		prices := provider.NewFixedPriceProvider(map[string]decimal.Decimal{netDef.NativeSymbol: nativePrice}, appLogger)
		portfolioProvider = portfolio.NewRPCSnapshotProvider(netDef, clients, prices, appLogger)
	}
	appLogger.Info("Portfolio source selected", "source", cfg.Portfolio.Source)

	return &application{
		registry:   registry,
		metrics:    m,
		clients:    clients,
		simulation: service.NewSimulationService(netDefProvider, clients, simProvider, cfg.Alchemy.APIKey, appLogger, m),
		riskScan:   service.NewRiskScanService(portfolioProvider, appLogger, m),
		logger:     appLogger,
	}, nil
}

func (a *application) Close() {
	a.clients.Close()
}
