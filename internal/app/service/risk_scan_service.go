package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"clarity_engine/internal/app/port"
	"clarity_engine/internal/domain/entity"
	"clarity_engine/internal/pkg/metrics"
)

// RiskScanServiceImpl implements port.RiskScanService.
type RiskScanServiceImpl struct {
	portfolio port.PortfolioProvider
	logger    port.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// RiskScanOption customizes a RiskScanServiceImpl.
type RiskScanOption func(*RiskScanServiceImpl)

// WithClock overrides the clock used for scan timestamps.
func WithClock(now func() time.Time) RiskScanOption {
	return func(s *RiskScanServiceImpl) {
		s.now = now
	}
}

// NewRiskScanService creates a new instance of RiskScanServiceImpl.
func NewRiskScanService(
	portfolio port.PortfolioProvider,
	l port.Logger,
	m *metrics.Metrics,
	opts ...RiskScanOption,
) port.RiskScanService {
	s := &RiskScanServiceImpl{
		portfolio: portfolio,
		logger:    l,
		metrics:   m,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan fetches the wallet snapshot and runs the rule set over it. A failed or panicking snapshot
// fetch degrades to an empty snapshot, and a fault past that point still yields a report carrying
// the analysis-error finding. Only an empty address returns an error.
func (s *RiskScanServiceImpl) Scan(ctx context.Context, walletAddress string) (result entity.RiskScanResult, err error) {
	walletAddress = strings.TrimSpace(walletAddress)
	if walletAddress == "" {
		return entity.RiskScanResult{}, entity.ErrMissingAddress
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Risk scan panicked", "wallet", walletAddress, "panic", r)
			result = entity.RiskScanResult{
				WalletAddress:       walletAddress,
				TotalPortfolioValue: decimal.Zero,
				RisksFound:          []entity.Risk{analysisErrorRisk},
				ScanTimestamp:       s.now().UTC(),
			}
			err = nil
		}
	}()

	s.logger.Info("Starting risk scan", "wallet", walletAddress)

	snapshot, fetchErr := s.fetchSnapshot(ctx, walletAddress)
	if fetchErr != nil {
		s.logger.Warn("Portfolio snapshot unavailable, scanning empty snapshot", "wallet", walletAddress, "error", fetchErr)
		snapshot = entity.PortfolioSnapshot{}
	}

	risks := AnalyzePositions(snapshot)
	for _, r := range risks {
		s.metrics.ObserveRiskFinding(string(r.Category), string(r.Severity))
	}

	result = entity.RiskScanResult{
		WalletAddress:       walletAddress,
		TotalPortfolioValue: snapshot.TotalValueUSD(),
		RisksFound:          risks,
		ScanTimestamp:       s.now().UTC(),
	}

	s.logger.Info("Risk scan complete",
		"wallet", walletAddress,
		"total_value_usd", result.TotalPortfolioValue.String(),
		"risks", len(risks))
	return result, nil
}

func (s *RiskScanServiceImpl) fetchSnapshot(ctx context.Context, walletAddress string) (snapshot entity.PortfolioSnapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			snapshot = entity.PortfolioSnapshot{}
			err = fmt.Errorf("portfolio provider panicked: %v", r)
		}
	}()
	return s.portfolio.GetPortfolio(ctx, walletAddress)
}
