package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"clarity_engine/internal/app/port"
	"clarity_engine/internal/domain/entity"
	"clarity_engine/internal/pkg/metrics"
	"clarity_engine/internal/pkg/utils"
)

const (
	pathSynthetic = "synthetic"
	pathProvider  = "provider"

	configErrorSummary = "API configuration error"
	configErrorWarning = "Server configuration error: missing API key"
	faultWarning       = "Failed to simulate transaction"
)

// SimulationServiceImpl implements port.SimulationService.
type SimulationServiceImpl struct {
	networks port.NetworkDefinitionProvider
	clients  port.ChainClientProvider
	provider port.SimulationProvider
	apiKey   string
	logger   port.Logger
	metrics  *metrics.Metrics
}

// NewSimulationService creates a new instance of SimulationServiceImpl.
// provider may be nil, in which case every request takes the synthetic balance/gas path.
func NewSimulationService(
	networks port.NetworkDefinitionProvider,
	clients port.ChainClientProvider,
	provider port.SimulationProvider,
	apiKey string,
	l port.Logger,
	m *metrics.Metrics,
) port.SimulationService {
	return &SimulationServiceImpl{
		networks: networks,
		clients:  clients,
		provider: provider,
		apiKey:   apiKey,
		logger:   l,
		metrics:  m,
	}
}

// CredentialsConfigured reports whether the provider API key is set.
func (s *SimulationServiceImpl) CredentialsConfigured() bool {
	return s.apiKey != ""
}

// APIKeyLength returns the length of the configured provider API key.
func (s *SimulationServiceImpl) APIKeyLength() int {
	return len(s.apiKey)
}

// Simulate validates req, resolves its predicted changes and interprets them.
// On error the returned ClarityResult is the failure body to render.
func (s *SimulationServiceImpl) Simulate(ctx context.Context, req entity.TransferRequest) (entity.ClarityResult, error) {
	s.logger.Info("Received simulation request", "from", req.From, "to", req.To, "value", req.Value, "network", req.Network)

	netDef, err := s.validate(req)
	if err != nil {
		return s.fault(err), err
	}

	if !s.CredentialsConfigured() {
		s.logger.Error("Simulation provider API key is not set")
		return entity.NewFailedClarityResult(configErrorSummary, configErrorWarning), entity.ErrMissingCredentials
	}

	chain, err := s.clients.GetClient(netDef)
	if err != nil {
		err = fmt.Errorf("failed to get chain client for %s: %w", netDef.Identifier, err)
		s.logger.Error("Chain client unavailable", "network", netDef.Identifier, "error", err)
		return s.fault(err), err
	}

	raw, path, err := s.resolveChanges(ctx, chain, req)
	if err != nil {
		s.logger.Error("Simulation failed", "from", req.From, "path", path, "error", err)
		s.metrics.ObserveSimulation(path, false)
		return s.fault(err), err
	}

	result := InterpretSimulation(raw, req.From)
	if result.IsSuccess {
		result.Warnings = append(result.Warnings, raw.Warnings...)
	}

	s.metrics.ObserveSimulation(path, result.IsSuccess)
	s.logger.Debug("Simulation interpreted",
		"path", path, "gas_used", raw.GasUsed, "is_valid", raw.IsValid,
		"is_success", result.IsSuccess, "warnings", len(result.Warnings))
	return result, nil
}

func (s *SimulationServiceImpl) validate(req entity.TransferRequest) (entity.NetworkDefinition, error) {
	if req.From == "" || req.To == "" || req.Value == "" || req.Network == "" {
		return entity.NetworkDefinition{}, entity.ErrMissingFields
	}

	netDef, ok := s.networks.GetNetworkDefinitionByName(req.Network)
	if !ok {
		return entity.NetworkDefinition{}, fmt.Errorf("%w: %s", entity.ErrUnsupportedNetwork, req.Network)
	}

	for _, addr := range []string{req.From, req.To} {
		if !common.IsHexAddress(addr) {
			return entity.NetworkDefinition{}, fmt.Errorf("%w: %s", entity.ErrInvalidAddress, addr)
		}
	}

	if _, err := utils.ParseAmount(req.Value); err != nil {
		return entity.NetworkDefinition{}, fmt.Errorf("%w: %v", entity.ErrInvalidAmount, err)
	}
	return netDef, nil
}

// resolveChanges prefers the simulation provider and falls back to the synthetic path when
// the provider reports its endpoint as unavailable.
func (s *SimulationServiceImpl) resolveChanges(
	ctx context.Context,
	chain port.ChainClient,
	req entity.TransferRequest,
) (entity.SimulationResponse, string, error) {
	if s.provider != nil {
		resp, err := s.provider.SimulateAssetChanges(ctx, req)
		switch {
		case err == nil:
			return resp, pathProvider, nil
		case errors.Is(err, entity.ErrSimulationUnavailable):
			s.logger.Warn("Simulation provider unavailable, falling back to synthetic simulation", "error", err)
		default:
			return entity.SimulationResponse{}, pathProvider, err
		}
	}

	resp, err := NewSyntheticSimulator(chain, s.logger).Simulate(ctx, req)
	return resp, pathSynthetic, err
}

func (s *SimulationServiceImpl) fault(err error) entity.ClarityResult {
	detail := err.Error()
	var balanceErr *balanceCheckError
	if errors.As(err, &balanceErr) {
		detail = "Failed to check account balance: " + balanceErr.err.Error()
	}
	return entity.NewFailedClarityResult("Transaction simulation failed: "+detail, faultWarning)
}

// IsValidationError reports whether err was caused by a malformed simulation request.
func IsValidationError(err error) bool {
	return errors.Is(err, entity.ErrMissingFields) ||
		errors.Is(err, entity.ErrUnsupportedNetwork) ||
		errors.Is(err, entity.ErrInvalidAddress) ||
		errors.Is(err, entity.ErrInvalidAmount)
}
