package port

import (
	"context"

	"clarity_engine/internal/domain/entity"
)

// SimulationProvider asks an external simulator for the predicted asset changes of a transfer.
// Implementations return entity.ErrSimulationUnavailable when the dedicated endpoint cannot be used.
type SimulationProvider interface {
	SimulateAssetChanges(ctx context.Context, req entity.TransferRequest) (entity.SimulationResponse, error)
}

// SimulationService turns a transfer request into a ClarityResult.
// When an error is returned the result still carries a renderable failure body.
type SimulationService interface {
	Simulate(ctx context.Context, req entity.TransferRequest) (entity.ClarityResult, error)
	CredentialsConfigured() bool
	APIKeyLength() int
}
