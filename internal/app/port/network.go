package port

import (
	"context"
	"math/big"

	"clarity_engine/internal/domain/entity"
)

// ChainClient defines the RPC calls the pipelines make against a blockchain network.
type ChainClient interface {
	// GetNativeBalance returns the latest-block native balance of address in wei.
	GetNativeBalance(ctx context.Context, address string) (*big.Int, error)

	// EstimateGas estimates the gas a transfer would consume.
	EstimateGas(ctx context.Context, req entity.TransferRequest) (uint64, error)

	// Definition returns the network definition associated with this client.
	Definition() entity.NetworkDefinition
}

// NetworkDefinitionProvider defines the interface for providing network definitions.
type NetworkDefinitionProvider interface {
	// GetAllNetworkDefinitions returns every supported network definition.
	GetAllNetworkDefinitions() []entity.NetworkDefinition

	// GetNetworkDefinitionByName returns the definition for identifier, if it is supported.
	GetNetworkDefinitionByName(identifier string) (entity.NetworkDefinition, bool)
}

// ChainClientProvider hands out chain clients per network.
type ChainClientProvider interface {
	GetClient(networkDefinition entity.NetworkDefinition) (ChainClient, error)
}
