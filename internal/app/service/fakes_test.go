package service

import (
	"context"
	"math/big"
	"strings"

	"clarity_engine/internal/app/port"
	"clarity_engine/internal/domain/entity"
)

const (
	senderAddr    = "0x1111111111111111111111111111111111111111"
	recipientAddr = "0x2222222222222222222222222222222222222222"
)

var sepoliaDef = entity.NetworkDefinition{
	ChainID:      11155111,
	Name:         "Sepolia",
	Identifier:   "sepolia",
	NativeSymbol: "ETH",
	Decimals:     18,
}

// milliEther returns n/1000 ETH in wei.
func milliEther(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000_000_000))
}

type fakeChain struct {
	def          entity.NetworkDefinition
	balance      *big.Int
	balanceErr   error
	gas          uint64
	gasErr       error
	balanceCalls int
	gasCalls     int
}

func (f *fakeChain) GetNativeBalance(_ context.Context, _ string) (*big.Int, error) {
	f.balanceCalls++
	if f.balanceErr != nil {
		return nil, f.balanceErr
	}
	return f.balance, nil
}

func (f *fakeChain) EstimateGas(_ context.Context, _ entity.TransferRequest) (uint64, error) {
	f.gasCalls++
	if f.gasErr != nil {
		return 0, f.gasErr
	}
	return f.gas, nil
}

func (f *fakeChain) Definition() entity.NetworkDefinition { return f.def }

type fakeNetworks struct {
	defs []entity.NetworkDefinition
}

func (f fakeNetworks) GetAllNetworkDefinitions() []entity.NetworkDefinition { return f.defs }

func (f fakeNetworks) GetNetworkDefinitionByName(identifier string) (entity.NetworkDefinition, bool) {
	for _, d := range f.defs {
		if strings.EqualFold(d.Identifier, identifier) {
			return d, true
		}
	}
	return entity.NetworkDefinition{}, false
}

type fakeClients struct {
	chain port.ChainClient
	err   error
}

func (f fakeClients) GetClient(entity.NetworkDefinition) (port.ChainClient, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.chain, nil
}

type fakeSimulationProvider struct {
	resp  entity.SimulationResponse
	err   error
	calls int
}

func (f *fakeSimulationProvider) SimulateAssetChanges(context.Context, entity.TransferRequest) (entity.SimulationResponse, error) {
	f.calls++
	return f.resp, f.err
}

type fakePortfolio struct {
	snapshot entity.PortfolioSnapshot
	err      error
	panics   bool
}

func (f fakePortfolio) GetPortfolio(context.Context, string) (entity.PortfolioSnapshot, error) {
	if f.panics {
		panic("portfolio provider exploded")
	}
	return f.snapshot, f.err
}
