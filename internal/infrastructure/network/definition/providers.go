package networkdefinition

import (
	"fmt"
	"strings"

	"clarity_engine/internal/app/port"
	"clarity_engine/internal/domain/entity"
)

// NetworkDefinitionProvider provides the definitions of the networks requests may target.
type NetworkDefinitionProvider struct {
	logger            port.Logger
	allNetworkDefs    map[string]entity.NetworkDefinition
	activeNetworkDefs []entity.NetworkDefinition
}

// Predefined network definitions
var ( //nolint:gochecknoglobals // Global for definitions
	Sepolia = entity.NetworkDefinition{
		ChainID:          11155111,
		Name:             "Sepolia Testnet",
		Identifier:       "sepolia",
		NativeSymbol:     "ETH",
		Decimals:         18,
		PrimaryRPCURL:    "https://eth-sepolia.g.alchemy.com/v2/{apiKey}",
		BlockExplorerURL: "https://sepolia.etherscan.io",
		PortfolioAppID:   "ethereum",
	}
	Ethereum = entity.NetworkDefinition{
		ChainID:          1,
		Name:             "Ethereum Mainnet",
		Identifier:       "ethereum",
		NativeSymbol:     "ETH",
		Decimals:         18,
		PrimaryRPCURL:    "https://eth-mainnet.g.alchemy.com/v2/{apiKey}",
		BlockExplorerURL: "https://etherscan.io",
		PortfolioAppID:   "ethereum",
	}
)

// allKnownDefinitions is a helper to quickly access all hardcoded definitions.
var allKnownDefinitions = map[string]entity.NetworkDefinition{
	Sepolia.Identifier:  Sepolia,
	Ethereum.Identifier: Ethereum,
}

// NewNetworkDefinitionProvider activates the known networks named in supported.
// rpcURL, when set, replaces the primary RPC endpoint of every active network.
func NewNetworkDefinitionProvider(log port.Logger, supported []string, rpcURL string) *NetworkDefinitionProvider {
	p := &NetworkDefinitionProvider{
		logger:            log,
		allNetworkDefs:    allKnownDefinitions,
		activeNetworkDefs: make([]entity.NetworkDefinition, 0, len(supported)),
	}

	activeIdentifiers := make(map[string]struct{})
	for _, name := range supported {
		identifier := strings.ToLower(strings.TrimSpace(name))
		if _, alreadyActive := activeIdentifiers[identifier]; alreadyActive {
			continue
		}

		def, ok := p.allNetworkDefs[identifier]
		if !ok {
			p.logger.Warn(fmt.Sprintf("Network '%s' is configured but has no known definition. Skipping.", identifier))
			continue
		}
		if rpcURL != "" {
			def.PrimaryRPCURL = rpcURL
		}

		p.activeNetworkDefs = append(p.activeNetworkDefs, def)
		activeIdentifiers[identifier] = struct{}{}
	}

	if len(p.activeNetworkDefs) == 0 {
		p.logger.Warn("No supported networks are active. Every simulation request will be rejected.")
	} else {
		p.logger.Info("NetworkDefinitionProvider initialized", "active_networks", len(p.activeNetworkDefs))
	}
	return p
}

// GetAllNetworkDefinitions returns the list of active network definitions.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	if p == nil {
		return []entity.NetworkDefinition{}
	}
	defsCopy := make([]entity.NetworkDefinition, len(p.activeNetworkDefs))
	copy(defsCopy, p.activeNetworkDefs)
	return defsCopy
}

// GetNetworkDefinitionByName returns an active network definition by its identifier.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByName(identifier string) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	for _, def := range p.activeNetworkDefs {
		if strings.EqualFold(def.Identifier, identifier) {
			return def, true
		}
	}
	return entity.NetworkDefinition{}, false
}
