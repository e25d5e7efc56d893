package client

import (
	"fmt"
	"sync"

	"clarity_engine/internal/app/port"
	"clarity_engine/internal/domain/entity"
)

// EVMClientProvider implements the port.ChainClientProvider interface.
type EVMClientProvider struct {
	clients map[string]*EVMClient
	mu      sync.Mutex
	logger  port.Logger
	opts    ClientOptions
}

// NewEVMClientProvider creates a new EVMClientProvider.
func NewEVMClientProvider(opts ClientOptions, logger port.Logger) *EVMClientProvider {
	return &EVMClientProvider{
		clients: make(map[string]*EVMClient),
		logger:  logger,
		opts:    opts,
	}
}

// GetClient returns the cached client for netDef, dialing one on first use.
func (p *EVMClientProvider) GetClient(netDef entity.NetworkDefinition) (port.ChainClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if client, exists := p.clients[netDef.Identifier]; exists {
		return client, nil
	}

	p.logger.Info("Creating new EVM client", "network", netDef.Name)
	newClient, err := NewEVMClient(netDef, p.opts)
	if err != nil {
		p.logger.Error("Failed to create EVM client", "network", netDef.Name, "error", err)
		return nil, fmt.Errorf("failed to create EVM client for %s: %w", netDef.Name, err)
	}

	p.clients[netDef.Identifier] = newClient
	return newClient, nil
}

// Close closes every cached client.
func (p *EVMClientProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id, c := range p.clients {
		c.Close()
		delete(p.clients, id)
	}
}
