package client

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/time/rate"

	"clarity_engine/internal/app/port"
	"clarity_engine/internal/domain/entity"
	"clarity_engine/internal/pkg/metrics"
	"clarity_engine/internal/pkg/utils"
)

const (
	upstreamName       = "rpc"
	defaultDialTimeout = 10 * time.Second
)

// EVMClient implements the port.ChainClient interface for EVM-compatible chains.
type EVMClient struct {
	ethClient      *ethclient.Client
	netDef         entity.NetworkDefinition
	rpcCallTimeout time.Duration
	limiter        *rate.Limiter
	metrics        *metrics.Metrics
}

// ClientOptions tunes the outbound behaviour of an EVMClient.
type ClientOptions struct {
	DialTimeout    time.Duration
	RPCCallTimeout time.Duration
	RateLimit      rate.Limit
	Burst          int
	Metrics        *metrics.Metrics
}

// NewEVMClient creates a new EVM client for the given network definition.
func NewEVMClient(netDef entity.NetworkDefinition, opts ClientOptions) (*EVMClient, error) {
	if netDef.PrimaryRPCURL == "" {
		return nil, fmt.Errorf("network %s has no RPC URL", netDef.Name)
	}

	dialTimeout := opts.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	ethClient, err := ethclient.DialContext(ctx, netDef.PrimaryRPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC for network %s: %w", netDef.Name, err)
	}

	limit := opts.RateLimit
	if limit <= 0 {
		limit = rate.Inf
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	return &EVMClient{
		ethClient:      ethClient,
		netDef:         netDef,
		rpcCallTimeout: opts.RPCCallTimeout,
		limiter:        rate.NewLimiter(limit, burst),
		metrics:        opts.Metrics,
	}, nil
}

// GetNativeBalance returns the latest-block balance of address in wei.
func (c *EVMClient) GetNativeBalance(ctx context.Context, address string) (*big.Int, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: %s", entity.ErrInvalidAddress, address)
	}

	callCtx, cancel, err := c.prepareCall(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	start := time.Now()
	balance, err := c.ethClient.BalanceAt(callCtx, common.HexToAddress(address), nil)
	c.metrics.ObserveUpstream(upstreamName, start, err)
	if err != nil {
		return nil, fmt.Errorf("eth_getBalance for %s on %s: %w", address, c.netDef.Name, err)
	}
	return balance, nil
}

// EstimateGas estimates the gas a transfer described by req would consume.
func (c *EVMClient) EstimateGas(ctx context.Context, req entity.TransferRequest) (uint64, error) {
	msg, err := callMsgFromRequest(req)
	if err != nil {
		return 0, err
	}

	callCtx, cancel, err := c.prepareCall(ctx)
	if err != nil {
		return 0, err
	}
	defer cancel()

	start := time.Now()
	gas, err := c.ethClient.EstimateGas(callCtx, msg)
	c.metrics.ObserveUpstream(upstreamName, start, err)
	if err != nil {
		return 0, fmt.Errorf("eth_estimateGas on %s: %w", c.netDef.Name, err)
	}
	return gas, nil
}

// Definition returns the network definition for this client.
func (c *EVMClient) Definition() entity.NetworkDefinition {
	return c.netDef
}

// Close releases the underlying RPC connection.
func (c *EVMClient) Close() {
	c.ethClient.Close()
}

// prepareCall waits for the limiter and bounds the call by rpcCallTimeout.
func (c *EVMClient) prepareCall(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("rate limiter wait: %w", err)
	}
	if c.rpcCallTimeout <= 0 {
		callCtx, cancel := context.WithCancel(ctx)
		return callCtx, cancel, nil
	}
	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	return callCtx, cancel, nil
}

func callMsgFromRequest(req entity.TransferRequest) (ethereum.CallMsg, error) {
	value, err := utils.ParseAmount(req.Value)
	if err != nil {
		return ethereum.CallMsg{}, fmt.Errorf("%w: %v", entity.ErrInvalidAmount, err)
	}

	to := common.HexToAddress(req.To)
	msg := ethereum.CallMsg{
		From:  common.HexToAddress(req.From),
		To:    &to,
		Value: value,
	}

	if req.Data != "" && req.Data != "0x" {
		data, err := hexutil.Decode(req.Data)
		if err != nil {
			return ethereum.CallMsg{}, fmt.Errorf("invalid call data: %w", err)
		}
		msg.Data = data
	}
	return msg, nil
}

var _ port.ChainClient = (*EVMClient)(nil)
