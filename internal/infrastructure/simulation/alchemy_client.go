package simulation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"clarity_engine/internal/domain/entity"
	"clarity_engine/internal/infrastructure/httpclient"
	"clarity_engine/internal/pkg/metrics"
	"clarity_engine/internal/pkg/utils"
)

const (
	simulateMethod       = "alchemy_simulateAssetChanges"
	methodNotFoundCode   = -32601
	methodUnsupportedMsg = "method not supported"
	upstreamName         = "alchemy"
)

// AlchemyClient calls alchemy_simulateAssetChanges and maps the result into a SimulationResponse.
type AlchemyClient struct {
	client   *fasthttp.Client
	endpoint string
	timeout  time.Duration
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewAlchemyClient creates a client for baseURL/apiKey.
func NewAlchemyClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *AlchemyClient {
	endpoint := strings.TrimRight(baseURL, "/")
	if apiKey != "" {
		endpoint += "/" + apiKey
	}
	return &AlchemyClient{
		client:   &fasthttp.Client{},
		endpoint: endpoint,
		timeout:  timeout,
		logger:   logger.Named("AlchemyClient"),
		metrics:  m,
	}
}

// SimulateAssetChanges implements port.SimulationProvider.
// Returns entity.ErrSimulationUnavailable when the endpoint cannot serve the method; an error
// the provider reports about the transaction itself is returned inside the response.
func (c *AlchemyClient) SimulateAssetChanges(ctx context.Context, req entity.TransferRequest) (out entity.SimulationResponse, err error) {
	value, err := utils.ParseAmount(req.Value)
	if err != nil {
		return entity.SimulationResponse{}, fmt.Errorf("%w: %v", entity.ErrInvalidAmount, err)
	}

	payload := rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  simulateMethod,
		Params: []any{transactionArg{
			From:  req.From,
			To:    req.To,
			Value: hexutil.EncodeBig(value),
			Data:  req.Data,
		}},
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	start := time.Now()
	defer func() { c.metrics.ObserveUpstream(upstreamName, start, err) }()

	if err := httpclient.PostJSON(ctx, c.client, c.endpoint, payload, resp, c.timeout); err != nil {
		c.logger.Warn("Simulation request failed", zap.Error(err))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return entity.SimulationResponse{}, fmt.Errorf("simulation request: %w", ctxErr)
		}
		return entity.SimulationResponse{}, fmt.Errorf("%w: %v", entity.ErrSimulationUnavailable, err)
	}

	status := resp.StatusCode()
	rawBody := resp.Body()
	if status != fasthttp.StatusOK {
		c.logger.Error("Simulation provider returned non-OK status",
			zap.Int("statusCode", status),
			zap.ByteString("responseBody", rawBody))
		if unavailableStatus(status) {
			return entity.SimulationResponse{}, fmt.Errorf("%w: status %d", entity.ErrSimulationUnavailable, status)
		}
		return entity.SimulationResponse{}, fmt.Errorf("simulation provider failed with status %d", status)
	}

	var rpcResp rpcResponse
	if err := httpclient.JSON.Unmarshal(rawBody, &rpcResp); err != nil {
		return entity.SimulationResponse{}, fmt.Errorf("failed to decode simulation response: %w", err)
	}

	if rpcResp.Error != nil {
		c.logger.Warn("Simulation provider returned JSON-RPC error",
			zap.Int("code", rpcResp.Error.Code),
			zap.String("message", rpcResp.Error.Message))
		if rpcResp.Error.Code == methodNotFoundCode || strings.Contains(strings.ToLower(rpcResp.Error.Message), methodUnsupportedMsg) {
			return entity.SimulationResponse{}, fmt.Errorf("%w: %s", entity.ErrSimulationUnavailable, rpcResp.Error.Message)
		}
		return entity.SimulationResponse{Error: &entity.SimulationError{Message: rpcResp.Error.Message}}, nil
	}

	var result assetChangesResult
	if err := httpclient.JSON.Unmarshal(rpcResp.Result, &result); err != nil {
		return entity.SimulationResponse{}, fmt.Errorf("failed to decode simulation result: %w", err)
	}

	out = toSimulationResponse(result)
	c.logger.Debug("Simulation provider answered", zap.Int("changes", len(out.Changes)), zap.String("gasUsed", out.GasUsed))
	return out, nil
}

func unavailableStatus(status int) bool {
	switch status {
	case fasthttp.StatusNotFound, fasthttp.StatusMethodNotAllowed, fasthttp.StatusNotImplemented:
		return true
	default:
		return status >= fasthttp.StatusInternalServerError
	}
}

func toSimulationResponse(result assetChangesResult) entity.SimulationResponse {
	out := entity.SimulationResponse{
		Changes: make([]entity.AssetChange, 0, len(result.Changes)),
		IsValid: result.Error == nil,
		GasUsed: gasToDecimal(result.GasUsed),
	}
	if result.Error != nil {
		out.Error = &entity.SimulationError{Message: result.Error.Message}
	}

	for _, ch := range result.Changes {
		out.Changes = append(out.Changes, entity.AssetChange{
			AssetType:       entity.AssetType(strings.ToUpper(ch.AssetType)),
			ChangeType:      entity.ChangeType(strings.ToUpper(ch.ChangeType)),
			From:            ch.From,
			To:              ch.To,
			RawAmount:       ch.RawAmount,
			Amount:          ch.Amount,
			Symbol:          ch.Symbol,
			Decimals:        ch.Decimals,
			ContractAddress: ch.ContractAddress,
			Name:            ch.Name,
		})
	}
	return out
}

// gasToDecimal renders a hex gas quantity as a decimal string and keeps anything else as is.
func gasToDecimal(gas string) string {
	if gas == "" {
		return ""
	}
	v, err := utils.ParseAmount(gas)
	if err != nil {
		return gas
	}
	return v.String()
}
