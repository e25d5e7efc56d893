package portfolio

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"clarity_engine/internal/domain/entity"
	"clarity_engine/internal/infrastructure/httpclient"
	"clarity_engine/internal/pkg/metrics"
)

const (
	zapperBalancesPath = "/v2/balances/apps"
	zapperUpstream     = "zapper"
)

// ZapperClient fetches app balances from the Zapper API.
type ZapperClient struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics
}

type zapperApp struct {
	AppID    string          `json:"appId"`
	Network  string          `json:"network"`
	Balances []zapperBalance `json:"balances"`
	Products []struct {
		Assets []zapperBalance `json:"assets"`
	} `json:"products"`
}

type zapperBalance struct {
	Token struct {
		Symbol  string `json:"symbol"`
		Address string `json:"address"`
	} `json:"token"`
	Symbol      string          `json:"symbol"`
	BalanceUSD  decimal.Decimal `json:"balanceUSD"`
	Balance     any             `json:"balance"`
	HealthRatio *float64        `json:"healthRatio"`
}

type zapperWrapped struct {
	Data []zapperApp `json:"data"`
}

// NewZapperClient creates a new instance of ZapperClient.
func NewZapperClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *ZapperClient {
	return &ZapperClient{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
		logger:  logger.Named("ZapperClient"),
		metrics: m,
	}
}

// GetPortfolio implements port.PortfolioProvider.
func (c *ZapperClient) GetPortfolio(ctx context.Context, walletAddress string) (snapshot entity.PortfolioSnapshot, err error) {
	if c.apiKey == "" {
		return entity.PortfolioSnapshot{}, fmt.Errorf("zapper: %w", entity.ErrMissingCredentials)
	}

	query := url.Values{}
	query.Add("addresses[]", walletAddress)
	requestURL := c.baseURL + zapperBalancesPath + "?" + query.Encode()

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(c.apiKey+":")))

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	start := time.Now()
	defer func() { c.metrics.ObserveUpstream(zapperUpstream, start, err) }()

	c.logger.Debug("Requesting app balances from Zapper", zap.String("wallet", walletAddress))
	if err := httpclient.Do(ctx, c.client, req, resp, c.timeout); err != nil {
		c.logger.Error("Failed to execute request to Zapper", zap.Error(err))
		return entity.PortfolioSnapshot{}, fmt.Errorf("zapper request failed: %w", err)
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Zapper API request failed",
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody))
		return entity.PortfolioSnapshot{}, fmt.Errorf("zapper request failed with status %d", resp.StatusCode())
	}

	apps, err := decodeZapperApps(rawBody)
	if err != nil {
		c.logger.Error("Failed to unmarshal Zapper response", zap.ByteString("responseBody", rawBody), zap.Error(err))
		return entity.PortfolioSnapshot{}, err
	}

	snapshot = toSnapshot(apps)
	c.logger.Debug("Zapper snapshot fetched", zap.String("wallet", walletAddress), zap.Int("apps", len(snapshot.Apps)))
	return snapshot, nil
}

// decodeZapperApps accepts both the {"data": [...]} wrapper and a bare array of apps.
func decodeZapperApps(raw []byte) ([]zapperApp, error) {
	var wrapped zapperWrapped
	if err := httpclient.JSON.Unmarshal(raw, &wrapped); err == nil && wrapped.Data != nil {
		return wrapped.Data, nil
	}

	var direct []zapperApp
	if err := httpclient.JSON.Unmarshal(raw, &direct); err != nil {
		return nil, fmt.Errorf("failed to unmarshal zapper response: %w", err)
	}
	return direct, nil
}

func toSnapshot(apps []zapperApp) entity.PortfolioSnapshot {
	snapshot := entity.PortfolioSnapshot{Apps: make([]entity.AppBalances, 0, len(apps))}
	for _, app := range apps {
		out := entity.AppBalances{AppID: app.AppID, Network: app.Network}

		balances := app.Balances
		for _, product := range app.Products {
			balances = append(balances, product.Assets...)
		}
		for _, b := range balances {
			symbol := b.Token.Symbol
			if symbol == "" {
				symbol = b.Symbol
			}
			out.Balances = append(out.Balances, entity.PositionBalance{
				Token:       entity.TokenRef{Symbol: symbol, Address: b.Token.Address},
				BalanceUSD:  b.BalanceUSD,
				Balance:     balanceString(b.Balance),
				HealthRatio: b.HealthRatio,
			})
		}
		snapshot.Apps = append(snapshot.Apps, out)
	}
	return snapshot
}

func balanceString(v any) string {
	switch b := v.(type) {
	case nil:
		return ""
	case string:
		return b
	default:
		return fmt.Sprint(b)
	}
}
