package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"clarity_engine/internal/domain/entity"
	"clarity_engine/internal/pkg/logger"
	"clarity_engine/internal/pkg/metrics"
)

type fakeSimulationService struct {
	result  entity.ClarityResult
	err     error
	hasKey  bool
	keyLen  int
	lastReq entity.TransferRequest
	calls   int
}

func (f *fakeSimulationService) Simulate(_ context.Context, req entity.TransferRequest) (entity.ClarityResult, error) {
	f.calls++
	f.lastReq = req
	return f.result, f.err
}

func (f *fakeSimulationService) CredentialsConfigured() bool { return f.hasKey }

func (f *fakeSimulationService) APIKeyLength() int { return f.keyLen }

type fakeRiskScanService struct {
	result entity.RiskScanResult
	err    error
}

func (f *fakeRiskScanService) Scan(_ context.Context, address string) (entity.RiskScanResult, error) {
	if strings.TrimSpace(address) == "" {
		return entity.RiskScanResult{}, entity.ErrMissingAddress
	}
	if f.err != nil {
		return entity.RiskScanResult{}, f.err
	}
	res := f.result
	res.WalletAddress = address
	return res, nil
}

func newTestRouter(sim *fakeSimulationService, risk *fakeRiskScanService, reg *prometheus.Registry) *gin.Engine {
	gin.SetMode(gin.TestMode)
	opts := RouterOptions{}
	if reg != nil {
		opts.Metrics = metrics.New(reg)
		opts.Gatherer = reg
	}
	return SetupRouter(
		NewSimulateHandler(sim, logger.NewNop()),
		NewRiskScanHandler(risk, logger.NewNop()),
		zap.NewNop(),
		opts,
	)
}

func perform(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestSimulateTransactionHandler(t *testing.T) {
	okResult := entity.ClarityResult{
		IsSuccess: true,
		Summary:   "You are sending 0.01 ETH.",
		AssetChanges: []entity.NormalizedAssetChange{{
			AssetType: entity.AssetTypeNative, ChangeType: entity.DirectionSend, Symbol: "ETH", Amount: "0.01",
		}},
		Warnings: []entity.Warning{},
	}
	credentialsResult := entity.NewFailedClarityResult("API configuration error", "Server configuration error: missing API key")
	faultResult := entity.NewFailedClarityResult("Transaction simulation failed: boom", "Failed to simulate transaction")

	tests := []struct {
		name       string
		body       string
		result     entity.ClarityResult
		err        error
		wantStatus int
		wantError  string
		wantResult *entity.ClarityResult
		wantCalls  int
	}{
		{
			name:       "success",
			body:       `{"from":"0x1111111111111111111111111111111111111111","to":"0x2222222222222222222222222222222222222222","value":"10000000000000000","network":"sepolia"}`,
			result:     okResult,
			wantStatus: http.StatusOK,
			wantResult: &okResult,
			wantCalls:  1,
		},
		{
			name:       "malformed body",
			body:       `{"from":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request body",
		},
		{
			name:       "missing fields",
			body:       `{"from":"0x1111111111111111111111111111111111111111"}`,
			err:        entity.ErrMissingFields,
			wantStatus: http.StatusBadRequest,
			wantError:  "Missing required fields: from, to, value, network",
			wantCalls:  1,
		},
		{
			name:       "unsupported network",
			body:       `{"from":"a","to":"b","value":"1","network":"mainnet"}`,
			err:        entity.ErrUnsupportedNetwork,
			wantStatus: http.StatusBadRequest,
			wantError:  "unsupported network",
			wantCalls:  1,
		},
		{
			name:       "missing credentials",
			body:       `{"from":"a","to":"b","value":"1","network":"sepolia"}`,
			result:     credentialsResult,
			err:        entity.ErrMissingCredentials,
			wantStatus: http.StatusInternalServerError,
			wantResult: &credentialsResult,
			wantCalls:  1,
		},
		{
			name:       "internal fault",
			body:       `{"from":"a","to":"b","value":"1","network":"sepolia"}`,
			result:     faultResult,
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantResult: &faultResult,
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := &fakeSimulationService{result: tt.result, err: tt.err}
			router := newTestRouter(sim, &fakeRiskScanService{}, nil)

			w := perform(router, http.MethodPost, "/api/simulate", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCalls, sim.calls)
			if tt.wantError != "" {
				body := decodeBody(t, w)
				assert.Equal(t, tt.wantError, body["error"])
			}
			if tt.wantResult != nil {
				var got entity.ClarityResult
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
				assert.Equal(t, *tt.wantResult, got)
			}
		})
	}
}

func TestSimulateTransactionHandler_PassesRequestThrough(t *testing.T) {
	sim := &fakeSimulationService{result: entity.ClarityResult{IsSuccess: true}}
	router := newTestRouter(sim, &fakeRiskScanService{}, nil)

	w := perform(router, http.MethodPost, "/api/simulate",
		`{"from":"0xabc","to":"0xdef","value":"42","network":"Sepolia","data":"0x"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entity.TransferRequest{
		From: "0xabc", To: "0xdef", Value: "42", Network: "Sepolia", Data: "0x",
	}, sim.lastReq)
}

func TestSimulateStatusHandler(t *testing.T) {
	sim := &fakeSimulationService{hasKey: true, keyLen: 32}
	router := newTestRouter(sim, &fakeRiskScanService{}, nil)

	w := perform(router, http.MethodGet, "/api/simulate", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"API is working","hasApiKey":true,"apiKeyLength":32}`, w.Body.String())
	assert.Zero(t, sim.calls)
}

func TestGetRiskScanHandler(t *testing.T) {
	scanned := entity.RiskScanResult{
		TotalPortfolioValue: decimal.RequireFromString("40"),
		RisksFound: []entity.Risk{{
			Severity: entity.SeverityLow,
			Message:  "Small portfolio size. Consider the impact of gas fees on transactions.",
			Category: entity.CategoryPortfolioSize,
		}},
		ScanTimestamp: time.Date(2025, 7, 14, 9, 30, 0, 0, time.UTC),
	}

	t.Run("missing address", func(t *testing.T) {
		router := newTestRouter(&fakeSimulationService{}, &fakeRiskScanService{}, nil)

		w := perform(router, http.MethodGet, "/api/risk-scan", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Wallet address is required"}`, w.Body.String())
	})

	t.Run("success", func(t *testing.T) {
		router := newTestRouter(&fakeSimulationService{}, &fakeRiskScanService{result: scanned}, nil)

		w := perform(router, http.MethodGet, "/api/risk-scan?address=0xabc", "")

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "0xabc", body["walletAddress"])
		assert.Equal(t, float64(40), body["totalPortfolioValue"])
		assert.Equal(t, "2025-07-14T09:30:00.000Z", body["scanTimestamp"])
		risks, ok := body["risksFound"].([]any)
		require.True(t, ok)
		assert.Len(t, risks, 1)
	})

	t.Run("internal failure", func(t *testing.T) {
		router := newTestRouter(&fakeSimulationService{}, &fakeRiskScanService{err: errors.New("exploded")}, nil)

		w := perform(router, http.MethodGet, "/api/risk-scan?address=0xabc", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Risk scan failed","details":"exploded"}`, w.Body.String())
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	router := newTestRouter(&fakeSimulationService{}, &fakeRiskScanService{}, nil)

	t.Run("generated", func(t *testing.T) {
		w := perform(router, http.MethodGet, "/healthz", "")
		assert.Len(t, w.Header().Get(requestIDHeader), 36)
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(requestIDHeader, "req-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, "req-123", w.Header().Get(requestIDHeader))
	})
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	router := newTestRouter(&fakeSimulationService{}, &fakeRiskScanService{}, reg)

	perform(router, http.MethodGet, "/api/simulate", "")
	w := perform(router, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `clarity_http_requests_total{method="GET",route="/api/simulate",status="200"} 1`)
}
