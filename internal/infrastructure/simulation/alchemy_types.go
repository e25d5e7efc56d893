package simulation

import (
	jsoniter "github.com/json-iterator/go"
)

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type transactionArg struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Value string `json:"value"`
	Data  string `json:"data,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	ID     int                 `json:"id"`
	Result jsoniter.RawMessage `json:"result"`
	Error  *rpcError           `json:"error"`
}

// assetChangesResult is the result object of alchemy_simulateAssetChanges.
type assetChangesResult struct {
	Changes []assetChange `json:"changes"`
	GasUsed string        `json:"gasUsed"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type assetChange struct {
	AssetType       string `json:"assetType"`
	ChangeType      string `json:"changeType"`
	From            string `json:"from"`
	To              string `json:"to"`
	RawAmount       string `json:"rawAmount"`
	Amount          string `json:"amount"`
	Symbol          string `json:"symbol"`
	Decimals        *int   `json:"decimals"`
	ContractAddress string `json:"contractAddress"`
	Name            string `json:"name"`
}
