package entity

// AssetType identifies the kind of asset a predicted change touches.
type AssetType string

const (
	AssetTypeNative AssetType = "NATIVE"
	AssetTypeERC20  AssetType = "ERC20"
	AssetTypeERC721 AssetType = "ERC721"
)

// ChangeType is the raw change kind reported by a simulation provider.
type ChangeType string

const (
	ChangeTypeTransfer ChangeType = "TRANSFER"
	ChangeTypeApprove  ChangeType = "APPROVE"
)

// AssetChange is one predicted balance or allowance delta, exactly as a simulation provider
// reports it. Every optional field may be missing.
type AssetChange struct {
	AssetType       AssetType  `json:"assetType"`
	ChangeType      ChangeType `json:"changeType"`
	From            string     `json:"from"`
	To              string     `json:"to"`
	RawAmount       string     `json:"rawAmount,omitempty"`
	Amount          string     `json:"amount"`
	Symbol          string     `json:"symbol,omitempty"`
	Decimals        *int       `json:"decimals,omitempty"`
	Spender         string     `json:"spender,omitempty"`
	ContractAddress string     `json:"contractAddress,omitempty"`
	Name            string     `json:"name,omitempty"`
}

// SmallestUnitAmount returns the amount in the asset's smallest unit.
// Real providers put the already formatted value in Amount and the integer in RawAmount.
func (c AssetChange) SmallestUnitAmount() string {
	if c.RawAmount != "" {
		return c.RawAmount
	}
	return c.Amount
}

// DecimalsOr returns the declared decimals or def when the provider omitted them.
func (c AssetChange) DecimalsOr(def int) int {
	if c.Decimals == nil {
		return def
	}
	return *c.Decimals
}

// SimulationError carries a provider-side failure message.
type SimulationError struct {
	Message string `json:"message"`
}

// SimulationResponse is the raw predicted-changes list fed into the interpreter. It comes either
// from the simulation provider or from the synthetic balance/gas check.
type SimulationResponse struct {
	Error    *SimulationError `json:"error,omitempty"`
	Changes  []AssetChange    `json:"changes"`
	GasUsed  string           `json:"gasUsed,omitempty"`
	IsValid  bool             `json:"isValid"`
	Warnings []Warning        `json:"warnings,omitempty"`
}

// TransferRequest is a proposed native transfer submitted for simulation.
// Value is an integer string in the native asset's smallest unit.
type TransferRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Value   string `json:"value"`
	Data    string `json:"data,omitempty"`
	Network string `json:"network"`
}
