package entity

// Direction is the user-facing side of a normalized asset change.
type Direction string

const (
	DirectionSend    Direction = "SEND"
	DirectionReceive Direction = "RECEIVE"
)

// NormalizedAssetChange is an asset movement with a human-readable amount.
type NormalizedAssetChange struct {
	AssetType  AssetType `json:"assetType"`
	ChangeType Direction `json:"changeType"`
	Symbol     string    `json:"symbol"`
	Amount     string    `json:"amount"`
	From       string    `json:"from"`
	To         string    `json:"to"`
}

// Warning is a severity-tagged advisory attached to a ClarityResult.
type Warning struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// ClarityResult is the narrative produced for one simulated transaction.
type ClarityResult struct {
	IsSuccess    bool                    `json:"isSuccess"`
	Summary      string                  `json:"summary"`
	AssetChanges []NormalizedAssetChange `json:"assetChanges"`
	Warnings     []Warning               `json:"warnings"`
}

// NewFailedClarityResult builds the isSuccess=false shape with a single CRITICAL warning.
func NewFailedClarityResult(summary, warning string) ClarityResult {
	return ClarityResult{
		IsSuccess:    false,
		Summary:      summary,
		AssetChanges: []NormalizedAssetChange{},
		Warnings:     []Warning{{Severity: SeverityCritical, Message: warning}},
	}
}
