package entity

// NetworkDefinition holds the configuration for a specific blockchain network.
type NetworkDefinition struct {
	ChainID          uint64 `json:"chainId" yaml:"chainId"`
	Name             string `json:"name" yaml:"name"`
	Identifier       string `json:"identifier" yaml:"identifier"`
	NativeSymbol     string `json:"nativeSymbol" yaml:"nativeSymbol"`
	Decimals         int32  `json:"decimals" yaml:"decimals"`
	PrimaryRPCURL    string `json:"primaryRpcUrl" yaml:"primaryRpcUrl"`
	BlockExplorerURL string `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`
	PortfolioAppID   string `json:"portfolioAppId" yaml:"portfolioAppId"`
}

// NativeDecimals returns the native asset decimals, 18 when unset.
func (d NetworkDefinition) NativeDecimals() int {
	if d.Decimals == 0 {
		return 18
	}
	return int(d.Decimals)
}
