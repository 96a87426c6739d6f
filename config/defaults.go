package config

import "github.com/Klingon-tech/ethwallet/internal/wallet"

// Preset is the built-in chain id and endpoint list of a network.
type Preset struct {
	Network   NetworkType
	Name      string
	ChainID   uint64
	Endpoints []string
}

// Chain ids of the built-in networks.
const (
	MainnetChainID uint64 = 1
	SepoliaChainID uint64 = 11155111
)

var presets = map[NetworkType]Preset{
	Mainnet: {
		Network: Mainnet,
		Name:    "Ethereum Mainnet",
		ChainID: MainnetChainID,
		Endpoints: []string{
			"https://eth.llamarpc.com",
			"https://ethereum-rpc.publicnode.com",
		},
	},
	Sepolia: {
		Network: Sepolia,
		Name:    "Sepolia",
		ChainID: SepoliaChainID,
		Endpoints: []string{
			"https://ethereum-sepolia-rpc.publicnode.com",
			"https://rpc.sepolia.org",
			"https://sepolia.gateway.tenderly.co",
			"https://ethereum-sepolia.blockpi.network/v1/rpc/public",
		},
	},
}

// LookupPreset returns the preset for network.
func LookupPreset(network NetworkType) (Preset, bool) {
	p, ok := presets[network]
	if ok {
		p.Endpoints = append([]string(nil), p.Endpoints...)
	}
	return p, ok
}

// DefaultMainnet returns the default configuration for mainnet.
func DefaultMainnet() *Config {
	p, _ := LookupPreset(Mainnet)
	return &Config{
		Network: Mainnet,
		ChainID: p.ChainID,
		DataDir: DefaultDataDir(),
		RPC: RPCConfig{
			Endpoints: p.Endpoints,
			Timeout:   30,
			RateLimit: 0,
		},
		Wallet: WalletConfig{
			Path:        wallet.DefaultAccountPath.String(),
			Wordlist:    wallet.DefaultLanguage,
			EntropyBits: wallet.MnemonicEntropyBits,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// DefaultSepolia returns the default configuration for the Sepolia testnet.
func DefaultSepolia() *Config {
	cfg := DefaultMainnet()
	p, _ := LookupPreset(Sepolia)
	cfg.Network = Sepolia
	cfg.ChainID = p.ChainID
	cfg.RPC.Endpoints = p.Endpoints
	return cfg
}

// DefaultCustom returns a configuration with no chain id or endpoints; both
// must be supplied by the operator.
func DefaultCustom() *Config {
	cfg := DefaultMainnet()
	cfg.Network = Custom
	cfg.ChainID = 0
	cfg.RPC.Endpoints = nil
	return cfg
}

// Default returns the default configuration for the given network.
func Default(network NetworkType) *Config {
	switch network {
	case Sepolia:
		return DefaultSepolia()
	case Custom:
		return DefaultCustom()
	default:
		return DefaultMainnet()
	}
}
