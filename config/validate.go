package config

import (
	"fmt"
	"net/url"

	klog "github.com/Klingon-tech/ethwallet/internal/log"
	"github.com/Klingon-tech/ethwallet/internal/wallet"
	"github.com/Klingon-tech/ethwallet/pkg/tx"
)

// Validate checks the configuration for obvious operator mistakes. An empty
// endpoint list is allowed here so offline commands work on a custom network;
// commands that talk to a node call RequireEndpoints.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	switch cfg.Network {
	case Mainnet, Sepolia:
		p, _ := LookupPreset(cfg.Network)
		if cfg.ChainID != p.ChainID {
			return fmt.Errorf("chain_id %d does not match network %s (chain id %d); use network = custom",
				cfg.ChainID, cfg.Network, p.ChainID)
		}
	case Custom:
	default:
		return fmt.Errorf("network must be %q, %q or %q", Mainnet, Sepolia, Custom)
	}
	if cfg.ChainID == 0 {
		return fmt.Errorf("chain_id must be set")
	}
	if cfg.ChainID > tx.MaxChainID {
		return fmt.Errorf("chain_id %d too large for EIP-155", cfg.ChainID)
	}

	for i, ep := range cfg.RPC.Endpoints {
		u, err := url.Parse(ep)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("rpc.endpoints[%d] %q must be an http(s) URL", i, ep)
		}
	}
	if cfg.RPC.Timeout <= 0 {
		return fmt.Errorf("rpc.timeout must be positive")
	}
	if cfg.RPC.RateLimit < 0 {
		return fmt.Errorf("rpc.ratelimit must not be negative")
	}

	if _, err := wallet.ParseDerivationPath(cfg.Wallet.Path); err != nil {
		return fmt.Errorf("wallet.path: %w", err)
	}
	if _, err := wallet.WordlistByName(cfg.Wallet.Wordlist); err != nil {
		return fmt.Errorf("wallet.wordlist: %w", err)
	}
	if err := wallet.CheckEntropyBits(cfg.Wallet.EntropyBits); err != nil {
		return fmt.Errorf("wallet.entropy_bits: %w", err)
	}

	if _, ok := klog.ParseLevel(cfg.Log.Level); !ok {
		return fmt.Errorf("log.level %q must be debug, info, warn or error", cfg.Log.Level)
	}
	return nil
}

// RequireEndpoints fails if no RPC endpoint is configured.
func (c *Config) RequireEndpoints() error {
	if len(c.RPC.Endpoints) == 0 {
		return fmt.Errorf("rpc.endpoints must list at least one endpoint (set rpc.endpoints or --rpc)")
	}
	return nil
}
