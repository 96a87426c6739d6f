// Package config handles wallet tool configuration.
//
// Settings are layered: built-in network presets, then the operator's
// ethwallet.conf, then command-line flags.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// NetworkType names a network preset.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Sepolia NetworkType = "sepolia"
	Custom  NetworkType = "custom"
)

// ConfigFileName is the config file name inside the data directory.
const ConfigFileName = "ethwallet.conf"

// Config holds the wallet tool configuration.
type Config struct {
	// Core
	Network NetworkType `conf:"network"`
	ChainID uint64      `conf:"chain_id"`
	DataDir string      `conf:"datadir"`

	// Node access
	RPC RPCConfig

	// Key derivation defaults
	Wallet WalletConfig

	// Logging
	Log LogConfig
}

// RPCConfig holds JSON-RPC endpoint settings.
type RPCConfig struct {
	Endpoints []string `conf:"rpc.endpoints"` // Tried in order
	Timeout   int      `conf:"rpc.timeout"`   // Seconds per request
	RateLimit int      `conf:"rpc.ratelimit"` // Requests per second, 0 = unlimited
}

// TimeoutDuration returns Timeout as a time.Duration.
func (r RPCConfig) TimeoutDuration() time.Duration {
	return time.Duration(r.Timeout) * time.Second
}

// WalletConfig holds key derivation defaults.
type WalletConfig struct {
	Path        string `conf:"wallet.path"`         // Default derivation path
	Wordlist    string `conf:"wallet.wordlist"`     // Mnemonic language
	EntropyBits int    `conf:"wallet.entropy_bits"` // New mnemonic strength
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.ethwallet
//	macOS:   ~/Library/Application Support/EthWallet
//	Windows: %APPDATA%\EthWallet
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ethwallet"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "EthWallet")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "EthWallet")
		}
		return filepath.Join(home, "AppData", "Roaming", "EthWallet")
	default:
		return filepath.Join(home, ".ethwallet")
	}
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, ConfigFileName)
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}
