package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

// Flags holds parsed command-line overrides.
type Flags struct {
	// Core
	Network string
	ChainID uint64
	DataDir string
	Config  string

	// RPC
	RPC          string
	RPCTimeout   int
	RPCRateLimit int

	// Wallet
	Path        string
	Wordlist    string
	EntropyBits int

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	fs *pflag.FlagSet
}

// RegisterFlags adds the global configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}

	// Core
	fs.StringVar(&f.Network, "network", "", "Network preset: mainnet, sepolia or custom")
	fs.Uint64Var(&f.ChainID, "chain-id", 0, "Chain id for EIP-155 signing")
	fs.StringVar(&f.DataDir, "datadir", "", "Data directory path")
	fs.StringVarP(&f.Config, "config", "c", "", "Config file path (default: <datadir>/"+ConfigFileName+")")

	// RPC
	fs.StringVar(&f.RPC, "rpc", "", "JSON-RPC endpoints, comma-separated, tried in order")
	fs.IntVar(&f.RPCTimeout, "rpc-timeout", 0, "Per-request RPC timeout in seconds")
	fs.IntVar(&f.RPCRateLimit, "rpc-ratelimit", 0, "Maximum RPC requests per second (0 = unlimited)")

	// Wallet
	fs.StringVar(&f.Path, "path", "", "Derivation path (default: m/44'/60'/0'/0/0)")
	fs.StringVar(&f.Wordlist, "wordlist", "", "Mnemonic language")
	fs.IntVar(&f.EntropyBits, "entropy-bits", 0, "Entropy for new mnemonics: 128, 160, 192, 224 or 256")

	// Logging
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "Log file path")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Output logs as JSON")

	return f
}

func (f *Flags) changed(name string) bool {
	return f.fs != nil && f.fs.Changed(name)
}

// ApplyFlags applies explicitly set command-line flags to a Config struct.
func ApplyFlags(cfg *Config, f *Flags) {
	// Core
	if f.changed("network") {
		cfg.Network = NetworkType(strings.ToLower(f.Network))
	}
	if f.changed("chain-id") {
		cfg.ChainID = f.ChainID
	}
	if f.changed("datadir") {
		cfg.DataDir = f.DataDir
	}

	// RPC
	if f.changed("rpc") {
		cfg.RPC.Endpoints = parseStringList(f.RPC)
	}
	if f.changed("rpc-timeout") {
		cfg.RPC.Timeout = f.RPCTimeout
	}
	if f.changed("rpc-ratelimit") {
		cfg.RPC.RateLimit = f.RPCRateLimit
	}

	// Wallet
	if f.changed("path") {
		cfg.Wallet.Path = f.Path
	}
	if f.changed("wordlist") {
		cfg.Wallet.Wordlist = strings.ToLower(f.Wordlist)
	}
	if f.changed("entropy-bits") {
		cfg.Wallet.EntropyBits = f.EntropyBits
	}

	// Logging
	if f.changed("log-level") {
		cfg.Log.Level = f.LogLevel
	}
	if f.changed("log-file") {
		cfg.Log.File = f.LogFile
	}
	if f.changed("log-json") {
		cfg.Log.JSON = f.LogJSON
	}
}

// Load builds the configuration with the following precedence:
// 1. Network preset defaults
// 2. Config file (missing file is fine)
// 3. Command-line flags
func Load(f *Flags) (*Config, error) {
	dataDir := DefaultDataDir()
	if f.changed("datadir") {
		dataDir = f.DataDir
	}
	configPath := f.Config
	if configPath == "" {
		configPath = (&Config{DataDir: dataDir}).ConfigFile()
	}

	fileValues, err := LoadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config file: %w", err)
	}

	// The network must be known before defaults are chosen.
	network := Mainnet
	if v, ok := fileValues["network"]; ok {
		network = NetworkType(strings.ToLower(v))
	}
	if f.changed("network") {
		network = NetworkType(strings.ToLower(f.Network))
	}

	cfg := Default(network)
	cfg.DataDir = dataDir
	if err := ApplyFileConfig(cfg, fileValues); err != nil {
		return nil, fmt.Errorf("applying config file: %w", err)
	}

	// Switching network on the command line replaces the file's endpoints
	// and chain id with the new preset, unless they are also overridden.
	if f.changed("network") {
		if p, ok := LookupPreset(network); ok {
			cfg.ChainID = p.ChainID
			cfg.RPC.Endpoints = p.Endpoints
		}
	}

	ApplyFlags(cfg, f)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads config from defaults + conf file only (no CLI flags).
func LoadFromFile(path string) (*Config, error) {
	return Load(&Flags{Config: path})
}

// EnsureDataDirs creates the data directory and a default config file if
// they don't already exist. This is idempotent.
func EnsureDataDirs(cfg *Config) error {
	for _, dir := range []string{cfg.DataDir, cfg.LogsDir()} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	configPath := cfg.ConfigFile()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := WriteDefaultConfig(configPath, cfg.Network); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}
	}
	return nil
}
