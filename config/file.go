package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Klingon-tech/ethwallet/internal/wallet"
)

// LoadFile loads configuration values from a .conf file. A missing file
// yields no values.
// Format: key = value (one per line, # for comments)
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse key = value
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	return values, scanner.Err()
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// setConfigValue sets a config value by key.
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	// Core
	case "network":
		cfg.Network = NetworkType(strings.ToLower(value))
	case "chain_id", "chainid":
		id, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		cfg.ChainID = id
	case "datadir":
		cfg.DataDir = value

	// RPC
	case "rpc.endpoints", "rpc":
		cfg.RPC.Endpoints = parseStringList(value)
	case "rpc.timeout":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.RPC.Timeout = n
	case "rpc.ratelimit":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.RPC.RateLimit = n

	// Wallet
	case "wallet.path":
		cfg.Wallet.Path = value
	case "wallet.wordlist":
		cfg.Wallet.Wordlist = strings.ToLower(value)
	case "wallet.entropy_bits":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Wallet.EntropyBits = n

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	default:
		// Unknown keys are ignored
	}
	return nil
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// parseStringList parses a comma-separated list.
func parseStringList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// WriteDefaultConfig writes a default configuration file.
func WriteDefaultConfig(path string, network NetworkType) error {
	cfg := Default(network)
	content := `# Ethereum HD Wallet Configuration
#
# Precedence: built-in network preset < this file < command-line flags.

# Network: mainnet, sepolia or custom
network = ` + string(cfg.Network) + `

# Chain id used for EIP-155 signing. Must match the network preset unless
# network = custom.
` + commentIfZero(cfg.ChainID == 0) + `chain_id = ` + strconv.FormatUint(cfg.ChainID, 10) + `

# Data directory (default: ~/.ethwallet)
# datadir = ~/.ethwallet

# ============================================================================
# RPC
# ============================================================================

# JSON-RPC endpoints, tried in order (comma-separated)
` + commentIfZero(len(cfg.RPC.Endpoints) == 0) + `rpc.endpoints = ` + strings.Join(cfg.RPC.Endpoints, ",") + `

# Per-request timeout in seconds
rpc.timeout = ` + strconv.Itoa(cfg.RPC.Timeout) + `

# Maximum requests per second (0 = unlimited)
rpc.ratelimit = ` + strconv.Itoa(cfg.RPC.RateLimit) + `

# ============================================================================
# Wallet
# ============================================================================

# Default derivation path
wallet.path = ` + cfg.Wallet.Path + `

# Mnemonic language: ` + strings.Join(wallet.Languages(), ", ") + `
wallet.wordlist = ` + cfg.Wallet.Wordlist + `

# Entropy for new mnemonics: 128, 160, 192, 224 or 256 bits
wallet.entropy_bits = ` + strconv.Itoa(cfg.Wallet.EntropyBits) + `

# ============================================================================
# Logging
# ============================================================================

log.level = ` + cfg.Log.Level + `
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0644)
}

func commentIfZero(zero bool) string {
	if zero {
		return "# "
	}
	return ""
}
