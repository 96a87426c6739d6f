package main

import (
	"fmt"

	"github.com/Klingon-tech/ethwallet/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or initialize configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the data directory and a default config file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := config.EnsureDataDirs(cfg); err != nil {
			fatal("%v", err)
		}
		fmt.Printf("Config: %s\n", cfg.ConfigFile())
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("network        = %s\n", cfg.Network)
		fmt.Printf("chain_id       = %d\n", cfg.ChainID)
		fmt.Printf("datadir        = %s\n", cfg.DataDir)
		for i, ep := range cfg.RPC.Endpoints {
			fmt.Printf("rpc.endpoints[%d] = %s\n", i, ep)
		}
		fmt.Printf("rpc.timeout    = %d\n", cfg.RPC.Timeout)
		fmt.Printf("rpc.ratelimit  = %d\n", cfg.RPC.RateLimit)
		fmt.Printf("wallet.path    = %s\n", cfg.Wallet.Path)
		fmt.Printf("wallet.wordlist = %s\n", cfg.Wallet.Wordlist)
		fmt.Printf("wallet.entropy_bits = %d\n", cfg.Wallet.EntropyBits)
		fmt.Printf("log.level      = %s\n", cfg.Log.Level)
	},
}

var configCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a config file without command-line overrides",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := config.LoadFromFile(args[0])
		if err != nil {
			fatal("%v", err)
		}
		fmt.Printf("%s: ok (network %s, chain id %d, %d endpoints)\n",
			args[0], c.Network, c.ChainID, len(c.RPC.Endpoints))
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configCheckCmd)
}
