// ethwallet-cli derives Ethereum keys from BIP-39 mnemonics and signs and
// broadcasts legacy EIP-155 transactions.
package main

import (
	"fmt"
	"os"

	"github.com/Klingon-tech/ethwallet/config"
	klog "github.com/Klingon-tech/ethwallet/internal/log"
	"github.com/spf13/cobra"
)

var (
	flags *config.Flags
	cfg   *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ethwallet-cli",
	Short: "Ethereum HD wallet",
	Long: `Ethereum HD wallet: BIP-39 mnemonics, BIP-32/44 key derivation,
EIP-55 addresses and EIP-155 signed transactions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(flags)
		if err != nil {
			return err
		}
		if err := klog.Init(c.Log.Level, c.Log.JSON, c.Log.File); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		cfg = c
		klog.CLI.Debug().
			Str("network", string(c.Network)).
			Uint64("chain_id", c.ChainID).
			Int("endpoints", len(c.RPC.Endpoints)).
			Msg("Loaded config")
		return nil
	},
}

func init() {
	flags = config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(mnemonicCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(deriveCmd)
	rootCmd.AddCommand(addressCmd)
	rootCmd.AddCommand(checksumCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
