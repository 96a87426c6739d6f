package main

import (
	"encoding/hex"
	"fmt"

	klog "github.com/Klingon-tech/ethwallet/internal/log"
	"github.com/Klingon-tech/ethwallet/internal/wallet"
	"github.com/Klingon-tech/ethwallet/pkg/crypto"
	"github.com/Klingon-tech/ethwallet/pkg/types"
	"github.com/spf13/cobra"
)

var (
	seedFlags   keyFlags
	deriveFlags keyFlags

	deriveCount uint32
)

// seedCmd shows the master key of a mnemonic.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Show the master key fingerprint and xpub of a mnemonic",
	Long: `Show the BIP-32 master key fingerprint and extended public key of a
mnemonic. The seed and xprv are printed only with --show-private.`,
	Args: cobra.NoArgs,
	Run:  doSeedCmd,
}

// deriveCmd derives accounts at the configured path.
var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive accounts from a mnemonic",
	Long: `Derive accounts at --path (default m/44'/60'/0'/0/0). With --count N the
last path segment is the first of N consecutive indices.`,
	Args: cobra.NoArgs,
	Run:  doDeriveCmd,
}

// addressCmd computes an address from a key.
var addressCmd = &cobra.Command{
	Use:   "address <public-key-hex>",
	Short: "Compute the address of a public key",
	Long: `Compute the EIP-55 address of a public key in compressed (33 byte),
uncompressed (65 byte) or raw X||Y (64 byte) hex form.`,
	Args: cobra.ExactArgs(1),
	Run:  doAddressCmd,
}

// checksumCmd re-cases an address in EIP-55 form.
var checksumCmd = &cobra.Command{
	Use:   "checksum <address>",
	Short: "Print the EIP-55 checksummed form of an address",
	Args:  cobra.ExactArgs(1),
	Run:   doChecksumCmd,
}

func init() {
	seedFlags.register(seedCmd)
	deriveFlags.register(deriveCmd)
	deriveCmd.Flags().Uint32Var(&deriveCount, "count", 1, "Number of consecutive accounts")
}

func doSeedCmd(cmd *cobra.Command, args []string) {
	seed := seedFlags.seed()
	defer zeroBytes(seed)

	master, err := wallet.NewMasterKey(seed)
	if err != nil {
		fatal("master key: %v", err)
	}
	defer master.Zero()

	fp := master.Fingerprint()
	fmt.Printf("Fingerprint: %s\n", hex.EncodeToString(fp[:]))
	fmt.Printf("xpub:        %s\n", master.PublicString())
	if seedFlags.showPrivate {
		fmt.Printf("Seed:        %s\n", hex.EncodeToString(seed))
		fmt.Printf("xprv:        %s\n", master.String())
	}
}

// accountRange splits path into a base and a start index for count accounts.
func accountRange(path wallet.DerivationPath, count uint32) (wallet.DerivationPath, uint32, error) {
	if len(path) == 0 {
		return nil, 0, fmt.Errorf("path %s has no index to iterate", path)
	}
	if count == 0 {
		return nil, 0, fmt.Errorf("count must be at least 1")
	}
	start := path[len(path)-1]
	limit := uint64(wallet.HardenedOffset)
	if start >= wallet.HardenedOffset {
		limit = 1 << 32
	}
	if uint64(start)+uint64(count) > limit {
		return nil, 0, fmt.Errorf("%w: %d accounts from %s", wallet.ErrIndexOutOfRange, count, path)
	}
	return path[:len(path)-1], start, nil
}

func doDeriveCmd(cmd *cobra.Command, args []string) {
	base, start, err := accountRange(derivationPath(), deriveCount)
	if err != nil {
		fatal("%v", err)
	}

	master := deriveFlags.masterKey()
	defer master.Zero()

	accounts, err := wallet.DeriveAccounts(master, base, start, deriveCount)
	if err != nil {
		fatal("derive: %v", err)
	}

	for i, acct := range accounts {
		if i > 0 {
			fmt.Println()
		}
		klog.Wallet.Debug().Str("path", acct.Path.String()).Str("address", acct.Address.String()).Msg("Derived account")
		fmt.Printf("Path:       %s\n", acct.Path)
		fmt.Printf("Address:    %s\n", acct.Address)
		fmt.Printf("Public key: 0x%s\n", hex.EncodeToString(acct.PublicKey))
		if deriveFlags.showPrivate {
			fmt.Printf("Private:    0x%s\n", hex.EncodeToString(acct.PrivateKey))
		}
		acct.Zero()
	}
}

func doAddressCmd(cmd *cobra.Command, args []string) {
	pub, err := decodeHex(args[0])
	if err != nil {
		fatal("public key: %v", err)
	}
	addr, err := crypto.PubkeyToAddress(pub)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Println(addr.Checksum())
}

func doChecksumCmd(cmd *cobra.Command, args []string) {
	sum, err := types.ToChecksumAddress(args[0])
	if err != nil {
		fatal("%v", err)
	}
	fmt.Println(sum)
	if _, err := types.ParseAddress(args[0]); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: input has an invalid checksum: %v\n", err)
	}
}
