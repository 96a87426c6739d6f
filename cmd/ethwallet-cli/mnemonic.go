package main

import (
	"fmt"
	"strings"

	klog "github.com/Klingon-tech/ethwallet/internal/log"
	"github.com/Klingon-tech/ethwallet/internal/wallet"
	"github.com/spf13/cobra"
)

var mnemonicWords int

// mnemonicCmd groups mnemonic generation and validation.
var mnemonicCmd = &cobra.Command{
	Use:   "mnemonic",
	Short: "Generate and check BIP-39 mnemonics",
}

var mnemonicNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate a new mnemonic",
	Long: `Generate a new mnemonic from the system random source. The size comes from
--words, or from wallet.entropy_bits in the config (24 words by default).`,
	Args: cobra.NoArgs,
	Run:  doMnemonicNewCmd,
}

var mnemonicCheckCmd = &cobra.Command{
	Use:   "check [words...]",
	Short: "Validate a mnemonic's words and checksum",
	Run:   doMnemonicCheckCmd,
}

func init() {
	mnemonicNewCmd.Flags().IntVar(&mnemonicWords, "words", 0, "Word count: 12, 15, 18, 21 or 24")
	mnemonicCmd.AddCommand(mnemonicNewCmd)
	mnemonicCmd.AddCommand(mnemonicCheckCmd)
}

// entropyBitsForWords converts a mnemonic length to its entropy size.
func entropyBitsForWords(words int) (int, error) {
	if words%3 != 0 {
		return 0, fmt.Errorf("%w: %d", wallet.ErrInvalidWordCount, words)
	}
	bits := words / 3 * 32
	if err := wallet.CheckEntropyBits(bits); err != nil {
		return 0, fmt.Errorf("%w: %d", wallet.ErrInvalidWordCount, words)
	}
	return bits, nil
}

func doMnemonicNewCmd(cmd *cobra.Command, args []string) {
	bits := cfg.Wallet.EntropyBits
	if mnemonicWords != 0 {
		var err error
		if bits, err = entropyBitsForWords(mnemonicWords); err != nil {
			fatal("%v", err)
		}
	}

	wl, err := wallet.WordlistByName(cfg.Wallet.Wordlist)
	if err != nil {
		fatal("wordlist: %v", err)
	}
	m, err := wallet.NewMnemonic(bits, wl)
	if err != nil {
		fatal("generate mnemonic: %v", err)
	}
	klog.CLI.Debug().Int("words", m.Len()).Str("wordlist", cfg.Wallet.Wordlist).Msg("Generated mnemonic")

	fmt.Fprintln(cmd.ErrOrStderr(), "Mnemonic (write this down!):")
	fmt.Println(m.String())
}

func doMnemonicCheckCmd(cmd *cobra.Command, args []string) {
	text := strings.Join(args, " ")
	if text == "" {
		b, err := readSecret("Enter mnemonic: ")
		if err != nil {
			fatal("read mnemonic: %v", err)
		}
		text = string(b)
		defer zeroBytes(b)
	}

	wl, err := wallet.WordlistByName(cfg.Wallet.Wordlist)
	if err != nil {
		fatal("wordlist: %v", err)
	}
	if err := wallet.ValidateMnemonic(text, wl); err != nil {
		fatal("invalid mnemonic: %v", err)
	}

	m := wallet.ParseMnemonic(text)
	fmt.Printf("Valid mnemonic: %d words, %d bits of entropy\n", m.Len(), m.Len()/3*32)
}
