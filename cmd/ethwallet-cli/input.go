package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	klog "github.com/Klingon-tech/ethwallet/internal/log"
	"github.com/Klingon-tech/ethwallet/internal/wallet"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// keyFlags are shared by every command that derives keys from a mnemonic.
type keyFlags struct {
	mnemonic      string
	passphrase    string
	askPassphrase bool
	showPrivate   bool
}

func (k *keyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&k.mnemonic, "mnemonic", "", "BIP-39 mnemonic (prompted when omitted)")
	cmd.Flags().StringVar(&k.passphrase, "passphrase", "", "BIP-39 passphrase")
	cmd.Flags().BoolVar(&k.askPassphrase, "ask-passphrase", false, "Prompt for the BIP-39 passphrase")
	cmd.Flags().BoolVar(&k.showPrivate, "show-private", false, "Print private key material")
}

// derivationPath returns the configured path (wallet.path or --path).
func derivationPath() wallet.DerivationPath {
	p, err := wallet.ParseDerivationPath(cfg.Wallet.Path)
	if err != nil {
		fatal("derivation path: %v", err)
	}
	return p
}

// seed reads the mnemonic and passphrase and returns the BIP-39 seed.
func (k *keyFlags) seed() []byte {
	wl, err := wallet.WordlistByName(cfg.Wallet.Wordlist)
	if err != nil {
		fatal("wordlist: %v", err)
	}

	mnemonic := k.mnemonic
	if mnemonic == "" {
		b, err := readSecret("Enter mnemonic: ")
		if err != nil {
			fatal("read mnemonic: %v", err)
		}
		mnemonic = string(b)
	}

	passphrase := k.passphrase
	if k.askPassphrase {
		b, err := readSecret("Enter passphrase: ")
		if err != nil {
			fatal("read passphrase: %v", err)
		}
		passphrase = string(b)
	}

	done := klog.Benchmark("seed derivation")
	seed, err := wallet.SeedFromMnemonic(mnemonic, passphrase, wl)
	done()
	if err != nil {
		fatal("mnemonic: %v", err)
	}
	return seed
}

// masterKey reads the mnemonic and passphrase and returns the master key.
func (k *keyFlags) masterKey() wallet.ExtendedKey {
	seed := k.seed()
	defer zeroBytes(seed)

	master, err := wallet.NewMasterKey(seed)
	if err != nil {
		fatal("master key: %v", err)
	}
	return master
}

// stdin buffers piped input across prompts, so a mnemonic and passphrase
// can arrive on consecutive lines of the same pipe.
var (
	stdinBuf  *bufio.Reader
	stdinFile *os.File
)

func stdinReader() *bufio.Reader {
	if stdinBuf == nil || stdinFile != os.Stdin {
		stdinFile = os.Stdin
		stdinBuf = bufio.NewReader(os.Stdin)
	}
	return stdinBuf
}

// readLine reads one line from stdin without its line ending.
func readLine() (string, error) {
	line, err := stdinReader().ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readSecret prompts on stderr and reads a line without echo when stdin is
// a terminal, or a plain line when input is piped.
func readSecret(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := readLine()
		if err != nil {
			return nil, err
		}
		return []byte(line), nil
	}

	fmt.Fprint(os.Stderr, prompt)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return secret, nil
}

// confirm asks a yes/no question on stderr. Anything but y or yes is no.
func confirm(prompt string) (bool, error) {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", prompt)
	answer, err := readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// decodeHex decodes a hex string with or without 0x.
func decodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return hex.DecodeString(s)
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ── Error helper ────────────────────────────────────────────────────────

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
