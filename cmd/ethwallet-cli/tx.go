package main

import (
	"encoding/json"
	"fmt"

	klog "github.com/Klingon-tech/ethwallet/internal/log"
	"github.com/Klingon-tech/ethwallet/internal/rpcclient"
	"github.com/Klingon-tech/ethwallet/internal/wallet"
	"github.com/Klingon-tech/ethwallet/pkg/tx"
	"github.com/Klingon-tech/ethwallet/pkg/types"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
)

// txFlags describe a transfer.
type txFlags struct {
	keyFlags

	to       string
	value    string
	gasPrice string
	gasLimit uint64
	nonce    uint64
	data     string
}

func (f *txFlags) register(cmd *cobra.Command) {
	f.keyFlags.register(cmd)
	cmd.Flags().StringVar(&f.to, "to", "", "Recipient address")
	cmd.Flags().StringVar(&f.value, "value", "0", "Amount in ether, e.g. 0.01")
	cmd.Flags().StringVar(&f.gasPrice, "gas-price", "", "Gas price in gwei")
	cmd.Flags().Uint64Var(&f.gasLimit, "gas-limit", 0, "Gas limit (default: intrinsic cost)")
	cmd.Flags().Uint64Var(&f.nonce, "nonce", 0, "Sender nonce")
	cmd.Flags().StringVar(&f.data, "data", "", "Call data as hex")
}

var (
	signFlags txFlags
	sendFlags txFlags
	dryRun    bool
	assumeYes bool
)

// signCmd signs a transaction offline.
var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign a transaction offline",
	Long: `Sign a legacy EIP-155 transaction without contacting a node. --nonce and
--gas-price are required; the chain id comes from the config.`,
	Args: cobra.NoArgs,
	Run:  doSignCmd,
}

// sendCmd signs and broadcasts a transaction.
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Sign and broadcast a transaction",
	Long: `Sign and broadcast a transfer. The nonce and gas price are fetched from the
node unless given, and the node's chain id must match the config. The
transaction is broadcast after a confirmation prompt unless --yes is set.`,
	Args: cobra.NoArgs,
	Run:  doSendCmd,
}

// decodeCmd decodes a signed raw transaction.
var decodeCmd = &cobra.Command{
	Use:   "decode <raw-tx-hex>",
	Short: "Decode a signed transaction and recover its sender",
	Args:  cobra.ExactArgs(1),
	Run:   doDecodeCmd,
}

// balanceCmd queries an address balance.
var balanceCmd = &cobra.Command{
	Use:   "balance <address>",
	Short: "Show the balance and nonce of an address",
	Args:  cobra.ExactArgs(1),
	Run:   doBalanceCmd,
}

func init() {
	signFlags.register(signCmd)
	sendFlags.register(sendCmd)
	sendCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Sign but do not broadcast")
	sendCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Broadcast without asking for confirmation")
}

func newClient() *rpcclient.Client {
	if err := cfg.RequireEndpoints(); err != nil {
		fatal("%v", err)
	}
	return rpcclient.New(cfg.RPC.Endpoints,
		rpcclient.WithTimeout(cfg.RPC.TimeoutDuration()),
		rpcclient.WithRateLimit(cfg.RPC.RateLimit),
	)
}

// builder fills a tx.Builder from the flags that do not need a node.
func (f *txFlags) builder() *tx.Builder {
	if f.to == "" {
		fatal("--to is required")
	}
	to, err := types.ParseAddress(f.to)
	if err != nil {
		fatal("recipient: %v", err)
	}
	value, err := types.ParseEther(f.value)
	if err != nil {
		fatal("value: %v", err)
	}

	b := tx.NewBuilder(cfg.ChainID).SetTo(to).SetValue(value)
	if f.gasLimit != 0 {
		b.SetGasLimit(f.gasLimit)
	}
	if f.data != "" {
		data, err := decodeHex(f.data)
		if err != nil {
			fatal("data: %v", err)
		}
		b.SetData(data)
	}
	return b
}

func parseGasPrice(s string) *uint256.Int {
	price, err := types.ParseGwei(s)
	if err != nil {
		fatal("gas price: %v", err)
	}
	return price
}

// account derives the sending account at the configured path.
func (f *txFlags) account() *wallet.Account {
	master := f.masterKey()
	defer master.Zero()
	acct, err := wallet.DeriveAccount(master, derivationPath())
	if err != nil {
		fatal("derive: %v", err)
	}
	klog.Wallet.Debug().Str("path", acct.Path.String()).Str("address", acct.Address.String()).Msg("Derived account")
	return acct
}

func printSigned(signed *tx.SignedTransaction) {
	fmt.Printf("Hash: %s\n", signed.Hash())
	fmt.Printf("Raw:  %s\n", signed.RawHex())
}

func doSignCmd(cmd *cobra.Command, args []string) {
	if !cmd.Flags().Changed("nonce") || signFlags.gasPrice == "" {
		fatal("--nonce and --gas-price are required for offline signing")
	}
	b := signFlags.builder().
		SetNonce(signFlags.nonce).
		SetGasPrice(parseGasPrice(signFlags.gasPrice))

	acct := signFlags.account()
	defer acct.Zero()
	key, err := acct.Signer()
	if err != nil {
		fatal("signer: %v", err)
	}
	defer key.Zero()

	signed, err := b.Sign(key)
	if err != nil {
		fatal("sign: %v", err)
	}
	klog.Tx.Debug().Str("from", acct.Address.String()).Str("hash", signed.Hash().Hex()).Msg("Signed transaction")

	fmt.Printf("From: %s\n", acct.Address)
	printSigned(signed)
}

func doSendCmd(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	b := sendFlags.builder()

	acct := sendFlags.account()
	defer acct.Zero()

	client := newClient()
	chainID, err := client.ChainID(ctx)
	if err != nil {
		fatal("eth_chainId: %v", err)
	}
	if chainID != cfg.ChainID {
		fatal("node chain id %d does not match configured chain id %d", chainID, cfg.ChainID)
	}

	nonce := sendFlags.nonce
	if !cmd.Flags().Changed("nonce") {
		if nonce, err = client.Nonce(ctx, acct.Address); err != nil {
			fatal("eth_getTransactionCount: %v", err)
		}
	}
	var price *uint256.Int
	if sendFlags.gasPrice != "" {
		price = parseGasPrice(sendFlags.gasPrice)
	} else if price, err = client.GasPrice(ctx); err != nil {
		fatal("eth_gasPrice: %v", err)
	}
	b.SetNonce(nonce).SetGasPrice(price)

	t, err := b.Build()
	if err != nil {
		fatal("build: %v", err)
	}
	cost, err := t.Cost()
	if err != nil {
		fatal("cost: %v", err)
	}
	wei, err := client.Balance(ctx, acct.Address)
	if err != nil {
		fatal("eth_getBalance: %v", err)
	}
	bal := wallet.Balance{Address: acct.Address, Wei: wei}
	if !bal.Covers(cost) {
		fatal("insufficient funds: balance %s ETH, need %s ETH", bal.Ether(), types.FormatEther(cost))
	}

	key, err := acct.Signer()
	if err != nil {
		fatal("signer: %v", err)
	}
	defer key.Zero()
	signed, err := tx.SignWith(t, key)
	if err != nil {
		fatal("sign: %v", err)
	}

	fmt.Printf("From:      %s\n", acct.Address)
	fmt.Printf("To:        %s\n", t.To)
	fmt.Printf("Value:     %s ETH\n", types.FormatEther(t.Value))
	fmt.Printf("Nonce:     %d\n", t.Nonce)
	fmt.Printf("Gas:       %d @ %s gwei\n", t.GasLimit, types.FormatGwei(t.GasPrice))
	if dryRun {
		printSigned(signed)
		return
	}
	if !assumeYes {
		ok, err := confirm("Broadcast this transaction?")
		if err != nil {
			fatal("read confirmation: %v", err)
		}
		if !ok {
			fmt.Println("Aborted.")
			return
		}
	}

	txLog := klog.WithChainID(klog.Tx, t.ChainID)
	hash, err := client.SendRawTransaction(ctx, signed.RawHex())
	if err != nil {
		fatal("eth_sendRawTransaction: %v", err)
	}
	txLog.Info().
		Str("hash", hash.Hex()).
		Uint64("nonce", t.Nonce).
		Msg("Transaction broadcast")
	if hash != signed.Hash() {
		txLog.Warn().Str("local", signed.Hash().Hex()).Str("node", hash.Hex()).Msg("Node returned a different transaction hash")
	}
	fmt.Printf("Tx hash:   %s\n", hash)
}

func doDecodeCmd(cmd *cobra.Command, args []string) {
	signed, err := tx.DecodeHex(args[0])
	if err != nil {
		fatal("decode: %v", err)
	}
	out, err := json.MarshalIndent(signed, "", "  ")
	if err != nil {
		fatal("encode json: %v", err)
	}
	fmt.Println(string(out))

	from, err := signed.Sender()
	if err != nil {
		fatal("recover sender: %v", err)
	}
	fmt.Printf("From: %s\n", from)
	fmt.Printf("Hash: %s\n", signed.Hash())
}

func doBalanceCmd(cmd *cobra.Command, args []string) {
	addr, err := types.ParseAddress(args[0])
	if err != nil {
		fatal("address: %v", err)
	}
	client := newClient()
	wei, err := client.Balance(cmd.Context(), addr)
	if err != nil {
		fatal("eth_getBalance: %v", err)
	}
	nonce, err := client.Nonce(cmd.Context(), addr)
	if err != nil {
		fatal("eth_getTransactionCount: %v", err)
	}
	bal := wallet.Balance{Address: addr, Wei: wei}

	fmt.Printf("Address: %s\n", bal.Address)
	fmt.Printf("Balance: %s ETH\n", bal.Ether())
	fmt.Printf("Wei:     %s\n", bal.Wei.Dec())
	fmt.Printf("Nonce:   %d\n", nonce)
}
