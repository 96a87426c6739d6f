package wallet

import "errors"

// Mnemonic errors.
var (
	ErrInvalidEntropyLength = errors.New("invalid entropy length")
	ErrInvalidWordCount     = errors.New("invalid mnemonic word count")
	ErrInvalidWord          = errors.New("word not in wordlist")
	ErrInvalidChecksum      = errors.New("invalid mnemonic checksum")
	ErrInvalidWordlist      = errors.New("invalid wordlist")
)

// Key derivation errors.
var (
	ErrInvalidSeedLength = errors.New("invalid seed length")
	ErrInvalidMasterKey  = errors.New("invalid master key")
	ErrInvalidChildKey   = errors.New("invalid child key")
	ErrMaxDepth          = errors.New("maximum derivation depth exceeded")
	ErrPublicKeyOnly     = errors.New("extended public keys are not supported")
	ErrInvalidExtKey     = errors.New("invalid extended key")
	ErrZeroKey           = errors.New("extended key has no private key")
)

// Derivation path errors.
var (
	ErrInvalidPathSyntax = errors.New("invalid derivation path syntax")
	ErrIndexOutOfRange   = errors.New("derivation index out of range")
)
