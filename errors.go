package papertrade

import "errors"

// Errors reported by the Ledger and the codecs. They are wrapped with
// context, test them with errors.Is.
var (
	// ErrInvalidQuantity is returned when an order quantity is not strictly positive.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrUnknownInstrument is returned when an instrument is not in the market.
	ErrUnknownInstrument = errors.New("unknown instrument")
	// ErrInsufficientFunds is returned when a buy costs more than the available cash.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInsufficientShares is returned when a sell exceeds the held quantity.
	ErrInsufficientShares = errors.New("insufficient shares")
	// ErrCorruptOrMissingState is returned when persisted state cannot be
	// loaded. Callers start from a fresh state instead.
	ErrCorruptOrMissingState = errors.New("corrupt or missing state")
)
