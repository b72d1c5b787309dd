// Package papertrade simulates a single trading account against a synthetic
// market. It is local-first: the whole state lives in two human-readable
// JSONL files.
//
// The core functionalities include:
//   - Market: the instruments and their current prices, moved by a random
//     walk with Advance.
//   - Ledger: the account itself, a cash balance, weighted-average cost
//     holdings, an append-only trade log and an append-only snapshot history.
//   - Persistence: EncodeLedger and DecodeLedger define a versioned file
//     format, SaveLedger and LoadLedger replace and read whole files.
//   - Reports: valuations of the ledger and its history at current prices.
//
// This package serves as the foundational logic for the `pts` command-line
// tool.
package papertrade
