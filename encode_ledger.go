package papertrade

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

const (
	ledgerFormat  = "papertrade/ledger"
	ledgerVersion = 1

	// maxLineSize bounds a single JSONL line; snapshots of large portfolios
	// are the longest lines.
	maxLineSize = 16 << 20
)

// ledgerHeader is the first line of a ledger file.
type ledgerHeader struct {
	Format   string `json:"format"`
	Version  int    `json:"version"`
	Currency string `json:"currency"`
	Cash     Money  `json:"cash"`
}

// jholding is the decoded form of a holding, before validation.
type jholding struct {
	Instrument  string   `json:"instrument"`
	Quantity    Quantity `json:"quantity"`
	AverageCost Money    `json:"averageCost"`
}

func (j jholding) holding(currency string) (Holding, error) {
	h := Holding{Instrument: NormalizeID(j.Instrument), Quantity: j.Quantity, AverageCost: j.AverageCost.In(currency)}
	switch {
	case h.Instrument == "":
		return h, errors.New("holding without instrument")
	case !h.Quantity.IsPositive():
		return h, fmt.Errorf("holding %s: quantity must be positive, got %v", h.Instrument, h.Quantity)
	case h.AverageCost.IsNegative():
		return h, fmt.Errorf("holding %s: average cost must not be negative, got %v", h.Instrument, h.AverageCost)
	}
	return h, nil
}

// EncodeLedger writes the whole ledger to w in JSONL format: a header line,
// the holdings sorted by instrument, the trades and the snapshots in
// chronological order.
func EncodeLedger(w io.Writer, l *Ledger) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	header := ledgerHeader{Format: ledgerFormat, Version: ledgerVersion, Currency: l.cash.cur, Cash: l.cash}
	if err := encodeLine(enc, CmdInit, header); err != nil {
		return fmt.Errorf("failed to write ledger header: %w", err)
	}
	for h := range sortedHoldings(l.holdings) {
		if err := encodeLine(enc, CmdHolding, h); err != nil {
			return fmt.Errorf("failed to write holding %s: %w", h.Instrument, err)
		}
	}
	for _, tx := range l.trades {
		cmd := CmdBuy
		if tx.Side == SideSell {
			cmd = CmdSell
		}
		if err := encodeLine(enc, cmd, tx); err != nil {
			return fmt.Errorf("failed to write trade %s: %w", tx.ID, err)
		}
	}
	for _, s := range l.snapshots {
		if err := encodeLine(enc, CmdSnapshot, s); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
	}
	return nil
}

// DecodeLedger reads a ledger written by EncodeLedger.
//
// Any structural problem is reported as an error wrapping
// ErrCorruptOrMissingState; a partially valid ledger is never returned.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	l, err := decodeLedger(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptOrMissingState, err)
	}
	return l, nil
}

func decodeLedger(r io.Reader) (*Ledger, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64<<10), maxLineSize)

	var l *Ledger
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Command CommandType `json:"command"`
		}
		if err := json.Unmarshal(line, &identifier); err != nil {
			return nil, fmt.Errorf("line %d: could not identify command: %w", lineNo, err)
		}
		if (l == nil) != (identifier.Command == CmdInit) {
			if l == nil {
				return nil, fmt.Errorf("line %d: expected %q header, got %q", lineNo, CmdInit, identifier.Command)
			}
			return nil, fmt.Errorf("line %d: duplicate %q header", lineNo, CmdInit)
		}

		var err error
		switch identifier.Command {
		case CmdInit:
			l, err = decodeHeader(line)
		case CmdHolding:
			err = l.decodeHolding(line)
		case CmdBuy, CmdSell:
			err = l.decodeTrade(identifier.Command, line)
		case CmdSnapshot:
			err = l.decodeSnapshot(line)
		default:
			err = fmt.Errorf("unknown command: %q", identifier.Command)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}

	if l == nil {
		return nil, errors.New("empty ledger")
	}
	if len(l.snapshots) == 0 {
		return nil, errors.New("ledger has no snapshot")
	}
	if err := l.checkHistory(); err != nil {
		return nil, err
	}
	last := l.snapshots[len(l.snapshots)-1]
	if !last.Cash.Equal(l.cash) || !sameHoldings(last.Holdings, l.holdings) {
		return nil, errors.New("last snapshot does not match cash and holdings")
	}
	return l, nil
}

// checkHistory verifies that the snapshots are the initial one followed by
// one per trade, each obtained by applying the trade to the previous one.
func (l *Ledger) checkHistory() error {
	if len(l.snapshots) != len(l.trades)+1 {
		return fmt.Errorf("%d snapshots for %d trades, want %d", len(l.snapshots), len(l.trades), len(l.trades)+1)
	}
	ids := make(map[uuid.UUID]bool, len(l.trades))
	for i, tx := range l.trades {
		if ids[tx.ID] {
			return fmt.Errorf("duplicate trade %s", tx.ID)
		}
		ids[tx.ID] = true

		prev, next := l.snapshots[i], l.snapshots[i+1]
		if tx.Time.Before(prev.Time) {
			return fmt.Errorf("trade %s is older than the previous snapshot", tx.ID)
		}
		if !next.Time.Equal(tx.Time) {
			return fmt.Errorf("trade %s at %s but snapshot %d at %s", tx.ID, tx.Time.Format(timeLayout), i+1, next.Time.Format(timeLayout))
		}
		want, err := prev.apply(tx)
		if err != nil {
			return fmt.Errorf("trade %s: %w", tx.ID, err)
		}
		if !want.Equal(next) {
			return fmt.Errorf("snapshot %d does not match trade %s", i+1, tx.ID)
		}
	}
	return nil
}

func decodeHeader(line []byte) (*Ledger, error) {
	var h ledgerHeader
	if err := json.Unmarshal(line, &h); err != nil {
		return nil, fmt.Errorf("invalid header: %w", err)
	}
	if h.Format != ledgerFormat {
		return nil, fmt.Errorf("unknown format %q", h.Format)
	}
	if h.Version != ledgerVersion {
		return nil, fmt.Errorf("unsupported version %d", h.Version)
	}
	if h.Cash.IsNegative() {
		return nil, fmt.Errorf("cash must not be negative, got %v", h.Cash)
	}
	return newLedger(h.Cash.In(h.Currency)), nil
}

func (l *Ledger) decodeHolding(line []byte) error {
	var j jholding
	if err := json.Unmarshal(line, &j); err != nil {
		return err
	}
	h, err := j.holding(l.cash.cur)
	if err != nil {
		return err
	}
	if _, exists := l.holdings[h.Instrument]; exists {
		return fmt.Errorf("duplicate holding %s", h.Instrument)
	}
	l.holdings[h.Instrument] = h
	return nil
}

func (l *Ledger) decodeTrade(cmd CommandType, line []byte) error {
	var temp struct {
		ID         uuid.UUID `json:"id"`
		Side       string    `json:"side"`
		Instrument string    `json:"instrument"`
		Quantity   Quantity  `json:"quantity"`
		Price      Money     `json:"price"`
		Time       time.Time `json:"time"`
	}
	if err := json.Unmarshal(line, &temp); err != nil {
		return err
	}
	side, err := ParseSide(temp.Side)
	if err != nil {
		return err
	}
	if (side == SideBuy) != (cmd == CmdBuy) {
		return fmt.Errorf("%q line with side %s", cmd, side)
	}
	tx := Trade{
		ID:         temp.ID,
		Side:       side,
		Instrument: NormalizeID(temp.Instrument),
		Quantity:   temp.Quantity,
		Price:      temp.Price.In(l.cash.cur),
		Time:       temp.Time,
	}
	switch {
	case tx.ID == uuid.Nil:
		return errors.New("trade without id")
	case tx.Instrument == "":
		return errors.New("trade without instrument")
	case !tx.Quantity.IsPositive():
		return fmt.Errorf("trade %s: quantity must be positive, got %v", tx.ID, tx.Quantity)
	case !tx.Price.IsPositive():
		return fmt.Errorf("trade %s: price must be positive, got %v", tx.ID, tx.Price)
	case tx.Time.IsZero():
		return fmt.Errorf("trade %s: missing time", tx.ID)
	}
	l.trades = append(l.trades, tx)
	return nil
}

func (l *Ledger) decodeSnapshot(line []byte) error {
	var temp struct {
		Time     time.Time  `json:"time"`
		Cash     Money      `json:"cash"`
		Holdings []jholding `json:"holdings"`
	}
	if err := json.Unmarshal(line, &temp); err != nil {
		return err
	}
	if temp.Time.IsZero() {
		return errors.New("snapshot: missing time")
	}
	if temp.Cash.IsNegative() {
		return fmt.Errorf("snapshot: cash must not be negative, got %v", temp.Cash)
	}
	s := Snapshot{Time: temp.Time, Cash: temp.Cash.In(l.cash.cur), Holdings: make(map[string]Holding, len(temp.Holdings))}
	for _, j := range temp.Holdings {
		h, err := j.holding(l.cash.cur)
		if err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
		if _, exists := s.Holdings[h.Instrument]; exists {
			return fmt.Errorf("snapshot: duplicate holding %s", h.Instrument)
		}
		s.Holdings[h.Instrument] = h
	}
	l.snapshots = append(l.snapshots, s)
	return nil
}
