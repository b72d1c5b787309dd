package papertrade

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const (
	marketFormat  = "papertrade/market"
	marketVersion = 1
)

type marketHeader struct {
	Format  string `json:"format"`
	Version int    `json:"version"`
}

// EncodeMarket writes the instruments and their current prices to w in
// JSONL format, in insertion order.
func EncodeMarket(w io.Writer, m *Market) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := encodeLine(enc, CmdInit, marketHeader{Format: marketFormat, Version: marketVersion}); err != nil {
		return fmt.Errorf("failed to write market header: %w", err)
	}
	for ins := range m.All() {
		if err := encodeLine(enc, CmdInstrument, ins); err != nil {
			return fmt.Errorf("failed to write instrument %s: %w", ins.ID, err)
		}
	}
	return nil
}

// DecodeMarket reads a market written by EncodeMarket. Errors wrap
// ErrCorruptOrMissingState.
func DecodeMarket(r io.Reader, opts ...MarketOption) (*Market, error) {
	m, err := decodeMarket(r, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptOrMissingState, err)
	}
	return m, nil
}

func decodeMarket(r io.Reader, opts ...MarketOption) (*Market, error) {
	scanner := bufio.NewScanner(r)
	var m *Market
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var identifier struct {
			Command CommandType `json:"command"`
		}
		if err := json.Unmarshal(line, &identifier); err != nil {
			return nil, fmt.Errorf("line %d: could not identify command: %w", lineNo, err)
		}

		switch identifier.Command {
		case CmdInit:
			if m != nil {
				return nil, fmt.Errorf("line %d: duplicate %q header", lineNo, CmdInit)
			}
			var h marketHeader
			if err := json.Unmarshal(line, &h); err != nil {
				return nil, fmt.Errorf("line %d: invalid header: %w", lineNo, err)
			}
			if h.Format != marketFormat || h.Version != marketVersion {
				return nil, fmt.Errorf("line %d: unsupported format %q version %d", lineNo, h.Format, h.Version)
			}
			m = NewMarket(opts...)
		case CmdInstrument:
			if m == nil {
				return nil, fmt.Errorf("line %d: expected %q header", lineNo, CmdInit)
			}
			var js struct {
				ID    string `json:"id"`
				Name  string `json:"name"`
				Price Money  `json:"price"`
			}
			if err := json.Unmarshal(line, &js); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if m.Has(js.ID) {
				return nil, fmt.Errorf("line %d: instrument %q is already defined", lineNo, js.ID)
			}
			if err := m.Add(js.ID, js.Name, js.Price); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		default:
			return nil, fmt.Errorf("line %d: unknown command: %q", lineNo, identifier.Command)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	if m == nil {
		return nil, errors.New("empty market")
	}
	return m, nil
}
