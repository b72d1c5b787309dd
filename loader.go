package papertrade

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SaveLedger writes the ledger to path, replacing any previous content.
func SaveLedger(path string, l *Ledger) error {
	return writeFile(path, func(w io.Writer) error { return EncodeLedger(w, l) })
}

// LoadLedger reads the ledger saved at path.
//
// A missing, unreadable or invalid file is reported as an error wrapping
// ErrCorruptOrMissingState. Callers should then start a fresh ledger.
func LoadLedger(path string) (*Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptOrMissingState, err)
	}
	defer f.Close()

	l, err := DecodeLedger(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", path, err)
	}
	return l, nil
}

// SaveMarket writes the market to path, replacing any previous content.
func SaveMarket(path string, m *Market) error {
	return writeFile(path, func(w io.Writer) error { return EncodeMarket(w, m) })
}

// LoadMarket reads the market saved at path. Errors wrap ErrCorruptOrMissingState.
func LoadMarket(path string, opts ...MarketOption) (*Market, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptOrMissingState, err)
	}
	defer f.Close()

	m, err := DecodeMarket(bufio.NewReader(f), opts...)
	if err != nil {
		return nil, fmt.Errorf("could not decode market file %q: %w", path, err)
	}
	return m, nil
}

// writeFile encodes into a temporary file next to path, and renames it over
// path once fully written.
func writeFile(path string, encode func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create directory for %q: %w", path, err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary file for %q: %w", path, err)
	}
	tmp := f.Name()
	defer os.Remove(tmp) // no-op once renamed

	w := bufio.NewWriter(f)
	if err := encode(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("could not write %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("could not write %q: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("could not replace %q: %w", path, err)
	}
	return nil
}
