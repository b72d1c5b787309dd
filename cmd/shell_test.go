package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestShell(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer
	s := testSession(t, cfg, &out)

	input := strings.Join([]string{
		"1",
		"2", "tcs", "10",
		"buy", "AAPL",
		"2", "INFY", "lots",
		"3", "INFY",
		"3", "TCS", "4",
		"sell", "TCS", "100",
		"4",
		"5",
		"6",
		"7", "2",
		"7", "0",
		"9",
		"q",
	}, "\n") + "\n"

	if err := s.shell(strings.NewReader(input)); err != nil {
		t.Fatalf("shell: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"# Market",
		"Bought 10 TCS at ",
		"Unknown ticker.",
		"Invalid number entered.",
		"You have no holdings of INFY",
		"Sold 4 TCS at ",
		"Trade failed: ",
		"# Portfolio",
		"# Trade History",
		"# Portfolio Snapshots",
		"Enter a sensible volatility (0 - 1).",
		"Market advanced.",
		"Unknown command.",
		"Goodbye, portfolio saved.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("shell output is missing %q", want)
		}
	}

	again := testSession(t, cfg, nil)
	h, ok := again.ledger.Holding("TCS")
	if !ok || h.Quantity != 6 {
		t.Errorf("saved holding = %v, %v, want 6 TCS", h, ok)
	}
	if got := len(again.ledger.Snapshots()); got != 3 {
		t.Errorf("saved %d snapshots, want 3", got)
	}
}

func TestShell_EndOfInput(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer
	s := testSession(t, cfg, &out)

	if err := s.shell(strings.NewReader("2\nLT\n1\n")); err != nil {
		t.Fatalf("shell: %v", err)
	}
	if !strings.Contains(out.String(), "Goodbye, portfolio saved.") {
		t.Error("shell did not save at the end of the input")
	}
	again := testSession(t, cfg, nil)
	if _, ok := again.ledger.Holding("LT"); !ok {
		t.Error("trade before the end of the input was not saved")
	}
}

func TestShell_Save(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer
	s := testSession(t, cfg, &out)

	if err := s.shell(strings.NewReader("8\nq\n")); err != nil {
		t.Fatalf("shell: %v", err)
	}
	if !strings.Contains(out.String(), "Saved to "+cfg.LedgerFile) {
		t.Errorf("shell output = %q, want a saved notice", out.String())
	}
}
