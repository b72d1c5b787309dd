package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/papertrade"
	"github.com/etnz/papertrade/renderer"
	"github.com/google/subcommands"
)

type holdingCmd struct{}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "display cash, holdings and total value" }
func (*holdingCmd) Usage() string {
	return `pts holding

  Displays the cash and every holding valued at the current market prices.
`
}

func (*holdingCmd) SetFlags(f *flag.FlagSet) {}

func (*holdingCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(func(s *session) error {
		s.printMarkdown(renderer.PortfolioMarkdown(papertrade.NewPortfolioReport(s.ledger, s.market)))
		return nil
	})
}

type txCmd struct {
	tail int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the trades in the ledger" }
func (*txCmd) Usage() string {
	return `pts tx [-tail <n>]

  Lists the trades, oldest first.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.tail, "tail", 0, "Show only the last N trades.")
}

func (c *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.tail < 0 {
		fmt.Fprintln(os.Stderr, "Error: -tail must not be negative")
		return subcommands.ExitUsageError
	}
	return run(func(s *session) error {
		trades := s.ledger.Trades()
		if c.tail > 0 && len(trades) > c.tail {
			trades = trades[len(trades)-c.tail:]
		}
		s.printMarkdown(renderer.TradesMarkdown(trades))
		return nil
	})
}

type snapshotsCmd struct{}

func (*snapshotsCmd) Name() string     { return "snapshots" }
func (*snapshotsCmd) Synopsis() string { return "display the portfolio snapshots" }
func (*snapshotsCmd) Usage() string {
	return `pts snapshots

  Lists the snapshots taken at creation and after each trade, valued at the
  current market prices.
`
}

func (*snapshotsCmd) SetFlags(f *flag.FlagSet) {}

func (*snapshotsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(func(s *session) error {
		s.printMarkdown(renderer.HistoryMarkdown(papertrade.NewHistoryReport(s.ledger, s.market)))
		return nil
	})
}

type queryCmd struct{}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "evaluate a JSONPath expression on the ledger" }
func (*queryCmd) Usage() string {
	return `pts query <jsonpath>

  Evaluates a JSONPath expression on the ledger state and prints the result
  as JSON. For instance:

    pts query '$.holdings.TCS.quantity'
    pts query '$.trades[*].price'
`
}

func (*queryCmd) SetFlags(f *flag.FlagSet) {}

func (*queryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one JSONPath expression")
		return subcommands.ExitUsageError
	}
	return run(func(s *session) error {
		return s.query(f.Arg(0))
	})
}

func (s *session) query(path string) error {
	val, err := papertrade.Query(s.ledger, path)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(val, "", "  ")
	if err != nil {
		return fmt.Errorf("could not print query result: %w", err)
	}
	fmt.Fprintln(s.out, string(out))
	return nil
}

// resetCmd holds the flags for the 'reset' subcommand.
type resetCmd struct {
	cash string
}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "replace the ledger with a new one" }
func (*resetCmd) Usage() string {
	return `pts reset [-cash <amount>]

  Discards every trade and holding, and starts a new ledger with the given
  cash. Defaults to the configured starting cash.
`
}

func (c *resetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.cash, "cash", "", "Starting cash of the new ledger, like 25000.50.")
}

func (c *resetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(func(s *session) error {
		return s.reset(c.cash)
	})
}

// reset replaces the ledger by a fresh one and saves it. An empty cash uses
// the configured starting cash.
func (s *session) reset(cash string) error {
	amount := papertrade.M(s.cfg.StartingCash, s.cfg.Currency)
	if cash != "" {
		var err error
		if amount, err = papertrade.ParseMoney(cash, s.cfg.Currency); err != nil {
			return fmt.Errorf("invalid cash %q: %w", cash, err)
		}
	}
	l, err := papertrade.NewLedger(amount)
	if err != nil {
		return err
	}
	s.ledger = l
	if err := s.saveLedger(); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "New ledger with %v cash.\n", l.Cash())
	return nil
}
