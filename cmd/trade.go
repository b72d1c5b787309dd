package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/papertrade"
	"github.com/etnz/papertrade/renderer"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// tradeCmd is the shared implementation of buy and sell.
type tradeCmd struct {
	side papertrade.Side
}

func (c *tradeCmd) SetFlags(f *flag.FlagSet) {}

func (c *tradeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: expected an instrument and a quantity")
		f.Usage()
		return subcommands.ExitUsageError
	}
	q, err := papertrade.ParseQuantity(f.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid quantity %q\n", f.Arg(1))
		return subcommands.ExitUsageError
	}

	return run(func(s *session) error {
		tx, err := s.trade(c.side, f.Arg(0), q)
		if err != nil {
			return err
		}
		if err := s.saveLedger(); err != nil {
			return err
		}
		fmt.Fprintln(s.out, renderer.Trade(tx))
		return nil
	})
}

// trade executes a buy or a sell at the current market price.
func (s *session) trade(side papertrade.Side, id string, q papertrade.Quantity) (papertrade.Trade, error) {
	var tx papertrade.Trade
	var err error
	switch side {
	case papertrade.SideBuy:
		tx, err = s.ledger.Buy(s.market, id, q)
	case papertrade.SideSell:
		tx, err = s.ledger.Sell(s.market, id, q)
	default:
		return tx, fmt.Errorf("unknown trade side: %q", side)
	}
	if err != nil {
		return tx, err
	}
	s.log.Info("trade executed",
		zap.Stringer("id", tx.ID),
		zap.String("side", string(tx.Side)),
		zap.String("instrument", tx.Instrument),
		zap.Int64("quantity", int64(tx.Quantity)),
		zap.Stringer("price", tx.Price),
	)
	return tx, nil
}

type buyCmd struct{ tradeCmd }

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "buy shares at the current market price" }
func (*buyCmd) Usage() string {
	return `pts buy <instrument> <quantity>

  Buys shares of an instrument at its current price and saves the ledger.
  Fails if the cash is insufficient.
`
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	c.side = papertrade.SideBuy
	return c.tradeCmd.Execute(ctx, f, args...)
}

type sellCmd struct{ tradeCmd }

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell held shares at the current market price" }
func (*sellCmd) Usage() string {
	return `pts sell <instrument> <quantity>

  Sells held shares of an instrument at its current price and saves the
  ledger. Selling the whole position closes it.
`
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	c.side = papertrade.SideSell
	return c.tradeCmd.Execute(ctx, f, args...)
}
