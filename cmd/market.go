package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/papertrade/config"
	"github.com/etnz/papertrade/renderer"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type marketCmd struct{}

func (*marketCmd) Name() string     { return "market" }
func (*marketCmd) Synopsis() string { return "list instruments and their current prices" }
func (*marketCmd) Usage() string {
	return `pts market

  Lists the instruments of the market with their current prices.
`
}

func (*marketCmd) SetFlags(f *flag.FlagSet) {}

func (*marketCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(func(s *session) error {
		s.printMarkdown(renderer.MarketMarkdown(s.market.All()))
		return nil
	})
}

// tickCmd holds the flags for the 'tick' subcommand.
type tickCmd struct {
	volatility float64
	count      int
}

func (*tickCmd) Name() string     { return "tick" }
func (*tickCmd) Synopsis() string { return "advance market prices by a random step" }
func (*tickCmd) Usage() string {
	return `pts tick [-v <volatility>] [-n <count>]

  Moves every price by a random relative change within ±volatility, n times,
  and saves the market. Prices never drop below 1.00.
`
}

func (c *tickCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.volatility, "v", 0, "Relative volatility between 0 and 1. Defaults to the configured volatility.")
	f.IntVar(&c.count, "n", 1, "Number of ticks")
}

func (c *tickCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.count < 1 {
		fmt.Fprintln(os.Stderr, "Error: -n must be at least 1")
		return subcommands.ExitUsageError
	}
	explicit := isSet(f, "v")
	if explicit {
		if err := config.ValidateVolatility(c.volatility); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitUsageError
		}
	}
	return run(func(s *session) error {
		v := s.cfg.Volatility
		if explicit {
			v = c.volatility
		}
		if err := s.tick(v, c.count); err != nil {
			return err
		}
		s.printMarkdown(renderer.MarketMarkdown(s.market.All()))
		return nil
	})
}

// isSet reports whether the flag name was given on the command line.
func isSet(f *flag.FlagSet, name string) (set bool) {
	f.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			set = true
		}
	})
	return set
}

// tick advances the market n times and saves it.
func (s *session) tick(volatility float64, n int) error {
	for range n {
		s.market.Advance(volatility)
	}
	s.log.Info("market advanced", zap.Float64("volatility", volatility), zap.Int("ticks", n))
	return s.saveMarket()
}
