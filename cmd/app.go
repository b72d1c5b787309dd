// Package cmd implements the pts command line application.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/papertrade"
	"github.com/etnz/papertrade/config"
	"github.com/etnz/papertrade/logger"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&marketCmd{}, "market")
	c.Register(&tickCmd{}, "market")

	c.Register(&buyCmd{}, "trading")
	c.Register(&sellCmd{}, "trading")

	c.Register(&holdingCmd{}, "reports")
	c.Register(&txCmd{}, "reports")
	c.Register(&snapshotsCmd{}, "reports")
	c.Register(&queryCmd{}, "reports")

	c.Register(&resetCmd{}, "")
	c.Register(&shellCmd{}, "")

	explain := c.Explain
	c.Explain = func(w io.Writer) {
		explain(w)
		fmt.Fprintf(w, "\nConfiguration (-config file keys can be overridden by the environment):\n\n%s", config.Usage())
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", "", "Path to a YAML configuration file")
	ledgerFile = flag.String("ledger-file", "", "Path to the ledger file (JSONL format), overrides the configuration")
	marketFile = flag.String("market-file", "", "Path to the market file (JSONL format), overrides the configuration")
	verbose    = flag.Bool("verbose", false, "Log debug messages")
)

// session is the state shared by a single pts invocation.
type session struct {
	cfg    *config.Config
	log    *zap.Logger
	ledger *papertrade.Ledger
	market *papertrade.Market

	out io.Writer
	// markdown renders markdown for out.
	markdown func(string) string
}

// openSession reads the configuration, applying the global flags, and
// loads the ledger and the market.
func openSession() (*session, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *ledgerFile != "" {
		cfg.LedgerFile = *ledgerFile
	}
	if *marketFile != "" {
		cfg.MarketFile = *marketFile
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}
	s, err := newSession(cfg, log)
	if err != nil {
		return nil, err
	}
	s.out = os.Stdout
	s.markdown = renderTerminal
	return s, nil
}

// newSession loads the ledger and the market files named in cfg.
//
// Missing or corrupt files are replaced by a fresh ledger with the
// configured starting cash, and by the default market.
func newSession(cfg *config.Config, log *zap.Logger) (*session, error) {
	s := &session{
		cfg:      cfg,
		log:      log,
		out:      io.Discard,
		markdown: func(md string) string { return md },
	}

	m, err := papertrade.LoadMarket(cfg.MarketFile, s.marketOptions()...)
	switch {
	case err == nil:
		log.Debug("market loaded", zap.String("file", cfg.MarketFile), zap.Int("instruments", m.Len()))
	case errors.Is(err, papertrade.ErrCorruptOrMissingState):
		log.Warn("market file unavailable, using the default market", zap.String("file", cfg.MarketFile), zap.Error(err))
		m = papertrade.DefaultMarket(s.marketOptions()...)
	default:
		return nil, err
	}
	s.market = m

	l, err := papertrade.LoadLedger(cfg.LedgerFile)
	switch {
	case err == nil:
		log.Debug("ledger loaded", zap.String("file", cfg.LedgerFile), zap.Int("trades", len(l.Trades())))
	case errors.Is(err, papertrade.ErrCorruptOrMissingState):
		log.Warn("ledger file unavailable, starting a new ledger", zap.String("file", cfg.LedgerFile), zap.Error(err))
		if l, err = papertrade.NewLedger(papertrade.M(cfg.StartingCash, cfg.Currency)); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	s.ledger = l
	return s, nil
}

func (s *session) marketOptions() []papertrade.MarketOption {
	if s.cfg.Seed == 0 {
		return nil
	}
	return []papertrade.MarketOption{papertrade.WithSeed(s.cfg.Seed)}
}

// saveLedger writes the ledger file.
func (s *session) saveLedger() error {
	if err := papertrade.SaveLedger(s.cfg.LedgerFile, s.ledger); err != nil {
		return err
	}
	s.log.Debug("ledger saved", zap.String("file", s.cfg.LedgerFile))
	return nil
}

// saveMarket writes the market file.
func (s *session) saveMarket() error {
	if err := papertrade.SaveMarket(s.cfg.MarketFile, s.market); err != nil {
		return err
	}
	s.log.Debug("market saved", zap.String("file", s.cfg.MarketFile))
	return nil
}

// printMarkdown renders md to the session output.
func (s *session) printMarkdown(md string) {
	fmt.Fprint(s.out, s.markdown(md))
}

// renderTerminal renders markdown with the terminal style, or returns it
// unchanged if it cannot.
func renderTerminal(md string) string {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		return md
	}
	return out
}

// run opens a session and executes f, reporting errors on stderr.
func run(f func(s *session) error) subcommands.ExitStatus {
	s, err := openSession()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer s.log.Sync()

	if err := f(s); err != nil {
		s.log.Debug("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
