package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/papertrade"
	"github.com/etnz/papertrade/config"
	"github.com/etnz/papertrade/renderer"
	"github.com/google/subcommands"
)

type shellCmd struct{}

func (*shellCmd) Name() string     { return "shell" }
func (*shellCmd) Synopsis() string { return "interactive trading menu" }
func (*shellCmd) Usage() string {
	return `pts shell

  Starts an interactive menu to view the market, trade, and advance prices.
  The ledger and the market are saved on demand and when quitting.
`
}

func (*shellCmd) SetFlags(f *flag.FlagSet) {}

func (*shellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(func(s *session) error {
		return s.shell(os.Stdin)
	})
}

const menu = `
=== Paper Trading ===
1) Market data
2) Buy stock
3) Sell stock
4) View portfolio
5) Trade history
6) Portfolio snapshots
7) Advance market tick
8) Save to disk
Q) Quit
`

// prompter reads answers line by line.
type prompter struct {
	sc  *bufio.Scanner
	out io.Writer
}

// ask prints the question and returns the trimmed answer. ok is false at
// the end of the input.
func (p *prompter) ask(question string) (answer string, ok bool) {
	fmt.Fprint(p.out, question)
	if !p.sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(p.sc.Text()), true
}

// shell runs the interactive menu until the user quits or the input ends,
// then saves.
func (s *session) shell(in io.Reader) error {
	p := &prompter{sc: bufio.NewScanner(in), out: s.out}
	for {
		fmt.Fprint(s.out, menu)
		choice, ok := p.ask("Enter choice: ")
		if !ok {
			break
		}
		switch strings.ToLower(choice) {
		case "1", "market":
			s.printMarkdown(renderer.MarketMarkdown(s.market.All()))
		case "2", "buy":
			s.shellTrade(p, papertrade.SideBuy)
		case "3", "sell":
			s.shellTrade(p, papertrade.SideSell)
		case "4", "portfolio":
			s.printMarkdown(renderer.PortfolioMarkdown(papertrade.NewPortfolioReport(s.ledger, s.market)))
		case "5", "history":
			s.printMarkdown(renderer.TradesMarkdown(s.ledger.Trades()))
		case "6", "snapshots":
			s.printMarkdown(renderer.HistoryMarkdown(papertrade.NewHistoryReport(s.ledger, s.market)))
		case "7", "tick":
			s.shellTick(p)
		case "8", "save":
			if err := s.save(); err != nil {
				fmt.Fprintln(s.out, "Failed to save:", err)
				continue
			}
			fmt.Fprintln(s.out, "Saved to", s.cfg.LedgerFile)
		case "q", "quit":
			return s.quit()
		default:
			fmt.Fprintln(s.out, "Unknown command. Type the number or keyword (e.g. 'buy').")
		}
	}
	return s.quit()
}

func (s *session) shellTrade(p *prompter, side papertrade.Side) {
	id, ok := p.ask(fmt.Sprintf("Enter ticker to %s: ", side))
	if !ok {
		return
	}
	id = papertrade.NormalizeID(id)
	ins, known := s.market.Get(id)
	if !known {
		fmt.Fprintln(s.out, "Unknown ticker.")
		return
	}
	if side == papertrade.SideSell {
		h, held := s.ledger.Holding(id)
		if !held {
			fmt.Fprintln(s.out, "You have no holdings of", id)
			return
		}
		fmt.Fprintf(s.out, "%d x %s, average cost %v, current price %v\n", h.Quantity, id, h.AverageCost, ins.Price)
	} else {
		fmt.Fprintf(s.out, "%s %s at %v\n", ins.ID, ins.Name, ins.Price)
	}

	answer, ok := p.ask("Enter quantity: ")
	if !ok {
		return
	}
	q, err := papertrade.ParseQuantity(answer)
	if err != nil {
		fmt.Fprintln(s.out, "Invalid number entered.")
		return
	}
	tx, err := s.trade(side, id, q)
	if err != nil {
		fmt.Fprintln(s.out, "Trade failed:", err)
		return
	}
	fmt.Fprintln(s.out, renderer.Trade(tx))
}

func (s *session) shellTick(p *prompter) {
	answer, ok := p.ask(fmt.Sprintf("Enter volatility (e.g. 0.03 for ±3%%, empty for %v): ", s.cfg.Volatility))
	if !ok {
		return
	}
	v := s.cfg.Volatility
	if answer != "" {
		var err error
		if v, err = strconv.ParseFloat(answer, 64); err != nil {
			fmt.Fprintln(s.out, "Invalid number entered.")
			return
		}
	}
	if err := config.ValidateVolatility(v); err != nil {
		fmt.Fprintln(s.out, "Enter a sensible volatility (0 - 1).")
		return
	}
	if err := s.tick(v, 1); err != nil {
		fmt.Fprintln(s.out, "Failed to save market:", err)
		return
	}
	fmt.Fprintln(s.out, "Market advanced. Use 'market' to view prices.")
}

// save writes both the ledger and the market.
func (s *session) save() error {
	if err := s.saveLedger(); err != nil {
		return err
	}
	return s.saveMarket()
}

func (s *session) quit() error {
	if err := s.save(); err != nil {
		return fmt.Errorf("failed to save on exit: %w", err)
	}
	fmt.Fprintln(s.out, "Goodbye, portfolio saved.")
	return nil
}
