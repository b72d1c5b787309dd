package renderer

import (
	"fmt"
	"strings"
	"time"

	"github.com/etnz/papertrade"
)

// Trade renders a trade to a sentence.
func Trade(tx papertrade.Trade) string {
	switch tx.Side {
	case papertrade.SideBuy:
		return fmt.Sprintf("Bought %v %s at %v", tx.Quantity, tx.Instrument, tx.Price)
	case papertrade.SideSell:
		return fmt.Sprintf("Sold %v %s at %v", tx.Quantity, tx.Instrument, tx.Price)
	default:
		return tx.String()
	}
}

// TradesMarkdown renders the trade log as a table, oldest first.
func TradesMarkdown(trades []papertrade.Trade) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Trade History\n\n")
	if len(trades) == 0 {
		fmt.Fprintln(&b, "(no trades yet)")
		return b.String()
	}
	fmt.Fprintln(&b, "| Time | Side | Instrument | Quantity | Price | Amount |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|")
	for _, tx := range trades {
		fmt.Fprintf(&b, "| %s | %s | %s | %v | %v | %v |\n",
			tx.Time.Format(time.DateTime),
			tx.Side,
			tx.Instrument,
			tx.Quantity,
			tx.Price,
			tx.Amount(),
		)
	}
	return b.String()
}
