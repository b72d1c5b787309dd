package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/papertrade"
	md "github.com/nao1215/markdown"
)

// PortfolioMarkdown renders the cash, the positions and the total value of
// a portfolio report.
func PortfolioMarkdown(r *papertrade.PortfolioReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Portfolio")
	doc.PlainText(fmt.Sprintf("Cash: %v", r.Cash))

	doc.H2("Holdings")
	if len(r.Positions) == 0 {
		doc.PlainText("(none)")
	} else {
		table := md.TableSet{
			Header: []string{"Instrument", "Quantity", "Avg Cost", "Price", "Market Value", "Gain"},
			Rows:   [][]string{},
		}
		for _, p := range r.Positions {
			price, value := "n/a", "n/a"
			if p.Priced {
				price, value = p.Price.String(), p.MarketValue.String()
			}
			table.Rows = append(table.Rows, []string{
				p.Instrument,
				p.Quantity.String(),
				p.AverageCost.String(),
				price,
				value,
				p.Gain.SignedString(),
			})
		}
		doc.Table(table)
	}

	doc.PlainText(fmt.Sprintf("Total portfolio value: %v", r.TotalValue))
	return doc.String()
}
