// Package renderer formats papertrade reports as markdown.
package renderer

import (
	"bytes"
	"iter"

	"github.com/etnz/papertrade"
	md "github.com/nao1215/markdown"
)

// MarketMarkdown renders the instruments and their current prices.
func MarketMarkdown(instruments iter.Seq[papertrade.Instrument]) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Market")

	table := md.TableSet{
		Header: []string{"Instrument", "Name", "Price"},
		Rows:   [][]string{},
	}
	for ins := range instruments {
		table.Rows = append(table.Rows, []string{ins.ID, ins.Name, ins.Price.String()})
	}
	if len(table.Rows) == 0 {
		doc.PlainText("No instruments.")
		return doc.String()
	}
	doc.Table(table)
	return doc.String()
}
