package renderer

import (
	"bytes"
	"strconv"
	"time"

	"github.com/etnz/papertrade"
	md "github.com/nao1215/markdown"
)

// HistoryMarkdown renders the snapshot history.
func HistoryMarkdown(r *papertrade.HistoryReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Portfolio Snapshots")

	table := md.TableSet{
		Header: []string{"#", "Time", "Cash", "Positions", "Value"},
		Rows:   [][]string{},
	}
	for i, e := range r.Entries {
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(i + 1),
			e.Time.Format(time.DateTime),
			e.Cash.String(),
			strconv.Itoa(e.Positions),
			e.Value.String(),
		})
	}
	doc.Table(table)
	doc.PlainText("Snapshots are taken at creation and after each trade, and valued at current prices.")
	return doc.String()
}
