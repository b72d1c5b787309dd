package papertrade

import (
	"encoding/json"
	"time"
)

// CommandType identifies the kind of a line in a JSONL state file.
type CommandType string

const (
	CmdInit       CommandType = "init"
	CmdHolding    CommandType = "holding"
	CmdBuy        CommandType = "buy"
	CmdSell       CommandType = "sell"
	CmdSnapshot   CommandType = "snapshot"
	CmdInstrument CommandType = "instrument"
)

// timeLayout keeps nanoseconds so that timestamps round-trip exactly.
const timeLayout = time.RFC3339Nano

// MarshalJSON implements json.Marshaler.
func (h Holding) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("instrument", h.Instrument)
	w.Append("quantity", h.Quantity)
	w.Append("averageCost", h.AverageCost)
	return w.MarshalJSON()
}

// MarshalJSON implements json.Marshaler.
func (t Trade) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("side", t.Side)
	w.Append("instrument", t.Instrument)
	w.Append("quantity", t.Quantity)
	w.Append("price", t.Price)
	w.Append("time", t.Time.Format(timeLayout))
	return w.MarshalJSON()
}

// MarshalJSON implements json.Marshaler. Holdings are sorted by instrument.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	holdings := make([]Holding, 0, len(s.Holdings))
	for h := range s.Positions() {
		holdings = append(holdings, h)
	}
	var w jsonObjectWriter
	w.Append("time", s.Time.Format(timeLayout))
	w.Append("cash", s.Cash)
	w.Append("holdings", holdings)
	return w.MarshalJSON()
}

// MarshalJSON implements json.Marshaler.
func (i Instrument) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", i.ID)
	w.Optional("name", i.Name)
	w.Append("price", i.Price)
	return w.MarshalJSON()
}

// encodeLine writes v as a JSON object prefixed by its command, followed by
// a newline.
func encodeLine(enc *json.Encoder, cmd CommandType, v any) error {
	var w jsonObjectWriter
	w.Append("command", cmd)
	w.EmbedFrom(v)
	return enc.Encode(&w)
}
