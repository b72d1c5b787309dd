package papertrade

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
)

// stateDocument is the JSON view of a ledger used by Query. Field names
// follow the ledger file format.
type stateDocument struct {
	Currency  string             `json:"currency"`
	Cash      Money              `json:"cash"`
	Holdings  map[string]Holding `json:"holdings"`
	Trades    []Trade            `json:"trades"`
	Snapshots []Snapshot         `json:"snapshots"`
}

// Query evaluates a JSONPath expression over the state of the ledger, for
// instance "$.holdings.TCS.quantity" or "$.trades[-1:].price".
//
// Holdings are indexed by instrument id. Numbers are returned as
// json.Number, with the exact digits of the ledger file.
func Query(l *Ledger, path string) (any, error) {
	doc := stateDocument{
		Currency:  l.Currency(),
		Cash:      l.Cash(),
		Holdings:  make(map[string]Holding),
		Trades:    l.Trades(),
		Snapshots: l.Snapshots(),
	}
	for h := range l.Holdings() {
		doc.Holdings[h.Instrument] = h
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("could not marshal ledger state: %w", err)
	}
	var jobj any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&jobj); err != nil {
		return nil, fmt.Errorf("could not read ledger state: %w", err)
	}

	val, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", path, err)
	}
	return val, nil
}
