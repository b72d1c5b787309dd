package cmd

import (
	"os"
	"strings"

	"github.com/etnz/papertrade"
	"github.com/etnz/papertrade/config"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Complete answers a shell completion request and exits, it does nothing
// when the process was not started for completion.
//
// Install it in bash with:
//
//	COMP_INSTALL=1 pts
func Complete(name string) {
	completion().Complete(name)
}

func completion() *complete.Command {
	instruments := complete.PredictFunc(predictInstruments)
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config":      predict.Files("*.yaml"),
			"ledger-file": predict.Files("*.jsonl"),
			"market-file": predict.Files("*.jsonl"),
			"verbose":     predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"market": {},
			"tick": {Flags: map[string]complete.Predictor{
				"v": predict.Set{"0.01", "0.03", "0.05", "0.1"},
				"n": predict.Something,
			}},
			"buy":     {Args: instruments},
			"sell":    {Args: instruments},
			"holding": {},
			"tx": {Flags: map[string]complete.Predictor{
				"tail": predict.Something,
			}},
			"snapshots": {},
			"query": {Args: predict.Set{
				"$.currency",
				"$.cash",
				"$.holdings",
				"$.trades",
				"$.snapshots",
			}},
			"reset": {Flags: map[string]complete.Predictor{
				"cash": predict.Something,
			}},
			"shell":    {},
			"help":     {Args: predict.Set{"market", "tick", "buy", "sell", "holding", "tx", "snapshots", "query", "reset", "shell"}},
			"flags":    {},
			"commands": {},
		},
	}
}

// predictInstruments lists the ids of the market named by the -config and
// -market-file flags of the line being completed, or by the environment.
func predictInstruments(prefix string) []string {
	configPath, marketPath := fileFlags(strings.Fields(os.Getenv("COMP_LINE")))
	var m *papertrade.Market
	if marketPath == "" {
		if cfg, err := config.Load(configPath); err == nil {
			marketPath = cfg.MarketFile
		}
	}
	if marketPath != "" {
		m, _ = papertrade.LoadMarket(marketPath)
	}
	if m == nil {
		m = papertrade.DefaultMarket()
	}
	var ids []string
	for ins := range m.All() {
		ids = append(ids, ins.ID)
	}
	return ids
}

// fileFlags returns the values of the -config and -market-file flags in
// args, in both the "-flag value" and "-flag=value" forms.
func fileFlags(args []string) (configPath, marketPath string) {
	for i, arg := range args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !strings.HasPrefix(arg, "-") || (name != "config" && name != "market-file") {
			continue
		}
		if !hasValue {
			if i+1 >= len(args) {
				continue
			}
			value = args[i+1]
		}
		if name == "config" {
			configPath = value
		} else {
			marketPath = value
		}
	}
	return configPath, marketPath
}
