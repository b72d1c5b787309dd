package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envVars = []string{
	"PTS_LEDGER_FILE",
	"PTS_MARKET_FILE",
	"PTS_STARTING_CASH",
	"PTS_CURRENCY",
	"PTS_VOLATILITY",
	"PTS_SEED",
	"PTS_LOG_LEVEL",
	"PTS_LOG_ENCODING",
}

// clearEnv unsets every PTS_ variable for the duration of the test, and
// moves to an empty directory so that no .env file is found.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envVars {
		t.Setenv(k, "") // restores the original value on cleanup
		require.NoError(t, os.Unsetenv(k))
	}
	t.Chdir(t.TempDir())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, &Config{
		LedgerFile:   "ledger.jsonl",
		MarketFile:   "market.jsonl",
		StartingCash: 100000,
		Currency:     "INR",
		Volatility:   0.03,
		Log:          Log{Level: "info", Encoding: "console"},
	}, cfg)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "pts.yaml", `
ledger_file: /tmp/my-ledger.jsonl
starting_cash: 5000
currency: EUR
seed: 42
log:
  level: debug
  encoding: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/my-ledger.jsonl", cfg.LedgerFile)
	assert.Equal(t, "market.jsonl", cfg.MarketFile, "default kept for missing keys")
	assert.Equal(t, 5000.0, cfg.StartingCash)
	assert.Equal(t, "EUR", cfg.Currency)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, Log{Level: "debug", Encoding: "json"}, cfg.Log)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "pts.yaml", "currency: EUR\nvolatility: 0.1\n")
	t.Setenv("PTS_CURRENCY", "USD")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, 0.1, cfg.Volatility)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile(DotEnv, []byte("PTS_MARKET_FILE=prices.jsonl\nPTS_SEED=7\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("PTS_MARKET_FILE")
		os.Unsetenv("PTS_SEED")
	})

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "prices.jsonl", cfg.MarketFile)
	assert.Equal(t, uint64(7), cfg.Seed)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want []string
	}{
		{
			name: "negative cash",
			env:  map[string]string{"PTS_STARTING_CASH": "-1"},
			want: []string{"StartingCash"},
		},
		{
			name: "unknown currency",
			env:  map[string]string{"PTS_CURRENCY": "XYZ"},
			want: []string{"Currency", "iso4217"},
		},
		{
			name: "volatility too high",
			env:  map[string]string{"PTS_VOLATILITY": "1.5"},
			want: []string{"Volatility", "lte=1"},
		},
		{
			name: "bad log level",
			env:  map[string]string{"PTS_LOG_LEVEL": "verbose"},
			want: []string{"Log.Level"},
		},
		{
			name: "all reported",
			env: map[string]string{
				"PTS_STARTING_CASH": "0",
				"PTS_LOG_ENCODING":  "xml",
			},
			want: []string{"StartingCash", "Log.Encoding"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			require.Error(t, err)
			for _, w := range tt.want {
				assert.Contains(t, err.Error(), w)
			}
		})
	}
}

func TestValidateVolatility(t *testing.T) {
	assert.NoError(t, ValidateVolatility(0))
	assert.NoError(t, ValidateVolatility(0.03))
	assert.NoError(t, ValidateVolatility(1))
	assert.Error(t, ValidateVolatility(-0.01))
	assert.Error(t, ValidateVolatility(1.01))
}

func TestUsage(t *testing.T) {
	u := Usage()
	for _, k := range envVars {
		assert.Contains(t, u, k)
	}
}
