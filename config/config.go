// Package config loads the pts settings from a YAML file, the environment and
// an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/Rhymond/go-money"
	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// DotEnv is the file loaded into the environment before reading the config.
const DotEnv = ".env"

type Config struct {
	LedgerFile   string  `yaml:"ledger_file" env:"PTS_LEDGER_FILE" env-default:"ledger.jsonl" validate:"required"`
	MarketFile   string  `yaml:"market_file" env:"PTS_MARKET_FILE" env-default:"market.jsonl" validate:"required"`
	StartingCash float64 `yaml:"starting_cash" env:"PTS_STARTING_CASH" env-default:"100000" validate:"gt=0"`
	Currency     string  `yaml:"currency" env:"PTS_CURRENCY" env-default:"INR" validate:"iso4217"`
	Volatility   float64 `yaml:"volatility" env:"PTS_VOLATILITY" env-default:"0.03" validate:"gte=0,lte=1"`
	// Seed of the market random walk, 0 picks a random one.
	Seed uint64 `yaml:"seed" env:"PTS_SEED"`

	Log Log `yaml:"log"`
}

type Log struct {
	Level    string `yaml:"level" env:"PTS_LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	Encoding string `yaml:"encoding" env:"PTS_LOG_ENCODING" env-default:"console" validate:"oneof=console json"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("iso4217", validateISO4217)
	return v
}

// validateISO4217 accepts the currency codes known to go-money.
func validateISO4217(fl validator.FieldLevel) bool {
	return money.GetCurrency(fl.Field().String()) != nil
}

// Load reads the configuration.
//
// The .env file, when present, is loaded into the environment first. Then
// the YAML file at path is read, if path is not empty, and the environment
// overrides it. Missing values get their defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(DotEnv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("cannot load %s: %w", DotEnv, err)
	}

	var cfg Config
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("cannot read config %q: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("cannot read config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field and reports all the invalid ones.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	errs := make([]error, 0, len(verrs))
	for _, e := range verrs {
		errs = append(errs, fmt.Errorf("invalid config %s=%v: must satisfy %s", e.Namespace(), e.Value(), constraint(e)))
	}
	return errors.Join(errs...)
}

// ValidateVolatility checks a volatility given on the command line.
func ValidateVolatility(v float64) error {
	if err := validate.Var(v, "gte=0,lte=1"); err != nil {
		return fmt.Errorf("invalid volatility %v: must be between 0 and 1", v)
	}
	return nil
}

func constraint(e validator.FieldError) string {
	if e.Param() == "" {
		return e.Tag()
	}
	return e.Tag() + "=" + e.Param()
}

// Usage returns the description of the environment variables.
func Usage() string {
	var cfg Config
	s, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return s
}
