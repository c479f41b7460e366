package seed

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type LookupFunc func(string) (string, bool)

type Config struct {
	Customers     int
	Products      int
	Orders        int
	MaxOrderItems int
	StartDate     time.Time
	Days          int
	Seed          int64
	Reset         bool
}

func DefaultConfig() Config {
	return Config{
		Customers:     200,
		Products:      40,
		Orders:        1000,
		MaxOrderItems: 4,
		StartDate:     time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Days:          365,
		Seed:          42,
		Reset:         false,
	}
}

func LoadConfigFromEnv(lookup LookupFunc) (Config, error) {
	if lookup == nil {
		return Config{}, fmt.Errorf("lookup function is required")
	}

	cfg := DefaultConfig()
	if err := applyInt(lookup, "ASKDATA_SEED_CUSTOMERS", &cfg.Customers); err != nil {
		return Config{}, err
	}
	if err := applyInt(lookup, "ASKDATA_SEED_PRODUCTS", &cfg.Products); err != nil {
		return Config{}, err
	}
	if err := applyInt(lookup, "ASKDATA_SEED_ORDERS", &cfg.Orders); err != nil {
		return Config{}, err
	}
	if err := applyInt(lookup, "ASKDATA_SEED_MAX_ORDER_ITEMS", &cfg.MaxOrderItems); err != nil {
		return Config{}, err
	}
	if err := applyDate(lookup, "ASKDATA_SEED_START_DATE", &cfg.StartDate); err != nil {
		return Config{}, err
	}
	if err := applyInt(lookup, "ASKDATA_SEED_DAYS", &cfg.Days); err != nil {
		return Config{}, err
	}
	if err := applyInt64(lookup, "ASKDATA_SEED", &cfg.Seed); err != nil {
		return Config{}, err
	}
	if err := applyBool(lookup, "ASKDATA_SEED_RESET", &cfg.Reset); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Customers <= 0 {
		return fmt.Errorf("ASKDATA_SEED_CUSTOMERS must be > 0")
	}
	if c.Products <= 0 {
		return fmt.Errorf("ASKDATA_SEED_PRODUCTS must be > 0")
	}
	if c.Orders < 0 {
		return fmt.Errorf("ASKDATA_SEED_ORDERS must be >= 0")
	}
	if c.MaxOrderItems <= 0 {
		return fmt.Errorf("ASKDATA_SEED_MAX_ORDER_ITEMS must be > 0")
	}
	if c.Days <= 0 {
		return fmt.Errorf("ASKDATA_SEED_DAYS must be > 0")
	}
	return nil
}

func applyDate(lookup LookupFunc, key string, dst *time.Time) error {
	raw, ok := lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	v, err := time.Parse(time.DateOnly, strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = v
	return nil
}

func applyBool(lookup LookupFunc, key string, dst *bool) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = v
	return nil
}

func applyInt(lookup LookupFunc, key string, dst *int) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = v
	return nil
}

func applyInt64(lookup LookupFunc, key string, dst *int64) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = v
	return nil
}
