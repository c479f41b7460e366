package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

type ConsoleConfig struct {
	Address       string
	APIBaseURL    string
	APITimeout    time.Duration
	Observability ObservabilityConfig
}

type ObjectStoreConfig struct {
	Endpoint         string
	Region           string
	Bucket           string
	AccessKeyID      string
	SecretAccessKey  string
	UseSSL           bool
	Prefix           string
	AutoCreateBucket bool
}

// Enabled reports whether enough settings exist to reach a bucket.
func (c ObjectStoreConfig) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

func LoadConsole(lookup LookupFunc) (ConsoleConfig, error) {
	if lookup == nil {
		return ConsoleConfig{}, fmt.Errorf("lookup function is required")
	}
	cfg := ConsoleConfig{
		Address:    ":3000",
		APIBaseURL: "http://localhost:5000",
		Observability: ObservabilityConfig{
			LogLevel: defaultsForProfile(ProfileDev).Observability.LogLevel,
			LogJSON:  false,
		},
	}
	if err := applyString(lookup, "ASKDATA_CONSOLE_ADDR", &cfg.Address); err != nil {
		return ConsoleConfig{}, err
	}
	if err := applyString(lookup, "ASKDATA_CONSOLE_API_URL", &cfg.APIBaseURL); err != nil {
		return ConsoleConfig{}, err
	}
	if err := applyDuration(lookup, "ASKDATA_CONSOLE_API_TIMEOUT", &cfg.APITimeout); err != nil {
		return ConsoleConfig{}, err
	}
	if err := applyBool(lookup, "ASKDATA_LOG_JSON", &cfg.Observability.LogJSON); err != nil {
		return ConsoleConfig{}, err
	}
	if err := applyLogLevel(lookup, "ASKDATA_LOG_LEVEL", &cfg.Observability.LogLevel); err != nil {
		return ConsoleConfig{}, err
	}

	if cfg.Address == "" {
		return ConsoleConfig{}, fmt.Errorf("ASKDATA_CONSOLE_ADDR is required")
	}
	parsed, err := url.Parse(cfg.APIBaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ConsoleConfig{}, fmt.Errorf("invalid ASKDATA_CONSOLE_API_URL: %q", cfg.APIBaseURL)
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	return cfg, nil
}

func LoadObjectStore(lookup LookupFunc) (ObjectStoreConfig, error) {
	if lookup == nil {
		return ObjectStoreConfig{}, fmt.Errorf("lookup function is required")
	}
	cfg := ObjectStoreConfig{
		Region:           "us-east-1",
		Bucket:           "askdata-exports",
		AutoCreateBucket: true,
	}
	if err := applyString(lookup, "ASKDATA_OBJECTSTORE_ENDPOINT", &cfg.Endpoint); err != nil {
		return ObjectStoreConfig{}, err
	}
	if err := applyString(lookup, "ASKDATA_OBJECTSTORE_REGION", &cfg.Region); err != nil {
		return ObjectStoreConfig{}, err
	}
	if err := applyString(lookup, "ASKDATA_OBJECTSTORE_BUCKET", &cfg.Bucket); err != nil {
		return ObjectStoreConfig{}, err
	}
	if err := applyString(lookup, "ASKDATA_OBJECTSTORE_ACCESS_KEY", &cfg.AccessKeyID); err != nil {
		return ObjectStoreConfig{}, err
	}
	if err := applyString(lookup, "ASKDATA_OBJECTSTORE_SECRET_KEY", &cfg.SecretAccessKey); err != nil {
		return ObjectStoreConfig{}, err
	}
	if err := applyBool(lookup, "ASKDATA_OBJECTSTORE_USE_SSL", &cfg.UseSSL); err != nil {
		return ObjectStoreConfig{}, err
	}
	if err := applyString(lookup, "ASKDATA_OBJECTSTORE_PREFIX", &cfg.Prefix); err != nil {
		return ObjectStoreConfig{}, err
	}
	if err := applyBool(lookup, "ASKDATA_OBJECTSTORE_AUTO_CREATE_BUCKET", &cfg.AutoCreateBucket); err != nil {
		return ObjectStoreConfig{}, err
	}
	return cfg, nil
}
