package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/askdata/askdata/internal/cli/askctl"
	"github.com/askdata/askdata/internal/config"
)

func main() {
	_ = godotenv.Load()

	timeout := time.Duration(0)
	if raw := strings.TrimSpace(os.Getenv("ASKDATA_CLI_TIMEOUT")); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid ASKDATA_CLI_TIMEOUT: %v\n", err)
			os.Exit(2)
		}
		timeout = parsed
	}
	store, err := config.LoadObjectStore(os.LookupEnv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "object store config error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := askctl.Run(ctx, os.Args[1:], askctl.Options{
		BaseURL:     os.Getenv("ASKDATA_API_URL"),
		Timeout:     timeout,
		ObjectStore: store,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	})
	stop()
	os.Exit(code)
}
