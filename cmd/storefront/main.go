package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
)

var (
	cfg    config.Config
	logger *zap.Logger
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger writes to a file because the terminal belongs to the UI.
func newLogger(c config.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(c.LogLevel)
	zc.OutputPaths = []string{c.LogFile}
	zc.ErrorOutputPaths = []string{c.LogFile}
	return zc.Build()
}
