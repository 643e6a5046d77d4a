package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/poolmart/poolbot/internal/config"
	"github.com/poolmart/poolbot/pkg/log"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "poolbot",
	Short: "PoolBot - a pool equipment support assistant",
	Long:  `PoolBot answers pool equipment questions over Telegram and HTTP, backed by the product, store, and pricing APIs.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}
