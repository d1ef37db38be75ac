package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"friendgraph/config"
)

var rootCmd = &cobra.Command{
	Use:   "friendgraph",
	Short: "Friend lists with total and mutual friend counts",
	Long: `friendgraph serves each user's accepted friends together with every friend's
total friend count and the number of friends they have in common.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		setupLogger(config.Cfg.LogLevel)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogger(level string) {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn", "warning":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: l})))
}
