package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"f1-telegram-bot/config"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	debug       bool
	metricsPort int
)

// rootCmd starts the bot
var rootCmd = &cobra.Command{
	Use:           "f1-telegram-bot",
	Short:         "Telegram bot answering Formula 1 statistics commands",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("debug") {
			config.Set("debug", debug)
		}
		if cmd.Flags().Changed("metrics-port") {
			config.Set("metrics_port", metricsPort)
		}
		setupLogging()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.Flags().IntVar(&metricsPort, "metrics-port", 0, "port of the metrics and health server")
}

// Execute runs the root command until SIGINT or SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Errorf("f1-telegram-bot: %v", err)
		stop()
		os.Exit(1)
	}
}

func setupLogging() {
	log.SetLevel(log.ErrorLevel)
	if config.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
	log.Debug("Starting telegram bot...")
}
