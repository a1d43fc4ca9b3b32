package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/guptarajStha/restaurant-web/config"
	"github.com/guptarajStha/restaurant-web/logger"
)

var version = "1.0.0"

// cfg is loaded once before any subcommand runs
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "restaurant-web",
	Short: "Restaurant back-office API",
	Long: `Restaurant back-office API: tables, menu, orders, bills and expenses.

Running without a subcommand starts the HTTP server.

Configuration is read from the environment and an optional .env file:
  PORT, GIN_MODE, DB_DRIVER (sqlite|postgres), DB_DSN, JWT_SECRET,
  REGISTER_PIN, LOGIN_PIN, ORDER_PIN, BILL_TAX_RATE,
  BILL_RELEASE_TABLES_ON (bill|payment), MERGE_DELETE_ATTEMPTS,
  FEED_LIMIT, AMQP_URL, AMQP_EXCHANGE, LOG_LEVEL, LOG_FORMAT, LOG_OUTPUT`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if err := logger.Setup(loaded.GetLoggerConfig()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		cfg = loaded
		return nil
	},
	RunE: runServe,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log := logger.WithComponent("cmd")
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
