package cmd

import (
	"github.com/spf13/cobra"

	"github.com/guptarajStha/restaurant-web/config"
	"github.com/guptarajStha/restaurant-web/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.WithComponent("migrate")
		db, err := config.OpenDB(&cfg.Database, logger.WithComponent("gorm"))
		if err != nil {
			return err
		}
		if err := config.Migrate(db); err != nil {
			return err
		}
		log.Info().Str("driver", cfg.Database.Driver).Msg("schema up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
