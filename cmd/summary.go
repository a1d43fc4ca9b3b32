package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/guptarajStha/restaurant-web/config"
	"github.com/guptarajStha/restaurant-web/finance"
	"github.com/guptarajStha/restaurant-web/logger"
	"github.com/guptarajStha/restaurant-web/store"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print today's and this month's income, expenses and net income",
	Example: `  # Totals as JSON
  restaurant-web summary

  # One row per day of the current month
  restaurant-web summary --monthly`,
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().Bool("monthly", false, "Print the per-day breakdown of the current month")
	summaryCmd.Flags().Int("timeout", 30, "Query timeout in seconds")
}

func runSummary(cmd *cobra.Command, args []string) error {
	monthly, _ := cmd.Flags().GetBool("monthly")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	db, err := config.OpenDB(&cfg.Database, logger.WithComponent("gorm"))
	if err != nil {
		return err
	}
	st := store.New(db)
	reporter := finance.NewReporter(finance.PaidBillIncome{Bills: st}, st)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)
	defer cancel()

	var out interface{}
	if monthly {
		out, err = reporter.MonthlyBreakdown(ctx, time.Now())
	} else {
		out, err = reporter.Summary(ctx, time.Now())
	}
	if err != nil {
		return fmt.Errorf("failed to build summary: %w", err)
	}
	return writeJSON(os.Stdout, out)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
