package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/raccordement/raccordement-service/internal/payment"
)

// syncCmd runs one reconciliation pass from the command line, the same
// operation the admin endpoint exposes over HTTP. Useful as a cron job.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile local payment state against the payment gateway",
	Run: func(cmd *cobra.Command, args []string) {
		deps, err := initializeDependencies()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
			os.Exit(1)
		}
		defer deps.DB.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		results, err := deps.PaymentService.SyncPayments(ctx)
		if err != nil {
			deps.Logger.Error("payment sync failed", "error", err)
			os.Exit(1)
		}

		updated, recovered, skipped := 0, 0, 0
		for _, res := range results {
			switch res.Action {
			case payment.SyncActionUpdated:
				updated++
			case payment.SyncActionRecovered:
				recovered++
			case payment.SyncActionSkipped:
				skipped++
			}
		}
		deps.Logger.Info("payment sync finished",
			"updated", updated,
			"recovered", recovered,
			"skipped", skipped)
	},
}
