package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fmuoria/ai-recruiter/internal/export"
	"github.com/fmuoria/ai-recruiter/internal/models"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process candidates once in the foreground and print the rankings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		output, _ := cmd.Flags().GetString("output")
		return run(cmd.OutOrStdout(), output)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("output", "o", "", "also write the rankings to this .xlsx file")
}

func run(out io.Writer, output string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.task.Start(ctx); err != nil {
		return err
	}
	// A signal cancels ctx; the pipeline stops at the next candidate boundary.
	summary, runErr := app.task.Wait(context.Background())

	ranked := app.store.Snapshot()
	if err := printRankings(out, ranked); err != nil {
		return err
	}

	if output != "" {
		path, err := export.ExportToExcel(ranked, output)
		if err != nil {
			return err
		}
		log.Info("rankings exported", zap.String("path", path))
	}

	if runErr != nil {
		return runErr
	}
	fmt.Fprintf(out, "\nprocessed %d, stored %d, qualified %d, notification failures %d\n",
		summary.Processed, summary.Stored, summary.Qualified, summary.NotifyFailures)
	return nil
}

func printRankings(out io.Writer, ranked []models.RankedCandidate) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSCORE\tEMAIL")
	for _, r := range ranked {
		fmt.Fprintf(w, "%s\t%d\t%s\n", r.Name, r.Score, r.Email)
	}
	return w.Flush()
}
