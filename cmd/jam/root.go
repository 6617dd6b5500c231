package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"go-jam-pipeline/internal/config"
	"go-jam-pipeline/internal/pipeline"
	"go-jam-pipeline/internal/store"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "jam",
	Short:         "Batch peak-bagging driver",
	Long:          "jam ingests a CSV of stellar targets, resolves light curves, and drives the external peak-bagging fitter per star, isolating per-star failures into a ledger.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "jam.toml", "path to the run configuration")
	rootCmd.AddCommand(runCmd, ledgerCmd, sampleConfigCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a batch from the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		if cfg.API.DBPath != "" {
			if err := store.InitDB(cfg.API.DBPath); err != nil {
				return fmt.Errorf("batch store: %w", err)
			}
			defer store.Close()
		}

		jobID := uuid.New().String()
		spec := cfg.JobSpec()
		if err := store.SaveJob(jobID, spec); err != nil {
			return fmt.Errorf("batch store: %w", err)
		}

		session := pipeline.NewSession(jobID, spec)
		if err := session.Run(cmd.Context()); err != nil {
			return err
		}

		printSummary(session)
		// Isolated per-star failures are in the ledger; the run itself
		// succeeded, so exit zero.
		return nil
	},
}

func printSummary(session *pipeline.Session) {
	s := session.Tracker.Summary()

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"stage", "records", "errors", "duration"})
	for _, name := range []string{"load", "resolve", "convert", "fit"} {
		st, ok := s.Stages[name]
		if !ok {
			continue
		}
		t.AppendRow(table.Row{name, st.Records, st.Errors, st.Duration.Round(time.Millisecond)})
	}
	t.AppendFooter(table.Row{"total", fmt.Sprintf("%d fitted, %d failed", s.Fitted, s.FitFailed), s.Dropped, s.Duration.Round(time.Millisecond)})
	t.Render()

	if n := session.Ledger.Len(); n > 0 {
		fmt.Printf("⚠️ %d targets failed; see %s in the output directory\n", n, session.Spec.LedgerName())
	}
}

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Show the failure ledger of the last run",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		spec := cfg.JobSpec()
		path := filepath.Join(cfg.OutputDir, spec.LedgerName())
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("no ledger found at %s: %w", path, err)
		}
		defer file.Close()

		rows, err := csv.NewReader(file).ReadAll()
		if err != nil {
			return fmt.Errorf("ledger %s: %w", path, err)
		}
		if len(rows) <= 1 {
			fmt.Println("✅ No failed targets.")
			return nil
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"id", "error"})
		for _, row := range rows[1:] {
			if len(row) >= 2 {
				t.AppendRow(table.Row{row[0], row[1]})
			}
		}
		t.Render()
		return nil
	},
}

var sampleConfigCmd = &cobra.Command{
	Use:   "sample-config [path]",
	Short: "Write a sample configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "jam.toml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.WriteSample(path); err != nil {
			return err
		}
		fmt.Printf("📝 Wrote sample configuration to %s\n", path)
		return nil
	},
}
