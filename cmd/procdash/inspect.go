package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/procurement-tools/procdash/internal/config"
	"github.com/procurement-tools/procdash/internal/dashboard"
	"github.com/procurement-tools/procdash/internal/ingest"
)

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <workbook.xlsx>",
		Short: "Print a data health report for a workbook without serving",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	logger := zap.NewNop()
	ctx := cmd.Context()

	store, err := config.Open(ctx, viper.GetString("db"), logger)
	if err != nil {
		return err
	}
	defer store.Close()

	cfg, err := store.Load(ctx)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	wb, err := ingest.ParseWorkbook(f, logger)
	if err != nil {
		return err
	}

	svc := dashboard.NewService(logger)
	snap := svc.Build(wb, cfg)
	health := svc.Health(snap, cfg)

	out := cmd.OutOrStdout()
	for _, sheet := range health.Sheets {
		fmt.Fprintf(out, "%s: %d rows, %d unresolved categories (%.1f%%)\n",
			sheet.Sheet, sheet.Rows, sheet.Unresolved, sheet.UnresolvedPercent)
		if len(sheet.MissingRequired) > 0 {
			fmt.Fprintf(out, "  missing required mappings: %v\n", sheet.MissingRequired)
		}
		for _, col := range sheet.Columns {
			fmt.Fprintf(out, "  %-24s %-7s null %.1f%%\n", col.Name, col.Dtype, col.NullRate)
		}
	}
	fmt.Fprintf(out, "category mapping: %d entries, %.1f%% key coverage\n",
		health.MappingEntries, health.MappingCoverage)
	for _, warning := range health.Warnings {
		fmt.Fprintf(out, "warning: %s\n", warning)
	}
	return nil
}
