package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "procdash",
	Short: "Procurement PR/PO dashboard",
	Long: `procdash serves an interactive procurement dashboard: upload an Excel
workbook of purchase requisitions and purchase orders, map its columns onto the
expected schema, and browse KPIs, category breakdowns and data health reports.`,
}

func init() {
	rootCmd.PersistentFlags().String("db", "procdash.db", "path to the config database")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.SetEnvPrefix("PROCDASH")
	viper.AutomaticEnv()

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(inspectCmd())
}

func main() {
	// .env is optional; real env vars win
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
