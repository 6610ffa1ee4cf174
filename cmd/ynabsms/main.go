package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ynabsms/ynabsms/pkg/config"
	"github.com/ynabsms/ynabsms/pkg/service"
)

var verbose bool

func newLogger() *log.Logger {
	opts := log.Options{
		ReportTimestamp: true,
		Prefix:          "ynabsms",
	}
	if verbose {
		opts.Level = log.DebugLevel
		opts.ReportCaller = true
	}
	return log.NewWithOptions(os.Stderr, opts)
}

func newService(cmd *cobra.Command, configPath string) (*service.Service, error) {
	cfg, err := config.Build(configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}
	svc := service.New(newLogger(), cfg)
	svc.SetVerbose(verbose)
	return svc, nil
}

var rootCmd = &cobra.Command{
	Use:   "ynabsms",
	Short: "Import bank SMS notifications and reconcile currency balances in YNAB",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var smsImportCmd = &cobra.Command{
	Use:   "sms-import <config>",
	Short: "Import bank SMS notifications into the ledger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService(cmd, args[0])
		if err != nil {
			return err
		}
		return svc.SmsImport(cmd.Context())
	},
}

var wiseReconcileCmd = &cobra.Command{
	Use:   "wise-reconcile <config>",
	Short: "Reconcile the Wise multi-currency total against the ledger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService(cmd, args[0])
		if err != nil {
			return err
		}
		return svc.WiseReconcile(cmd.Context())
	},
}

var updateForeignCmd = &cobra.Command{
	Use:   "update-foreign <config>",
	Short: "Enter foreign-currency balances and reconcile them against the ledger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService(cmd, args[0])
		if err != nil {
			return err
		}
		return svc.UpdateForeign(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging and payload dumps")
	rootCmd.AddCommand(smsImportCmd, wiseReconcileCmd, updateForeignCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		newLogger().Error("run failed", "error", err)
		os.Exit(1)
	}
}
