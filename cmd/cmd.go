package cmd

import (
	"github.com/spf13/cobra"

	"vmt/config"
)

var RootCmd = &cobra.Command{
	Use:   "vmt",
	Short: "household vehicle maintenance tracker",
	Long:  `vmt tracks a household's vehicles: fuel fills, maintenance work and outings, with schedule reminders and fuel-economy figures derived from the ledger.`,
}

func init() {
	config.Load()
	RootCmd.AddCommand(serverCommand())
	RootCmd.AddCommand(migrateCommand())
	RootCmd.AddCommand(exportCommand())
}
