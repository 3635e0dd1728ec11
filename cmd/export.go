package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"vmt/db/pg"
	"vmt/export"
)

var exportVehicleID string
var exportOutputPath string

func exportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "export",
		Short:   "export a vehicle's usage ledger to CSV",
		Long:    `Reads one vehicle's usage events from the database and writes them as CSV, with columns matched to the vehicle's tracking unit.`,
		Example: `vmt export --vehicle 6b1f... --output events.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if exportVehicleID == "" || exportOutputPath == "" {
				return cmd.Help()
			}

			vehicleID, err := uuid.Parse(exportVehicleID)
			if err != nil {
				return fmt.Errorf("invalid vehicle id: %w", err)
			}

			gormDB, err := pg.InitPostgresGORM(pg.CreateDSN())
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer pg.CloseGORM(gormDB)
			dbWrapper := pg.NewGORMFleetDBWrapper(gormDB)

			vehicle, err := dbWrapper.GetVehicle(vehicleID)
			if err != nil {
				return err
			}
			events, err := dbWrapper.ListVehicleEvents(vehicleID)
			if err != nil {
				return err
			}

			outputFile, err := os.Create(exportOutputPath)
			if err != nil {
				return err
			}
			defer func(outputFile *os.File) {
				err := outputFile.Close()
				if err != nil {
					log.Fatalf("Failed to close output file: %v", err)
				}
			}(outputFile)

			categoryName := func(id uuid.UUID) string {
				if category, err := dbWrapper.GetCategory(id); err == nil {
					return category.Name
				}
				return ""
			}
			if err := export.WriteVehicleEvents(outputFile, vehicle, events, categoryName); err != nil {
				return err
			}

			fmt.Printf("Exported %d events for vehicle %s to %s\n", len(events), vehicle.Name, exportOutputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&exportVehicleID, "vehicle", "", "vehicle ID to export")
	cmd.Flags().StringVar(&exportOutputPath, "output", "", "output CSV file path")

	return cmd
}
