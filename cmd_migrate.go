package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"friendgraph/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the users and friendships tables if they do not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Connect(); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		return database.CreateTables(database.DB, database.Current)
	},
}
