package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eventnest/eventnest/database/seeders"
	"github.com/eventnest/eventnest/internal/kernel"
	"github.com/eventnest/eventnest/pkg/database"
	"github.com/eventnest/eventnest/pkg/migration"
)

// eventnest migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := kernel.ConnectStores(); err != nil {
			return err
		}
		fmt.Println("Running migrations…")
		return migration.New(database.DB).Run()
	},
}

// eventnest migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := kernel.ConnectStores(); err != nil {
			return err
		}
		fmt.Println("Rolling back last batch…")
		return migration.New(database.DB).Rollback()
	},
}

// eventnest migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := kernel.ConnectStores(); err != nil {
			return err
		}
		return migration.New(database.DB).Status()
	},
}

// eventnest seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := kernel.ConnectStores(); err != nil {
			return err
		}
		fmt.Println("Running seeders…")
		return seeders.RunAll(database.DB)
	},
}
