package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/brewandco/app/services"
	"github.com/shashiranjanraj/brewandco/database/seeders"
	"github.com/shashiranjanraj/brewandco/internal/server"
	"github.com/shashiranjanraj/brewandco/pkg/database"
	"github.com/shashiranjanraj/brewandco/pkg/migration"
)

// brewandco migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := server.Boot(); err != nil {
			return err
		}
		fmt.Println("Running migrations…")
		return migration.New(database.DB).Run()
	},
}

// brewandco migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := server.Boot(); err != nil {
			return err
		}
		fmt.Println("Rolling back last batch…")
		return migration.New(database.DB).Rollback()
	},
}

// brewandco migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := server.Boot(); err != nil {
			return err
		}
		return migration.New(database.DB).Status()
	},
}

// brewandco seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the default admin and the menu",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := server.Boot(); err != nil {
			return err
		}
		fmt.Println("Running seeders…")
		return seeders.RunAll(database.DB, os.Stdout)
	},
}

var adminEmailFlag string

// brewandco admin:create
var adminCreateCmd = &cobra.Command{
	Use:   "admin:create [username] [password]",
	Short: "Create a back-office admin account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := server.Boot(); err != nil {
			return err
		}
		admin, err := services.NewAuthService(database.DB).CreateAdmin(cmd.Context(), args[0], adminEmailFlag, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("✅ Admin %q created (id %d)\n", admin.Username, admin.ID)
		return nil
	},
}

func init() {
	adminCreateCmd.Flags().StringVar(&adminEmailFlag, "email", "", "Contact email for the admin")
}
