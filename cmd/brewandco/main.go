// Command brewandco runs the Brew & Co API and its maintenance tasks, and
// drives the storefront client from the terminal.
//
//	brewandco serve              # start HTTP (and gRPC when GRPC_PORT is set)
//	brewandco migrate            # run pending migrations
//	brewandco seed               # load the admin account and the menu
//	brewandco route:list
//	brewandco shop:login ana secret
//	brewandco shop:add 1 -q 2
//	brewandco shop:checkout --notes "extra hot"
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/shashiranjanraj/brewandco/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "brewandco",
	Short:         "Brew & Co storefront API and client",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(adminCreateCmd)

	// Workers
	rootCmd.AddCommand(queueWorkCmd)
	rootCmd.AddCommand(scheduleRunCmd)

	// Client
	rootCmd.AddCommand(shopCommands()...)
}
