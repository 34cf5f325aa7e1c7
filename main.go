package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jasmin-api",
	Short: "REST API for the Jasmin SMS gateway console",
	Long: `jasmin-api exposes groups, users, filters, routes and connectors of one
or more Jasmin SMS gateway instances over HTTP. Every request is carried
out on the instances' jcli consoles; changes are persisted on the first
reachable instance and reloaded on the others.

Configuration is read from JASMIN_API_* environment variables.

Commands:
  serve         Start the HTTP server
  create-user   Create an API user, or reset its password
  endpoints     Print the consoles the configured discovery resolves`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
