package main

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/mohesu/jasmin-api/internal/config"
	"github.com/mohesu/jasmin-api/internal/jcli"
	"github.com/mohesu/jasmin-api/internal/orchestrator"
	"github.com/spf13/cobra"
)

var checkLogin bool

var endpointsCmd = &cobra.Command{
	Use:   "endpoints",
	Short: "Print the consoles the configured discovery resolves",
	Long: `Resolve the jcli consoles with the configured discovery backend and
print them in pool order: the first reachable one becomes the primary.

With --check every console is logged into and the result printed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := orchestrator.InitResolver(ctx); err != nil {
			return err
		}
		eps, err := orchestrator.Get().Resolve(ctx)
		if err != nil {
			return fmt.Errorf("resolve: %s", jcli.DetailOf(err))
		}
		for _, ep := range eps {
			status := ""
			if checkLogin {
				status = "  ok"
				s, err := jcli.Open(ctx, &net.Dialer{}, ep, consoleCredentials())
				if err != nil {
					status = "  " + jcli.DetailOf(err)
				} else {
					s.Close()
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", ep, status)
		}
		return nil
	},
}

func init() {
	endpointsCmd.Flags().BoolVar(&checkLogin, "check", false, "log into every console")
	rootCmd.AddCommand(endpointsCmd)
}
