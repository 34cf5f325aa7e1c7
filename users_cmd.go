package main

import (
	"fmt"
	"log"

	"github.com/mohesu/jasmin-api/internal/auth"
	"github.com/mohesu/jasmin-api/internal/config"
	"github.com/mohesu/jasmin-api/internal/database"
	"github.com/spf13/cobra"
)

var (
	newUsername string
	newPassword string
)

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create an API user, or reset its password",
	Long: `Create an API user allowed to call /api/v1 with HTTP basic auth.
When the user already exists its password is replaced.

Example:
  jasmin-api create-user --username admin --password "$ADMIN_PASSWORD"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		if err := database.Init(); err != nil {
			log.Fatalf("Database init: %v", err)
		}
		defer database.Close()

		_, created, err := auth.EnsureUser(newUsername, newPassword)
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		if created {
			fmt.Printf("User '%s' created successfully.\n", newUsername)
		} else {
			fmt.Printf("Password reset for '%s'.\n", newUsername)
		}
		return nil
	},
}

func init() {
	createUserCmd.Flags().StringVar(&newUsername, "username", "", "Username")
	createUserCmd.Flags().StringVar(&newPassword, "password", "", "Password")
	createUserCmd.MarkFlagRequired("username")
	createUserCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(createUserCmd)
}
