package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/services"
)

var (
	userEmail    string
	userPassword string
	userVendor   bool
)

// storefront user:create <username> --password secret [--vendor]
var userCreateCmd = &cobra.Command{
	Use:   "user:create <username>",
	Short: "Create an account; --vendor grants dashboard access",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}

		role := models.RoleCustomer
		if userVendor {
			role = models.RoleVendor
		}
		u, err := services.NewAuthService(repositories.NewStore(db)).
			Register(cmd.Context(), args[0], userEmail, userPassword, role)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s %q (id %d)\n", u.Role, u.Username, u.ID)
		return nil
	},
}

// storefront user:token <username>
var userTokenCmd = &cobra.Command{
	Use:   "user:token <username>",
	Short: "Print a bearer token for an existing account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}
		token, err := services.NewAuthService(repositories.NewStore(db)).Token(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "email address")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "password (required)")
	userCreateCmd.Flags().BoolVar(&userVendor, "vendor", false, "create a vendor account")
	_ = userCreateCmd.MarkFlagRequired("password")
}
