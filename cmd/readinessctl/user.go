package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userSetRoleCmd = &cobra.Command{
	Use:   "set-role",
	Short: "Change a user's account role (user, mentor, admin)",
	RunE:  runUserSetRole,
}

var (
	userEmail string
	userRole  string
)

func init() {
	userSetRoleCmd.Flags().StringVarP(&userEmail, "email", "e", "", "Account email (required)")
	userSetRoleCmd.Flags().StringVarP(&userRole, "role", "r", "", "New role: user, mentor or admin (required)")
	for _, name := range []string{"email", "role"} {
		if err := userSetRoleCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}

	userCmd.AddCommand(userSetRoleCmd)
	rootCmd.AddCommand(userCmd)
}

func runUserSetRole(cmd *cobra.Command, _ []string) error {
	c, err := openContainer()
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	usr, err := c.Users.SetRole(ctx, userEmail, userRole)
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "user=%s email=%s role=%s\n", usr.ID, usr.Email, usr.Role)
	return nil
}
