package cmd

import (
	"fmt"

	"anoa.com/unimanage/internal/bootstrap"
	userRepo "anoa.com/unimanage/internal/modules/user/repository"
	"github.com/spf13/cobra"
)

var (
	adminEmail    string
	adminName     string
	adminPassword string
)

var ensureAdminCmd = &cobra.Command{
	Use:   "ensure-admin",
	Short: "Create an approved admin, or promote an existing identity to admin",
	Example: `  umsctl ensure-admin --email root@uni.edu --password 'change-me'
  umsctl ensure-admin --email dean@uni.edu`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}

		admin, err := bootstrap.EnsureAdmin(cmd.Context(), userRepo.NewUserRepository(db), adminEmail, adminName, adminPassword)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Admin %s (%s) is approved\n", admin.Email, admin.ID)
		return nil
	},
}

func init() {
	ensureAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email (required)")
	ensureAdminCmd.Flags().StringVar(&adminName, "name", "Administrator", "Display name for a new admin")
	ensureAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Password; required when the identity does not exist yet")
	_ = ensureAdminCmd.MarkFlagRequired("email")
}
