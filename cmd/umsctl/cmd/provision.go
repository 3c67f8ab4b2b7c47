package cmd

import (
	"fmt"
	"os"

	"anoa.com/unimanage/internal/modules/admin/dto"
	adminService "anoa.com/unimanage/internal/modules/admin/service"
	studentRepo "anoa.com/unimanage/internal/modules/student/repository"
	studentService "anoa.com/unimanage/internal/modules/student/service"
	userRepo "anoa.com/unimanage/internal/modules/user/repository"
	"github.com/spf13/cobra"
)

var provisionPassword string

var provisionCmd = &cobra.Command{
	Use:   "provision-students",
	Short: "Create approved student logins for roster entries that have an email",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}

		students := studentRepo.NewStudentRepository(db)
		svc := adminService.NewAdminService(
			userRepo.NewUserRepository(db),
			students,
			studentService.NewStudentService(students),
			nil,
			os.Getenv("PROVISION_DEFAULT_PASSWORD"),
		)

		res, err := svc.ProvisionFromStudents(cmd.Context(), dto.ProvisionInput{DefaultPassword: provisionPassword})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, u := range res.Created {
			fmt.Fprintf(out, "%s\t%s\t%s\n", u.UserID, u.Email, u.Name)
		}
		fmt.Fprintf(out, "Created %d login(s)\n", res.CreatedCount)
		return nil
	},
}

func init() {
	provisionCmd.Flags().StringVar(&provisionPassword, "password", "", "Initial password (defaults to PROVISION_DEFAULT_PASSWORD)")
}
