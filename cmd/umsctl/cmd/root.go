package cmd

import (
	"fmt"
	"os"

	"anoa.com/unimanage/pkg/database"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	databaseURL string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "umsctl",
	Short: "University management administration tool",
	Long: `umsctl runs maintenance tasks against the university management database:
schema migration, admin bootstrap and bulk provisioning of student logins.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		if databaseURL == "" {
			databaseURL = os.Getenv("DATABASE_URL")
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Postgres DSN (defaults to DATABASE_URL, then DB_* variables)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log SQL statements")
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(ensureAdminCmd)
	rootCmd.AddCommand(provisionCmd)
}

func openDB() (*gorm.DB, error) {
	return database.Connect(database.Options{DSN: databaseURL, Verbose: verbose})
}
