package cmd

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"github.com/templui/goalvoice/internal/config"
	"github.com/templui/goalvoice/internal/db"
)

type dbFlags struct {
	driver     string
	connection string
}

// resolve fills unset flags from DB_DRIVER and DB_CONNECTION, then defaults.
func (f *dbFlags) resolve() {
	if f.driver == "" {
		f.driver = os.Getenv("DB_DRIVER")
	}
	if f.driver == "" {
		f.driver = config.DefaultDBDriver
	}
	if f.connection == "" {
		f.connection = os.Getenv("DB_CONNECTION")
	}
	if f.connection == "" {
		f.connection = config.DefaultDBConnection
	}
}

func (f *dbFlags) open() (*sqlx.DB, error) {
	f.resolve()
	return db.Init(f.driver, f.connection)
}

func MigrateCmd() *cobra.Command {
	flags := &dbFlags{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.PersistentFlags().StringVar(&flags.driver, "driver", "", "Database driver: sqlite or pgx (default $DB_DRIVER)")
	cmd.PersistentFlags().StringVar(&flags.connection, "dsn", "", "Connection string (default $DB_CONNECTION)")

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := flags.open()
			if err != nil {
				return err
			}
			defer database.Close()

			return db.RunMigrations(database.DB, flags.driver)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := flags.open()
			if err != nil {
				return err
			}
			defer database.Close()

			return db.MigrateDown(database.DB, flags.driver)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the applied schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := flags.open()
			if err != nil {
				return err
			}
			defer database.Close()

			version, err := db.Version(database.DB, flags.driver)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", version)
			return nil
		},
	})

	return cmd
}
