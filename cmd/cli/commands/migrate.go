package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/robvandam12/breus-sub011/pkg/db"
)

// MigrateCmd creates the migrate command
func MigrateCmd(app *AppContext) *cobra.Command {
	var seedPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the assignment store schema and optionally load seed data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Info("Running migrations", zap.String("driver", app.Cfg.Store.Driver))
			if err := app.Database.Migrate(app.Ctx); err != nil {
				return err
			}
			fmt.Printf("\n✓ Schema up to date (%s)\n", app.Cfg.Store.Driver)

			if seedPath == "" {
				fmt.Println()
				return nil
			}

			seed, err := db.LoadSeed(seedPath)
			if err != nil {
				return err
			}
			if err := seed.Apply(app.Ctx, app.Database); err != nil {
				return err
			}

			fmt.Printf("✓ Loaded %d resources and %d assignments from %s\n\n",
				len(seed.Resources), len(seed.Assignments), seedPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&seedPath, "seed", "", "YAML file of resources and assignments to insert")

	return cmd
}
