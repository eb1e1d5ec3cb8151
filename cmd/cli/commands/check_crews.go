package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/robvandam12/breus-sub011/pkg/core/services"
)

// CheckCrewsCmd creates the checkCrews command
func CheckCrewsCmd(app *AppContext) *cobra.Command {
	var (
		date    string
		exclude string
	)

	cmd := &cobra.Command{
		Use:   "checkCrews <crew_id>...",
		Short: "Check whether crews are already committed on a date",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("checkCrews command",
				zap.String("date", date),
				zap.Strings("crews", args),
				zap.String("exclude", exclude))

			checker := app.NewChecker()
			defer checker.Close()

			result, err := services.CheckCrewAvailability(
				app.Ctx,
				app.Roster,
				checker,
				app.Logger,
				date,
				args,
				exclude,
			)
			if err != nil {
				return err
			}

			fmt.Printf("\nCrew availability on %s\n\n", result.Date)
			printStatusTable(result.Resources, result.Status)

			unavailable := result.Unavailable()
			fmt.Printf("\n%d of %d crews available\n\n", len(result.Resources)-len(unavailable), len(result.Resources))

			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Immersion date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&exclude, "exclude", "", "Assignment ID being edited, ignored when looking for conflicts")
	cmd.MarkFlagRequired("date")

	return cmd
}
