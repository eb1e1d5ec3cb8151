package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/robvandam12/breus-sub011/pkg/core/services"
)

// ScanPersonnelCmd creates the scanPersonnel command
func ScanPersonnelCmd(app *AppContext) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "scanPersonnel",
		Short: "List every person already committed to an immersion on a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conflicts, err := services.ScanPersonnelConflicts(app.Ctx, app.NewPersonnelScanner(), app.Logger, date)
			if err != nil {
				return err
			}

			if len(conflicts) == 0 {
				fmt.Printf("\n%s No personnel committed on %s\n\n", color.New(color.FgGreen).Sprint("✓"), date)
				return nil
			}

			fmt.Printf("\nPersonnel committed on %s\n\n", date)
			fmt.Printf("%-24s%-16s%s\n", "User", "Immersion", "Assignment")
			for _, c := range conflicts {
				fmt.Printf("%-24s%s%s\n", c.UserID, color.New(color.FgRed).Sprintf("%-16s", c.ImmersionCode), c.AssignmentID)
			}
			fmt.Printf("\n%d commitments\n\n", len(conflicts))

			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Immersion date (YYYY-MM-DD)")
	cmd.MarkFlagRequired("date")

	return cmd
}
