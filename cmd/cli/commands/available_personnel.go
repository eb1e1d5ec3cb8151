package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robvandam12/breus-sub011/pkg/core/model"
	"github.com/robvandam12/breus-sub011/pkg/core/services"
)

// AvailablePersonnelCmd creates the availablePersonnel command
func AvailablePersonnelCmd(app *AppContext) *cobra.Command {
	var (
		date string
		role string
	)

	cmd := &cobra.Command{
		Use:   "availablePersonnel",
		Short: "List divers and supervisors with their availability on a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			personnel, err := services.ListAvailablePersonnel(app.Ctx, app.NewPersonnelScanner(), app.Logger, date, model.Role(role))
			if err != nil {
				return err
			}

			fmt.Printf("\nPersonnel on %s\n\n", date)
			if len(personnel) == 0 {
				fmt.Printf("No personnel found\n\n")
				return nil
			}

			available := 0
			for _, p := range personnel {
				detail := ""
				if p.Conflict != nil {
					detail = fmt.Sprintf("%s (assignment %s)", p.Conflict.ImmersionCode, p.Conflict.AssignmentID)
				} else {
					available++
				}
				if p.IsEmergencyStandby {
					detail += " [standby]"
				}
				fmt.Printf("%-24s%-12s%s %s\n", p.Name, p.Role, personBadge(p), detail)
			}
			fmt.Printf("\n%d of %d available\n\n", available, len(personnel))

			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Immersion date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&role, "role", "r", "", "Filter by role: diver or supervisor")
	cmd.MarkFlagRequired("date")

	return cmd
}
