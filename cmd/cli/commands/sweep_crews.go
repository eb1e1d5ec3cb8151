package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/robvandam12/breus-sub011/pkg/core/availability"
	"github.com/robvandam12/breus-sub011/pkg/core/model"
	"github.com/robvandam12/breus-sub011/pkg/core/services"
)

// SweepCrewsCmd creates the sweepCrews command
func SweepCrewsCmd(app *AppContext) *cobra.Command {
	var (
		rule string
		from string
		to   string
	)

	cmd := &cobra.Command{
		Use:   "sweepCrews <crew_id>...",
		Short: "Check crew availability on every date of a recurrence rule",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rule == "" {
				rule = app.Cfg.Sweep.DefaultRRule
			}
			if rule == "" {
				return fmt.Errorf("--rrule is required when sweep.defaultRRule is not configured")
			}

			app.Logger.Debug("sweepCrews command",
				zap.String("rrule", rule),
				zap.String("from", from),
				zap.String("to", to),
				zap.Strings("crews", args))

			// Dates are submitted one at a time, so there is nothing to debounce
			checker := app.NewChecker(availability.WithDebounce(0))
			defer checker.Close()

			result, err := services.SweepCrewAvailability(
				app.Ctx,
				app.Roster,
				checker,
				app.Logger,
				rule,
				from,
				to,
				args,
			)
			if err != nil {
				return err
			}

			if len(result.Dates) == 0 {
				fmt.Printf("\nNo dates match %s between %s and %s\n\n", rule, from, to)
				return nil
			}

			printSweepMatrix(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&rule, "rrule", "", "Recurrence rule, e.g. FREQ=WEEKLY;BYDAY=MO,TH (defaults to sweep.defaultRRule)")
	cmd.Flags().StringVar(&from, "from", "", "First date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last date (YYYY-MM-DD)")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}

// printSweepMatrix prints crews as rows and dates as columns
func printSweepMatrix(result *services.SweepResult) {
	resources := result.Dates[0].Resources
	width := nameColumnWidth(resources)
	const dateColWidth = 12

	fmt.Printf("\nCrew availability for %s\n\n", result.Rule)

	fmt.Printf("%-*s", width, "")
	for _, d := range result.Dates {
		fmt.Printf("%-*s", dateColWidth, d.Date)
	}
	fmt.Println()
	fmt.Println(strings.Repeat("-", width+dateColWidth*len(result.Dates)))

	for _, r := range resources {
		fmt.Printf("%-*s", width, r.Name)
		for _, d := range result.Dates {
			fmt.Print(sweepCell(d.Status, r.ID, dateColWidth))
		}
		fmt.Println()
	}

	fmt.Println()
	fmt.Printf("%s free  %s committed (immersion code shown)  %s not checked\n\n",
		color.New(color.FgGreen).Sprint("✓"),
		color.New(color.FgRed).Sprint("code"),
		color.New(color.FgYellow).Sprint("?"))
}

func sweepCell(status model.StatusMap, resourceID string, width int) string {
	result, known := status[resourceID]
	switch {
	case !known:
		return color.New(color.FgYellow).Sprintf("%-*s", width, "?")
	case result.IsAvailable:
		return color.New(color.FgGreen).Sprintf("%-*s", width, "✓")
	default:
		return color.New(color.FgRed).Sprintf("%-*s", width, result.ConflictingAssignmentCode)
	}
}
