package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/robvandam12/breus-sub011/pkg/core/model"
)

func availabilityBadge(result model.ConflictResult, known bool) string {
	switch {
	case !known:
		return color.New(color.FgYellow).Sprint("UNKNOWN")
	case result.IsAvailable:
		return color.New(color.FgGreen).Sprint("FREE   ")
	default:
		return color.New(color.FgRed).Sprint("BUSY   ")
	}
}

func personBadge(p model.PersonStatus) string {
	if p.IsAvailable {
		return color.New(color.FgGreen).Sprint("FREE   ")
	}
	return color.New(color.FgRed).Sprint("BUSY   ")
}

// conflictDetail describes what a resource is committed to
func conflictDetail(result model.ConflictResult) string {
	if result.IsAvailable {
		return ""
	}
	return fmt.Sprintf("%s (assignment %s)", result.ConflictingAssignmentCode, result.ConflictingAssignmentID)
}

func nameColumnWidth(resources []model.Resource) int {
	width := 20
	for _, r := range resources {
		width = max(width, len(r.Name))
	}
	return width + 2
}

// printStatusTable prints one row per resource in request order
func printStatusTable(resources []model.Resource, status model.StatusMap) {
	width := nameColumnWidth(resources)

	fmt.Printf("%-*s%-16s%s\n", width, "Crew", "ID", "Status")
	fmt.Println(strings.Repeat("-", width+16+24))
	for _, r := range resources {
		result, known := status[r.ID]
		fmt.Printf("%-*s%-16s%s %s\n", width, r.Name, r.ID, availabilityBadge(result, known), conflictDetail(result))
	}
}
