package bot

import (
	"fmt"
	"strings"

	"github.com/zulandar/kcalbot/internal/models"
)

// formatWeightAdded builds the confirmation for a committed weight entry.
func formatWeightAdded(name string, grams, kcalPer100, kcal, total float64) string {
	return fmt.Sprintf(
		"Added: %s\nPortion: %g g\nkcal/100g: %g\nPortion kcal: %.1f\nToday total: %.1f",
		name, grams, kcalPer100, kcal, total)
}

// formatDirectAdded builds the confirmation for a committed direct entry.
func formatDirectAdded(name string, kcal, total float64) string {
	return fmt.Sprintf("Added: %s\nPortion kcal: %.1f\nToday total: %.1f", name, kcal, total)
}

// formatEntryLine renders one numbered list line.
func formatEntryLine(i int, e models.Entry) string {
	if e.IsWeight() && e.Grams != nil && e.KcalPer100 != nil {
		return fmt.Sprintf("%d) %s - %g g, %.1f kcal (100g: %g)", i, e.Name, *e.Grams, e.Kcal, *e.KcalPer100)
	}
	return fmt.Sprintf("%d) %s - %.1f kcal (manual)", i, e.Name, e.Kcal)
}

// formatDayList renders today's entry list with a trailing total.
func formatDayList(day string, entries []models.Entry) string {
	if len(entries) == 0 {
		return "No entries today."
	}
	lines := []string{fmt.Sprintf("Today list (%s):", day)}
	var total float64
	for i, e := range entries {
		total += e.Kcal
		lines = append(lines, formatEntryLine(i+1, e))
	}
	lines = append(lines, fmt.Sprintf("Total: %.1f", total))
	return strings.Join(lines, "\n")
}

// formatDayReport renders the date-pick report for an arbitrary day. Unlike
// the today list, an empty day still reports a zero total.
func formatDayReport(day string, entries []models.Entry) string {
	lines := []string{fmt.Sprintf("Report for %s:", day)}
	var total float64
	for i, e := range entries {
		total += e.Kcal
		lines = append(lines, formatEntryLine(i+1, e))
	}
	lines = append(lines, fmt.Sprintf("Total: %.1f", total))
	return strings.Join(lines, "\n")
}

// helpText reproduces the button legend.
func helpText() string {
	return "Buttons:\n" +
		"Add (grams) - name -> grams -> kcal per 100g\n" +
		"Add (kcal)  - name -> kcal for the portion\n" +
		"List        - today's items\n" +
		"Total       - today's total kcal\n" +
		"Yesterday   - yesterday's total kcal\n" +
		"Week        - total over the last 7 days\n" +
		"Choose date - report for any date\n" +
		"Reset       - clear today\n" +
		"Cancel      - cancel current input"
}
