package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/kindling-cli/kindling/calendar"
	"github.com/kindling-cli/kindling/grace"
	"github.com/kindling-cli/kindling/streak"
)

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	valueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	protectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Status bundles everything the status view shows.
type Status struct {
	Profile      string
	Today        calendar.Day
	Result       streak.Result
	Availability grace.Availability
	Activity     []calendar.Day
}

// RenderStatus prints the streak summary, quota line, and activity strip.
func RenderStatus(w io.Writer, st Status, totalWidth int) error {
	if _, err := fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Streak for %s", st.Profile))); err != nil {
		return err
	}

	effective := fmt.Sprintf("%d", st.Result.Effective)
	if st.Result.Protected {
		effective += protectedStyle.Render(fmt.Sprintf(" (%d grace)", st.Result.GraceUsed))
	}
	lines := []struct {
		label string
		value string
	}{
		{"Streak:", valueStyle.Render(effective)},
		{"Raw streak:", fmt.Sprintf("%d", st.Result.Current)},
		{"Grace days:", fmt.Sprintf("%d of %d used this week",
			st.Availability.UsedThisWeek, st.Availability.MaxPerWeek)},
		{"Resets:", fmt.Sprintf("%s (%d days)",
			st.Availability.ResetsOn, st.Availability.DaysUntilReset)},
	}
	for _, line := range lines {
		if _, err := fmt.Fprintf(w, "%s %s\n", labelStyle.Render(padCell(line.label, 12, false)), line.value); err != nil {
			return err
		}
	}

	for _, d := range st.Result.ProtectedDays {
		if _, err := fmt.Fprintln(w, protectedStyle.Render(fmt.Sprintf("  protected %s", d))); err != nil {
			return err
		}
	}

	days := StripDaysFor(totalWidth)
	strip := ActivityStrip(st.Activity, st.Result.ProtectedDays, st.Today, days)
	if _, err := fmt.Fprintf(w, "%s %s\n",
		labelStyle.Render(padCell(fmt.Sprintf("Last %dd:", days), 12, false)), strip); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, mutedStyle.Render("  # activity  + grace  . missed  ? pending")); err != nil {
		return err
	}
	return nil
}

// RenderHistory prints the grace-day ledger, newest last.
func RenderHistory(w io.Writer, history []grace.Usage) error {
	if len(history) == 0 {
		_, err := fmt.Fprintln(w, "No grace days used.")
		return err
	}
	headers := []string{"Used On", "Missed Day", "Week", "Streak At Use"}
	rows := make([][]string, 0, len(history))
	for _, u := range history {
		rows = append(rows, []string{
			u.UsedOn.String(),
			u.MissedDate.String(),
			fmt.Sprintf("%d/W%02d", u.Year, u.Week),
			fmt.Sprintf("%d", u.StreakAtUse),
		})
	}
	rightAlign := map[int]bool{3: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderAvailability prints the quota check result on its own, for the
// save command's refusal path.
func RenderAvailability(w io.Writer, avail grace.Availability) error {
	state := "available"
	if !avail.Available {
		state = "unavailable"
	}
	_, err := fmt.Fprintf(w, "Grace day %s: %d of %d used, resets %s (%d days)\n",
		state, avail.UsedThisWeek, avail.MaxPerWeek, avail.ResetsOn, avail.DaysUntilReset)
	return err
}
