package report

import (
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/kindling-cli/kindling/calendar"
)

const (
	markActive    = "#"
	markProtected = "+"
	markMissed    = "."
	markPending   = "?"

	terminalWidthBackup = 80
	stripLabelReserve   = 12
	minStripDays        = 7
	maxStripDays        = 60
)

// TerminalWidth returns the current terminal width or a backup value.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// StripDaysFor returns how many trailing days fit in a given total width.
func StripDaysFor(totalWidth int) int {
	days := totalWidth - stripLabelReserve
	if days < minStripDays {
		return minStripDays
	}
	if days > maxStripDays {
		return maxStripDays
	}
	return days
}

// ActivityStrip renders the last n days ending at today as one marker per
// day, oldest first: '#' activity, '+' grace-protected, '.' missed, and
// '?' for a today with no activity yet.
func ActivityStrip(activity, protected []calendar.Day, today calendar.Day, n int) string {
	if n <= 0 {
		return ""
	}
	active := make(map[calendar.Day]struct{}, len(activity))
	for _, d := range activity {
		active[d] = struct{}{}
	}
	healed := make(map[calendar.Day]struct{}, len(protected))
	for _, d := range protected {
		healed[d] = struct{}{}
	}

	var b strings.Builder
	for i := n - 1; i >= 0; i-- {
		d := today.AddDays(-i)
		switch {
		case contains(active, d):
			b.WriteString(markActive)
		case contains(healed, d):
			b.WriteString(markProtected)
		case d.Equal(today):
			b.WriteString(markPending)
		default:
			b.WriteString(markMissed)
		}
	}
	return b.String()
}

func contains(set map[calendar.Day]struct{}, d calendar.Day) bool {
	_, ok := set[d]
	return ok
}
