// Package presentation holds the view-layer helpers shared by the HTML
// pages, the printable document and the exports: date and counter
// formatting, counter animation frames, flash messages and navigation state.
package presentation

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/noah-isme/matricula-admin/internal/models"
)

const (
	missingDate = "N/A"
	placeholder = "---"
)

var monthNames = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

var printer = message.NewPrinter(language.Spanish)

// FormatDisplayDate renders a stored date or timestamp as a long Spanish date
// ("2 de enero de 2025"). Empty input yields "N/A"; unparsable input is
// returned unchanged.
func FormatDisplayDate(raw string) string {
	if raw == "" {
		return missingDate
	}
	t, ok := parseAny(raw)
	if !ok {
		return raw
	}
	return fmt.Sprintf("%d de %s de %d", t.Day(), monthNames[t.Month()-1], t.Year())
}

// FormatShortDate renders dd/mm/yyyy, "---" when empty.
func FormatShortDate(raw string) string {
	if raw == "" {
		return placeholder
	}
	t, ok := parseAny(raw)
	if !ok {
		return raw
	}
	return t.Format("02/01/2006")
}

// FormatTimestamp renders the local date and time the way the listing print
// header shows it.
func FormatTimestamp(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d %s", t.Day(), int(t.Month()), t.Year(), t.Format("15:04:05"))
}

// FormatCounter renders a statistic. Percentages are plain integers;
// everything else uses Spanish digit grouping.
func FormatCounter(value int, suffix string) string {
	if suffix == "%" {
		return fmt.Sprintf("%d%%", value)
	}
	return printer.Sprintf("%d", value) + suffix
}

// CurrentYear returns the year shown in the footer.
func CurrentYear(now time.Time) int {
	return now.Year()
}

// ActiveNav returns the css class for a navigation link.
func ActiveNav(current, target string) string {
	if current == target {
		return "active"
	}
	return ""
}

func parseAny(raw string) (time.Time, bool) {
	if t, ok := models.ParseDate(raw); ok {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}
