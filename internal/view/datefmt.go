package view

import (
	"strings"
	"time"

	"github.com/XavierBriggs/oddsboard/pkg/models"
)

// Locale describes how match dates are written
type Locale struct {
	Name       string
	DateLayout string // Go layout without the day period
	AM         string
	PM         string
}

// LocaleESPE renders numeric day/month/year and a 12-hour clock, as the es-PE locale does
var LocaleESPE = Locale{
	Name:       "es-PE",
	DateLayout: "02/01/2006, 3:04",
	AM:         "a. m.",
	PM:         "p. m.",
}

// DefaultTimezone is the display timezone of the board
const DefaultTimezone = "America/Lima"

// feed date layouts, tried in order; layouts without a zone are read as UTC
var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04 MST",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseFeedDate parses the date formats the collectors emit
func ParseFeedDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatDisplayDate converts a UTC feed date to the display timezone and locale.
// Absent or unparseable dates render as the placeholder.
func FormatDisplayDate(raw string, loc *time.Location, locale Locale) string {
	t, ok := ParseFeedDate(raw)
	if !ok {
		return models.Placeholder
	}
	if loc == nil {
		loc = time.UTC
	}

	local := t.In(loc)
	period := locale.AM
	if local.Hour() >= 12 {
		period = locale.PM
	}

	return local.Format(locale.DateLayout) + " " + period
}
