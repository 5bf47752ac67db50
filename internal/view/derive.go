// Package view derives what the board shows from a snapshot and a selection.
// Nothing here touches the network or a sink.
package view

import (
	"sort"
	"time"

	"github.com/XavierBriggs/oddsboard/internal/margin"
	"github.com/XavierBriggs/oddsboard/pkg/models"
)

// Options controls presentation details of a derived view
type Options struct {
	Location *time.Location
	Locale   Locale

	// Order sorts league names for the league list; alphabetical when nil
	Order func([]string) []string

	// Now stamps RenderedAt; time.Now when nil
	Now func() time.Time
}

// Derive builds the board view for a snapshot and the selected league.
// An empty selection means no league is selected yet.
func Derive(snap models.Snapshot, selected string, opts Options) models.BoardView {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	v := models.BoardView{
		Leagues:      leagueItems(snap, selected, opts.Order),
		Selected:     selected,
		HasSelection: selected != "",
		Columns:      append([]string(nil), models.Columns...),
		Rows:         []models.MatchRow{},
		RenderedAt:   now(),
	}

	if !v.HasSelection {
		return v
	}

	v.Title = selected

	matches, _ := snap.Matches(selected)
	if len(matches) == 0 {
		v.EmptyMessage = models.EmptyMessage
		return v
	}

	v.Rows = make([]models.MatchRow, 0, len(matches))
	for _, match := range matches {
		v.Rows = append(v.Rows, Row(match, opts))
	}

	return v
}

// Row builds a single table row
func Row(match models.MatchOdds, opts Options) models.MatchRow {
	return models.MatchRow{
		Date:   FormatDisplayDate(match.Date, opts.Location, opts.Locale),
		Name:   match.Name,
		Home:   OddCell(match.BestHome),
		Draw:   OddCell(match.BestDraw),
		Away:   OddCell(match.BestAway),
		Margin: margin.Cell(match),
	}
}

// OddCell renders a best odd; the bookmaker is dropped when there is no quote
func OddCell(best models.BestOdd) models.OddCell {
	text := best.Odd.Text()
	if text == "" {
		return models.OddCell{Text: models.Placeholder, Missing: true}
	}
	return models.OddCell{Text: text, Bookmaker: best.Bookmaker}
}

func leagueItems(snap models.Snapshot, selected string, order func([]string) []string) []models.LeagueItem {
	names := snap.Leagues()
	if order != nil {
		names = order(names)
	} else {
		sort.Strings(names)
	}

	items := make([]models.LeagueItem, 0, len(names))
	for _, name := range names {
		items = append(items, models.LeagueItem{
			Name:       name,
			MatchCount: len(snap[name]),
			Active:     name == selected,
		})
	}
	return items
}
