package models

import "time"

// Placeholder is rendered wherever a value is missing
const Placeholder = "-"

// EmptyMessage is rendered as the single table row of a league with no matches
const EmptyMessage = "no matches available"

// Columns are the table headers, in display order
var Columns = []string{"Date", "Match", "Home", "Draw", "Away", "Margin %"}

// Color is the display color of a margin value
type Color string

const (
	ColorNone  Color = ""
	ColorGreen Color = "green"
	ColorRed   Color = "red"
)

// BoardView is everything a sink needs to draw the board
type BoardView struct {
	Leagues      []LeagueItem `json:"leagues"`
	Selected     string       `json:"selected,omitempty"`
	HasSelection bool         `json:"has_selection"`
	Title        string       `json:"title,omitempty"`
	Columns      []string     `json:"columns"`
	Rows         []MatchRow   `json:"rows"`
	EmptyMessage string       `json:"empty_message,omitempty"`
	Generation   uint64       `json:"generation"`
	RenderedAt   time.Time    `json:"rendered_at"`
}

// LeagueItem is one entry of the league list
type LeagueItem struct {
	Name       string `json:"name"`
	MatchCount int    `json:"match_count"`
	Active     bool   `json:"active"`
}

// MatchRow is one table row
type MatchRow struct {
	Date   string     `json:"date"`
	Name   string     `json:"name"`
	Home   OddCell    `json:"home"`
	Draw   OddCell    `json:"draw"`
	Away   OddCell    `json:"away"`
	Margin MarginCell `json:"margin"`
}

// OddCell shows a best odd and the bookmaker offering it
type OddCell struct {
	Text      string `json:"text"`
	Bookmaker string `json:"bookmaker,omitempty"`
	Missing   bool   `json:"missing"`
}

// MarginCell shows the margin percentage of a match
type MarginCell struct {
	Text    string   `json:"text"`
	Value   *float64 `json:"value,omitempty"`
	Color   Color    `json:"color,omitempty"`
	Missing bool     `json:"missing"`
}
