package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Snapshot is one complete fetch of every league's current best odds.
// It is replaced wholesale on each successful poll and never mutated.
type Snapshot map[string][]MatchOdds

// MatchOdds represents a single match with the best odds per outcome
type MatchOdds struct {
	Date     string  `json:"date,omitempty"` // ISO-8601, UTC
	Name     string  `json:"name"`
	Home     string  `json:"home,omitempty"`
	Away     string  `json:"away,omitempty"`
	BestHome BestOdd `json:"best_home"`
	BestDraw BestOdd `json:"best_draw"`
	BestAway BestOdd `json:"best_away"`
}

// BestOdd is the highest quoted decimal odd for one outcome and the bookmaker offering it
type BestOdd struct {
	Odd       Odd    `json:"odd"`
	Bookmaker string `json:"bookmaker"`
}

// Odd is a decimal odds value as received from the feed. The feed sends numbers,
// numeric strings or null; anything that is not a positive finite number is
// treated as "no quote available".
type Odd struct {
	text    string
	value   float64
	valid   bool
	present bool
	quoted  bool
}

// NewOdd creates an odd from a number
func NewOdd(v float64) Odd {
	return Odd{
		text:    strconv.FormatFloat(v, 'f', -1, 64),
		value:   v,
		valid:   isQuote(v),
		present: true,
	}
}

// ParseOdd creates an odd from its textual form
func ParseOdd(s string) Odd {
	s = strings.TrimSpace(s)
	if s == "" {
		return Odd{}
	}

	o := Odd{text: s, present: true, quoted: true}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		o.value = v
		o.valid = isQuote(v)
	}
	return o
}

// Value returns the numeric odd and whether it is a usable quote
func (o Odd) Value() (float64, bool) {
	if !o.valid {
		return 0, false
	}
	return o.value, true
}

// Present reports whether the feed sent anything for this odd
func (o Odd) Present() bool {
	return o.present
}

// Text returns the odd as it should be displayed, or "" when unusable
func (o Odd) Text() string {
	if !o.valid {
		return ""
	}
	return o.text
}

// UnmarshalJSON accepts numbers, numeric strings and null. Other JSON types
// decode as an absent odd so one malformed field never rejects a whole snapshot.
func (o *Odd) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*o = Odd{}

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode odd string: %w", err)
		}
		*o = ParseOdd(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		v, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			// out of range: keep the raw text, no usable quote
			*o = Odd{text: string(data), present: true}
			return nil
		}
		*o = NewOdd(v)
	}

	return nil
}

// MarshalJSON writes the odd back in the form it was received
func (o Odd) MarshalJSON() ([]byte, error) {
	if !o.present {
		return []byte("null"), nil
	}
	if o.quoted {
		return json.Marshal(o.text)
	}
	return []byte(o.text), nil
}

func isQuote(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Leagues returns the league names in the snapshot, sorted
func (s Snapshot) Leagues() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Matches returns the matches of a league and whether the league exists
func (s Snapshot) Matches(league string) ([]MatchOdds, bool) {
	matches, ok := s[league]
	return matches, ok
}

// MatchCount returns the total number of matches across leagues
func (s Snapshot) MatchCount() int {
	total := 0
	for _, matches := range s {
		total += len(matches)
	}
	return total
}

// ErrNotObject is returned when a snapshot document is not a JSON object
var ErrNotObject = errors.New("snapshot is not a JSON object")

// DecodeSnapshot reads a snapshot document: an object of league name to match list
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return ParseSnapshot(body)
}

// ParseSnapshot parses a snapshot document already held in memory
func ParseSnapshot(body []byte) (Snapshot, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrNotObject
	}

	var snap Snapshot
	if err := json.Unmarshal(trimmed, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if snap == nil {
		snap = Snapshot{}
	}

	return snap, nil
}
