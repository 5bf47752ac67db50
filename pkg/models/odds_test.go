package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOddUnmarshal(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValue float64
		wantValid bool
		wantText  string
		present   bool
	}{
		{"number", `2.5`, 2.5, true, "2.5", true},
		{"number trailing zero", `2.10`, 2.1, true, "2.1", true},
		{"numeric string", `"3.25"`, 3.25, true, "3.25", true},
		{"padded string", `" 1.9 "`, 1.9, true, "1.9", true},
		{"null", `null`, 0, false, "", false},
		{"empty string", `""`, 0, false, "", false},
		{"garbage string", `"abc"`, 0, false, "", true},
		{"zero", `0`, 0, false, "", true},
		{"negative", `-1.5`, 0, false, "", true},
		{"bool", `true`, 0, false, "", false},
		{"out of range", `1e400`, 0, false, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o Odd
			require.NoError(t, json.Unmarshal([]byte(tt.input), &o))

			v, ok := o.Value()
			assert.Equal(t, tt.wantValid, ok)
			assert.InDelta(t, tt.wantValue, v, 1e-12)
			assert.Equal(t, tt.wantText, o.Text())
			assert.Equal(t, tt.present, o.Present())
		})
	}
}

func TestOddAbsentField(t *testing.T) {
	var b BestOdd
	require.NoError(t, json.Unmarshal([]byte(`{"bookmaker":"X"}`), &b))

	_, ok := b.Odd.Value()
	assert.False(t, ok)
	assert.False(t, b.Odd.Present())
	assert.Equal(t, "X", b.Bookmaker)
}

func TestOddMarshalKeepsForm(t *testing.T) {
	var m MatchOdds
	in := `{"name":"A vs B","best_home":{"odd":2,"bookmaker":"X"},"best_draw":{"odd":"3.1","bookmaker":"Y"},"best_away":{"odd":null,"bookmaker":""}}`
	require.NoError(t, json.Unmarshal([]byte(in), &m))

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"best_home":{"odd":2,`)
	assert.Contains(t, string(out), `"best_draw":{"odd":"3.1",`)
	assert.Contains(t, string(out), `"best_away":{"odd":null,`)
}

func TestParseSnapshot(t *testing.T) {
	body := `{
		"La Liga": [{"date":"2024-05-01T20:00:00Z","name":"A vs B",
			"best_home":{"odd":2.0,"bookmaker":"X"},
			"best_draw":{"odd":3.0,"bookmaker":"Y"},
			"best_away":{"odd":4.0,"bookmaker":"Z"}}],
		"Premier League": []
	}`

	snap, err := DecodeSnapshot(strings.NewReader(body))
	require.NoError(t, err)

	assert.Equal(t, []string{"La Liga", "Premier League"}, snap.Leagues())
	assert.Equal(t, 1, snap.MatchCount())

	matches, ok := snap.Matches("La Liga")
	require.True(t, ok)
	require.Len(t, matches, 1)
	assert.Equal(t, "A vs B", matches[0].Name)
	assert.Equal(t, "Z", matches[0].BestAway.Bookmaker)

	empty, ok := snap.Matches("Premier League")
	assert.True(t, ok)
	assert.Empty(t, empty)

	_, ok = snap.Matches("Serie A")
	assert.False(t, ok)
}

func TestParseSnapshotOutOfRangeOdd(t *testing.T) {
	body := `{"La Liga":[{"name":"A vs B",` +
		`"best_home":{"odd":1e400,"bookmaker":"X"},` +
		`"best_draw":{"odd":3.0,"bookmaker":"Y"},` +
		`"best_away":{"odd":4.0,"bookmaker":"Z"}}],"Serie A":[]}`

	snap, err := ParseSnapshot([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, []string{"La Liga", "Serie A"}, snap.Leagues())
	matches, _ := snap.Matches("La Liga")
	require.Len(t, matches, 1)
	_, ok := matches[0].BestHome.Odd.Value()
	assert.False(t, ok)
	assert.True(t, matches[0].BestHome.Odd.Present())
	_, ok = matches[0].BestDraw.Odd.Value()
	assert.True(t, ok)

	out, err := json.Marshal(matches[0].BestHome)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"odd":1e400`)
}

func TestParseSnapshotRejectsNonObjects(t *testing.T) {
	for _, body := range []string{``, `null`, `[]`, `"x"`, `{"a": `} {
		_, err := ParseSnapshot([]byte(body))
		assert.Error(t, err, "body %q", body)
	}
}

func TestParseSnapshotEmptyObject(t *testing.T) {
	snap, err := ParseSnapshot([]byte(`{}`))
	require.NoError(t, err)
	assert.NotNil(t, snap)
	assert.Empty(t, snap.Leagues())
}
