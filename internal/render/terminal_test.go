package render

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/oddsboard/internal/view"
	"github.com/XavierBriggs/oddsboard/pkg/models"
	"github.com/XavierBriggs/oddsboard/pkg/testutil"
)

func derive(snap models.Snapshot, selected string) models.BoardView {
	return view.Derive(snap, selected, view.Options{
		Location: time.UTC,
		Locale:   view.LocaleESPE,
	})
}

func TestTerminal_RendersTable(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out, false)

	require.NoError(t, term.Render(context.Background(), derive(testutil.LaLigaSnapshot(), "La Liga")))

	text := out.String()
	assert.Contains(t, text, "* La Liga (1)")
	assert.Contains(t, text, "Margin %")
	assert.Contains(t, text, "01/05/2024, 8:00 p. m.")
	assert.Contains(t, text, "2 (X)")
	assert.Contains(t, text, "4 (Z)")
	assert.Contains(t, text, "-8.333%")
	assert.NotContains(t, text, "\x1b[")
}

func TestTerminal_ColorsMargins(t *testing.T) {
	snap := models.Snapshot{
		"Serie A": {
			testutil.NewTestMatch("C vs D", "", 2.0, 3.0, 4.0),
			testutil.NewTestMatch("E vs F", "", 3.0, 4.0, 5.0),
		},
	}
	var out bytes.Buffer
	term := NewTerminal(&out, true)

	require.NoError(t, term.Render(context.Background(), derive(snap, "Serie A")))

	text := out.String()
	assert.Contains(t, text, ansiRed+"-8.333%"+ansiReset)
	assert.Contains(t, text, ansiGreen+"21.667%"+ansiReset)
}

func TestTerminal_EmptyLeague(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out, true)

	require.NoError(t, term.Render(context.Background(), derive(testutil.LaLigaSnapshot(), "Bundesliga")))

	text := out.String()
	assert.Contains(t, text, "Bundesliga\n")
	assert.Contains(t, text, models.EmptyMessage)
	assert.NotContains(t, text, "* La Liga")
	assert.Contains(t, text, "  La Liga (1)")
}

func TestTerminal_MissingOddsShowPlaceholder(t *testing.T) {
	snap := testutil.LaLigaSnapshot()
	snap["La Liga"][0].BestDraw = models.BestOdd{}
	var out bytes.Buffer

	require.NoError(t, NewTerminal(&out, false).Render(context.Background(), derive(snap, "La Liga")))

	var row string
	for _, line := range strings.Split(out.String(), "\n") {
		if strings.Contains(line, "A vs B") {
			row = line
		}
	}
	require.NotEmpty(t, row)
	fields := strings.Fields(row)
	assert.Equal(t, "-", fields[len(fields)-1], "margin")
	assert.Contains(t, fields, "-")
}

func TestTerminal_NoSelectionOmitsTable(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, NewTerminal(&out, false).Render(context.Background(), derive(testutil.LaLigaSnapshot(), "")))

	assert.NotContains(t, out.String(), "Margin %")
	assert.Contains(t, out.String(), "  La Liga (1)")
}

func TestTerminal_NoLeagues(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, NewTerminal(&out, false).Render(context.Background(), derive(models.Snapshot{}, "")))

	assert.Equal(t, "Leagues\n  -\n\n", out.String())
}
