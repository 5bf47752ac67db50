// Package render draws board views as plain text tables.
package render

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/XavierBriggs/oddsboard/pkg/models"
)

const (
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

// Terminal renders every view as a league list followed by the match table
type Terminal struct {
	out   io.Writer
	color bool
	mu    sync.Mutex
}

// NewTerminal creates a terminal sink writing to out. With color off, margins
// are printed without ANSI escapes.
func NewTerminal(out io.Writer, color bool) *Terminal {
	return &Terminal{out: out, color: color}
}

// Name implements contracts.Sink
func (t *Terminal) Name() string {
	return "terminal"
}

// Render implements contracts.Sink
func (t *Terminal) Render(ctx context.Context, view models.BoardView) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder
	t.writeLeagues(&b, view)
	if view.HasSelection {
		b.WriteString("\n")
		if err := t.writeTable(&b, view); err != nil {
			return fmt.Errorf("write table: %w", err)
		}
	}
	b.WriteString("\n")

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := io.WriteString(t.out, b.String()); err != nil {
		return fmt.Errorf("write terminal: %w", err)
	}
	return nil
}

func (t *Terminal) writeLeagues(b *strings.Builder, view models.BoardView) {
	b.WriteString("Leagues\n")
	if len(view.Leagues) == 0 {
		b.WriteString("  " + models.Placeholder + "\n")
		return
	}
	for _, l := range view.Leagues {
		marker := " "
		if l.Active {
			marker = "*"
		}
		fmt.Fprintf(b, "%s %s (%d)\n", marker, l.Name, l.MatchCount)
	}
}

func (t *Terminal) writeTable(b *strings.Builder, view models.BoardView) error {
	b.WriteString(view.Title + "\n")

	tw := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(view.Columns, "\t"))

	if view.EmptyMessage != "" {
		fmt.Fprintln(tw, view.EmptyMessage)
		return tw.Flush()
	}

	for _, row := range view.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Date,
			row.Name,
			oddText(row.Home),
			oddText(row.Draw),
			oddText(row.Away),
			t.marginText(row.Margin),
		)
	}
	return tw.Flush()
}

func oddText(c models.OddCell) string {
	if c.Missing || c.Bookmaker == "" {
		return c.Text
	}
	return c.Text + " (" + c.Bookmaker + ")"
}

// Margin is the last column, so escapes cannot push later cells out of line.
func (t *Terminal) marginText(c models.MarginCell) string {
	if !t.color {
		return c.Text
	}
	switch c.Color {
	case models.ColorGreen:
		return ansiGreen + c.Text + ansiReset
	case models.ColorRed:
		return ansiRed + c.Text + ansiReset
	default:
		return c.Text
	}
}
