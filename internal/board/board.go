// Package board owns the odds board state: the latest snapshot, the selected
// league and the sinks every change is rendered to.
package board

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/XavierBriggs/oddsboard/internal/registry"
	"github.com/XavierBriggs/oddsboard/internal/view"
	"github.com/XavierBriggs/oddsboard/pkg/contracts"
	"github.com/XavierBriggs/oddsboard/pkg/models"
)

// Board holds the snapshot and selection and renders them to sinks
type Board struct {
	source contracts.SnapshotSource
	sinks  *registry.SinkRegistry
	opts   view.Options
	log    logrus.FieldLogger

	mu                  sync.RWMutex
	snapshot            models.Snapshot
	selected            string
	generation          uint64
	lastAttempt         time.Time
	lastSuccess         time.Time
	lastError           string
	consecutiveFailures int

	// serializes sink delivery so views arrive in derivation order
	renderMu sync.Mutex
}

// Status summarizes polling health for diagnostics
type Status struct {
	Source              string    `json:"source"`
	Generation          uint64    `json:"generation"`
	Selected            string    `json:"selected,omitempty"`
	Leagues             int       `json:"leagues"`
	Matches             int       `json:"matches"`
	LastAttempt         time.Time `json:"last_attempt,omitempty"`
	LastSuccess         time.Time `json:"last_success,omitempty"`
	LastError           string    `json:"last_error,omitempty"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
}

// New creates a board with an empty snapshot and no selection
func New(source contracts.SnapshotSource, sinks *registry.SinkRegistry, opts view.Options, log logrus.FieldLogger) *Board {
	if sinks == nil {
		sinks = registry.NewSinkRegistry()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Board{
		source:   source,
		sinks:    sinks,
		opts:     opts,
		log:      log.WithField("component", "board"),
		snapshot: models.Snapshot{},
	}
}

// Refresh fetches a new snapshot and, on success, replaces the current one and
// re-renders. On failure the previous snapshot and selection stay as they are;
// the error is logged and returned, never retried.
func (b *Board) Refresh(ctx context.Context) error {
	start := time.Now()

	b.mu.Lock()
	b.lastAttempt = start
	b.mu.Unlock()

	snap, err := b.source.FetchSnapshot(ctx)
	if err != nil {
		b.mu.Lock()
		b.lastError = err.Error()
		b.consecutiveFailures++
		failures := b.consecutiveFailures
		b.mu.Unlock()

		b.log.WithError(err).WithFields(logrus.Fields{
			"source":               b.source.Describe(),
			"consecutive_failures": failures,
		}).Error("error loading odds, keeping previous snapshot")
		return err
	}

	b.mu.Lock()
	b.snapshot = snap
	b.generation++
	b.lastSuccess = time.Now()
	b.lastError = ""
	b.consecutiveFailures = 0
	generation := b.generation
	b.mu.Unlock()

	b.log.WithFields(logrus.Fields{
		"generation": generation,
		"leagues":    len(snap),
		"matches":    snap.MatchCount(),
		"duration":   time.Since(start),
	}).Debug("snapshot refreshed")

	b.render(ctx)
	return nil
}

// SelectLeague sets the league whose matches are shown. The league does not
// have to exist in the current snapshot.
func (b *Board) SelectLeague(ctx context.Context, name string) {
	b.mu.Lock()
	b.selected = name
	b.mu.Unlock()

	b.log.WithField("league", name).Debug("league selected")
	b.render(ctx)
}

// View derives the current board view
func (b *Board) View() models.BoardView {
	b.mu.RLock()
	snap, selected, generation := b.snapshot, b.selected, b.generation
	b.mu.RUnlock()

	v := view.Derive(snap, selected, b.opts)
	v.Generation = generation
	return v
}

// ViewFor derives the view with league selected, leaving the board's own
// selection untouched
func (b *Board) ViewFor(league string) models.BoardView {
	b.mu.RLock()
	snap, generation := b.snapshot, b.generation
	b.mu.RUnlock()

	v := view.Derive(snap, league, b.opts)
	v.Generation = generation
	return v
}

// Snapshot returns the current snapshot. Callers must not modify it.
func (b *Board) Snapshot() models.Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshot
}

// SnapshotGeneration returns the current snapshot and its generation under one read
func (b *Board) SnapshotGeneration() (models.Snapshot, uint64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshot, b.generation
}

// Selected returns the selected league, empty when none
func (b *Board) Selected() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.selected
}

// Status returns polling diagnostics
func (b *Board) Status() Status {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return Status{
		Source:              b.source.Describe(),
		Generation:          b.generation,
		Selected:            b.selected,
		Leagues:             len(b.snapshot),
		Matches:             b.snapshot.MatchCount(),
		LastAttempt:         b.lastAttempt,
		LastSuccess:         b.lastSuccess,
		LastError:           b.lastError,
		ConsecutiveFailures: b.consecutiveFailures,
	}
}

// Render pushes the current view to every sink
func (b *Board) Render(ctx context.Context) {
	b.render(ctx)
}

func (b *Board) render(ctx context.Context) {
	b.renderMu.Lock()
	defer b.renderMu.Unlock()

	v := b.View()
	for _, sink := range b.sinks.GetAll() {
		if err := sink.Render(ctx, v); err != nil {
			b.log.WithError(err).WithField("sink", sink.Name()).Warn("render failed")
		}
	}
}
