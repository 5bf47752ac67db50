package testutil

import (
	"context"
	"sync"

	"github.com/XavierBriggs/oddsboard/pkg/models"
)

// NewTestMatch creates a match with numeric best odds; a zero odd is left absent
func NewTestMatch(name, date string, home, draw, away float64) models.MatchOdds {
	return models.MatchOdds{
		Date:     date,
		Name:     name,
		BestHome: testBestOdd(home, "X"),
		BestDraw: testBestOdd(draw, "Y"),
		BestAway: testBestOdd(away, "Z"),
	}
}

func testBestOdd(v float64, bookmaker string) models.BestOdd {
	if v == 0 {
		return models.BestOdd{}
	}
	return models.BestOdd{Odd: models.NewOdd(v), Bookmaker: bookmaker}
}

// LaLigaSnapshot returns a fresh single-match snapshot: A vs B at 2.0 / 3.0 / 4.0
func LaLigaSnapshot() models.Snapshot {
	return models.Snapshot{
		"La Liga": {
			NewTestMatch("A vs B", "2024-05-01T20:00:00Z", 2.0, 3.0, 4.0),
		},
	}
}

// LaLigaJSON is LaLigaSnapshot as the endpoint serves it
const LaLigaJSON = `{"La Liga": [{"date":"2024-05-01T20:00:00Z","name":"A vs B",` +
	`"best_home":{"odd":2.0,"bookmaker":"X"},` +
	`"best_draw":{"odd":3.0,"bookmaker":"Y"},` +
	`"best_away":{"odd":4.0,"bookmaker":"Z"}}]}`

// MockSource is a test source that returns predetermined snapshots
type MockSource struct {
	FetchSnapshotFunc func(ctx context.Context) (models.Snapshot, error)

	mu    sync.Mutex
	calls int
}

// FetchSnapshot implements contracts.SnapshotSource
func (m *MockSource) FetchSnapshot(ctx context.Context) (models.Snapshot, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.FetchSnapshotFunc != nil {
		return m.FetchSnapshotFunc(ctx)
	}
	return models.Snapshot{}, nil
}

// Describe implements contracts.SnapshotSource
func (m *MockSource) Describe() string {
	return "mock"
}

// Calls returns how many fetches were made
func (m *MockSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// RecordingSink keeps every view it is asked to render
type RecordingSink struct {
	SinkName string
	Err      error

	mu    sync.Mutex
	views []models.BoardView
}

// Name implements contracts.Sink
func (s *RecordingSink) Name() string {
	if s.SinkName == "" {
		return "recording"
	}
	return s.SinkName
}

// Render implements contracts.Sink
func (s *RecordingSink) Render(ctx context.Context, view models.BoardView) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views = append(s.views, view)
	return s.Err
}

// Views returns a copy of the rendered views
func (s *RecordingSink) Views() []models.BoardView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.BoardView(nil), s.views...)
}

// Last returns the most recent view and whether there is one
func (s *RecordingSink) Last() (models.BoardView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.views) == 0 {
		return models.BoardView{}, false
	}
	return s.views[len(s.views)-1], true
}
