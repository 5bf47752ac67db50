package board

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/oddsboard/adapters/cuotasapi"
	"github.com/XavierBriggs/oddsboard/internal/registry"
	"github.com/XavierBriggs/oddsboard/internal/view"
	"github.com/XavierBriggs/oddsboard/pkg/models"
	"github.com/XavierBriggs/oddsboard/pkg/testutil"
)

var fixedNow = time.Date(2024, 4, 30, 12, 0, 0, 0, time.UTC)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestBoard(t *testing.T, src *testutil.MockSource) (*Board, *testutil.RecordingSink) {
	t.Helper()

	sink := &testutil.RecordingSink{}
	sinks := registry.NewSinkRegistry()
	require.NoError(t, sinks.Register(sink))

	opts := view.Options{
		Location: time.UTC,
		Locale:   view.LocaleESPE,
		Now:      func() time.Time { return fixedNow },
	}
	return New(src, sinks, opts, quietLogger()), sink
}

func TestRefresh_ReplacesSnapshotAndRenders(t *testing.T) {
	src := &testutil.MockSource{
		FetchSnapshotFunc: func(ctx context.Context) (models.Snapshot, error) {
			return testutil.LaLigaSnapshot(), nil
		},
	}
	b, sink := newTestBoard(t, src)

	assert.Empty(t, b.Snapshot())

	require.NoError(t, b.Refresh(context.Background()))

	assert.Contains(t, b.Snapshot(), "La Liga")
	snap, generation := b.SnapshotGeneration()
	assert.Contains(t, snap, "La Liga")
	assert.Equal(t, uint64(1), generation)
	v, ok := sink.Last()
	require.True(t, ok)
	assert.Equal(t, uint64(1), v.Generation)
	require.Len(t, v.Leagues, 1)
	assert.False(t, v.HasSelection)
	assert.Empty(t, v.Rows)
}

func TestRefresh_RendersSelectedLeague(t *testing.T) {
	src := &testutil.MockSource{
		FetchSnapshotFunc: func(ctx context.Context) (models.Snapshot, error) {
			return testutil.LaLigaSnapshot(), nil
		},
	}
	b, sink := newTestBoard(t, src)

	b.SelectLeague(context.Background(), "La Liga")
	v, _ := sink.Last()
	assert.Equal(t, models.EmptyMessage, v.EmptyMessage, "nothing fetched yet")

	require.NoError(t, b.Refresh(context.Background()))

	v, _ = sink.Last()
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "-8.333%", v.Rows[0].Margin.Text)
	assert.Equal(t, models.ColorRed, v.Rows[0].Margin.Color)
	assert.True(t, v.Leagues[0].Active)
}

func TestRefresh_FailureKeepsState(t *testing.T) {
	var fail atomic.Bool
	src := &testutil.MockSource{
		FetchSnapshotFunc: func(ctx context.Context) (models.Snapshot, error) {
			if fail.Load() {
				return nil, errors.New("connection refused")
			}
			return testutil.LaLigaSnapshot(), nil
		},
	}
	b, sink := newTestBoard(t, src)
	b.SelectLeague(context.Background(), "La Liga")
	require.NoError(t, b.Refresh(context.Background()))
	rendered := len(sink.Views())
	before := b.View()

	fail.Store(true)
	err := b.Refresh(context.Background())

	assert.Error(t, err)
	assert.Equal(t, before, b.View())
	assert.Equal(t, "La Liga", b.Selected())
	assert.Len(t, sink.Views(), rendered, "failed poll must not re-render")

	st := b.Status()
	assert.Equal(t, 1, st.ConsecutiveFailures)
	assert.Contains(t, st.LastError, "connection refused")
	assert.Equal(t, uint64(1), st.Generation)

	fail.Store(false)
	require.NoError(t, b.Refresh(context.Background()))
	st = b.Status()
	assert.Zero(t, st.ConsecutiveFailures)
	assert.Empty(t, st.LastError)
}

func TestRefresh_IdenticalResponsesRenderSameRows(t *testing.T) {
	src := &testutil.MockSource{
		FetchSnapshotFunc: func(ctx context.Context) (models.Snapshot, error) {
			return testutil.LaLigaSnapshot(), nil
		},
	}
	b, sink := newTestBoard(t, src)
	b.SelectLeague(context.Background(), "La Liga")

	require.NoError(t, b.Refresh(context.Background()))
	first, _ := sink.Last()
	require.NoError(t, b.Refresh(context.Background()))
	second, _ := sink.Last()

	assert.Equal(t, first.Rows, second.Rows)
	assert.Equal(t, first.Leagues, second.Leagues)
	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, first.Generation+1, second.Generation)
}

func TestSelectLeague_UnknownLeague(t *testing.T) {
	src := &testutil.MockSource{
		FetchSnapshotFunc: func(ctx context.Context) (models.Snapshot, error) {
			return testutil.LaLigaSnapshot(), nil
		},
	}
	b, sink := newTestBoard(t, src)
	require.NoError(t, b.Refresh(context.Background()))

	b.SelectLeague(context.Background(), "Bundesliga")

	v, _ := sink.Last()
	assert.Equal(t, "Bundesliga", v.Title)
	assert.Empty(t, v.Rows)
	assert.Equal(t, models.EmptyMessage, v.EmptyMessage)
}

func TestViewFor_LeavesSelectionUntouched(t *testing.T) {
	src := &testutil.MockSource{
		FetchSnapshotFunc: func(ctx context.Context) (models.Snapshot, error) {
			return testutil.LaLigaSnapshot(), nil
		},
	}
	b, sink := newTestBoard(t, src)
	require.NoError(t, b.Refresh(context.Background()))
	rendered := len(sink.Views())

	v := b.ViewFor("La Liga")

	require.Len(t, v.Rows, 1)
	assert.Equal(t, "La Liga", v.Title)
	assert.Equal(t, uint64(1), v.Generation)
	assert.Empty(t, b.Selected())
	assert.Len(t, sink.Views(), rendered)
}

func TestRender_SinkErrorDoesNotStopOtherSinks(t *testing.T) {
	failing := &testutil.RecordingSink{SinkName: "failing", Err: errors.New("sink down")}
	ok := &testutil.RecordingSink{SinkName: "ok"}
	sinks := registry.NewSinkRegistry()
	require.NoError(t, sinks.Register(failing))
	require.NoError(t, sinks.Register(ok))

	b := New(&testutil.MockSource{}, sinks, view.Options{}, quietLogger())
	require.NoError(t, b.Refresh(context.Background()))

	assert.Len(t, failing.Views(), 1)
	assert.Len(t, ok.Views(), 1)
}

// Two polls against a live endpoint where the second returns 500: the board keeps
// showing the first poll.
func TestRefresh_ServerErrorOnSecondPoll(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) > 1 {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(testutil.LaLigaJSON))
	}))
	defer srv.Close()

	sink := &testutil.RecordingSink{}
	sinks := registry.NewSinkRegistry()
	require.NoError(t, sinks.Register(sink))
	b := New(cuotasapi.NewClient(srv.URL), sinks, view.Options{Now: func() time.Time { return fixedNow }}, quietLogger())
	b.SelectLeague(context.Background(), "La Liga")

	require.NoError(t, b.Refresh(context.Background()))
	first := b.View()

	err := b.Refresh(context.Background())
	require.Error(t, err)

	var httpErr *cuotasapi.HTTPError
	assert.True(t, errors.As(err, &httpErr))
	assert.Equal(t, first, b.View())
	require.Len(t, first.Rows, 1)
	assert.Equal(t, "-8.333%", first.Rows[0].Margin.Text)
}
