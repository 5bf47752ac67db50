package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/oddsboard/pkg/testutil"
)

func TestRegister(t *testing.T) {
	r := NewSinkRegistry()

	require.NoError(t, r.Register(&testutil.RecordingSink{SinkName: "terminal"}))
	require.NoError(t, r.Register(&testutil.RecordingSink{SinkName: "redis"}))
	assert.Equal(t, 2, r.Count())

	err := r.Register(&testutil.RecordingSink{SinkName: "terminal"})
	assert.Error(t, err)
	assert.Equal(t, 2, r.Count())
}

func TestGetAll_KeepsRegistrationOrder(t *testing.T) {
	r := NewSinkRegistry()
	for _, name := range []string{"web", "terminal", "redis"} {
		require.NoError(t, r.Register(&testutil.RecordingSink{SinkName: name}))
	}

	var names []string
	for _, s := range r.GetAll() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"web", "terminal", "redis"}, names)
}

func TestGet(t *testing.T) {
	r := NewSinkRegistry()
	require.NoError(t, r.Register(&testutil.RecordingSink{SinkName: "web"}))

	s, ok := r.Get("web")
	require.True(t, ok)
	assert.Equal(t, "web", s.Name())

	_, ok = r.Get("missing")
	assert.False(t, ok)
}
