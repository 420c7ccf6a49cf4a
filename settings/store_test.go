package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, demoMode bool) *Store {
	t.Helper()
	s, err := NewStore(context.Background(), nil, demoMode)
	require.NoError(t, err)
	return s
}

func TestShouldShowProductionMode(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, false)
	assert.True(t, s.ShouldShow("u1"), "new user sees setup")

	// Showing without completing does not hide it in production mode.
	s.MarkShownInSession("u1")
	assert.True(t, s.ShouldShow("u1"))

	require.NoError(t, s.Complete(context.Background(), "u1"))
	assert.False(t, s.ShouldShow("u1"))
	assert.True(t, s.ShouldShow("u2"), "other users unaffected")
}

func TestShouldShowDemoMode(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, true)
	assert.True(t, s.ShouldShow("u1"))

	s.MarkShownInSession("u1")
	assert.False(t, s.ShouldShow("u1"), "demo mode hides for the session once shown")
	assert.True(t, s.ShouldShow("u2"))
}

func TestCompleteMirrorsIntoSession(t *testing.T) {
	t.Parallel()

	// In demo mode completion also counts as shown-this-session, so the
	// screen does not pop right back up after finishing it.
	s := newTestStore(t, true)
	require.NoError(t, s.Complete(context.Background(), "u1"))
	assert.False(t, s.ShouldShow("u1"))
}

func TestCompletedFlagSurvivesDemoToggle(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, false)
	require.NoError(t, s.Complete(context.Background(), "u1"))

	// The permanent flag is what production mode consults.
	assert.False(t, s.ShouldShow("u1"))
	s.MarkShownInSession("u1")
	assert.False(t, s.ShouldShow("u1"))
}
