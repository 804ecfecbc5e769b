package player_test

import (
	"errors"
	"testing"

	"github.com/aria/video-analyzer/internal/player"
	"github.com/aria/video-analyzer/internal/player/playertest"
	"github.com/aria/video-analyzer/internal/videosource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdapter(f *playertest.Factory) *player.Adapter {
	return player.NewAdapter(player.AdapterConfig{Factory: f})
}

func TestAdapter_LoadInvalidSource(t *testing.T) {
	f := &playertest.Factory{}
	a := newAdapter(f)

	err := a.Load("not a video")
	require.ErrorIs(t, err, videosource.ErrInvalidSource)
	assert.Empty(t, f.Created)
	assert.False(t, a.Ready())
}

func TestAdapter_LoadDisablesNativeChrome(t *testing.T) {
	f := &playertest.Factory{Duration: 900}
	a := newAdapter(f)

	require.NoError(t, a.Load("https://www.youtube.com/watch?v=US90ZQyKHR8"))
	e := f.Last()
	require.NotNil(t, e)
	assert.Equal(t, "US90ZQyKHR8", e.VideoID)
	assert.Equal(t, player.Options{}, e.Options)
	assert.Equal(t, "US90ZQyKHR8", a.VideoID())
}

func TestAdapter_QueriesAreNoOpsBeforeReady(t *testing.T) {
	f := &playertest.Factory{Duration: 900}
	a := newAdapter(f)
	require.NoError(t, a.Load("US90ZQyKHR8"))
	e := f.Last()
	e.Time = 12

	_, ok := a.CurrentTime()
	assert.False(t, ok)
	assert.Zero(t, a.Duration())

	a.Seek(30)
	a.SetPlaybackRate(2)
	a.TogglePlayPause()
	assert.Empty(t, e.Seeks)
	assert.Equal(t, 1.0, e.Rate)
	assert.Equal(t, player.StateUnstarted, e.PlayState)
}

func TestAdapter_ReadyCachesDurationOnce(t *testing.T) {
	f := &playertest.Factory{Duration: 900}
	a := newAdapter(f)

	var calls []float64
	a.OnReady(func(d float64) { calls = append(calls, d) })

	require.NoError(t, a.Load("US90ZQyKHR8"))
	e := f.Last()
	e.FireReady()
	e.FireReady()

	assert.Equal(t, []float64{900}, calls)
	assert.True(t, a.Ready())
	assert.Equal(t, 900.0, a.Duration())

	e.Time = 45.5
	got, ok := a.CurrentTime()
	require.True(t, ok)
	assert.Equal(t, 45.5, got)
}

func TestAdapter_ReadyDuringCreate(t *testing.T) {
	f := &playertest.Factory{Duration: 60, ReadyOnCreate: true}
	a := newAdapter(f)

	fired := 0
	a.OnReady(func(float64) { fired++ })
	require.NoError(t, a.Load("US90ZQyKHR8"))

	assert.True(t, a.Ready())
	assert.Equal(t, 1, fired)
	assert.Equal(t, 60.0, a.Duration())
}

func TestAdapter_ReloadDestroysPreviousEngine(t *testing.T) {
	f := &playertest.Factory{Duration: 900}
	a := newAdapter(f)

	require.NoError(t, a.Load("US90ZQyKHR8"))
	first := f.Last()
	first.FireReady()

	require.NoError(t, a.Load("x3aqed6EZE0"))
	second := f.Last()

	assert.NotSame(t, first, second)
	assert.True(t, first.Destroyed)
	assert.False(t, second.Destroyed)
	assert.False(t, a.Ready(), "new engine is not ready until it signals")
	assert.Zero(t, a.Duration())
}

func TestAdapter_StaleReadyIgnored(t *testing.T) {
	f := &playertest.Factory{Duration: 900}
	a := newAdapter(f)

	fired := 0
	a.OnReady(func(float64) { fired++ })

	require.NoError(t, a.Load("US90ZQyKHR8"))
	first := f.Last()
	require.NoError(t, a.Load("x3aqed6EZE0"))

	first.FireReady()
	assert.False(t, a.Ready())
	assert.Zero(t, fired)

	f.Last().FireReady()
	assert.True(t, a.Ready())
	assert.Equal(t, 1, fired)
}

func TestAdapter_TransportCommands(t *testing.T) {
	f := &playertest.Factory{Duration: 900}
	a := newAdapter(f)
	require.NoError(t, a.Load("US90ZQyKHR8"))
	e := f.Last()
	e.FireReady()

	a.Seek(-4)
	a.Seek(45)
	assert.Equal(t, []float64{0, 45}, e.Seeks)

	a.SetPlaybackRate(1.5)
	assert.Equal(t, 1.5, e.Rate)

	a.TogglePlayPause()
	assert.Equal(t, player.StatePlaying, e.PlayState)
	a.TogglePlayPause()
	assert.Equal(t, player.StatePaused, e.PlayState)
}

func TestAdapter_StateChangeForwarded(t *testing.T) {
	f := &playertest.Factory{Duration: 900}
	a := newAdapter(f)

	var states []player.PlayState
	a.OnStateChange(func(s player.PlayState) { states = append(states, s) })

	require.NoError(t, a.Load("US90ZQyKHR8"))
	e := f.Last()
	e.FireStateChange(player.StatePlaying)
	assert.Equal(t, player.StatePlaying, a.State())

	require.NoError(t, a.Load("x3aqed6EZE0"))
	e.FireStateChange(player.StatePaused)

	assert.Equal(t, []player.PlayState{player.StatePlaying}, states)
	assert.Equal(t, player.StateUnstarted, a.State())
}

func TestAdapter_DispatchDefersEvents(t *testing.T) {
	f := &playertest.Factory{Duration: 900}
	var queue []func()
	a := player.NewAdapter(player.AdapterConfig{
		Factory:  f,
		Dispatch: func(fn func()) { queue = append(queue, fn) },
	})

	require.NoError(t, a.Load("US90ZQyKHR8"))
	f.Last().FireReady()
	assert.False(t, a.Ready(), "ready must wait for the event loop")

	require.Len(t, queue, 1)
	queue[0]()
	assert.True(t, a.Ready())
}

func TestAdapter_FactoryError(t *testing.T) {
	boom := errors.New("boom")
	f := &playertest.Factory{Err: boom}
	a := newAdapter(f)

	err := a.Load("US90ZQyKHR8")
	require.ErrorIs(t, err, boom)
	assert.False(t, a.Ready())
}

func TestAdapter_CloseDestroys(t *testing.T) {
	f := &playertest.Factory{Duration: 900}
	a := newAdapter(f)
	require.NoError(t, a.Load("US90ZQyKHR8"))
	e := f.Last()
	e.FireReady()

	a.Close()
	assert.True(t, e.Destroyed)
	assert.False(t, a.Ready())
	_, ok := a.CurrentTime()
	assert.False(t, ok)
}
