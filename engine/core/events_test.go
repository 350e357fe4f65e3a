package core

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventFireStopsAtFirstHandler(t *testing.T) {
	require.True(t, EventInitialize())
	defer EventShutdown()
	assert.False(t, EventInitialize())

	var calls []string
	first, second := "first", "second"
	onResize := func(code SystemEventCode, sender, listener interface{}, data EventContext) bool {
		calls = append(calls, listener.(string))
		assert.Equal(t, uint32(800), data.Data.U32[0])
		return listener == second
	}
	require.True(t, EventRegister(EVENT_CODE_RESIZED, first, onResize))
	require.True(t, EventRegister(EVENT_CODE_RESIZED, second, onResize))
	assert.False(t, EventRegister(EVENT_CODE_RESIZED, first, onResize))

	ctx := EventContext{}
	ctx.Data.U32[0] = 800
	assert.True(t, EventFire(EVENT_CODE_RESIZED, nil, ctx))
	assert.Equal(t, []string{"first", "second"}, calls)

	assert.True(t, EventUnregister(EVENT_CODE_RESIZED, second))
	assert.False(t, EventUnregister(EVENT_CODE_RESIZED, second))
	assert.False(t, EventFire(EVENT_CODE_RESIZED, nil, ctx))
	assert.False(t, EventFire(EVENT_CODE_APPLICATION_QUIT, nil, ctx))
}

func TestEventsBeforeInitialize(t *testing.T) {
	assert.False(t, EventRegister(EVENT_CODE_APPLICATION_QUIT, nil, nil))
	assert.False(t, EventFire(EVENT_CODE_APPLICATION_QUIT, nil, EventContext{}))
}

func TestEventFireDuringShutdown(t *testing.T) {
	require.True(t, EventInitialize())
	defer EventShutdown()

	var fired atomic.Int32
	onQuit := func(code SystemEventCode, sender, listener interface{}, data EventContext) bool {
		fired.Add(1)
		return true
	}
	require.True(t, EventRegister(EVENT_CODE_APPLICATION_QUIT, "engine", onQuit))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			EventFire(EVENT_CODE_APPLICATION_QUIT, nil, EventContext{})
		}
	}()

	for i := 0; i < 100; i++ {
		require.NoError(t, EventShutdown())
		require.True(t, EventInitialize())
		EventRegister(EVENT_CODE_APPLICATION_QUIT, "engine", onQuit)
	}
	wg.Wait()

	require.NoError(t, EventShutdown())
	assert.False(t, EventFire(EVENT_CODE_APPLICATION_QUIT, nil, EventContext{}))
	assert.False(t, EventRegister(EVENT_CODE_APPLICATION_QUIT, "engine", onQuit))
}
