package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsAverageAfterWindow(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < AVG_COUNT; i++ {
		m.Update(0.016)
	}
	assert.InDelta(t, 16.0, m.FrameTime(), 1e-9)
}

func TestMetricsFPS(t *testing.T) {
	m := NewMetrics()
	// 101 frames of 10ms crosses the one second mark on the last frame.
	for i := 0; i < 101; i++ {
		m.Update(0.010)
	}
	assert.Equal(t, 101.0, m.FPS())
}

func TestIdentifierShort(t *testing.T) {
	id := NewIdentifier()
	assert.Len(t, id.Short(), 8)
	assert.NotEqual(t, id, NewIdentifier())
}
