package profiler

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestProfiler() (*Profiler, *fakeClock, *[]string) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var lines []string
	p := NewProfiler(
		WithClock(clock.now),
		WithLogger(func(format string, args ...any) {
			lines = append(lines, fmt.Sprintf(format, args...))
		}),
	)
	return p, clock, &lines
}

func TestTickReportsOncePerInterval(t *testing.T) {
	p, clock, lines := newTestProfiler()

	for range 49 {
		clock.advance(20 * time.Millisecond)
		assert.False(t, p.Tick())
	}
	clock.advance(20 * time.Millisecond)
	require.True(t, p.Tick())
	require.Len(t, *lines, 1)
	assert.Contains(t, (*lines)[0], "[Profiler] FPS: 50.00")
	assert.InDelta(t, 50, p.FPS(), 0.01)

	clock.advance(time.Second / 2)
	assert.False(t, p.Tick())
}

func TestGrowsAppearInNextReportOnly(t *testing.T) {
	p, clock, lines := newTestProfiler()

	p.RecordGrow("Materials Storage Buffer", 80)
	p.RecordGrow("Hyper Spheres Storage Buffer", 80)
	p.RecordGrow("Materials Storage Buffer", 112)
	assert.Equal(t, 3, p.TotalGrows())

	clock.advance(time.Second)
	require.True(t, p.Tick())
	assert.Contains(t, (*lines)[0], "Grown: Hyper Spheres Storage Buffer x1 -> 80 B, Materials Storage Buffer x2 -> 112 B")

	clock.advance(time.Second)
	require.True(t, p.Tick())
	assert.NotContains(t, (*lines)[1], "Grown")
	assert.Equal(t, 3, p.TotalGrows())
}

func TestWithInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithClock(clock.now), WithInterval(10*time.Millisecond), WithLogger(func(string, ...any) {}))
	clock.advance(10 * time.Millisecond)
	assert.True(t, p.Tick())
}
