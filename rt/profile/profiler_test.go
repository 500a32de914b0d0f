package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fakeClock(step time.Duration) func() time.Time {
	t := time.Unix(0, 0)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestProfiler_Scopes(t *testing.T) {
	p := NewProfiler()
	p.now = fakeClock(time.Millisecond)

	p.BeginScope("gbuffer")
	p.EndScope("gbuffer")
	p.Scope("shadow", func() {})
	p.BeginScope("gbuffer")
	p.EndScope("gbuffer")

	assert.Equal(t, []string{"gbuffer", "shadow"}, p.Scopes())
	assert.Equal(t, 2*time.Millisecond, p.Duration("gbuffer"))
	assert.Equal(t, time.Millisecond, p.Duration("shadow"))

	// Unmatched ends are ignored.
	p.EndScope("lighting")
	assert.Zero(t, p.Duration("lighting"))
}

func TestProfiler_CountsAndReset(t *testing.T) {
	p := NewProfiler()
	p.now = fakeClock(time.Millisecond)

	p.SetCount(Visible, 3)
	p.Add(Draws, 2)
	p.Add(Draws, 5)
	p.Scope("lighting", func() {})

	assert.Equal(t, 3, p.Count(Visible))
	assert.Equal(t, 7, p.Count(Draws))

	out := p.String()
	assert.Contains(t, out, "lighting")
	assert.Contains(t, out, "1.00 ms")
	assert.Contains(t, out, "draws")

	p.Reset()
	assert.Zero(t, p.Count(Draws))
	assert.Zero(t, p.Duration("lighting"))
	assert.Equal(t, []string{"lighting"}, p.Scopes())
}
