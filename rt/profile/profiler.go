// Package profile records per-pass CPU timings and frame counters.
package profile

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Counter names recorded by the pipeline each frame.
const (
	Visible     = "visible"
	Casters     = "casters"
	ShadowTiles = "shadowTiles"
	Draws       = "draws"
)

type Profiler struct {
	scopes map[string]time.Duration
	starts map[string]time.Time
	counts map[string]int
	order  []string

	now func() time.Time
}

func NewProfiler() *Profiler {
	return &Profiler{
		scopes: make(map[string]time.Duration),
		starts: make(map[string]time.Time),
		counts: make(map[string]int),
		now:    time.Now,
	}
}

func (p *Profiler) BeginScope(name string) {
	p.starts[name] = p.now()
	if _, seen := p.scopes[name]; !seen {
		p.order = append(p.order, name)
		p.scopes[name] = 0
	}
}

func (p *Profiler) EndScope(name string) {
	if start, ok := p.starts[name]; ok {
		p.scopes[name] += p.now().Sub(start)
		delete(p.starts, name)
	}
}

// Scope times fn under name.
func (p *Profiler) Scope(name string, fn func()) {
	p.BeginScope(name)
	defer p.EndScope(name)
	fn()
}

func (p *Profiler) SetCount(name string, count int) { p.counts[name] = count }
func (p *Profiler) Add(name string, delta int)      { p.counts[name] += delta }
func (p *Profiler) Count(name string) int           { return p.counts[name] }

func (p *Profiler) Duration(name string) time.Duration { return p.scopes[name] }

// Scopes returns scope names in first-seen order.
func (p *Profiler) Scopes() []string {
	return append([]string(nil), p.order...)
}

// Reset zeroes timings and counters. Scope order is kept.
func (p *Profiler) Reset() {
	for k := range p.scopes {
		p.scopes[k] = 0
	}
	clear(p.starts)
	clear(p.counts)
}

func (p *Profiler) String() string {
	var sb strings.Builder

	sb.WriteString("Timings (CPU):\n")
	for _, name := range p.order {
		ms := float64(p.scopes[name].Microseconds()) / 1000.0
		fmt.Fprintf(&sb, "  %-15s: %.2f ms\n", name, ms)
	}

	sb.WriteString("\nStats:\n")
	keys := make([]string, 0, len(p.counts))
	for k := range p.counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "  %-15s: %d\n", k, p.counts[k])
	}
	return sb.String()
}
