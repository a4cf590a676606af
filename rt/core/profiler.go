package core

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Profiler keeps the last duration and a running total per named scope.
// It is used from the frame loop only.
type Profiler struct {
	Scopes     map[string]time.Duration
	Totals     map[string]time.Duration
	Samples    map[string]int
	StartTimes map[string]time.Time
	Counts     map[string]int
	Order      []string

	now func() time.Time
}

func NewProfiler() *Profiler {
	return &Profiler{
		Scopes:     make(map[string]time.Duration),
		Totals:     make(map[string]time.Duration),
		Samples:    make(map[string]int),
		StartTimes: make(map[string]time.Time),
		Counts:     make(map[string]int),
		Order:      make([]string, 0),
		now:        time.Now,
	}
}

func (p *Profiler) BeginScope(name string) {
	p.StartTimes[name] = p.now()
	if _, seen := p.Samples[name]; !seen {
		p.Order = append(p.Order, name)
		p.Samples[name] = 0
	}
}

// EndScope closes name and returns its duration. Ending a scope that was
// never begun returns zero.
func (p *Profiler) EndScope(name string) time.Duration {
	start, ok := p.StartTimes[name]
	if !ok {
		return 0
	}
	d := p.now().Sub(start)
	delete(p.StartTimes, name)
	p.Scopes[name] = d
	p.Totals[name] += d
	p.Samples[name]++
	return d
}

// Scope begins name and returns the matching end call, for use with defer.
func (p *Profiler) Scope(name string) func() {
	p.BeginScope(name)
	return func() { p.EndScope(name) }
}

func (p *Profiler) Last(name string) time.Duration {
	return p.Scopes[name]
}

func (p *Profiler) Average(name string) time.Duration {
	n := p.Samples[name]
	if n == 0 {
		return 0
	}
	return p.Totals[name] / time.Duration(n)
}

func (p *Profiler) SetCount(name string, count int) {
	p.Counts[name] = count
}

func (p *Profiler) Reset() {
	for k := range p.Scopes {
		p.Scopes[k] = 0
		p.Totals[k] = 0
		p.Samples[k] = 0
	}
}

func (p *Profiler) GetStatsString() string {
	var sb strings.Builder

	sb.WriteString("Timings:\n")
	for _, name := range p.Order {
		fmt.Fprintf(&sb, "  %-12s: %.2f ms (avg %.2f ms)\n", name,
			float64(p.Scopes[name].Microseconds())/1000.0,
			float64(p.Average(name).Microseconds())/1000.0)
	}

	if len(p.Counts) > 0 {
		sb.WriteString("Stats:\n")
		keys := make([]string, 0, len(p.Counts))
		for k := range p.Counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "  %-12s: %d\n", k, p.Counts[k])
		}
	}
	return sb.String()
}
