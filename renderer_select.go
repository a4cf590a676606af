package svo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gekko3d/svo/rt/logging"
	"github.com/gekko3d/svo/rt/render"
)

// RenderMethod identifies one of the traversal backends.
type RenderMethod int

const (
	Stacking RenderMethod = iota
	Stackless
	TracerCL

	numMethods = 3
)

var ErrBackendUnavailable = errors.New("svo: render backend unavailable")

func (m RenderMethod) String() string {
	switch m {
	case Stacking:
		return "Stacking"
	case Stackless:
		return "Stackless"
	case TracerCL:
		return "TracerCL"
	}
	return fmt.Sprintf("RenderMethod(%d)", int(m))
}

// Next is the successor in the fixed cycle Stacking, Stackless, TracerCL.
func (m RenderMethod) Next() RenderMethod {
	return (m + 1) % numMethods
}

func ParseRenderMethod(s string) (RenderMethod, error) {
	switch strings.ToLower(s) {
	case "stacking", "":
		return Stacking, nil
	case "stackless":
		return Stackless, nil
	case "tracercl", "gpu":
		return TracerCL, nil
	}
	return 0, fmt.Errorf("unknown render method %q", s)
}

// Selector holds the active method and the backends that can serve it.
type Selector struct {
	current  RenderMethod
	backends map[RenderMethod]render.Backend
	logger   logging.Logger

	// OnChange runs after every switch with the status line.
	OnChange func(m RenderMethod, status string)
}

func NewSelector(l logging.Logger) *Selector {
	return &Selector{
		current:  Stacking,
		backends: make(map[RenderMethod]render.Backend),
		logger:   logging.OrNop(l),
	}
}

func (s *Selector) Current() RenderMethod { return s.current }

// Backend returns the backend for the current method, or nil when none is
// registered.
func (s *Selector) Backend() render.Backend {
	return s.backends[s.current]
}

func (s *Selector) Available(m RenderMethod) bool {
	_, ok := s.backends[m]
	return ok
}

func (s *Selector) Status() string {
	return "Current rendering method is: " + s.current.String()
}

func (s *Selector) set(m RenderMethod) {
	s.current = m
	status := s.Status()
	s.logger.Infof("%s", status)
	if s.OnChange != nil {
		s.OnChange(m, status)
	}
}

// Select switches to m. Without a backend for m the current method stays.
func (s *Selector) Select(m RenderMethod) error {
	if !s.Available(m) {
		return fmt.Errorf("%w: %s", ErrBackendUnavailable, m)
	}
	s.set(m)
	return nil
}

// Cycle advances to the next method. Methods without a backend are skipped
// and reported through the returned error; the switch still happens.
func (s *Selector) Cycle() (RenderMethod, error) {
	var skipped []error
	m := s.current
	for i := 0; i < numMethods; i++ {
		m = m.Next()
		if s.Available(m) {
			break
		}
		skipped = append(skipped, fmt.Errorf("%w: %s", ErrBackendUnavailable, m))
	}
	if !s.Available(m) {
		return s.current, errors.Join(skipped...)
	}
	for _, err := range skipped {
		s.logger.Warnf("Skipping render method: %v", err)
	}
	s.set(m)
	return m, errors.Join(skipped...)
}
