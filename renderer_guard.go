package svo

import (
	"errors"
	"fmt"

	"github.com/gekko3d/svo/rt/render"
)

var ErrBackendRegistered = errors.New("svo: backend already registered")

// Register installs b as the backend for m. Each method takes exactly one
// backend.
func (s *Selector) Register(m RenderMethod, b render.Backend) error {
	if b == nil {
		return fmt.Errorf("svo: nil backend for %s", m)
	}
	if m < 0 || m >= numMethods {
		return fmt.Errorf("svo: unknown render method %d", int(m))
	}
	if old, ok := s.backends[m]; ok {
		s.logger.Errorf("Multiple backends for %s: %s and %s", m, old.Name(), b.Name())
		return fmt.Errorf("%w: %s has %s", ErrBackendRegistered, m, old.Name())
	}
	s.backends[m] = b
	s.logger.Debugf("Backend registered: %s -> %s", m, b.Name())
	return nil
}

// Unregister drops the backend of m. Leaving the current method without a
// backend falls back to Stacking.
func (s *Selector) Unregister(m RenderMethod) {
	delete(s.backends, m)
	if s.current == m && m != Stacking {
		s.current = Stacking
		s.logger.Warnf("%s backend removed, falling back to %s", m, Stacking)
	}
}
