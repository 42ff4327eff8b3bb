package session

import (
	"sync"
	"time"

	"github.com/gnahuy123/liftSim/pkg/building"
)

// Session is one simulation owned by a client. All access to the
// simulation goes through the session lock.
type Session struct {
	id       string
	policies []string
	minFloor int
	maxFloor int

	mu       sync.Mutex
	instance building.Instance

	// guarded by the registry lock
	lastActivity time.Time
}

func (s *Session) ID() string { return s.id }

func (s *Session) Kind() building.Kind { return s.instance.Kind() }

// Policies returns the resolved policy name of each building
func (s *Session) Policies() []string {
	return append([]string(nil), s.policies...)
}

// Bounds returns the floor range of the session's buildings
func (s *Session) Bounds() (int, int) { return s.minFloor, s.maxFloor }

func (s *Session) submit(passengerID string, origin, destination int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.instance.AddRequest(passengerID, origin, destination)
}

func (s *Session) step() building.StateView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.instance.Step()
}

func (s *Session) snapshot() building.StateView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.instance.Snapshot()
}
