package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gnahuy123/liftSim/pkg/building"
	"github.com/gnahuy123/liftSim/pkg/logger"
	"github.com/xyproto/randomstring"
)

var Logger = logger.GetLogger()

const (
	DefaultTimeout = 30 * time.Minute
	idLength       = 16
)

var (
	ErrUnknownSession = errors.New("unknown session")
	ErrInvalidBounds  = errors.New("invalid floor bounds")
)

// Registry owns every live session and expires idle ones
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	timeout  time.Duration
	minFloor int
	now      func() time.Time
}

// NewRegistry creates a registry whose buildings start at minFloor and whose
// sessions expire after timeout without activity
func NewRegistry(timeout time.Duration, minFloor int) *Registry {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Registry{
		sessions: make(map[string]*Session),
		timeout:  timeout,
		minFloor: minFloor,
		now:      time.Now,
	}
}

// CreateBuilding starts a single building session. Unknown policy names fall
// back to the default policy.
func (r *Registry) CreateBuilding(policyName string, maxFloor int) (*Session, error) {
	if maxFloor <= r.minFloor {
		return nil, fmt.Errorf("%w: max floor %d must be above %d", ErrInvalidBounds, maxFloor, r.minFloor)
	}

	b, ok := building.New(building.Config{
		Policy:   policyName,
		MinFloor: r.minFloor,
		MaxFloor: maxFloor,
	})
	if !ok {
		Logger.Warn().Msgf("Unknown policy %q, using %s", policyName, b.Policy())
	}

	s := r.add(b, []string{b.Policy()}, maxFloor)
	Logger.Info().Str("session", s.id).Str("policy", b.Policy()).Int("max_floor", maxFloor).Msg("Created building session")
	return s, nil
}

// CreateComparison starts a session running two buildings side by side
func (r *Registry) CreateComparison(policy1, policy2 string, maxFloor int) (*Session, error) {
	if maxFloor <= r.minFloor {
		return nil, fmt.Errorf("%w: max floor %d must be above %d", ErrInvalidBounds, maxFloor, r.minFloor)
	}

	c, ok := building.NewComparison(policy1, policy2, r.minFloor, maxFloor)
	buildings := c.Buildings()
	for i, name := range []string{policy1, policy2} {
		if !ok[i] {
			Logger.Warn().Msgf("Unknown policy %q, using %s", name, buildings[i].Policy())
		}
	}

	s := r.add(c, []string{buildings[0].Policy(), buildings[1].Policy()}, maxFloor)
	Logger.Info().Str("session", s.id).Strs("policies", s.policies).Int("max_floor", maxFloor).Msg("Created comparison session")
	return s, nil
}

func (r *Registry) add(instance building.Instance, policies []string, maxFloor int) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := randomstring.EnglishFrequencyString(idLength)
	for r.sessions[id] != nil {
		id = randomstring.EnglishFrequencyString(idLength)
	}

	s := &Session{
		id:           id,
		policies:     policies,
		minFloor:     r.minFloor,
		maxFloor:     maxFloor,
		instance:     instance,
		lastActivity: r.now(),
	}
	r.sessions[id] = s
	return s
}

// Get returns a session and marks it active
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	s.lastActivity = r.now()
	return s, nil
}

// Submit adds a passenger request to a session
func (r *Registry) Submit(id, passengerID string, origin, destination int) error {
	s, err := r.Get(id)
	if err != nil {
		return err
	}
	return s.submit(passengerID, origin, destination)
}

// Tick advances a session by one tick and returns the new state
func (r *Registry) Tick(id string) (building.StateView, error) {
	s, err := r.Get(id)
	if err != nil {
		return building.StateView{}, err
	}
	return s.step(), nil
}

// Snapshot returns the current state of a session
func (r *Registry) Snapshot(id string) (building.StateView, error) {
	s, err := r.Get(id)
	if err != nil {
		return building.StateView{}, err
	}
	return s.snapshot(), nil
}

// Remove deletes a session, reporting whether it existed
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Sweep removes sessions idle for longer than the timeout and returns their ids
func (r *Registry) Sweep(now time.Time) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var expired []string
	for id, s := range r.sessions {
		if now.Sub(s.lastActivity) > r.timeout {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(r.sessions, id)
	}
	return expired
}

// Run sweeps expired sessions every interval until ctx is cancelled.
// onExpire, if set, is called with the ids removed by each sweep.
func (r *Registry) Run(ctx context.Context, interval time.Duration, onExpire func([]string)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired := r.Sweep(r.now())
			if len(expired) == 0 {
				continue
			}
			Logger.Info().Int("expired", len(expired)).Int("remaining", r.Len()).Msg("Swept idle sessions")
			if onExpire != nil {
				onExpire(expired)
			}
		}
	}
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
