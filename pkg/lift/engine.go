package lift

import (
	"maps"
	"slices"

	"github.com/gnahuy123/liftSim/pkg/policy"
	"github.com/tiendc/go-deepcopy"
)

const (
	DefaultMinFloor = 0
	DefaultMaxFloor = 10

	// recentCapacity bounds how many arrived passengers stay visible
	recentCapacity = 10
)

// Config configures a lift engine
type Config struct {
	MinFloor   int
	MaxFloor   int
	StartFloor int
	Policy     policy.Policy
}

// Engine owns the state of a single lift and advances it one tick at a time
type Engine struct {
	minFloor  int
	maxFloor  int
	policy    policy.Policy
	floor     int
	direction policy.Direction
	onboard   []string
	stops     map[int][]Stop

	// active holds WAITING and MOVING passengers, order their arrival order
	active map[string]*Passenger
	order  []string
	recent []Passenger

	tick      int
	waitSum   int
	rideSum   int
	totalSum  int
	pickedUp  int
	completed int
}

// NewEngine creates a lift idle at the start floor. The start floor is
// clamped into [MinFloor, MaxFloor] and a missing policy resolves to the default.
func NewEngine(cfg Config) *Engine {
	if cfg.MinFloor >= cfg.MaxFloor {
		cfg.MinFloor, cfg.MaxFloor = DefaultMinFloor, DefaultMaxFloor
	}
	if cfg.Policy.Next == nil {
		cfg.Policy = policy.Default()
	}

	return &Engine{
		minFloor:  cfg.MinFloor,
		maxFloor:  cfg.MaxFloor,
		policy:    cfg.Policy,
		floor:     min(max(cfg.StartFloor, cfg.MinFloor), cfg.MaxFloor),
		direction: policy.Idle,
		stops:     map[int][]Stop{},
		active:    map[string]*Passenger{},
	}
}

// Validate checks that a trip stays inside the lift's floors and goes somewhere
func (e *Engine) Validate(origin, destination int) error {
	if origin == destination || !e.inBounds(origin) || !e.inBounds(destination) {
		return &InvalidFloorError{
			Origin:      origin,
			Destination: destination,
			MinFloor:    e.minFloor,
			MaxFloor:    e.maxFloor,
		}
	}
	return nil
}

// IsActive reports whether the passenger is waiting or on board
func (e *Engine) IsActive(passengerID string) bool {
	_, ok := e.active[passengerID]
	return ok
}

// AddRequest queues a trip from origin to destination
func (e *Engine) AddRequest(passengerID string, origin, destination int) error {
	if err := e.Validate(origin, destination); err != nil {
		return err
	}
	if e.IsActive(passengerID) {
		return ErrDuplicatePassenger
	}

	e.stops[origin] = append(e.stops[origin], Stop{
		Type:        StopTypePickup,
		PassengerID: passengerID,
		Destination: &destination,
	})
	e.stops[destination] = append(e.stops[destination], Stop{
		Type:        StopTypeDropoff,
		PassengerID: passengerID,
	})

	e.active[passengerID] = &Passenger{
		ID:          passengerID,
		Origin:      origin,
		Destination: destination,
		Status:      StatusWaiting,
		CreatedTick: e.tick,
	}
	e.order = append(e.order, passengerID)
	return nil
}

// AdvanceTick services the current floor, picks a new direction and moves at
// most one floor. The returned view carries the events of this tick.
func (e *Engine) AdvanceTick() View {
	e.tick++

	events := e.serviceFloor()
	e.direction = e.policy.Next(e.floor, e.direction, e.fulfillableFloors())

	switch {
	case e.direction == policy.Up && e.floor < e.maxFloor:
		e.floor++
	case e.direction == policy.Down && e.floor > e.minFloor:
		e.floor--
	}

	view := e.State()
	view.Events = events
	return view
}

func (e *Engine) serviceFloor() []Event {
	pending, ok := e.stops[e.floor]
	if !ok {
		return nil
	}

	var events []Event
	var remaining []Stop
	for _, stop := range pending {
		switch stop.Type {
		case StopTypePickup:
			e.pickup(stop.PassengerID)
			events = append(events, e.event(EventTypePickup, stop.PassengerID))
		case StopTypeDropoff:
			if !e.isOnboard(stop.PassengerID) {
				remaining = append(remaining, stop)
				continue
			}
			e.dropoff(stop.PassengerID)
			events = append(events, e.event(EventTypeDropoff, stop.PassengerID))
		}
	}

	if len(remaining) > 0 {
		e.stops[e.floor] = remaining
	} else {
		delete(e.stops, e.floor)
	}
	return events
}

func (e *Engine) pickup(id string) {
	e.onboard = append(e.onboard, id)

	p, ok := e.active[id]
	if !ok {
		return
	}
	tick := e.tick
	p.Status = StatusMoving
	p.PickedUpTick = &tick

	e.waitSum += tick - p.CreatedTick
	e.pickedUp++
}

func (e *Engine) dropoff(id string) {
	e.onboard = slices.DeleteFunc(e.onboard, func(o string) bool { return o == id })

	p, ok := e.active[id]
	if !ok {
		return
	}
	tick := e.tick
	p.Status = StatusArrived
	p.CompletedTick = &tick

	e.rideSum += tick - *p.PickedUpTick
	e.totalSum += tick - p.CreatedTick
	e.completed++

	e.recent = append(e.recent, *p)
	if len(e.recent) > recentCapacity {
		e.recent = e.recent[len(e.recent)-recentCapacity:]
	}

	delete(e.active, id)
	e.order = slices.DeleteFunc(e.order, func(o string) bool { return o == id })
}

func (e *Engine) event(t EventType, id string) Event {
	return Event{Tick: e.tick, Type: t, PassengerID: id, Floor: e.floor}
}

// fulfillableFloors lists, ascending, the floors holding a pickup or a
// dropoff for someone already onboard.
func (e *Engine) fulfillableFloors() []int {
	var floors []int
	for _, floor := range slices.Sorted(maps.Keys(e.stops)) {
		for _, stop := range e.stops[floor] {
			if stop.Type == StopTypePickup || e.isOnboard(stop.PassengerID) {
				floors = append(floors, floor)
				break
			}
		}
	}
	return floors
}

func (e *Engine) isOnboard(id string) bool {
	return slices.Contains(e.onboard, id)
}

func (e *Engine) inBounds(floor int) bool {
	return floor >= e.minFloor && floor <= e.maxFloor
}

// State returns a snapshot of the lift
func (e *Engine) State() View {
	visible := make([]Passenger, 0, len(e.order)+len(e.recent))
	for _, id := range e.order {
		visible = append(visible, *e.active[id])
	}
	visible = append(visible, e.recent...)

	view := View{
		Floor:     e.floor,
		Direction: e.direction,
		Tick:      e.tick,
		Stats:     e.Stats(),
	}
	// views must never alias the engine's maps or tick pointers
	if err := deepcopy.Copy(&view.Onboard, e.onboard); err != nil {
		panic(err)
	}
	if err := deepcopy.Copy(&view.Stops, e.stops); err != nil {
		panic(err)
	}
	if err := deepcopy.Copy(&view.Passengers, visible); err != nil {
		panic(err)
	}
	if view.Onboard == nil {
		view.Onboard = []string{}
	}
	if view.Stops == nil {
		view.Stops = map[int][]Stop{}
	}
	return view
}

// Stats returns the running averages
func (e *Engine) Stats() Stats {
	s := Stats{PickedUp: e.pickedUp, Completed: e.completed}
	if e.pickedUp > 0 {
		s.AvgWait = float64(e.waitSum) / float64(e.pickedUp)
	}
	if e.completed > 0 {
		s.AvgRide = float64(e.rideSum) / float64(e.completed)
		s.AvgTotal = float64(e.totalSum) / float64(e.completed)
	}
	return s
}

// Passenger returns the record for id if it is active or recently arrived
func (e *Engine) Passenger(id string) (Passenger, bool) {
	if p, ok := e.active[id]; ok {
		return p.clone(), true
	}
	for i := len(e.recent) - 1; i >= 0; i-- {
		if e.recent[i].ID == id {
			return e.recent[i].clone(), true
		}
	}
	return Passenger{}, false
}

// Floor returns the current floor
func (e *Engine) Floor() int { return e.floor }

// Direction returns the direction picked on the last tick
func (e *Engine) Direction() policy.Direction { return e.direction }

// Tick returns the number of ticks advanced so far
func (e *Engine) Tick() int { return e.tick }

// Bounds returns the lowest and highest reachable floor
func (e *Engine) Bounds() (int, int) { return e.minFloor, e.maxFloor }

// PolicyName returns the name of the direction policy in use
func (e *Engine) PolicyName() string { return e.policy.Name }

// DistanceTo returns the number of floors between the lift and floor
func (e *Engine) DistanceTo(floor int) int {
	if floor > e.floor {
		return floor - e.floor
	}
	return e.floor - floor
}

// Load counts passengers onboard plus active requests
func (e *Engine) Load() int {
	return len(e.onboard) + len(e.active)
}

// ActiveCount returns the number of passengers not yet arrived
func (e *Engine) ActiveCount() int {
	return len(e.active)
}

// OnboardCount returns the number of passengers inside the lift
func (e *Engine) OnboardCount() int {
	return len(e.onboard)
}
