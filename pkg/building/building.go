package building

import (
	"fmt"

	"github.com/gnahuy123/liftSim/pkg/lift"
	"github.com/gnahuy123/liftSim/pkg/policy"
)

// Lift identifies one of the two lifts in a building
type Lift string

const (
	LiftA Lift = "A"
	LiftB Lift = "B"
)

// Stats holds the combined statistics of a building
type Stats struct {
	AvgWait   float64 `json:"avg_wait"`
	AvgRide   float64 `json:"avg_ride"`
	AvgTotal  float64 `json:"avg_total"`
	Completed int     `json:"completed"`
}

// LiftView is the per-lift part of a building view
type LiftView struct {
	Floor     int                 `json:"level"`
	Direction policy.Direction    `json:"direction"`
	Onboard   []string            `json:"passengers"`
	Stops     map[int][]lift.Stop `json:"stops"`
	Events    []lift.Event        `json:"events,omitempty"`
}

// View is a snapshot of a building
type View struct {
	Policy     string           `json:"algorithm"`
	LiftA      LiftView         `json:"lift_a"`
	LiftB      LiftView         `json:"lift_b"`
	Passengers []lift.Passenger `json:"active_passengers"`
	Tick       int              `json:"global_tick"`
	Stats      Stats            `json:"stats"`
}

// Events returns the events of both lifts, lift A first
func (v View) Events() []lift.Event {
	return append(append([]lift.Event{}, v.LiftA.Events...), v.LiftB.Events...)
}

// Config configures a building
type Config struct {
	Policy   string
	MinFloor int
	MaxFloor int
}

// Building dispatches requests to two identically configured lifts
type Building struct {
	policy string
	liftA  *lift.Engine
	liftB  *lift.Engine
	tick   int
}

// New creates a building with both lifts idle at the lowest floor. An unknown
// policy name falls back to policy.DefaultName; the returned bool reports
// whether the requested name was registered.
func New(cfg Config) (*Building, bool) {
	p, ok := policy.Lookup(cfg.Policy)
	engineCfg := lift.Config{
		MinFloor:   cfg.MinFloor,
		MaxFloor:   cfg.MaxFloor,
		StartFloor: cfg.MinFloor,
		Policy:     p,
	}
	return &Building{
		policy: p.Name,
		liftA:  lift.NewEngine(engineCfg),
		liftB:  lift.NewEngine(engineCfg),
	}, ok
}

// Dispatch picks the lift that should serve a pickup at origin: the closer
// lift wins, a distance tie goes to the less loaded lift and a full tie to lift A.
func (b *Building) Dispatch(origin int) Lift {
	distA, distB := b.liftA.DistanceTo(origin), b.liftB.DistanceTo(origin)
	switch {
	case distA < distB:
		return LiftA
	case distB < distA:
		return LiftB
	case b.liftA.Load() <= b.liftB.Load():
		return LiftA
	default:
		return LiftB
	}
}

// CanAccept returns the error AddRequest would return for a request, without
// queueing it. An id is a duplicate while it is active in either lift.
func (b *Building) CanAccept(passengerID string, origin, destination int) error {
	if err := b.liftA.Validate(origin, destination); err != nil {
		return err
	}
	for _, l := range []Lift{LiftA, LiftB} {
		if b.engine(l).IsActive(LiftPassengerID(passengerID, l)) {
			return fmt.Errorf("passenger %s in lift %s: %w", passengerID, l, lift.ErrDuplicatePassenger)
		}
	}
	return nil
}

// AddRequest routes a passenger to one of the lifts. The lift tracks the
// passenger under a suffixed id, for example P1_A.
func (b *Building) AddRequest(passengerID string, origin, destination int) error {
	if err := b.CanAccept(passengerID, origin, destination); err != nil {
		return err
	}
	target := b.Dispatch(origin)
	if err := b.engine(target).AddRequest(LiftPassengerID(passengerID, target), origin, destination); err != nil {
		return fmt.Errorf("lift %s: %w", target, err)
	}
	return nil
}

// LiftPassengerID is the id a lift uses for a passenger dispatched to it
func LiftPassengerID(passengerID string, l Lift) string {
	return passengerID + "_" + string(l)
}

// AdvanceTick advances both lifts by one tick
func (b *Building) AdvanceTick() View {
	b.tick++
	a := b.liftA.AdvanceTick()
	bv := b.liftB.AdvanceTick()
	return b.view(a, bv)
}

// State returns a snapshot of the building
func (b *Building) State() View {
	return b.view(b.liftA.State(), b.liftB.State())
}

func (b *Building) view(a, bv lift.View) View {
	passengers := make([]lift.Passenger, 0, len(a.Passengers)+len(bv.Passengers))
	passengers = append(passengers, a.Passengers...)
	passengers = append(passengers, bv.Passengers...)

	return View{
		Policy:     b.policy,
		LiftA:      liftView(a),
		LiftB:      liftView(bv),
		Passengers: passengers,
		Tick:       b.tick,
		Stats:      combineStats(a.Stats, bv.Stats),
	}
}

func liftView(v lift.View) LiftView {
	return LiftView{
		Floor:     v.Floor,
		Direction: v.Direction,
		Onboard:   v.Onboard,
		Stops:     v.Stops,
		Events:    v.Events,
	}
}

// combineStats weights each lift's averages by its completed count
func combineStats(a, b lift.Stats) Stats {
	total := a.Completed + b.Completed
	if total == 0 {
		return Stats{}
	}
	wa, wb := float64(a.Completed), float64(b.Completed)
	n := float64(total)
	return Stats{
		AvgWait:   (a.AvgWait*wa + b.AvgWait*wb) / n,
		AvgRide:   (a.AvgRide*wa + b.AvgRide*wb) / n,
		AvgTotal:  (a.AvgTotal*wa + b.AvgTotal*wb) / n,
		Completed: total,
	}
}

// Policy returns the name of the policy both lifts use
func (b *Building) Policy() string { return b.policy }

// Tick returns the building tick counter
func (b *Building) Tick() int { return b.tick }

// ActiveCount returns the number of passengers not yet arrived in either lift
func (b *Building) ActiveCount() int {
	return b.liftA.ActiveCount() + b.liftB.ActiveCount()
}

// OnboardCount returns the number of passengers riding either lift
func (b *Building) OnboardCount() int {
	return b.liftA.OnboardCount() + b.liftB.OnboardCount()
}

func (b *Building) engine(l Lift) *lift.Engine {
	if l == LiftB {
		return b.liftB
	}
	return b.liftA
}
