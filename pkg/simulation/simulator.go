package simulation

import (
	"fmt"
	"time"

	"github.com/gnahuy123/liftSim/pkg/building"
	"github.com/gnahuy123/liftSim/pkg/config"
	"github.com/gnahuy123/liftSim/pkg/lift"
	"github.com/gnahuy123/liftSim/pkg/workload"
)

// Simulator runs a scenario through one building or a comparison of two
type Simulator struct {
	scenario   *config.Scenario
	instance   building.Instance
	buildings  []*building.Building
	events     []Event
	timePoints []TimePoint
	results    []Result
	ticks      int

	unregistered []string

	// passengers already reported for waiting too long, per building
	longWaits []map[string]bool
}

// NewSimulator creates a new simulator. One policy runs a single building,
// two policies run a comparison. Unknown policy names fall back to the default
// and are reported in Unregistered.
func NewSimulator(scenario *config.Scenario) *Simulator {
	s := &Simulator{scenario: scenario}

	policies := scenario.Policies
	if len(policies) == 0 {
		policies = []string{""}
	}

	var registered []bool
	if len(policies) >= 2 {
		c, ok := building.NewComparison(policies[0], policies[1], scenario.MinFloor, scenario.MaxFloor)
		b := c.Buildings()
		s.instance = c
		s.buildings = b[:]
		registered = ok[:]
	} else {
		b, ok := building.New(building.Config{
			Policy:   policies[0],
			MinFloor: scenario.MinFloor,
			MaxFloor: scenario.MaxFloor,
		})
		s.instance = b
		s.buildings = []*building.Building{b}
		registered = []bool{ok}
	}

	for i, ok := range registered {
		if !ok {
			s.unregistered = append(s.unregistered, policies[i])
		}
	}

	for range s.buildings {
		s.longWaits = append(s.longWaits, map[string]bool{})
	}
	return s
}

// Run executes the simulation
func (s *Simulator) Run() error {
	// Generate all requests for the simulation period
	requests, err := workload.Generate(s.scenario)
	if err != nil {
		return fmt.Errorf("failed to generate workload: %w", err)
	}

	next := 0
	for tick := 0; tick < s.scenario.MaxTicks; tick++ {
		// Submit requests that are due before this tick runs
		for next < len(requests) && requests[next].Tick <= tick {
			s.submit(tick, requests[next])
			next++
		}

		state := s.instance.Step()
		s.ticks = tick + 1
		s.record(state)

		if next >= len(requests) && s.activeCount() == 0 {
			break
		}
	}

	if pending := len(requests) - next; pending > 0 || s.activeCount() > 0 {
		s.addEvent(Event{
			Tick:      s.ticks,
			Time:      s.timeAt(s.ticks),
			Type:      EventTypeTickLimit,
			Message:   fmt.Sprintf("Tick limit %d reached with %d passengers in flight and %d never submitted", s.scenario.MaxTicks, s.activeCount(), pending),
			IsWarning: true,
		})
	}

	for _, b := range s.buildings {
		s.results = append(s.results, Result{
			Policy:    b.Policy(),
			Stats:     b.State().Stats,
			Remaining: b.ActiveCount(),
		})
	}

	return nil
}

// submit hands one request to the instance
func (s *Simulator) submit(tick int, req workload.Request) {
	if err := s.instance.AddRequest(req.PassengerID, req.Origin, req.Destination); err != nil {
		s.addEvent(Event{
			Tick:        tick,
			Time:        s.timeAt(tick),
			Type:        EventTypeRequestRejected,
			PassengerID: req.PassengerID,
			Floor:       req.Origin,
			Message:     fmt.Sprintf("Request %s (%d -> %d) rejected: %v", req.PassengerID, req.Origin, req.Destination, err),
			IsWarning:   true,
		})
	}
}

// record turns the views of a tick into events and a time point
func (s *Simulator) record(state building.StateView) {
	views := viewsOf(state)

	point := TimePoint{
		Tick:    s.ticks,
		Time:    s.timeAt(s.ticks),
		Waiting: make([]int, len(views)),
		Onboard: make([]int, len(views)),
	}

	for i, view := range views {
		for _, ev := range view.Events() {
			eventType := EventTypeDropoff
			if ev.Type == lift.EventTypePickup {
				eventType = EventTypePickup
			}
			s.addEvent(Event{
				Tick:        s.ticks,
				Time:        s.timeAt(s.ticks),
				Type:        eventType,
				Building:    i + 1,
				PassengerID: ev.PassengerID,
				Floor:       ev.Floor,
				Message:     fmt.Sprintf("[%s] %s at floor %d", view.Policy, ev.Message(), ev.Floor),
			})
		}

		for _, p := range view.Passengers {
			if p.Status != lift.StatusWaiting {
				continue
			}
			point.Waiting[i]++

			waited := view.Tick - p.CreatedTick
			if waited > s.scenario.MaxWaitTicks && !s.longWaits[i][p.ID] {
				s.longWaits[i][p.ID] = true
				s.addEvent(Event{
					Tick:        s.ticks,
					Time:        s.timeAt(s.ticks),
					Type:        EventTypeLongWait,
					Building:    i + 1,
					PassengerID: p.ID,
					Floor:       p.Origin,
					Message:     fmt.Sprintf("[%s] %s waiting at floor %d for more than %d ticks", view.Policy, p.ID, p.Origin, s.scenario.MaxWaitTicks),
					IsWarning:   true,
				})
			}
		}
		point.Onboard[i] = len(view.LiftA.Onboard) + len(view.LiftB.Onboard)
	}

	s.timePoints = append(s.timePoints, point)
}

func viewsOf(state building.StateView) []building.View {
	if state.Type == building.KindComparison {
		return []building.View{state.Comparison.Building1, state.Comparison.Building2}
	}
	return []building.View{*state.Building}
}

func (s *Simulator) activeCount() int {
	n := 0
	for _, b := range s.buildings {
		n += b.ActiveCount()
	}
	return n
}

// timeAt maps a tick to simulated wall-clock time
func (s *Simulator) timeAt(tick int) time.Time {
	return s.scenario.Start.Add(time.Duration(tick) * s.scenario.TickDuration)
}

// addEvent adds an event to the event list
func (s *Simulator) addEvent(event Event) {
	s.events = append(s.events, event)
}

// GetEvents returns all events
func (s *Simulator) GetEvents() []Event {
	return s.events
}

// GetTimePoints returns one time point per executed tick
func (s *Simulator) GetTimePoints() []TimePoint {
	return s.timePoints
}

// GetWarnings returns all warning events
func (s *Simulator) GetWarnings() []Event {
	warnings := []Event{}
	for _, event := range s.events {
		if event.IsWarning {
			warnings = append(warnings, event)
		}
	}
	return warnings
}

// GetResults returns the final statistics of each building
func (s *Simulator) GetResults() []Result {
	return s.results
}

// Unregistered returns the requested policy names that fell back to the default
func (s *Simulator) Unregistered() []string {
	return s.unregistered
}

// Ticks returns the number of ticks executed
func (s *Simulator) Ticks() int {
	return s.ticks
}
