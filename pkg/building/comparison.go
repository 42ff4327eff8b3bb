package building

import (
	"errors"
	"fmt"
)

// ComparisonView is a snapshot of both buildings of a comparison
type ComparisonView struct {
	Building1 View `json:"building1"`
	Building2 View `json:"building2"`
	Tick      int  `json:"global_tick"`
}

// Comparison replays one request stream into two independent buildings
type Comparison struct {
	building1 *Building
	building2 *Building
	tick      int
}

// NewComparison creates two buildings sharing floor bounds. The returned
// bools report whether each policy name was registered.
func NewComparison(policy1, policy2 string, minFloor, maxFloor int) (*Comparison, [2]bool) {
	b1, ok1 := New(Config{Policy: policy1, MinFloor: minFloor, MaxFloor: maxFloor})
	b2, ok2 := New(Config{Policy: policy2, MinFloor: minFloor, MaxFloor: maxFloor})
	return &Comparison{building1: b1, building2: b2}, [2]bool{ok1, ok2}
}

// AddRequest submits the same request to both buildings. The request is
// queued in both or in neither.
func (c *Comparison) AddRequest(passengerID string, origin, destination int) error {
	if err := c.CanAccept(passengerID, origin, destination); err != nil {
		return err
	}
	err1 := c.building1.AddRequest(passengerID, origin, destination)
	err2 := c.building2.AddRequest(passengerID, origin, destination)
	return errors.Join(err1, err2)
}

// CanAccept joins the rejections of both buildings
func (c *Comparison) CanAccept(passengerID string, origin, destination int) error {
	var errs []error
	for i, b := range c.Buildings() {
		if err := b.CanAccept(passengerID, origin, destination); err != nil {
			errs = append(errs, fmt.Errorf("building %d: %w", i+1, err))
		}
	}
	return errors.Join(errs...)
}

// AdvanceTick steps both buildings in lockstep
func (c *Comparison) AdvanceTick() ComparisonView {
	c.tick++
	return ComparisonView{
		Building1: c.building1.AdvanceTick(),
		Building2: c.building2.AdvanceTick(),
		Tick:      c.tick,
	}
}

// State returns a snapshot of both buildings
func (c *Comparison) State() ComparisonView {
	return ComparisonView{
		Building1: c.building1.State(),
		Building2: c.building2.State(),
		Tick:      c.tick,
	}
}

// Buildings returns both buildings in order
func (c *Comparison) Buildings() [2]*Building {
	return [2]*Building{c.building1, c.building2}
}

// Tick returns the shared tick counter
func (c *Comparison) Tick() int { return c.tick }
