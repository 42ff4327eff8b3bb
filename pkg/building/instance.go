package building

import "encoding/json"

// Kind distinguishes single building sessions from comparisons
type Kind string

const (
	KindSingle     Kind = "single"
	KindComparison Kind = "comparison"
)

// StateView is the transport-neutral snapshot of any simulation instance.
// Exactly one of Building and Comparison is set, matching Type.
type StateView struct {
	Type       Kind
	Building   *View
	Comparison *ComparisonView
}

// MarshalJSON flattens the populated view next to the type field
func (s StateView) MarshalJSON() ([]byte, error) {
	if s.Type == KindComparison {
		return json.Marshal(struct {
			Type Kind `json:"type"`
			*ComparisonView
		}{s.Type, s.Comparison})
	}
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*View
	}{s.Type, s.Building})
}

// Tick returns the global tick of whichever view is set
func (s StateView) Tick() int {
	switch {
	case s.Comparison != nil:
		return s.Comparison.Tick
	case s.Building != nil:
		return s.Building.Tick
	}
	return 0
}

// Instance is a simulation a session can drive: a Building or a Comparison
type Instance interface {
	AddRequest(passengerID string, origin, destination int) error
	Step() StateView
	Snapshot() StateView
	Kind() Kind
}

// Step advances the building and wraps the result
func (b *Building) Step() StateView {
	v := b.AdvanceTick()
	return StateView{Type: KindSingle, Building: &v}
}

// Snapshot wraps the current state
func (b *Building) Snapshot() StateView {
	v := b.State()
	return StateView{Type: KindSingle, Building: &v}
}

func (b *Building) Kind() Kind { return KindSingle }

// Step advances both buildings and wraps the result
func (c *Comparison) Step() StateView {
	v := c.AdvanceTick()
	return StateView{Type: KindComparison, Comparison: &v}
}

// Snapshot wraps the current state of both buildings
func (c *Comparison) Snapshot() StateView {
	v := c.State()
	return StateView{Type: KindComparison, Comparison: &v}
}

func (c *Comparison) Kind() Kind { return KindComparison }
