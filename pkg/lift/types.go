package lift

import (
	"fmt"

	"github.com/gnahuy123/liftSim/pkg/policy"
)

// StopType defines the action pending at a floor
type StopType string

const (
	StopTypePickup  StopType = "pickup"
	StopTypeDropoff StopType = "dropoff"
)

// Stop is a pickup or dropoff waiting to be serviced at a floor.
// Destination is only set for pickups.
type Stop struct {
	Type        StopType `json:"type"`
	PassengerID string   `json:"passenger_id"`
	Destination *int     `json:"to_level"`
}

// Status is the lifecycle state of a passenger
type Status string

const (
	StatusWaiting Status = "WAITING"
	StatusMoving  Status = "MOVING"
	StatusArrived Status = "ARRIVED"
)

// Passenger is the lifecycle and timing record of one request
type Passenger struct {
	ID            string `json:"passenger_id"`
	Origin        int    `json:"from_level"`
	Destination   int    `json:"to_level"`
	Status        Status `json:"status"`
	CreatedTick   int    `json:"created_at"`
	PickedUpTick  *int   `json:"picked_up_at"`
	CompletedTick *int   `json:"completed_at"`
}

func (p Passenger) clone() Passenger {
	if p.PickedUpTick != nil {
		t := *p.PickedUpTick
		p.PickedUpTick = &t
	}
	if p.CompletedTick != nil {
		t := *p.CompletedTick
		p.CompletedTick = &t
	}
	return p
}

// Stats holds running averages over serviced passengers
type Stats struct {
	AvgWait   float64 `json:"avg_wait"`
	AvgRide   float64 `json:"avg_ride"`
	AvgTotal  float64 `json:"avg_total"`
	PickedUp  int     `json:"picked_up"`
	Completed int     `json:"completed"`
}

// EventType defines the type of event produced by a tick
type EventType string

const (
	EventTypePickup  EventType = "pickup"
	EventTypeDropoff EventType = "dropoff"
)

// Event records a pickup or dropoff that happened during a tick
type Event struct {
	Tick        int       `json:"tick"`
	Type        EventType `json:"type"`
	PassengerID string    `json:"passenger_id"`
	Floor       int       `json:"floor"`
}

// Message renders the event the way it appears in event logs
func (e Event) Message() string {
	if e.Type == EventTypePickup {
		return fmt.Sprintf("Picked up %s", e.PassengerID)
	}
	return fmt.Sprintf("Dropped off %s", e.PassengerID)
}

// View is a read-only snapshot of a lift. It shares no memory with the engine.
type View struct {
	Floor      int              `json:"level"`
	Direction  policy.Direction `json:"direction"`
	Onboard    []string         `json:"passengers"`
	Stops      map[int][]Stop   `json:"stops"`
	Passengers []Passenger      `json:"active_passengers"`
	Tick       int              `json:"global_tick"`
	Stats      Stats            `json:"stats"`
	Events     []Event          `json:"events,omitempty"`
}
