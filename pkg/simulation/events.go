package simulation

import (
	"time"

	"github.com/gnahuy123/liftSim/pkg/building"
)

// EventType defines the type of event in the simulation
type EventType string

const (
	EventTypePickup          EventType = "pickup"
	EventTypeDropoff         EventType = "dropoff"
	EventTypeRequestRejected EventType = "request-rejected"
	EventTypeLongWait        EventType = "long-wait"
	EventTypeTickLimit       EventType = "tick-limit"
)

// Event represents a point-in-time event in the simulation
type Event struct {
	Tick        int
	Time        time.Time
	Type        EventType
	Building    int
	PassengerID string
	Floor       int
	Message     string
	IsWarning   bool
}

// TimePoint represents the state of every building after a tick
type TimePoint struct {
	Tick    int
	Time    time.Time
	Waiting []int
	Onboard []int
}

// Result summarises one building at the end of a run
type Result struct {
	Policy    string
	Stats     building.Stats
	Remaining int
}
