package lift

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFloor is matched by every *InvalidFloorError
	ErrInvalidFloor = errors.New("invalid floor")
	// ErrDuplicatePassenger is returned when a passenger id is already active in the lift
	ErrDuplicatePassenger = errors.New("passenger already active")
)

// InvalidFloorError describes a rejected request
type InvalidFloorError struct {
	Origin      int
	Destination int
	MinFloor    int
	MaxFloor    int
}

func (e *InvalidFloorError) Error() string {
	if e.Origin == e.Destination {
		return fmt.Sprintf("invalid floor: origin and destination are both %d", e.Origin)
	}
	return fmt.Sprintf("invalid floor: trip %d -> %d is outside [%d, %d]", e.Origin, e.Destination, e.MinFloor, e.MaxFloor)
}

func (e *InvalidFloorError) Unwrap() error {
	return ErrInvalidFloor
}
