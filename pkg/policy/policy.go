package policy

// Direction is the travel direction of a lift
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
	Idle Direction = "idle"
)

// DirectionFunc picks the next direction for a lift at floor, currently
// heading in current, given the floors that hold fulfillable stops.
// pending is sorted ascending and contains no duplicates.
type DirectionFunc func(floor int, current Direction, pending []int) Direction

// Policy is a named direction selection rule
type Policy struct {
	Name        string
	Description string
	Next        DirectionFunc
}

// Scan keeps moving in the current direction while stops remain ahead,
// then reverses (LOOK).
func Scan(floor int, current Direction, pending []int) Direction {
	if len(pending) == 0 {
		return Idle
	}
	lowest, highest := pending[0], pending[len(pending)-1]

	switch current {
	case Up:
		if floor >= highest {
			return Down
		}
		return Up
	case Down:
		if floor <= lowest {
			return Up
		}
		return Down
	default:
		if floor > lowest {
			return Down
		}
		return Up
	}
}

// ShortestSeek heads for the closest pending floor. Ties go to the lower floor.
func ShortestSeek(floor int, _ Direction, pending []int) Direction {
	if len(pending) == 0 {
		return Idle
	}
	target := pending[0]
	for _, f := range pending[1:] {
		if distance(f, floor) < distance(target, floor) {
			target = f
		}
	}
	return toward(floor, target)
}

// Nearest heads for the closest pending floor like ShortestSeek but breaks
// ties in favour of the current direction of travel.
func Nearest(floor int, current Direction, pending []int) Direction {
	if len(pending) == 0 {
		return Idle
	}

	best := distance(pending[0], floor)
	for _, f := range pending[1:] {
		if d := distance(f, floor); d < best {
			best = d
		}
	}

	var candidates []int
	for _, f := range pending {
		if distance(f, floor) == best {
			candidates = append(candidates, f)
		}
	}

	target := candidates[0]
	if len(candidates) > 1 {
		// at most two candidates exist: floor-best and floor+best
		switch current {
		case Up:
			if c := candidates[len(candidates)-1]; c > floor {
				target = c
			}
		case Down:
			if c := candidates[0]; c < floor {
				target = c
			}
		}
	}
	return toward(floor, target)
}

func toward(floor, target int) Direction {
	switch {
	case target > floor:
		return Up
	case target < floor:
		return Down
	default:
		return Idle
	}
}

func distance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
