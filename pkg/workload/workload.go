package workload

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/gnahuy123/liftSim/pkg/config"
	"github.com/robfig/cron/v3"
)

// Request is a passenger request due at a tick
type Request struct {
	Tick        int
	PassengerID string
	Origin      int
	Destination int
	Stream      string
}

// Generate expands every stream of a scenario into requests ordered by tick.
// Requests due on the same tick keep stream order. Only ticks below
// scenario.MaxTicks are produced.
func Generate(scenario *config.Scenario) ([]Request, error) {
	requests := []Request{}

	for i := range scenario.Streams {
		stream := &scenario.Streams[i]

		var generated []Request
		var err error
		switch stream.TriggerType {
		case config.TriggerTypeFixed:
			generated = fixedRequests(scenario, stream)
		case config.TriggerTypeCron:
			generated, err = cronRequests(scenario, stream)
		case config.TriggerTypeRandom:
			generated = randomRequests(scenario, stream)
		default:
			err = fmt.Errorf("unknown trigger type %q", stream.TriggerType)
		}
		if err != nil {
			return nil, fmt.Errorf("stream %s: %w", stream.Name, err)
		}
		requests = append(requests, generated...)
	}

	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].Tick < requests[j].Tick
	})

	return requests, nil
}

func fixedRequests(scenario *config.Scenario, stream *config.Stream) []Request {
	requests := []Request{}
	for _, tick := range stream.Ticks {
		if tick >= scenario.MaxTicks {
			continue
		}
		requests = append(requests, Request{
			Tick:        tick,
			PassengerID: passengerID(stream.Name, len(requests)),
			Origin:      stream.Origin,
			Destination: stream.Destination,
			Stream:      stream.Name,
		})
	}
	return requests
}

// cronRequests maps each schedule activation onto the tick whose simulated
// wall-clock window contains it
func cronRequests(scenario *config.Scenario, stream *config.Stream) ([]Request, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(stream.CronSchedule)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cron schedule: %w", err)
	}

	start := scenario.Start
	end := start.Add(time.Duration(scenario.MaxTicks) * scenario.TickDuration)

	requests := []Request{}
	// Next is strictly after its argument, so step back to include start itself
	current := start.Add(-time.Second)
	for {
		next := schedule.Next(current)
		if next.IsZero() || !next.Before(end) {
			break
		}

		requests = append(requests, Request{
			Tick:        int(next.Sub(start) / scenario.TickDuration),
			PassengerID: passengerID(stream.Name, len(requests)),
			Origin:      stream.Origin,
			Destination: stream.Destination,
			Stream:      stream.Name,
		})

		current = next
	}

	return requests, nil
}

func randomRequests(scenario *config.Scenario, stream *config.Stream) []Request {
	rng := rand.New(rand.NewSource(stream.Seed))
	floors := scenario.MaxFloor - scenario.MinFloor + 1
	window := max(min(stream.Window, scenario.MaxTicks), 1)

	requests := make([]Request, 0, stream.Count)
	for i := 0; i < stream.Count; i++ {
		origin := scenario.MinFloor + rng.Intn(floors)
		destination := scenario.MinFloor + rng.Intn(floors-1)
		if destination >= origin {
			destination++
		}

		requests = append(requests, Request{
			Tick:        rng.Intn(window),
			PassengerID: passengerID(stream.Name, i),
			Origin:      origin,
			Destination: destination,
			Stream:      stream.Name,
		})
	}

	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].Tick < requests[j].Tick
	})
	return requests
}

func passengerID(stream string, n int) string {
	return fmt.Sprintf("%s-%03d", stream, n+1)
}
