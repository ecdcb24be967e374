// Package telemetry is the simulator independent model produced once per
// poll. Values are built by a decoder, never mutated afterwards, and may be
// shared between goroutines. Optional data is always a nil pointer, nil
// interface or nil slice; sentinel numbers only exist at wire boundaries.
package telemetry

import (
	"time"

	"github.com/jd3nn1s/simdash/units"
)

type GameState int

const (
	GameStateUnknown GameState = iota
	GameStateDriving
	GameStatePaused
	GameStateMenu
	GameStateReplay
)

func (s GameState) String() string {
	switch s {
	case GameStateDriving:
		return "driving"
	case GameStatePaused:
		return "paused"
	case GameStateMenu:
		return "menu"
	case GameStateReplay:
		return "replay"
	}
	return "unknown"
}

// GameTelemetry is the root of one poll.
type GameTelemetry struct {
	GameState GameState
	UsingVR   bool
	// Event and Session are nil while in the main menu.
	Event          *Event
	Session        *Session
	Vehicles       []Vehicle
	FocusedVehicle *FocusedVehicle
	Player         *Player
}

// Leader returns the vehicle in first position, if any.
func (gt *GameTelemetry) Leader() *Vehicle {
	for i := range gt.Vehicles {
		if gt.Vehicles[i].Position == 1 {
			return &gt.Vehicles[i]
		}
	}
	return nil
}

type Event struct {
	Track TrackLayout
	// FuelRate is the consumption multiplier: 0 disabled, 1 normal.
	FuelRate float64
}

type TrackLayout struct {
	Name       string
	LayoutName string
	// SectorsEnd holds the end of each sector, the last one being the lap
	// length.
	SectorsEnd []units.DistanceFraction
}

// Length of a lap, or zero when no sectors are known.
func (l TrackLayout) Length() units.Distance {
	if len(l.SectorsEnd) == 0 {
		return units.Distance{}
	}
	return l.SectorsEnd[0].Total()
}

// Sectors holds a lap split into the three fixed sectors.
type Sectors struct {
	Individual [3]time.Duration
	Cumulative [3]time.Duration
}

// SectorsFromCumulative derives individual sector times by differencing
// consecutive cumulative values.
func SectorsFromCumulative(cumulative [3]time.Duration) Sectors {
	s := Sectors{Cumulative: cumulative}
	s.Individual[0] = cumulative[0]
	for i := 1; i < len(cumulative); i++ {
		s.Individual[i] = cumulative[i] - cumulative[i-1]
	}
	return s
}

// SectorsFromIndividual derives cumulative sector times as running sums.
func SectorsFromIndividual(individual [3]time.Duration) Sectors {
	s := Sectors{Individual: individual}
	var total time.Duration
	for i, d := range individual {
		total += d
		s.Cumulative[i] = total
	}
	return s
}

type LapTime struct {
	Overall time.Duration
	// Sectors is nil unless all three sectors are known.
	Sectors *Sectors
}
