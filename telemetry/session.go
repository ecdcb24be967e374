package telemetry

import (
	"time"

	"github.com/jd3nn1s/simdash/units"
)

type SessionType int

const (
	SessionTypeUnknown SessionType = iota
	SessionTypePractice
	SessionTypeQualify
	SessionTypeRace
	SessionTypeHotlap
	SessionTypeTimeAttack
	SessionTypeDrift
	SessionTypeDrag
	SessionTypeWarmup
	SessionTypeDriftRace
)

type SessionPhase int

const (
	SessionPhaseUnknown SessionPhase = iota
	SessionPhaseGarage
	SessionPhaseGridWalk
	SessionPhaseFormation
	SessionPhaseCountdown
	SessionPhaseStarted
	SessionPhaseFullCourseYellow
	SessionPhaseStopped
	SessionPhaseOver
)

// PreRace reports whether cars have not yet been released for racing.
func (p SessionPhase) PreRace() bool {
	switch p {
	case SessionPhaseGarage, SessionPhaseGridWalk, SessionPhaseFormation, SessionPhaseCountdown:
		return true
	}
	return false
}

// SessionLength is one of LapsDuration, TimeDuration or
// TimePlusLapsDuration.
type SessionLength interface {
	sessionLength()
}

type LapsDuration struct {
	Laps int
	// EstimatedTime is optional.
	EstimatedTime *time.Duration
}

type TimeDuration struct {
	Time time.Duration
	// EstimatedLaps is optional.
	EstimatedLaps *int
}

// TimePlusLapsDuration is a timed session followed by extra laps once the
// time has expired.
type TimePlusLapsDuration struct {
	Time      time.Duration
	ExtraLaps int
	// EstimatedLaps is optional.
	EstimatedLaps *int
}

func (LapsDuration) sessionLength()         {}
func (TimeDuration) sessionLength()         {}
func (TimePlusLapsDuration) sessionLength() {}

type LightColor int

const (
	LightColorRed LightColor = iota
	LightColorGreen
)

type StartLights struct {
	Color LightColor
	Lit   int
	Total int
}

type Session struct {
	Type          SessionType
	Phase         SessionPhase
	Length        SessionLength
	PitSpeedLimit units.Speed
	PitLaneOpen   bool
	ElapsedTime   *time.Duration
	TimeRemaining *time.Duration
	WaitTime      *time.Duration
	StartLights   *StartLights
	// BestLap is the fastest lap of the session, if any was set.
	BestLap      *LapTime
	Requirements SessionRequirements
	// MaxIncidentPoints is optional.
	MaxIncidentPoints *int
}

// CurrentInstant is the race progress used to test pit window membership.
func (s *Session) CurrentInstant(completedLaps int) RaceInstant {
	return RaceInstant{Elapsed: s.ElapsedTime, Laps: completedLaps}
}

// PitStopRequirements is a bitmask of what a mandatory stop has to do.
type PitStopRequirements uint32

const (
	PitStopRequirementFuel PitStopRequirements = 1 << iota
	PitStopRequirementDriverSwap
	PitStopRequirementTwoTyres
	PitStopRequirementFourTyres

	PitStopRequirementNone PitStopRequirements = 0
)

func (r PitStopRequirements) Has(o PitStopRequirements) bool { return r&o == o }

type SessionRequirements struct {
	MandatoryPitStops        int
	MandatoryPitRequirements PitStopRequirements
	PitWindow                PitWindow
}

// RaceInstant is a comparable point in a race, by elapsed time (optional)
// and by completed laps.
type RaceInstant struct {
	Elapsed *time.Duration
	Laps    int
}

// PitWindow is either a LapsPitWindow or a TimePitWindow. Both boundaries
// are always of the same kind; the window spans [Start, Finish).
type PitWindow interface {
	Contains(at RaceInstant) bool
	pitWindow()
}

type LapsPitWindow struct {
	Start  int
	Finish int
}

func (w LapsPitWindow) Contains(at RaceInstant) bool {
	return at.Laps >= w.Start && at.Laps < w.Finish
}

type TimePitWindow struct {
	Start  time.Duration
	Finish time.Duration
}

func (w TimePitWindow) Contains(at RaceInstant) bool {
	if at.Elapsed == nil {
		return false
	}
	return *at.Elapsed >= w.Start && *at.Elapsed < w.Finish
}

func (LapsPitWindow) pitWindow() {}
func (TimePitWindow) pitWindow() {}
