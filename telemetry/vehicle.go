package telemetry

import (
	"time"

	"github.com/jd3nn1s/simdash/units"
)

type RacingStatusKind int

const (
	RacingStatusUnknown RacingStatusKind = iota
	RacingStatusRacing
	RacingStatusFinished
	RacingStatusDNF
	RacingStatusDNQ
	RacingStatusDNS
	RacingStatusDisqualified
)

type DisqualificationReason int

const (
	DisqualificationReasonUnknown DisqualificationReason = iota
	DisqualificationReasonFalseStart
	DisqualificationReasonPitLaneSpeeding
	DisqualificationReasonWrongWay
	DisqualificationReasonEnteringPitUnderRed
	DisqualificationReasonExitingPitUnderRed
	DisqualificationReasonFailedDriverChange
	DisqualificationReasonThreeDriveThroughsInLap
	DisqualificationReasonLappedFieldMultipleTimes
	DisqualificationReasonIgnoredDriveThroughPenalty
	DisqualificationReasonIgnoredStopAndGoPenalty
	DisqualificationReasonIgnoredPitStopPenalty
	DisqualificationReasonIgnoredTimePenalty
	DisqualificationReasonExcessiveCutting
	DisqualificationReasonIgnoredBlueFlag
)

// RacingStatus carries a reason only for disqualifications.
type RacingStatus struct {
	Kind   RacingStatusKind
	Reason DisqualificationReason
}

func Disqualified(reason DisqualificationReason) RacingStatus {
	return RacingStatus{Kind: RacingStatusDisqualified, Reason: reason}
}

type EngineType int

const (
	EngineTypeCombustion EngineType = iota
	EngineTypeElectric
	EngineTypeHybrid
)

type ControlType int

const (
	ControlTypeLocalPlayer ControlType = iota
	ControlTypeAI
	ControlTypeRemotePlayer
	ControlTypeReplay
)

type PitLanePhase int

const (
	PitLanePhaseEntered PitLanePhase = iota
	PitLanePhaseStopped
	PitLanePhaseExiting
)

type VehiclePit struct {
	StopsDone          int
	MandatoryStopsDone int
	// PitLanePhase is nil when the vehicle is not in the pit lane.
	PitLanePhase *PitLanePhase
	PitLaneTime  *time.Duration
	PitStallTime *time.Duration
}

// InPitStall reports whether the car is stationary in its pit box.
func (p VehiclePit) InPitStall() bool {
	return p.PitLanePhase != nil && *p.PitLanePhase == PitLanePhaseStopped
}

type PenaltyType int

const (
	PenaltyTypeDriveThrough PenaltyType = iota
	PenaltyTypeStopAndGo
	PenaltyTypePitStop
	PenaltyTypeTimeDeduction
	PenaltyTypeSlowDown
	PenaltyTypeDisqualify
)

type PenaltyReason int

const (
	PenaltyReasonUnknown PenaltyReason = iota
	PenaltyReasonTrackCutting
	PenaltyReasonPitLaneSpeeding
	PenaltyReasonFalseStart
	PenaltyReasonIgnoredBlueFlag
	PenaltyReasonDrivingTooSlow
	PenaltyReasonIllegallyPassingBeforeGreen
	PenaltyReasonIllegallyPassingBeforeFinish
	PenaltyReasonIllegallyPassingBeforePitEntrance
	PenaltyReasonIgnoredSlowDown
	PenaltyReasonOvertakingUnderYellow
	PenaltyReasonIgnoredMandatoryPit
	PenaltyReasonMandatoryPitStopTooShort
	PenaltyReasonPitLaneEntryCutting
)

type Penalty struct {
	Type   PenaltyType
	Reason PenaltyReason
}

type Driver struct {
	Name string
}

type Vehicle struct {
	// ID is the simulator slot identifier, unique within one poll.
	ID                    int
	DisplayNumber         string
	ClassID               int
	ModelID               int
	TeamID                int
	LiveryID              int
	ManufacturerID        int
	UserID                int
	ClassPerformanceIndex int
	RacingStatus          RacingStatus
	EngineType            EngineType
	ControlType           ControlType
	Position              int
	PositionClass         int
	GapAhead              *time.Duration
	GapBehind             *time.Duration
	CompletedLaps         int
	CurrentLapValid       bool
	CurrentLapTime        *LapTime
	// CurrentLapSplits are the cumulative times of the sectors completed so
	// far in the current lap, at most two.
	CurrentLapSplits   []time.Duration
	PreviousLapTime    *LapTime
	BestLapTime        *LapTime
	CurrentLapDistance units.DistanceFraction
	Location           units.Vector3[units.Distance]
	Orientation        *units.Orientation
	Speed              units.Speed
	CurrentDriver      Driver
	Pit                VehiclePit
	Penalties          []Penalty
	Flags              Flags
}

// HasPenalty reports whether any outstanding penalty is of type pt.
func (v *Vehicle) HasPenalty(pt PenaltyType) bool {
	for _, p := range v.Penalties {
		if p.Type == pt {
			return true
		}
	}
	return false
}

type Inputs struct {
	Throttle float64
	Brake    float64
	Clutch   float64
	// Steering is -1 (full left) to 1 (full right).
	Steering float64
}

// FocusedVehicle is the vehicle the simulator exposes extended per frame
// detail for.
type FocusedVehicle struct {
	Vehicle
	Inputs *Inputs
}
