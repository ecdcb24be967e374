package telemetry

import (
	"time"

	"github.com/jd3nn1s/simdash/units"
)

// Player holds detail only available for the locally controlled car.
type Player struct {
	RawInputs         Inputs
	Inputs            Inputs
	SteerWheelRange   units.Angle
	DrivingAids       DrivingAids
	VehicleSettings   VehicleSettings
	VehicleDamage     VehicleDamage
	Tyres             [][]Tyre
	Fuel              Fuel
	Engine            Engine
	Gear              int
	CgLocation        units.Vector3[units.Distance]
	Orientation       units.Orientation
	LocalAcceleration units.Vector3[units.Acceleration]
	// ClassBestSectors and PersonalBestSectors are optional.
	ClassBestSectors    *Sectors
	PersonalBestSectors *Sectors
	// PersonalBestDelta is signed: negative when ahead of the best lap.
	PersonalBestDelta *time.Duration
	Drs               *ActivationToggle
	PushToPass        *WaitTimeToggle
	PitStopStatus     PitStopStatus
	Warnings          Warnings
	OvertakeAllowed   *bool
}

// Aid is a driving aid setting. Active is set while the aid is
// intervening.
type Aid struct {
	Level  uint32
	Active bool
}

type TractionControl struct {
	Aid
	// Cut is the optional fraction of power the system may remove.
	Cut *float64
}

// DrivingAids holds each aid, nil when the car does not have it.
type DrivingAids struct {
	ABS          *Aid
	TC           *TractionControl
	ESP          *Aid
	Countersteer *Aid
	Cornering    *Aid
}

type VehicleSettings struct {
	EngineMap            *uint32
	EngineBrakeReduction *uint32
	TractionControl      *uint32
}

// VehicleDamage is per subsystem, 0 undamaged to 1 destroyed.
type VehicleDamage struct {
	Aerodynamics *float64
	Engine       *float64
	Suspension   *float64
	Transmission *float64
}

type Tyre struct {
	Dirt              *float64
	Grip              *float64
	Wear              *float64
	Temperatures      TyreTemperatures
	BrakeTemperatures BrakeTemperatures
}

// TyreTemperatures keeps a tread matrix; for a single tread row it holds
// left, center and right.
type TyreTemperatures struct {
	CurrentTemperatures [][]units.Temperature
	OptimalTemperature  *units.Temperature
	ColdTemperature     *units.Temperature
	HotTemperature      *units.Temperature
}

type BrakeTemperatures struct {
	CurrentTemperature *units.Temperature
	OptimalTemperature *units.Temperature
	ColdTemperature    *units.Temperature
	HotTemperature     *units.Temperature
}

type Fuel struct {
	Max    units.Capacity
	Left   units.Capacity
	PerLap *units.Capacity
}

type Engine struct {
	Speed        units.AngularSpeed
	UpshiftSpeed units.AngularSpeed
	MaxSpeed     units.AngularSpeed
}

// BoundedValue is a counter with a known upper bound.
type BoundedValue[T ~int | ~uint32] struct {
	Value T
	Total T
}

type ActivationToggle struct {
	Available       bool
	Engaged         bool
	ActivationsLeft *BoundedValue[uint32]
}

type WaitTimeToggle struct {
	ActivationToggle
	EngagedTimeLeft time.Duration
	WaitTimeLeft    time.Duration
}

// PitStopStatus is a bitmask of the work being done during a pit stop.
type PitStopStatus uint32

const (
	PitStopStatusPreparing PitStopStatus = 1 << iota
	PitStopStatusServingPenalty
	PitStopStatusDriverChange
	PitStopStatusRefuelling
	PitStopStatusChangeFrontTyres
	PitStopStatusChangeRearTyres
	PitStopStatusRepairBody
	PitStopStatusRepairFrontWing
	PitStopStatusRepairRearWing
	PitStopStatusRepairSuspension

	PitStopStatusNone PitStopStatus = 0
)

type Warnings struct {
	IncidentPoints    *uint32
	CutTrackWarnings  *uint32
	BlueFlagWarnings  *BoundedValue[uint32]
	GiveBackPositions uint32
}

// Tyre position indexes into Player.Tyres.
const (
	Front = 0
	Rear  = 1
	Left  = 0
	Right = 1
)

// Tyre returns the tyre at [axle][side] or nil if the matrix does not have
// one there.
func (p *Player) Tyre(axle, side int) *Tyre {
	if axle < 0 || axle >= len(p.Tyres) {
		return nil
	}
	row := p.Tyres[axle]
	if side < 0 || side >= len(row) {
		return nil
	}
	return &row[side]
}
