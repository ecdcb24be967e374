package dash

import (
	"math"
	"strconv"
)

// Schema version of the dashboard document, not of the simulator.
const (
	VersionMajor = 2
	VersionMinor = 11
)

const roundDigits = 3

// unavailable is the legacy sentinel for absent integers and enums.
const unavailable = -1

const (
	unavailableFloat Float = -1
	// signed deltas use a sentinel outside their range
	unavailableDelta Float = -1000
)

// Float is written with at most three decimal digits.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = float64(unavailableFloat)
	}
	scale := math.Pow10(roundDigits)
	v = math.Round(v*scale) / scale
	if v == 0 {
		// avoid "-0"
		v = 0
	}
	return strconv.AppendFloat(nil, v, 'f', -1, 64), nil
}

type Vector struct {
	X Float
	Y Float
	Z Float
}

type Orientation struct {
	Pitch Float
	Yaw   Float
	Roll  Float
}

type SectorTimes struct {
	Sector1 Float
	Sector2 Float
	Sector3 Float
}

type TireData[T any] struct {
	FrontLeft  T
	FrontRight T
	RearLeft   T
	RearRight  T
}

type TireTempSet struct {
	Left   Float
	Center Float
	Right  Float
}

type TireTemp struct {
	CurrentTemp TireTempSet
	OptimalTemp Float
	ColdTemp    Float
	HotTemp     Float
}

type BrakeTemp struct {
	CurrentTemp Float
	OptimalTemp Float
	ColdTemp    Float
	HotTemp     Float
}

type PlayerData struct {
	Position          Vector
	Orientation       Vector
	LocalAcceleration Vector
	LocalGforce       Vector
}

type Flags struct {
	Yellow                int
	YellowCausedIt        int
	YellowOvertake        int
	YellowPositionsGained int
	Blue                  int
	Black                 int
	Green                 int
	Checkered             int
	White                 int
	BlackAndWhite         int
}

type Penalties struct {
	DriveThrough  int
	StopAndGo     int
	PitStop       int
	TimeDeduction int
	SlowDown      int
}

type DriverInfo struct {
	Name                  string
	CarNumber             int
	ClassId               int
	ModelId               int
	TeamId                int
	LiveryId              int
	ManufacturerId        int
	UserId                int
	SlotId                int
	ClassPerformanceIndex int
	EngineType            int
}

type AidSettings struct {
	Abs          int
	Tc           int
	Esp          int
	Countersteer int
	Cornering    int
}

type Drs struct {
	Equipped           int
	Available          int
	NumActivationsLeft int
	Engaged            int
}

type PushToPass struct {
	Available       int
	Engaged         int
	AmountLeft      int
	EngagedTimeLeft Float
	WaitTimeLeft    Float
}

type CarDamage struct {
	Engine       Float
	Transmission Float
	Aerodynamics Float
	Suspension   Float
}

type DriverData struct {
	DriverInfo             DriverInfo
	FinishStatus           int
	Place                  int
	PlaceClass             int
	LapDistance            Float
	Position               Vector
	TrackSector            int
	CompletedLaps          int
	CurrentLapValid        int
	LapTimeCurrentSelf     Float
	SectorTimeCurrentSelf  SectorTimes
	SectorTimePreviousSelf SectorTimes
	SectorTimeBestSelf     SectorTimes
	TimeDeltaFront         Float
	TimeDeltaBehind        Float
	PitStopStatus          int
	InPitlane              int
	NumPitstops            int
	Penalties              Penalties
	CarSpeed               Float
	PenaltyType            int
}

// Payload is the dashboard document. Field names are the wire keys.
type Payload struct {
	VersionMajor int
	VersionMinor int
	GamePaused   int
	GameInMenus  int
	GameInReplay int
	GameUsingVr  int

	Player PlayerData

	TrackName          string
	LayoutName         string
	LayoutLength       Float
	SectorStartFactors SectorTimes

	SessionType          int
	SessionPhase         int
	SessionLengthFormat  int
	SessionPitSpeedLimit Float
	StartLights          int
	FuelUseActive        int
	NumberOfLaps         int
	SessionTimeDuration  Float
	SessionTimeRemaining Float
	MaxIncidentPoints    int

	PitWindowStatus      int
	PitWindowStart       int
	PitWindowEnd         int
	InPitlane            int
	PitState             int
	PitElapsedTime       Float
	PitAction            int
	NumPitstopsPerformed int

	Flags Flags

	Position                            int
	PositionClass                       int
	FinishStatus                        int
	CutTrackWarnings                    int
	Penalties                           Penalties
	NumPenalties                        int
	CompletedLaps                       int
	CurrentLapValid                     int
	TrackSector                         int
	LapDistance                         Float
	LapDistanceFraction                 Float
	SectorTimesSessionBestLap           SectorTimes
	LapTimeBestSelf                     Float
	SectorTimesBestSelf                 SectorTimes
	LapTimePreviousSelf                 Float
	SectorTimesPreviousSelf             SectorTimes
	LapTimeCurrentSelf                  Float
	SectorTimesCurrentSelf              SectorTimes
	TimeDeltaFront                      Float
	TimeDeltaBehind                     Float
	TimeDeltaBestSelf                   Float
	BestIndividualSectorTimeSelf        SectorTimes
	BestIndividualSectorTimeLeaderClass SectorTimes
	IncidentPoints                      int

	VehicleInfo DriverInfo
	PlayerName  string

	ControlType            int
	CarSpeed               Float
	EngineRps              Float
	MaxEngineRps           Float
	UpshiftRps             Float
	Gear                   int
	CarCgLocation          Vector
	CarOrientation         Orientation
	LocalAcceleration      Vector
	FuelLeft               Float
	FuelCapacity           Float
	FuelPerLap             Float
	Throttle               Float
	ThrottleRaw            Float
	Brake                  Float
	BrakeRaw               Float
	Clutch                 Float
	ClutchRaw              Float
	SteerInputRaw          Float
	SteerWheelRangeDegrees int

	AidSettings AidSettings
	Drs         Drs
	PushToPass  PushToPass

	TireGrip  TireData[Float]
	TireWear  TireData[Float]
	TireDirt  TireData[Float]
	TireTemp  TireData[TireTemp]
	BrakeTemp TireData[BrakeTemp]

	TractionControlSetting int
	TractionControlPercent Float
	EngineMapSetting       int
	EngineBrakeSetting     int

	CarDamage CarDamage

	NumCars    int
	DriverData []DriverData
}
