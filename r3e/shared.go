package r3e

import (
	"bytes"
	"encoding/binary"
	"reflect"

	"github.com/pkg/errors"
)

// Layout version this package was written against. A different major
// version means fields have moved.
const (
	VersionMajor = 2
	VersionMinor = 11
)

const (
	maxCars      = 128
	nameLength   = 64
	sectorCount  = 3
	pitMenuCount = 11
)

// Raw enumerations. -1 is "not available" for all of them.
const (
	SessionUnavailable = -1
	SessionPractice    = 0
	SessionQualify     = 1
	SessionRace        = 2
	SessionWarmup      = 3

	SessionPhaseUnavailable = -1
	SessionPhaseGarage      = 1
	SessionPhaseGridwalk    = 2
	SessionPhaseFormation   = 3
	SessionPhaseCountdown   = 4
	SessionPhaseGreen       = 5
	SessionPhaseCheckered   = 6

	PitWindowUnavailable = -1
	PitWindowDisabled    = 0
	PitWindowClosed      = 1
	PitWindowOpen        = 2
	PitWindowStopped     = 3
	PitWindowCompleted   = 4

	PitStateUnavailable = -1
	PitStateNone        = 0
	PitStateRequested   = 1
	PitStateEntered     = 2
	PitStateStopped     = 3
	PitStateExiting     = 4

	FinishStatusUnavailable = -1
	FinishStatusNone        = 0
	FinishStatusFinished    = 1
	FinishStatusDNF         = 2
	FinishStatusDNQ         = 3
	FinishStatusDNS         = 4
	FinishStatusDQ          = 5

	ControlUnavailable = -1
	ControlPlayer      = 0
	ControlAI          = 1
	ControlRemote      = 2
	ControlReplay      = 3

	EngineCombustion = 0
	EngineElectric   = 1
	EngineHybrid     = 2

	AidUnavailable = -1
	AidActive      = 5

	PenaltyDriveThrough  = 0
	PenaltyStopAndGo     = 1
	PenaltyPitStop       = 2
	PenaltyTimeDeduction = 3
	PenaltySlowDown      = 4
	PenaltyDisqualify    = 5

	BlackWhiteNone         = 0
	BlackWhiteBlueFlag1    = 1
	BlackWhiteBlueFlag2    = 2
	BlackWhiteWrongWay     = 3
	BlackWhiteCuttingTrack = 4

	SessionLengthTimeBased       = 0
	SessionLengthLapBased        = 1
	SessionLengthTimeAndLapBased = 2
)

// Pit action bits.
const (
	PitActionPreparing    = 1 << 0
	PitActionPenalty      = 1 << 1
	PitActionDriverChange = 1 << 2
	PitActionRefuel       = 1 << 3
	PitActionFrontTires   = 1 << 4
	PitActionRearTires    = 1 << 5
	PitActionBody         = 1 << 6
	PitActionFrontWing    = 1 << 7
	PitActionRearWing     = 1 << 8
	PitActionSuspension   = 1 << 9
)

// Tyre and brake indexes.
const (
	FrontLeft  = 0
	FrontRight = 1
	RearLeft   = 2
	RearRight  = 3
)

type Vec3 struct {
	X float32
	Y float32
	Z float32
}

type Ori struct {
	Pitch float32
	Yaw   float32
	Roll  float32
}

type Sectors [sectorCount]float32

type PlayerData struct {
	GameSimulationTicks  int32
	_                    int32
	GameSimulationTime   float64
	Position             [3]float64
	Velocity             [3]float64
	LocalVelocity        [3]float64
	Acceleration         [3]float64
	LocalAcceleration    [3]float64
	Orientation          [3]float64
	Rotation             [3]float64
	AngularAcceleration  [3]float64
	AngularVelocity      [3]float64
	LocalAngularVelocity [3]float64
	LocalGforce          [3]float64

	SteeringForce           float64
	SteeringForcePercentage float64
	EngineTorque            float64
	CurrentDownforce        float64

	Voltage    float64
	ErsLevel   float64
	PowerMguH  float64
	PowerMguK  float64
	TorqueMguK float64

	SuspensionDeflection             [4]float64
	SuspensionVelocity               [4]float64
	Camber                           [4]float64
	RideHeight                       [4]float64
	FrontWingHeight                  float64
	FrontRollAngle                   float64
	RearRollAngle                    float64
	ThirdSpringSuspensionDeflectionF float64
	ThirdSpringSuspensionVelocityF   float64
	ThirdSpringSuspensionDeflectionR float64
	ThirdSpringSuspensionVelocityR   float64

	_ float64
}

type Flags struct {
	Yellow                         int32
	YellowCausedIt                 int32
	YellowOvertake                 int32
	YellowPositionsGained          int32
	SectorYellow                   [sectorCount]int32
	ClosestYellowDistanceIntoTrack float32
	Blue                           int32
	Black                          int32
	Green                          int32
	Checkered                      int32
	White                          int32
	BlackAndWhite                  int32
}

type CutTrackPenalties struct {
	DriveThrough  int32
	StopAndGo     int32
	PitStop       int32
	TimeDeduction int32
	SlowDown      int32
}

type DRS struct {
	Equipped           int32
	Available          int32
	NumActivationsLeft int32
	Engaged            int32
}

type PushToPass struct {
	Available       int32
	Engaged         int32
	AmountLeft      int32
	EngagedTimeLeft float32
	WaitTimeLeft    float32
}

type TireTempInfo struct {
	CurrentTemp [3]float32
	OptimalTemp float32
	ColdTemp    float32
	HotTemp     float32
}

type BrakeTemp struct {
	CurrentTemp float32
	OptimalTemp float32
	ColdTemp    float32
	HotTemp     float32
}

type AidSettings struct {
	ABS          int32
	TC           int32
	ESP          int32
	Countersteer int32
	Cornering    int32
}

type CarDamage struct {
	Engine       float32
	Transmission float32
	Aerodynamics float32
	Suspension   float32
	_            [2]float32
}

type DriverInfo struct {
	Name                  [nameLength]byte
	CarNumber             int32
	ClassID               int32
	ModelID               int32
	TeamID                int32
	LiveryID              int32
	ManufacturerID        int32
	UserID                int32
	SlotID                int32
	ClassPerformanceIndex int32
	EngineType            int32
	CarWidth              float32
	CarLength             float32
	Rating                float32
	Reputation            float32
}

type DriverData struct {
	DriverInfo             DriverInfo
	FinishStatus           int32
	Place                  int32
	PlaceClass             int32
	LapDistance            float32
	Position               Vec3
	TrackSector            int32
	CompletedLaps          int32
	CurrentLapValid        int32
	LapTimeCurrentSelf     float32
	SectorTimeCurrentSelf  Sectors
	SectorTimePreviousSelf Sectors
	SectorTimeBestSelf     Sectors
	TimeDeltaFront         float32
	TimeDeltaBehind        float32
	PitStopStatus          int32
	InPitlane              int32
	NumPitstops            int32
	Penalties              CutTrackPenalties
	CarSpeed               float32
	TireTypeFront          int32
	TireTypeRear           int32
	TireSubtypeFront       int32
	TireSubtypeRear        int32
	BasePenaltyWeight      float32
	AidPenaltyWeight       float32
	DrsState               int32
	PtpState               int32
	PenaltyType            int32
	PenaltyReason          int32
	EngineState            int32
	Orientation            Vec3
}

// Shared is the shared memory record. Field order and sizes follow the
// vendor header for major version 2, reserved slots included; all numbers
// are little endian and the record is packed.
type Shared struct {
	VersionMajor     int32
	VersionMinor     int32
	AllDriversOffset int32
	DriverDataSize   int32

	GamePaused   int32
	GameInMenus  int32
	GameInReplay int32
	GameUsingVR  int32
	_            int32

	Player PlayerData

	TrackName          [nameLength]byte
	LayoutName         [nameLength]byte
	TrackID            int32
	LayoutID           int32
	LayoutLength       float32
	SectorStartFactors Sectors

	RaceSessionLaps    [3]int32
	RaceSessionMinutes [3]int32

	EventIndex           int32
	SessionType          int32
	SessionIteration     int32
	SessionLengthFormat  int32
	SessionPitSpeedLimit float32
	SessionPhase         int32
	StartLights          int32
	TireWearActive       int32
	FuelUseActive        int32
	NumberOfLaps         int32
	SessionTimeDuration  float32
	SessionTimeRemaining float32
	MaxIncidentPoints    int32
	_                    float32

	PitWindowStatus     int32
	PitWindowStart      int32
	PitWindowEnd        int32
	InPitlane           int32
	PitMenuSelection    int32
	PitMenuState        [pitMenuCount]int32
	PitState            int32
	PitTotalDuration    float32
	PitElapsedTime      float32
	PitAction           int32
	NumPitstops         int32
	PitMinDurationTotal float32
	PitMinDurationLeft  float32

	Flags Flags

	Position                            int32
	PositionClass                       int32
	FinishStatus                        int32
	CutTrackWarnings                    int32
	Penalties                           CutTrackPenalties
	NumPenalties                        int32
	CompletedLaps                       int32
	CurrentLapValid                     int32
	TrackSector                         int32
	LapDistance                         float32
	LapDistanceFraction                 float32
	LapTimeBestLeader                   float32
	LapTimeBestLeaderClass              float32
	SectorTimesSessionBestLap           Sectors
	LapTimeBestSelf                     float32
	SectorTimesBestSelf                 Sectors
	LapTimePreviousSelf                 float32
	SectorTimesPreviousSelf             Sectors
	LapTimeCurrentSelf                  float32
	SectorTimesCurrentSelf              Sectors
	LapTimeDeltaLeader                  float32
	LapTimeDeltaLeaderClass             float32
	TimeDeltaFront                      float32
	TimeDeltaBehind                     float32
	TimeDeltaBestSelf                   float32
	BestIndividualSectorTimeSelf        Sectors
	BestIndividualSectorTimeLeader      Sectors
	BestIndividualSectorTimeLeaderClass Sectors
	IncidentPoints                      int32
	_                                   [2]int32

	VehicleInfo DriverInfo
	PlayerName  [nameLength]byte

	ControlType            int32
	CarSpeed               float32
	EngineRps              float32
	MaxEngineRps           float32
	UpshiftRps             float32
	Gear                   int32
	NumGears               int32
	CarCgLocation          Vec3
	CarOrientation         Ori
	LocalAcceleration      Vec3
	TotalMass              float32
	FuelLeft               float32
	FuelCapacity           float32
	FuelPerLap             float32
	EngineWaterTemp        float32
	EngineOilTemp          float32
	FuelPressure           float32
	EngineOilPressure      float32
	TurboPressure          float32
	Throttle               float32
	ThrottleRaw            float32
	Brake                  float32
	BrakeRaw               float32
	Clutch                 float32
	ClutchRaw              float32
	SteerInputRaw          float32
	SteerLockDegrees       int32
	SteerWheelRangeDegrees int32

	AidSettings            AidSettings
	Drs                    DRS
	PitLimiter             int32
	PushToPass             PushToPass
	BrakeBias              float32
	DrsNumActivationsTotal int32
	PtpNumActivationsTotal int32
	_                      [2]float32
	_                      Ori

	TireType         int32
	TireRps          [4]float32
	TireSpeed        [4]float32
	TireGrip         [4]float32
	TireWear         [4]float32
	TireFlatspot     [4]int32
	TirePressure     [4]float32
	TireDirt         [4]float32
	TireTemp         [4]TireTempInfo
	TireTypeFront    int32
	TireTypeRear     int32
	TireSubtypeFront int32
	TireSubtypeRear  int32
	BrakeTemp        [4]BrakeTemp
	BrakePressure    [4]float32
	TireOnMaterial   [4]int32
	TireLoad         [4]float32

	TractionControlSetting int32
	EngineMapSetting       int32
	EngineBrakeSetting     int32
	TractionControlPercent float32

	CarDamage CarDamage

	NumCars        int32
	AllDriversData [maxCars]DriverData
}

var (
	// Size is the number of bytes a Shared record occupies.
	Size = binary.Size(Shared{})
	// DriverSize is the size of one AllDriversData entry.
	DriverSize = binary.Size(DriverData{})
	// DriversOffset is where AllDriversData starts in the record.
	DriversOffset = packedOffset(reflect.TypeOf(Shared{}), "AllDriversData")
)

// packedOffset is the byte offset of the named field of struct type t with
// no alignment padding, or -1 if t has no such field.
func packedOffset(t reflect.Type, name string) int {
	offset := 0
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Name == name {
			return offset
		}
		offset += binary.Size(reflect.Zero(f.Type).Interface())
	}
	return -1
}

// Read decodes one record from the start of b. Extra trailing bytes are
// ignored, a short buffer is an error.
func Read(b []byte) (*Shared, error) {
	if len(b) < Size {
		return nil, errors.Errorf("snapshot is %d bytes, need %d", len(b), Size)
	}
	s := &Shared{}
	if err := binary.Read(bytes.NewReader(b[:Size]), binary.LittleEndian, s); err != nil {
		return nil, errors.Wrap(err, "unable to read shared memory record")
	}
	return s, nil
}

// Bytes encodes s in the shared memory layout.
func (s *Shared) Bytes() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, Size))
	if err := binary.Write(buf, binary.LittleEndian, s); err != nil {
		return nil, errors.Wrap(err, "unable to write shared memory record")
	}
	return buf.Bytes(), nil
}
