package r3e

import (
	"fmt"
	"strconv"

	"github.com/jd3nn1s/simdash/telemetry"
	"github.com/jd3nn1s/simdash/units"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ErrIncompatibleVersion is the cause of every VersionError.
var ErrIncompatibleVersion = errors.New("incompatible shared memory version")

// VersionError is returned for a record whose major version differs from
// VersionMajor. Its layout cannot be interpreted.
type VersionError struct {
	Major int32
	Minor int32
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("%v: got %d.%d, decoder built for %d.x",
		ErrIncompatibleVersion, e.Major, e.Minor, VersionMajor)
}

func (e *VersionError) Cause() error  { return ErrIncompatibleVersion }
func (e *VersionError) Unwrap() error { return ErrIncompatibleVersion }

// ErrLayoutMismatch is the cause of every LayoutError.
var ErrLayoutMismatch = errors.New("shared memory layout mismatch")

// LayoutError is returned when the record's own description of where the
// driver table starts, or how large an entry is, disagrees with Shared.
type LayoutError struct {
	DriversOffset int32
	DriverSize    int32
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("%v: drivers at %d size %d, expected %d size %d",
		ErrLayoutMismatch, e.DriversOffset, e.DriverSize, DriversOffset, DriverSize)
}

func (e *LayoutError) Cause() error  { return ErrLayoutMismatch }
func (e *LayoutError) Unwrap() error { return ErrLayoutMismatch }

const startLightsTotal = 5

// Decoder turns shared memory records into telemetry. It keeps state
// between polls, so one Decoder must only be used by one polling loop.
type Decoder struct {
	aids      aidTrackers
	pitWindow pitWindowCache
}

func NewDecoder() *Decoder {
	return &Decoder{}
}

func (d *Decoder) Decode(s *Shared) (*telemetry.GameTelemetry, error) {
	if s.VersionMajor != VersionMajor {
		return nil, &VersionError{Major: s.VersionMajor, Minor: s.VersionMinor}
	}
	if s.VersionMinor != VersionMinor {
		log.WithField("minor", s.VersionMinor).Debug("shared memory minor version differs")
	}
	if int(s.AllDriversOffset) != DriversOffset || int(s.DriverDataSize) != DriverSize {
		return nil, &LayoutError{DriversOffset: s.AllDriversOffset, DriverSize: s.DriverDataSize}
	}

	gt := &telemetry.GameTelemetry{
		GameState: gameState(s),
		UsingVR:   s.GameUsingVR > 0,
		Event:     decodeEvent(s),
	}
	session := d.decodeSession(s)
	gt.Session = session

	layoutLength := units.DistanceFromM(float64(s.LayoutLength))
	numCars := int(s.NumCars)
	if numCars < 0 {
		numCars = 0
	} else if numCars > maxCars {
		numCars = maxCars
	}
	gt.Vehicles = make([]telemetry.Vehicle, 0, numCars)
	focused := -1
	for i := 0; i < numCars; i++ {
		dd := &s.AllDriversData[i]
		gt.Vehicles = append(gt.Vehicles, decodeVehicle(dd, layoutLength))
		if s.VehicleInfo.SlotID >= 0 && dd.DriverInfo.SlotID == s.VehicleInfo.SlotID {
			focused = i
		}
	}

	if focused >= 0 && gt.GameState != telemetry.GameStateMenu {
		gt.FocusedVehicle = decodeFocusedVehicle(s, &s.AllDriversData[focused], layoutLength)
		gt.Player = d.decodePlayer(s)
	} else {
		// a new car or session starts with fresh aid levels
		d.aids = aidTrackers{}
	}
	return gt, nil
}

func decodeEvent(s *Shared) *telemetry.Event {
	if s.LayoutID < 0 || s.LayoutLength <= 0 {
		return nil
	}
	total := units.DistanceFromM(float64(s.LayoutLength))
	var ends []units.DistanceFraction
	f := s.SectorStartFactors
	if f[1] > 0 && f[2] > f[1] && f[2] < 1 {
		ends = append(ends,
			units.NewDistanceFraction(float64(f[1]), total),
			units.NewDistanceFraction(float64(f[2]), total))
	}
	ends = append(ends, units.NewDistanceFraction(1, total))

	fuelRate := float64(s.FuelUseActive)
	if fuelRate < 0 {
		fuelRate = 0
	}
	return &telemetry.Event{
		Track: telemetry.TrackLayout{
			Name:       decodeString(s.TrackName[:]),
			LayoutName: decodeString(s.LayoutName[:]),
			SectorsEnd: ends,
		},
		FuelRate: fuelRate,
	}
}

func sessionLength(s *Shared) telemetry.SessionLength {
	laps := s.NumberOfLaps
	duration := s.SessionTimeDuration
	switch {
	case laps > 0 && duration > 0:
		return telemetry.TimePlusLapsDuration{Time: seconds(duration), ExtraLaps: int(laps)}
	case laps > 0:
		return telemetry.LapsDuration{Laps: int(laps)}
	case duration > 0:
		return telemetry.TimeDuration{Time: seconds(duration)}
	}
	return nil
}

func startLights(raw int32) *telemetry.StartLights {
	switch {
	case raw < 0:
		return nil
	case raw > startLightsTotal:
		return &telemetry.StartLights{Color: telemetry.LightColorGreen, Lit: startLightsTotal, Total: startLightsTotal}
	}
	return &telemetry.StartLights{Color: telemetry.LightColorRed, Lit: int(raw), Total: startLightsTotal}
}

func (d *Decoder) decodeSession(s *Shared) *telemetry.Session {
	if s.SessionType < 0 {
		// keep nothing from a previous session
		d.pitWindow = pitWindowCache{}
		return nil
	}
	phase := sessionPhase(s.SessionPhase)
	session := &telemetry.Session{
		Type:          sessionType(s.SessionType),
		Phase:         phase,
		Length:        sessionLength(s),
		PitSpeedLimit: units.SpeedFromMPS(float64(s.SessionPitSpeedLimit)),
		PitLaneOpen:   s.PitWindowStatus != PitWindowDisabled,
		StartLights:   startLights(s.StartLights),
		BestLap:       completedLap(s.SectorTimesSessionBestLap),
	}
	if s.MaxIncidentPoints >= 0 {
		points := int(s.MaxIncidentPoints)
		session.MaxIncidentPoints = &points
	}

	remaining := optSeconds(s.SessionTimeRemaining)
	if phase == telemetry.SessionPhaseOver {
		session.WaitTime = remaining
	} else {
		session.TimeRemaining = remaining
		if remaining != nil && s.SessionTimeDuration > 0 {
			elapsed := seconds(s.SessionTimeDuration) - *remaining
			if elapsed >= 0 {
				session.ElapsedTime = &elapsed
			}
		}
	}

	window := d.pitWindow.update(s.PitWindowStatus, rawPitWindow(s))
	session.Requirements.PitWindow = window
	// only a single mandatory stop can be expressed by the game
	if window != nil {
		session.Requirements.MandatoryPitStops = 1
	}
	return session
}

func carNumber(raw int32) string {
	if raw < 0 {
		return ""
	}
	return strconv.Itoa(int(raw))
}

func decodeVehicle(dd *DriverData, layoutLength units.Distance) telemetry.Vehicle {
	info := &dd.DriverInfo
	control := telemetry.ControlTypeAI
	if info.UserID > 0 {
		control = telemetry.ControlTypeRemotePlayer
	}
	lapDistance := float64(dd.LapDistance)
	if lapDistance < 0 {
		lapDistance = 0
	}
	v := telemetry.Vehicle{
		ID:                    int(info.SlotID),
		DisplayNumber:         carNumber(info.CarNumber),
		ClassID:               int(info.ClassID),
		ModelID:               int(info.ModelID),
		TeamID:                int(info.TeamID),
		LiveryID:              int(info.LiveryID),
		ManufacturerID:        int(info.ManufacturerID),
		UserID:                int(info.UserID),
		ClassPerformanceIndex: int(info.ClassPerformanceIndex),
		RacingStatus:          racingStatus(dd.FinishStatus, dd.PenaltyType, dd.PenaltyReason),
		EngineType:            engineType(info.EngineType),
		ControlType:           control,
		Position:              int(dd.Place),
		PositionClass:         int(dd.PlaceClass),
		GapAhead:              optSeconds(dd.TimeDeltaFront),
		GapBehind:             optSeconds(dd.TimeDeltaBehind),
		CompletedLaps:         int(dd.CompletedLaps),
		CurrentLapValid:       dd.CurrentLapValid > 0,
		CurrentLapTime:        currentLap(dd.LapTimeCurrentSelf),
		CurrentLapSplits:      currentSplits(dd.SectorTimeCurrentSelf),
		PreviousLapTime:       completedLap(dd.SectorTimePreviousSelf),
		BestLapTime:           completedLap(dd.SectorTimeBestSelf),
		CurrentLapDistance:    units.DistanceFractionOf(units.DistanceFromM(lapDistance), layoutLength),
		Location:              vector(dd.Position),
		Speed:                 units.SpeedFromMPS(float64(dd.CarSpeed)),
		CurrentDriver:         telemetry.Driver{Name: decodeString(info.Name[:])},
		Penalties:             penalties(dd.Penalties, dd.PenaltyType, dd.PenaltyReason),
	}
	if dd.NumPitstops > 0 {
		v.Pit.StopsDone = int(dd.NumPitstops)
	}
	if dd.InPitlane > 0 {
		phase := telemetry.PitLanePhaseEntered
		v.Pit.PitLanePhase = &phase
	}
	return v
}

// decodeFocusedVehicle overlays the higher resolution player block on the
// player's driver record.
func decodeFocusedVehicle(s *Shared, dd *DriverData, layoutLength units.Distance) *telemetry.FocusedVehicle {
	v := decodeVehicle(dd, layoutLength)

	v.ControlType = controlType(s.ControlType)
	v.RacingStatus = racingStatus(s.FinishStatus, dd.PenaltyType, dd.PenaltyReason)
	v.Position = int(s.Position)
	v.PositionClass = int(s.PositionClass)
	v.GapAhead = optSeconds(s.TimeDeltaFront)
	v.GapBehind = optSeconds(s.TimeDeltaBehind)
	v.CompletedLaps = int(s.CompletedLaps)
	v.CurrentLapValid = s.CurrentLapValid > 0
	v.CurrentLapTime = currentLap(s.LapTimeCurrentSelf)
	v.CurrentLapSplits = currentSplits(s.SectorTimesCurrentSelf)
	v.PreviousLapTime = lapWithSectors(s.LapTimePreviousSelf, s.SectorTimesPreviousSelf)
	v.BestLapTime = lapWithSectors(s.LapTimeBestSelf, s.SectorTimesBestSelf)
	if s.LapDistanceFraction >= 0 {
		v.CurrentLapDistance = units.NewDistanceFraction(float64(s.LapDistanceFraction), layoutLength)
	}
	v.Location = vector(s.CarCgLocation)
	o := orientation(s.CarOrientation)
	v.Orientation = &o
	v.Speed = units.SpeedFromMPS(float64(s.CarSpeed))
	v.CurrentDriver = telemetry.Driver{Name: decodeString(s.PlayerName[:])}
	v.Penalties = penalties(s.Penalties, dd.PenaltyType, dd.PenaltyReason)
	v.Flags = decodeFlags(&s.Flags)

	v.Pit = telemetry.VehiclePit{PitLanePhase: pitLanePhase(s.PitState)}
	if s.NumPitstops > 0 {
		v.Pit.StopsDone = int(s.NumPitstops)
	}
	if s.PitWindowStatus == PitWindowCompleted {
		v.Pit.MandatoryStopsDone = 1
	}
	if v.Pit.PitLanePhase != nil {
		if *v.Pit.PitLanePhase == telemetry.PitLanePhaseStopped {
			v.Pit.PitStallTime = optSeconds(s.PitElapsedTime)
		} else {
			v.Pit.PitLaneTime = optSeconds(s.PitElapsedTime)
		}
	}

	return &telemetry.FocusedVehicle{
		Vehicle: v,
		Inputs: &telemetry.Inputs{
			Throttle: float64(s.Throttle),
			Brake:    float64(s.Brake),
			Clutch:   float64(s.Clutch),
			Steering: float64(s.SteerInputRaw),
		},
	}
}

func decodeFlags(f *Flags) telemetry.Flags {
	var flags telemetry.Flags
	if f.Green > 0 {
		flags.Green = &telemetry.Flag[telemetry.GreenReason]{}
	}
	if f.Yellow > 0 {
		reason := telemetry.YellowReasonLocal
		if f.YellowCausedIt > 0 {
			reason = telemetry.YellowReasonCausedIt
		}
		flags.Yellow = &telemetry.Flag[telemetry.YellowReason]{Reason: reason}
	}
	if f.Blue > 0 {
		flags.Blue = &telemetry.Flag[telemetry.BlueReason]{}
	}
	if f.White > 0 {
		flags.White = &telemetry.Flag[telemetry.WhiteReason]{}
	}
	if f.Checkered > 0 {
		flags.Checkered = &telemetry.Flag[telemetry.CheckeredReason]{}
	}
	if f.Black > 0 {
		flags.Black = &telemetry.Flag[telemetry.BlackReason]{}
	}
	if f.BlackAndWhite > 0 {
		flags.BlackWhite = &telemetry.Flag[telemetry.BlackWhiteReason]{Reason: blackWhiteReason(f.BlackAndWhite)}
	}
	return flags
}
