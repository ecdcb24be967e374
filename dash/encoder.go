// Package dash projects telemetry onto the legacy dashboard JSON document
// consumed by overlay clients. Projection is a pure function of a single
// frame and never fails: every absent value has a sentinel.
package dash

import (
	"encoding/base64"
	"math"
	"strconv"
	"time"

	"github.com/jd3nn1s/simdash/telemetry"
	"github.com/jd3nn1s/simdash/units"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Encode returns the JSON document for gt.
func Encode(gt *telemetry.GameTelemetry) ([]byte, error) {
	return json.Marshal(Project(gt))
}

// Project builds the document for gt. A nil gt yields a document made only
// of sentinels.
func Project(gt *telemetry.GameTelemetry) *Payload {
	if gt == nil {
		gt = &telemetry.GameTelemetry{}
	}
	p := newPayload()
	p.projectGame(gt)
	p.projectEvent(gt.Event)
	p.projectSession(gt.Session)
	p.PitWindowStatus = PitWindowStatus(gt)
	p.Flags = flags(gt)
	if gt.FocusedVehicle != nil {
		p.projectFocused(gt.FocusedVehicle, gt.Event)
	}
	if gt.Player != nil {
		p.projectPlayer(gt.Player)
	}
	p.NumCars = len(gt.Vehicles)
	p.DriverData = make([]DriverData, 0, len(gt.Vehicles))
	for i := range gt.Vehicles {
		p.DriverData = append(p.DriverData, driverData(&gt.Vehicles[i], gt.Event))
	}
	return p
}

var (
	noSectors = SectorTimes{unavailableFloat, unavailableFloat, unavailableFloat}
	noTire    = TireData[Float]{unavailableFloat, unavailableFloat, unavailableFloat, unavailableFloat}
)

func noDriverInfo() DriverInfo {
	return DriverInfo{
		CarNumber:             unavailable,
		ClassId:               unavailable,
		ModelId:               unavailable,
		TeamId:                unavailable,
		LiveryId:              unavailable,
		ManufacturerId:        unavailable,
		UserId:                unavailable,
		SlotId:                unavailable,
		ClassPerformanceIndex: unavailable,
		EngineType:            unavailable,
	}
}

func noTireTemp() TireTemp {
	return TireTemp{
		CurrentTemp: TireTempSet{unavailableFloat, unavailableFloat, unavailableFloat},
		OptimalTemp: unavailableFloat,
		ColdTemp:    unavailableFloat,
		HotTemp:     unavailableFloat,
	}
}

func noBrakeTemp() BrakeTemp {
	return BrakeTemp{unavailableFloat, unavailableFloat, unavailableFloat, unavailableFloat}
}

// newPayload returns a document with every field at its sentinel. Vectors
// default to zero.
func newPayload() *Payload {
	u, uf := unavailable, unavailableFloat
	tt, bt := noTireTemp(), noBrakeTemp()
	return &Payload{
		VersionMajor: VersionMajor,
		VersionMinor: VersionMinor,
		GamePaused:   u,
		GameInMenus:  u,
		GameInReplay: u,
		GameUsingVr:  u,

		LayoutLength:       uf,
		SectorStartFactors: noSectors,

		SessionType:          u,
		SessionPhase:         u,
		SessionLengthFormat:  u,
		SessionPitSpeedLimit: uf,
		StartLights:          u,
		FuelUseActive:        u,
		NumberOfLaps:         u,
		SessionTimeDuration:  uf,
		SessionTimeRemaining: uf,
		MaxIncidentPoints:    u,

		PitWindowStatus:      PitWindowUnavailable,
		PitWindowStart:       u,
		PitWindowEnd:         u,
		InPitlane:            u,
		PitState:             u,
		PitElapsedTime:       uf,
		PitAction:            u,
		NumPitstopsPerformed: u,

		Position:         u,
		PositionClass:    u,
		FinishStatus:     u,
		CutTrackWarnings: u,
		Penalties: Penalties{
			DriveThrough:  u,
			StopAndGo:     u,
			PitStop:       u,
			TimeDeduction: u,
			SlowDown:      u,
		},
		NumPenalties:                        u,
		CompletedLaps:                       u,
		CurrentLapValid:                     u,
		TrackSector:                         u,
		LapDistance:                         uf,
		LapDistanceFraction:                 uf,
		SectorTimesSessionBestLap:           noSectors,
		LapTimeBestSelf:                     uf,
		SectorTimesBestSelf:                 noSectors,
		LapTimePreviousSelf:                 uf,
		SectorTimesPreviousSelf:             noSectors,
		LapTimeCurrentSelf:                  uf,
		SectorTimesCurrentSelf:              noSectors,
		TimeDeltaFront:                      uf,
		TimeDeltaBehind:                     uf,
		TimeDeltaBestSelf:                   unavailableDelta,
		BestIndividualSectorTimeSelf:        noSectors,
		BestIndividualSectorTimeLeaderClass: noSectors,
		IncidentPoints:                      u,

		VehicleInfo: noDriverInfo(),

		ControlType:            u,
		CarSpeed:               uf,
		EngineRps:              uf,
		MaxEngineRps:           uf,
		UpshiftRps:             uf,
		Gear:                   u,
		FuelLeft:               uf,
		FuelCapacity:           uf,
		FuelPerLap:             uf,
		Throttle:               uf,
		ThrottleRaw:            uf,
		Brake:                  uf,
		BrakeRaw:               uf,
		Clutch:                 uf,
		ClutchRaw:              uf,
		SteerInputRaw:          uf,
		SteerWheelRangeDegrees: u,

		AidSettings: AidSettings{u, u, u, u, u},
		Drs:         Drs{u, u, u, u},
		PushToPass:  PushToPass{u, u, u, uf, uf},

		TireGrip:  noTire,
		TireWear:  noTire,
		TireDirt:  noTire,
		TireTemp:  TireData[TireTemp]{tt, tt, tt, tt},
		BrakeTemp: TireData[BrakeTemp]{bt, bt, bt, bt},

		TractionControlSetting: u,
		TractionControlPercent: uf,
		EngineMapSetting:       u,
		EngineBrakeSetting:     u,

		CarDamage: CarDamage{uf, uf, uf, uf},
	}
}

func (p *Payload) projectGame(gt *telemetry.GameTelemetry) {
	p.GameUsingVr = boolInt(gt.UsingVR)
	if gt.GameState == telemetry.GameStateUnknown {
		return
	}
	p.GamePaused = boolInt(gt.GameState == telemetry.GameStatePaused)
	p.GameInMenus = boolInt(gt.GameState == telemetry.GameStateMenu)
	p.GameInReplay = boolInt(gt.GameState == telemetry.GameStateReplay)
}

func (p *Payload) projectEvent(e *telemetry.Event) {
	if e == nil {
		return
	}
	p.TrackName = encodeName(e.Track.Name)
	p.LayoutName = encodeName(e.Track.LayoutName)
	p.LayoutLength = Float(e.Track.Length().M())
	if ends := e.Track.SectorsEnd; len(ends) == 3 {
		p.SectorStartFactors = SectorTimes{0, Float(ends[0].Fraction()), Float(ends[1].Fraction())}
	}
	p.FuelUseActive = int(math.Round(e.FuelRate))
}

func (p *Payload) projectSession(s *telemetry.Session) {
	if s == nil {
		return
	}
	p.SessionType = sessionType(s.Type)
	p.SessionPhase = sessionPhase(s.Phase)
	p.SessionPitSpeedLimit = Float(s.PitSpeedLimit.MPS())
	p.StartLights = startLights(s.StartLights)
	p.MaxIncidentPoints = optInt(s.MaxIncidentPoints)

	switch l := s.Length.(type) {
	case telemetry.LapsDuration:
		p.SessionLengthFormat = sessionLengthLaps
		p.NumberOfLaps = l.Laps
	case telemetry.TimeDuration:
		p.SessionLengthFormat = sessionLengthTime
		p.SessionTimeDuration = secs(l.Time)
	case telemetry.TimePlusLapsDuration:
		p.SessionLengthFormat = sessionLengthTimeAndLaps
		p.SessionTimeDuration = secs(l.Time)
		p.NumberOfLaps = l.ExtraLaps
	}

	switch {
	case s.TimeRemaining != nil:
		p.SessionTimeRemaining = secs(*s.TimeRemaining)
	case s.WaitTime != nil:
		p.SessionTimeRemaining = secs(*s.WaitTime)
	}

	if s.BestLap != nil {
		p.SectorTimesSessionBestLap = cumulative(s.BestLap.Sectors)
	}
	p.PitWindowStart, p.PitWindowEnd = pitWindowBounds(s.Requirements.PitWindow)
}

func (p *Payload) projectFocused(v *telemetry.FocusedVehicle, e *telemetry.Event) {
	p.VehicleInfo = driverInfo(&v.Vehicle)
	p.PlayerName = encodeName(v.CurrentDriver.Name)
	p.ControlType = controlType(v.ControlType)
	p.Position = v.Position
	p.PositionClass = v.PositionClass
	p.FinishStatus = finishStatus(v.RacingStatus)
	p.Penalties = penalties(&v.Vehicle)
	p.NumPenalties = len(v.Penalties)
	p.CompletedLaps = v.CompletedLaps
	p.CurrentLapValid = boolInt(v.CurrentLapValid)
	p.TrackSector = trackSector(e, v.CurrentLapDistance)
	p.LapDistance = Float(v.CurrentLapDistance.Value().M())
	p.LapDistanceFraction = Float(v.CurrentLapDistance.Fraction())
	p.LapTimeBestSelf, p.SectorTimesBestSelf = lap(v.BestLapTime)
	p.LapTimePreviousSelf, p.SectorTimesPreviousSelf = lap(v.PreviousLapTime)
	if v.CurrentLapTime != nil {
		p.LapTimeCurrentSelf = secs(v.CurrentLapTime.Overall)
	}
	p.SectorTimesCurrentSelf = splits(v.CurrentLapSplits)
	p.TimeDeltaFront = optSecs(v.GapAhead)
	p.TimeDeltaBehind = optSecs(v.GapBehind)
	p.CarSpeed = Float(v.Speed.MPS())
	p.CarCgLocation = distanceVector(v.Location)
	if v.Orientation != nil {
		p.CarOrientation = orientation(*v.Orientation)
	}

	p.InPitlane = boolInt(v.Pit.PitLanePhase != nil)
	p.PitState = pitState(v.Pit.PitLanePhase)
	switch {
	case v.Pit.PitStallTime != nil:
		p.PitElapsedTime = secs(*v.Pit.PitStallTime)
	case v.Pit.PitLaneTime != nil:
		p.PitElapsedTime = secs(*v.Pit.PitLaneTime)
	}
	p.NumPitstopsPerformed = v.Pit.StopsDone

	if v.Inputs != nil {
		p.Throttle = Float(v.Inputs.Throttle)
		p.Brake = Float(v.Inputs.Brake)
		p.Clutch = Float(v.Inputs.Clutch)
	}
}

func (p *Payload) projectPlayer(pl *telemetry.Player) {
	p.Player = PlayerData{
		Position: distanceVector(pl.CgLocation),
		Orientation: Vector{
			X: Float(pl.Orientation.Pitch.Rad()),
			Y: Float(pl.Orientation.Yaw.Rad()),
			Z: Float(pl.Orientation.Roll.Rad()),
		},
		LocalAcceleration: accelerationVector(pl.LocalAcceleration, units.Acceleration.MPS2),
		LocalGforce:       accelerationVector(pl.LocalAcceleration, units.Acceleration.G),
	}
	p.CarCgLocation = distanceVector(pl.CgLocation)
	p.CarOrientation = orientation(pl.Orientation)
	p.LocalAcceleration = accelerationVector(pl.LocalAcceleration, units.Acceleration.MPS2)

	p.Throttle = Float(pl.Inputs.Throttle)
	p.Brake = Float(pl.Inputs.Brake)
	p.Clutch = Float(pl.Inputs.Clutch)
	p.ThrottleRaw = Float(pl.RawInputs.Throttle)
	p.BrakeRaw = Float(pl.RawInputs.Brake)
	p.ClutchRaw = Float(pl.RawInputs.Clutch)
	p.SteerInputRaw = Float(pl.RawInputs.Steering)
	p.SteerWheelRangeDegrees = int(math.Round(pl.SteerWheelRange.Deg()))

	p.EngineRps = Float(pl.Engine.Speed.RadPS())
	p.MaxEngineRps = Float(pl.Engine.MaxSpeed.RadPS())
	p.UpshiftRps = Float(pl.Engine.UpshiftSpeed.RadPS())
	p.Gear = pl.Gear

	p.FuelLeft = Float(pl.Fuel.Left.L())
	p.FuelCapacity = Float(pl.Fuel.Max.L())
	if pl.Fuel.PerLap != nil {
		p.FuelPerLap = Float(pl.Fuel.PerLap.L())
	}

	aids := &pl.DrivingAids
	p.AidSettings = AidSettings{
		Abs:          aid(aids.ABS),
		Esp:          aid(aids.ESP),
		Countersteer: aid(aids.Countersteer),
		Cornering:    aid(aids.Cornering),
		Tc:           unavailable,
	}
	if aids.TC != nil {
		p.AidSettings.Tc = aid(&aids.TC.Aid)
		if aids.TC.Cut != nil {
			p.TractionControlPercent = Float(*aids.TC.Cut * 100)
		}
	}
	p.TractionControlSetting = optInt(pl.VehicleSettings.TractionControl)
	p.EngineMapSetting = optInt(pl.VehicleSettings.EngineMap)
	p.EngineBrakeSetting = optInt(pl.VehicleSettings.EngineBrakeReduction)

	p.CarDamage = CarDamage{
		Engine:       optFloat(pl.VehicleDamage.Engine),
		Transmission: optFloat(pl.VehicleDamage.Transmission),
		Aerodynamics: optFloat(pl.VehicleDamage.Aerodynamics),
		Suspension:   optFloat(pl.VehicleDamage.Suspension),
	}

	p.Drs = drs(pl.Drs)
	if pl.PushToPass != nil {
		p.PushToPass = pushToPass(pl.PushToPass)
	}

	p.TireGrip = tires(pl, func(t *telemetry.Tyre) Float { return optFloat(t.Grip) }, unavailableFloat)
	p.TireWear = tires(pl, func(t *telemetry.Tyre) Float { return optFloat(t.Wear) }, unavailableFloat)
	p.TireDirt = tires(pl, func(t *telemetry.Tyre) Float { return optFloat(t.Dirt) }, unavailableFloat)
	p.TireTemp = tires(pl, tireTemp, noTireTemp())
	p.BrakeTemp = tires(pl, brakeTemp, noBrakeTemp())

	if pl.PersonalBestDelta != nil {
		p.TimeDeltaBestSelf = secs(*pl.PersonalBestDelta)
	}
	p.BestIndividualSectorTimeSelf = individual(pl.PersonalBestSectors)
	p.BestIndividualSectorTimeLeaderClass = individual(pl.ClassBestSectors)
	p.IncidentPoints = optInt(pl.Warnings.IncidentPoints)
	p.CutTrackWarnings = optInt(pl.Warnings.CutTrackWarnings)
	// bit order matches the legacy PitAction field
	p.PitAction = int(pl.PitStopStatus)
}

func driverData(v *telemetry.Vehicle, e *telemetry.Event) DriverData {
	d := DriverData{
		DriverInfo:            driverInfo(v),
		FinishStatus:          finishStatus(v.RacingStatus),
		Place:                 v.Position,
		PlaceClass:            v.PositionClass,
		LapDistance:           Float(v.CurrentLapDistance.Value().M()),
		Position:              distanceVector(v.Location),
		TrackSector:           trackSector(e, v.CurrentLapDistance),
		CompletedLaps:         v.CompletedLaps,
		CurrentLapValid:       boolInt(v.CurrentLapValid),
		LapTimeCurrentSelf:    unavailableFloat,
		SectorTimeCurrentSelf: splits(v.CurrentLapSplits),
		TimeDeltaFront:        optSecs(v.GapAhead),
		TimeDeltaBehind:       optSecs(v.GapBehind),
		PitStopStatus:         unavailable,
		InPitlane:             boolInt(v.Pit.PitLanePhase != nil),
		NumPitstops:           v.Pit.StopsDone,
		Penalties:             penalties(v),
		CarSpeed:              Float(v.Speed.MPS()),
		PenaltyType:           penaltyType(v),
	}
	if v.CurrentLapTime != nil {
		d.LapTimeCurrentSelf = secs(v.CurrentLapTime.Overall)
	}
	_, d.SectorTimePreviousSelf = lap(v.PreviousLapTime)
	_, d.SectorTimeBestSelf = lap(v.BestLapTime)
	return d
}

func driverInfo(v *telemetry.Vehicle) DriverInfo {
	carNumber, err := strconv.Atoi(v.DisplayNumber)
	if err != nil {
		carNumber = unavailable
	}
	return DriverInfo{
		Name:                  encodeName(v.CurrentDriver.Name),
		CarNumber:             carNumber,
		ClassId:               v.ClassID,
		ModelId:               v.ModelID,
		TeamId:                v.TeamID,
		LiveryId:              v.LiveryID,
		ManufacturerId:        v.ManufacturerID,
		UserId:                v.UserID,
		SlotId:                v.ID,
		ClassPerformanceIndex: v.ClassPerformanceIndex,
		EngineType:            engineType(v.EngineType),
	}
}

// trackSector is the 1-based sector containing d.
func trackSector(e *telemetry.Event, d units.DistanceFraction) int {
	if e == nil || len(e.Track.SectorsEnd) == 0 {
		return unavailable
	}
	ends := e.Track.SectorsEnd
	for i, end := range ends {
		if d.Fraction() < end.Fraction() {
			return i + 1
		}
	}
	return len(ends)
}

func drs(t *telemetry.ActivationToggle) Drs {
	if t == nil {
		return Drs{Equipped: 0, Available: unavailable, NumActivationsLeft: unavailable, Engaged: unavailable}
	}
	return Drs{
		Equipped:           1,
		Available:          boolInt(t.Available),
		NumActivationsLeft: activationsLeft(t.ActivationsLeft),
		Engaged:            boolInt(t.Engaged),
	}
}

func pushToPass(t *telemetry.WaitTimeToggle) PushToPass {
	return PushToPass{
		Available:       boolInt(t.Available),
		Engaged:         boolInt(t.Engaged),
		AmountLeft:      activationsLeft(t.ActivationsLeft),
		EngagedTimeLeft: secs(t.EngagedTimeLeft),
		WaitTimeLeft:    secs(t.WaitTimeLeft),
	}
}

func activationsLeft(b *telemetry.BoundedValue[uint32]) int {
	if b == nil {
		return unavailable
	}
	return int(b.Value)
}

// tires lays out the tyre matrix in legacy order. Positions missing from
// the matrix get def.
func tires[T any](pl *telemetry.Player, f func(*telemetry.Tyre) T, def T) TireData[T] {
	at := func(axle, side int) T {
		if t := pl.Tyre(axle, side); t != nil {
			return f(t)
		}
		return def
	}
	return TireData[T]{
		FrontLeft:  at(telemetry.Front, telemetry.Left),
		FrontRight: at(telemetry.Front, telemetry.Right),
		RearLeft:   at(telemetry.Rear, telemetry.Left),
		RearRight:  at(telemetry.Rear, telemetry.Right),
	}
}

func tireTemp(t *telemetry.Tyre) TireTemp {
	temps := &t.Temperatures
	tt := noTireTemp()
	if len(temps.CurrentTemperatures) == 1 && len(temps.CurrentTemperatures[0]) == 3 {
		row := temps.CurrentTemperatures[0]
		tt.CurrentTemp = TireTempSet{Float(row[0].C()), Float(row[1].C()), Float(row[2].C())}
	}
	tt.OptimalTemp = optCelsius(temps.OptimalTemperature)
	tt.ColdTemp = optCelsius(temps.ColdTemperature)
	tt.HotTemp = optCelsius(temps.HotTemperature)
	return tt
}

func brakeTemp(t *telemetry.Tyre) BrakeTemp {
	b := &t.BrakeTemperatures
	return BrakeTemp{
		CurrentTemp: optCelsius(b.CurrentTemperature),
		OptimalTemp: optCelsius(b.OptimalTemperature),
		ColdTemp:    optCelsius(b.ColdTemperature),
		HotTemp:     optCelsius(b.HotTemperature),
	}
}

func lap(l *telemetry.LapTime) (Float, SectorTimes) {
	if l == nil {
		return unavailableFloat, noSectors
	}
	return secs(l.Overall), cumulative(l.Sectors)
}

func cumulative(s *telemetry.Sectors) SectorTimes {
	if s == nil {
		return noSectors
	}
	return sectorTimes(s.Cumulative)
}

func individual(s *telemetry.Sectors) SectorTimes {
	if s == nil {
		return noSectors
	}
	return sectorTimes(s.Individual)
}

func sectorTimes(d [3]time.Duration) SectorTimes {
	return SectorTimes{secs(d[0]), secs(d[1]), secs(d[2])}
}

func splits(s []time.Duration) SectorTimes {
	st := noSectors
	fields := []*Float{&st.Sector1, &st.Sector2, &st.Sector3}
	for i, d := range s {
		if i >= len(fields) {
			break
		}
		*fields[i] = secs(d)
	}
	return st
}

// encodeName frames a name the way the legacy clients read fixed byte
// buffers: NUL terminated, then base64.
func encodeName(name string) string {
	return base64.StdEncoding.EncodeToString(append([]byte(name), 0))
}

func distanceVector(v units.Vector3[units.Distance]) Vector {
	return Vector{Float(v.X.M()), Float(v.Y.M()), Float(v.Z.M())}
}

func accelerationVector(v units.Vector3[units.Acceleration], unit func(units.Acceleration) float64) Vector {
	return Vector{Float(unit(v.X)), Float(unit(v.Y)), Float(unit(v.Z))}
}

func orientation(o units.Orientation) Orientation {
	return Orientation{
		Pitch: Float(o.Pitch.Rad()),
		Yaw:   Float(o.Yaw.Rad()),
		Roll:  Float(o.Roll.Rad()),
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func optInt[T ~int | ~uint32](v *T) int {
	if v == nil {
		return unavailable
	}
	return int(*v)
}

func optFloat(v *float64) Float {
	if v == nil {
		return unavailableFloat
	}
	return Float(*v)
}

func optCelsius(t *units.Temperature) Float {
	if t == nil {
		return unavailableFloat
	}
	return Float(t.C())
}

func secs(d time.Duration) Float {
	return Float(d.Seconds())
}

func optSecs(d *time.Duration) Float {
	if d == nil {
		return unavailableFloat
	}
	return secs(*d)
}
