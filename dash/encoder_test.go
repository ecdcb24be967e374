package dash

import (
	"encoding/base64"
	"math"
	"testing"
	"time"

	"github.com/jd3nn1s/simdash/telemetry"
	"github.com/jd3nn1s/simdash/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func racing(phase telemetry.SessionPhase) *telemetry.GameTelemetry {
	return &telemetry.GameTelemetry{
		GameState: telemetry.GameStateDriving,
		Session: &telemetry.Session{
			Type:        telemetry.SessionTypeRace,
			Phase:       phase,
			Length:      telemetry.LapsDuration{Laps: 10},
			PitLaneOpen: true,
		},
		Vehicles: []telemetry.Vehicle{{
			ID:           3,
			Position:     1,
			RacingStatus: telemetry.RacingStatus{Kind: telemetry.RacingStatusRacing},
		}},
		FocusedVehicle: &telemetry.FocusedVehicle{
			Vehicle: telemetry.Vehicle{
				ID:            3,
				DisplayNumber: "42",
				Position:      1,
				RacingStatus:  telemetry.RacingStatus{Kind: telemetry.RacingStatusRacing},
				CurrentDriver: telemetry.Driver{Name: "Blues"},
			},
		},
		Player: &telemetry.Player{},
	}
}

func TestProjectWithoutSession(t *testing.T) {
	p := Project(&telemetry.GameTelemetry{GameState: telemetry.GameStateMenu})

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"SessionType", p.SessionType, -1},
		{"SessionPhase", p.SessionPhase, -1},
		{"SessionLengthFormat", p.SessionLengthFormat, -1},
		{"PitWindowStatus", p.PitWindowStatus, -1},
		{"PitWindowStart", p.PitWindowStart, -1},
		{"PitWindowEnd", p.PitWindowEnd, -1},
		{"NumberOfLaps", p.NumberOfLaps, -1},
		{"SessionTimeDuration", p.SessionTimeDuration, Float(-1)},
		{"SessionTimeRemaining", p.SessionTimeRemaining, Float(-1)},
		{"SessionPitSpeedLimit", p.SessionPitSpeedLimit, Float(-1)},
		{"StartLights", p.StartLights, -1},
		{"MaxIncidentPoints", p.MaxIncidentPoints, -1},
		{"LayoutLength", p.LayoutLength, Float(-1)},
		{"FuelUseActive", p.FuelUseActive, -1},
		{"TimeDeltaBestSelf", p.TimeDeltaBestSelf, Float(-1000)},
		{"TimeDeltaFront", p.TimeDeltaFront, Float(-1)},
		{"LapTimeBestSelf", p.LapTimeBestSelf, Float(-1)},
		{"SectorTimesBestSelf", p.SectorTimesBestSelf, SectorTimes{-1, -1, -1}},
		{"CarCgLocation", p.CarCgLocation, Vector{}},
		{"PlayerPosition", p.Player.Position, Vector{}},
		{"Flags.Yellow", p.Flags.Yellow, -1},
		{"Flags.BlackAndWhite", p.Flags.BlackAndWhite, -1},
		{"Penalties.DriveThrough", p.Penalties.DriveThrough, -1},
		{"VehicleInfo.SlotId", p.VehicleInfo.SlotId, -1},
		{"PlayerName", p.PlayerName, ""},
		{"AidSettings.Abs", p.AidSettings.Abs, -1},
		{"Drs.Equipped", p.Drs.Equipped, -1},
		{"PushToPass.Available", p.PushToPass.Available, -1},
		{"TireGrip.RearRight", p.TireGrip.RearRight, Float(-1)},
		{"TireTemp.FrontLeft.CurrentTemp.Center", p.TireTemp.FrontLeft.CurrentTemp.Center, Float(-1)},
		{"BrakeTemp.RearLeft.CurrentTemp", p.BrakeTemp.RearLeft.CurrentTemp, Float(-1)},
		{"CarDamage.Engine", p.CarDamage.Engine, Float(-1)},
		{"Gear", p.Gear, -1},
		{"GameInMenus", p.GameInMenus, 1},
		{"GamePaused", p.GamePaused, 0},
		{"NumCars", p.NumCars, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}
	assert.Equal(t, VersionMajor, p.VersionMajor)
	assert.Equal(t, VersionMinor, p.VersionMinor)
	assert.Empty(t, p.DriverData)
}

func TestProjectNil(t *testing.T) {
	p := Project(nil)
	assert.Equal(t, -1, p.GamePaused)
	assert.Equal(t, -1, p.SessionType)
}

func TestPlayerName(t *testing.T) {
	p := Project(racing(telemetry.SessionPhaseStarted))
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("Blues\x00")), p.PlayerName)
	assert.Equal(t, "Qmx1ZXMA", p.PlayerName)
	assert.Equal(t, "Qmx1ZXMA", p.VehicleInfo.Name)
	assert.Equal(t, 42, p.VehicleInfo.CarNumber)

	assert.Equal(t, "AA==", encodeName(""))
}

func TestPitWindowStatus(t *testing.T) {
	laps := telemetry.LapsPitWindow{Start: 3, Finish: 4}
	stopped := telemetry.PitLanePhaseStopped
	entered := telemetry.PitLanePhaseEntered

	tests := []struct {
		name     string
		modify   func(gt *telemetry.GameTelemetry)
		expected int
	}{
		{
			name:     "no session",
			modify:   func(gt *telemetry.GameTelemetry) { gt.Session = nil },
			expected: PitWindowUnavailable,
		},
		{
			name:     "pit lane closed",
			modify:   func(gt *telemetry.GameTelemetry) { gt.Session.PitLaneOpen = false },
			expected: PitWindowDisabled,
		},
		{
			name:     "no focused vehicle",
			modify:   func(gt *telemetry.GameTelemetry) { gt.FocusedVehicle = nil },
			expected: PitWindowUnavailable,
		},
		{
			name:     "no window",
			modify:   func(gt *telemetry.GameTelemetry) {},
			expected: PitWindowOpen,
		},
		{
			name: "stopped outranks window",
			modify: func(gt *telemetry.GameTelemetry) {
				gt.Session.Requirements = telemetry.SessionRequirements{MandatoryPitStops: 1, PitWindow: laps}
				gt.FocusedVehicle.CompletedLaps = 10
				gt.FocusedVehicle.Pit.PitLanePhase = &stopped
			},
			expected: PitWindowStopped,
		},
		{
			name: "entered pit lane is not stopped",
			modify: func(gt *telemetry.GameTelemetry) {
				gt.Session.Requirements = telemetry.SessionRequirements{MandatoryPitStops: 1, PitWindow: laps}
				gt.FocusedVehicle.CompletedLaps = 3
				gt.FocusedVehicle.Pit.PitLanePhase = &entered
			},
			expected: PitWindowOpen,
		},
		{
			name: "completed",
			modify: func(gt *telemetry.GameTelemetry) {
				gt.Session.Phase = telemetry.SessionPhaseOver
				gt.Session.Requirements = telemetry.SessionRequirements{MandatoryPitStops: 1, PitWindow: laps}
				gt.FocusedVehicle.CompletedLaps = 5
				gt.FocusedVehicle.Pit.MandatoryStopsDone = 1
			},
			expected: PitWindowCompleted,
		},
		{
			name: "completed outranks inside window",
			modify: func(gt *telemetry.GameTelemetry) {
				gt.Session.Requirements = telemetry.SessionRequirements{MandatoryPitStops: 1, PitWindow: laps}
				gt.FocusedVehicle.CompletedLaps = 3
				gt.FocusedVehicle.Pit.MandatoryStopsDone = 1
			},
			expected: PitWindowCompleted,
		},
		{
			name: "inside lap window",
			modify: func(gt *telemetry.GameTelemetry) {
				gt.Session.Requirements = telemetry.SessionRequirements{MandatoryPitStops: 1, PitWindow: laps}
				gt.FocusedVehicle.CompletedLaps = 3
			},
			expected: PitWindowOpen,
		},
		{
			name: "window end is exclusive",
			modify: func(gt *telemetry.GameTelemetry) {
				gt.Session.Requirements = telemetry.SessionRequirements{MandatoryPitStops: 1, PitWindow: laps}
				gt.FocusedVehicle.CompletedLaps = 4
			},
			expected: PitWindowClosed,
		},
		{
			name: "inside time window",
			modify: func(gt *telemetry.GameTelemetry) {
				elapsed := 12 * time.Minute
				gt.Session.ElapsedTime = &elapsed
				gt.Session.Requirements = telemetry.SessionRequirements{
					MandatoryPitStops: 1,
					PitWindow:         telemetry.TimePitWindow{Start: 10 * time.Minute, Finish: 20 * time.Minute},
				}
			},
			expected: PitWindowOpen,
		},
		{
			name: "time window without elapsed time",
			modify: func(gt *telemetry.GameTelemetry) {
				gt.Session.Requirements = telemetry.SessionRequirements{
					MandatoryPitStops: 1,
					PitWindow:         telemetry.TimePitWindow{Start: 10 * time.Minute, Finish: 20 * time.Minute},
				}
			},
			expected: PitWindowClosed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt := racing(telemetry.SessionPhaseStarted)
			tt.modify(gt)
			assert.Equal(t, tt.expected, PitWindowStatus(gt))
			assert.Equal(t, tt.expected, Project(gt).PitWindowStatus)
		})
	}
}

func TestPitWindowBounds(t *testing.T) {
	gt := racing(telemetry.SessionPhaseStarted)
	gt.Session.Requirements.PitWindow = telemetry.TimePitWindow{Start: 10 * time.Minute, Finish: 25 * time.Minute}
	p := Project(gt)
	assert.Equal(t, 10, p.PitWindowStart)
	assert.Equal(t, 25, p.PitWindowEnd)

	gt.Session.Requirements.PitWindow = telemetry.LapsPitWindow{Start: 3, Finish: 4}
	p = Project(gt)
	assert.Equal(t, 3, p.PitWindowStart)
	assert.Equal(t, 4, p.PitWindowEnd)
}

func TestFlagGating(t *testing.T) {
	withFlags := func(phase telemetry.SessionPhase) *telemetry.GameTelemetry {
		gt := racing(phase)
		gt.FocusedVehicle.Flags = telemetry.Flags{
			Yellow: &telemetry.Flag[telemetry.YellowReason]{Reason: telemetry.YellowReasonCausedIt},
			Blue:   &telemetry.Flag[telemetry.BlueReason]{},
			Green:  &telemetry.Flag[telemetry.GreenReason]{},
			White:  &telemetry.Flag[telemetry.WhiteReason]{},
			Black:  &telemetry.Flag[telemetry.BlackReason]{},
		}
		gt.Player.Warnings.GiveBackPositions = 2
		return gt
	}

	t.Run("pre-race", func(t *testing.T) {
		f := Project(withFlags(telemetry.SessionPhaseCountdown)).Flags
		assert.Equal(t, -1, f.Yellow)
		assert.Equal(t, -1, f.YellowCausedIt)
		assert.Equal(t, -1, f.Blue)
		assert.Equal(t, -1, f.Green)
		assert.Equal(t, -1, f.White)
		assert.Equal(t, -1, f.YellowPositionsGained)
		assert.Equal(t, 1, f.Black)
		assert.Equal(t, 0, f.Checkered)
		assert.Equal(t, 0, f.BlackAndWhite)
	})

	for _, phase := range []telemetry.SessionPhase{
		telemetry.SessionPhaseStarted,
		telemetry.SessionPhaseFullCourseYellow,
		telemetry.SessionPhaseStopped,
		telemetry.SessionPhaseOver,
	} {
		f := Project(withFlags(phase)).Flags
		assert.Equal(t, 1, f.Yellow, "phase %d", phase)
		assert.Equal(t, 1, f.YellowCausedIt, "phase %d", phase)
		assert.Equal(t, 1, f.Blue, "phase %d", phase)
		assert.Equal(t, 1, f.Green, "phase %d", phase)
		assert.Equal(t, 1, f.White, "phase %d", phase)
		assert.Equal(t, 2, f.YellowPositionsGained, "phase %d", phase)
	}

	t.Run("leader finished", func(t *testing.T) {
		gt := withFlags(telemetry.SessionPhaseOver)
		gt.Vehicles[0].RacingStatus.Kind = telemetry.RacingStatusFinished
		f := Project(gt).Flags
		assert.Equal(t, -1, f.Yellow)
		assert.Equal(t, -1, f.Green)
	})

	t.Run("no yellow", func(t *testing.T) {
		gt := withFlags(telemetry.SessionPhaseStarted)
		gt.FocusedVehicle.Flags.Yellow = nil
		f := Project(gt).Flags
		assert.Equal(t, 0, f.Yellow)
		assert.Equal(t, 0, f.YellowCausedIt)
	})
}

func TestBlackWhite(t *testing.T) {
	flag := func(r telemetry.BlackWhiteReason) *telemetry.Flag[telemetry.BlackWhiteReason] {
		return &telemetry.Flag[telemetry.BlackWhiteReason]{Reason: r}
	}
	warned := func(n uint32) *telemetry.Player {
		return &telemetry.Player{Warnings: telemetry.Warnings{
			BlueFlagWarnings: &telemetry.BoundedValue[uint32]{Value: n, Total: 2},
		}}
	}

	tests := []struct {
		name     string
		flag     *telemetry.Flag[telemetry.BlackWhiteReason]
		player   *telemetry.Player
		expected int
	}{
		{"absent", nil, warned(1), 0},
		{"blue flags first warning", flag(telemetry.BlackWhiteReasonIgnoredBlueFlags), warned(1), 1},
		{"blue flags second warning", flag(telemetry.BlackWhiteReasonIgnoredBlueFlags), warned(2), 2},
		{"blue flags without counter", flag(telemetry.BlackWhiteReasonIgnoredBlueFlags), &telemetry.Player{}, 1},
		{"blue flags without player", flag(telemetry.BlackWhiteReasonIgnoredBlueFlags), nil, 1},
		{"blue flags zero warnings", flag(telemetry.BlackWhiteReasonIgnoredBlueFlags), warned(0), 1},
		{"wrong way", flag(telemetry.BlackWhiteReasonWrongWay), nil, 3},
		{"cutting", flag(telemetry.BlackWhiteReasonCutting), nil, 4},
		{"unknown", flag(telemetry.BlackWhiteReasonUnknown), nil, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, blackWhite(tt.flag, tt.player))
		})
	}
}

func TestTyresAlwaysFourCorners(t *testing.T) {
	grip := 0.9
	gt := racing(telemetry.SessionPhaseStarted)
	gt.Player.Tyres = [][]telemetry.Tyre{{{Grip: &grip}}}

	p := Project(gt)
	assert.Equal(t, Float(0.9), p.TireGrip.FrontLeft)
	assert.Equal(t, Float(-1), p.TireGrip.FrontRight)
	assert.Equal(t, Float(-1), p.TireGrip.RearLeft)
	assert.Equal(t, Float(-1), p.TireGrip.RearRight)
	assert.Equal(t, Float(-1), p.TireTemp.RearRight.OptimalTemp)
}

func TestTyreTemperatures(t *testing.T) {
	optimal := units.TemperatureFromC(85)
	brake := units.TemperatureFromC(400)
	tyre := telemetry.Tyre{
		Temperatures: telemetry.TyreTemperatures{
			CurrentTemperatures: [][]units.Temperature{{
				units.TemperatureFromC(80), units.TemperatureFromC(82), units.TemperatureFromC(84),
			}},
			OptimalTemperature: &optimal,
		},
		BrakeTemperatures: telemetry.BrakeTemperatures{CurrentTemperature: &brake},
	}
	gt := racing(telemetry.SessionPhaseStarted)
	gt.Player.Tyres = [][]telemetry.Tyre{{tyre, tyre}, {tyre, tyre}}

	p := Project(gt)
	assert.InDelta(t, 82, float64(p.TireTemp.RearLeft.CurrentTemp.Center), 1e-9)
	assert.InDelta(t, 85, float64(p.TireTemp.RearLeft.OptimalTemp), 1e-9)
	assert.Equal(t, Float(-1), p.TireTemp.RearLeft.ColdTemp)
	assert.InDelta(t, 400, float64(p.BrakeTemp.FrontRight.CurrentTemp), 1e-9)
}

func TestAids(t *testing.T) {
	cut := 0.25
	gt := racing(telemetry.SessionPhaseStarted)
	gt.Player.DrivingAids = telemetry.DrivingAids{
		ABS: &telemetry.Aid{Level: 2, Active: true},
		TC:  &telemetry.TractionControl{Aid: telemetry.Aid{Level: 3}, Cut: &cut},
		ESP: &telemetry.Aid{Level: 1},
	}

	p := Project(gt)
	assert.Equal(t, AidSettings{Abs: 5, Tc: 3, Esp: 1, Countersteer: -1, Cornering: -1}, p.AidSettings)
	assert.Equal(t, Float(25), p.TractionControlPercent)
}

func TestDrsAndPushToPass(t *testing.T) {
	gt := racing(telemetry.SessionPhaseStarted)
	p := Project(gt)
	assert.Equal(t, Drs{Equipped: 0, Available: -1, NumActivationsLeft: -1, Engaged: -1}, p.Drs)
	assert.Equal(t, -1, p.PushToPass.Available)

	gt.Player.Drs = &telemetry.ActivationToggle{
		Available:       true,
		ActivationsLeft: &telemetry.BoundedValue[uint32]{Value: 4, Total: 8},
	}
	gt.Player.PushToPass = &telemetry.WaitTimeToggle{
		ActivationToggle: telemetry.ActivationToggle{Engaged: true},
		EngagedTimeLeft:  1500 * time.Millisecond,
	}
	p = Project(gt)
	assert.Equal(t, Drs{Equipped: 1, Available: 1, NumActivationsLeft: 4, Engaged: 0}, p.Drs)
	assert.Equal(t, PushToPass{Available: 0, Engaged: 1, AmountLeft: -1, EngagedTimeLeft: 1.5, WaitTimeLeft: 0}, p.PushToPass)
}

func TestLapTimes(t *testing.T) {
	sectors := telemetry.SectorsFromCumulative([3]time.Duration{30 * time.Second, 65 * time.Second, 90 * time.Second})
	delta := -250 * time.Millisecond
	gt := racing(telemetry.SessionPhaseStarted)
	gt.FocusedVehicle.BestLapTime = &telemetry.LapTime{Overall: 90 * time.Second, Sectors: &sectors}
	gt.FocusedVehicle.CurrentLapSplits = []time.Duration{31 * time.Second}
	gt.Player.PersonalBestSectors = &sectors
	gt.Player.PersonalBestDelta = &delta

	p := Project(gt)
	assert.Equal(t, Float(90), p.LapTimeBestSelf)
	assert.Equal(t, SectorTimes{30, 65, 90}, p.SectorTimesBestSelf)
	assert.Equal(t, SectorTimes{30, 35, 25}, p.BestIndividualSectorTimeSelf)
	assert.Equal(t, SectorTimes{31, -1, -1}, p.SectorTimesCurrentSelf)
	assert.Equal(t, Float(-1), p.LapTimePreviousSelf)
	assert.Equal(t, Float(-0.25), p.TimeDeltaBestSelf)
}

func TestTrackSector(t *testing.T) {
	total := units.DistanceFromM(1000)
	e := &telemetry.Event{Track: telemetry.TrackLayout{SectorsEnd: []units.DistanceFraction{
		units.NewDistanceFraction(0.3, total),
		units.NewDistanceFraction(0.6, total),
		units.NewDistanceFraction(1, total),
	}}}
	assert.Equal(t, 1, trackSector(e, units.NewDistanceFraction(0, total)))
	assert.Equal(t, 2, trackSector(e, units.NewDistanceFraction(0.3, total)))
	assert.Equal(t, 3, trackSector(e, units.NewDistanceFraction(0.99, total)))
	assert.Equal(t, 3, trackSector(e, units.NewDistanceFraction(1, total)))
	assert.Equal(t, -1, trackSector(nil, units.NewDistanceFraction(0.5, total)))

	gt := racing(telemetry.SessionPhaseStarted)
	gt.Event = e
	p := Project(gt)
	assert.Equal(t, SectorTimes{0, 0.3, 0.6}, p.SectorStartFactors)
	assert.Equal(t, Float(1000), p.LayoutLength)
}

func TestDriverData(t *testing.T) {
	gt := racing(telemetry.SessionPhaseStarted)
	gt.Vehicles = append(gt.Vehicles, telemetry.Vehicle{
		ID:            7,
		DisplayNumber: "",
		Position:      2,
		RacingStatus:  telemetry.Disqualified(telemetry.DisqualificationReasonWrongWay),
		Penalties:     []telemetry.Penalty{{Type: telemetry.PenaltyTypeStopAndGo}},
	})

	p := Project(gt)
	require.Len(t, p.DriverData, 2)
	assert.Equal(t, 2, p.NumCars)
	d := p.DriverData[1]
	assert.Equal(t, 7, d.DriverInfo.SlotId)
	assert.Equal(t, -1, d.DriverInfo.CarNumber)
	assert.Equal(t, 5, d.FinishStatus)
	assert.Equal(t, 5, d.PenaltyType)
	assert.Equal(t, 1, d.Penalties.StopAndGo)
	assert.Equal(t, 0, d.Penalties.DriveThrough)
	assert.Equal(t, -1, p.DriverData[0].PenaltyType)
}

func TestFloatMarshal(t *testing.T) {
	tests := []struct {
		in       float64
		expected string
	}{
		{1.23456, "1.235"},
		{0.1 + 0.2, "0.3"},
		{-1000, "-1000"},
		{-0.0001, "0"},
		{42, "42"},
		{math.NaN(), "-1"},
		{math.Inf(1), "-1"},
	}
	for _, tt := range tests {
		b, err := Float(tt.in).MarshalJSON()
		assert.NoError(t, err)
		assert.Equal(t, tt.expected, string(b))
	}
}

func TestEncode(t *testing.T) {
	gt := racing(telemetry.SessionPhaseStarted)
	grip := 0.12345
	gt.Player.Tyres = [][]telemetry.Tyre{{{Grip: &grip}}}

	b, err := Encode(gt)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Equal(t, float64(VersionMajor), doc["VersionMajor"])
	assert.Equal(t, "Qmx1ZXMA", doc["PlayerName"])
	assert.Equal(t, float64(2), doc["SessionType"])
	assert.Equal(t, float64(1), doc["SessionLengthFormat"])
	assert.Equal(t, float64(10), doc["NumberOfLaps"])

	tireGrip, ok := doc["TireGrip"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 0.123, tireGrip["FrontLeft"])
	assert.Equal(t, float64(-1), tireGrip["RearRight"])

	flags, ok := doc["Flags"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, flags, "BlackAndWhite")

	drivers, ok := doc["DriverData"].([]interface{})
	require.True(t, ok)
	assert.Len(t, drivers, 1)
}
