package simdash

import (
	"context"
	"time"

	"github.com/jd3nn1s/simdash/r3e"
)

const (
	testLayoutLength = 3000
	testLaps         = 10
	testTopSpeed     = 80
	testAcceleration = 0.5
	testAidPeriod    = 50
	testABSLevel     = 2
)

var noSectors = r3e.Sectors{-1, -1, -1}

func (d *Dash) runTestMode(ctx context.Context) {
	race := &syntheticRace{s: syntheticSnapshot()}
	interval := d.config.PollInterval()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
			frame := *race.s
			select {
			case d.snapshotChan <- &frame:
			default:
			}
			race.advance(interval)
		}
	}()
}

// syntheticSnapshot is a single car lap race on a generic layout.
func syntheticSnapshot() *r3e.Shared {
	s := &r3e.Shared{
		VersionMajor:     r3e.VersionMajor,
		VersionMinor:     r3e.VersionMinor,
		AllDriversOffset: int32(r3e.DriversOffset),
		DriverDataSize:   int32(r3e.DriverSize),

		TrackID:            1,
		LayoutID:           1,
		LayoutLength:       testLayoutLength,
		SectorStartFactors: r3e.Sectors{0, 1.0 / 3, 2.0 / 3},

		SessionType:          r3e.SessionRace,
		SessionLengthFormat:  r3e.SessionLengthLapBased,
		SessionPitSpeedLimit: 16.6,
		SessionPhase:         r3e.SessionPhaseGreen,
		StartLights:          6,
		FuelUseActive:        1,
		NumberOfLaps:         testLaps,
		SessionTimeDuration:  -1,
		SessionTimeRemaining: -1,
		MaxIncidentPoints:    -1,

		PitWindowStatus: r3e.PitWindowClosed,
		PitWindowStart:  3,
		PitWindowEnd:    5,
		PitState:        r3e.PitStateNone,
		PitElapsedTime:  -1,

		Position:                            1,
		PositionClass:                       1,
		FinishStatus:                        r3e.FinishStatusNone,
		CurrentLapValid:                     1,
		TrackSector:                         1,
		LapTimeBestLeader:                   -1,
		LapTimeBestLeaderClass:              -1,
		SectorTimesSessionBestLap:           noSectors,
		LapTimeBestSelf:                     -1,
		SectorTimesBestSelf:                 noSectors,
		LapTimePreviousSelf:                 -1,
		SectorTimesPreviousSelf:             noSectors,
		SectorTimesCurrentSelf:              noSectors,
		LapTimeDeltaLeader:                  -1,
		LapTimeDeltaLeaderClass:             -1,
		TimeDeltaFront:                      -1,
		TimeDeltaBehind:                     -1,
		TimeDeltaBestSelf:                   -1000,
		BestIndividualSectorTimeSelf:        noSectors,
		BestIndividualSectorTimeLeader:      noSectors,
		BestIndividualSectorTimeLeaderClass: noSectors,

		ControlType:  r3e.ControlPlayer,
		MaxEngineRps: 900,
		UpshiftRps:   850,
		Gear:         1,
		NumGears:     6,
		TotalMass:    1200,
		FuelLeft:     60,
		FuelCapacity: 100,
		FuelPerLap:   2.5,

		AidSettings: r3e.AidSettings{
			ABS:          testABSLevel,
			TC:           3,
			ESP:          r3e.AidUnavailable,
			Countersteer: r3e.AidUnavailable,
			Cornering:    r3e.AidUnavailable,
		},
		PushToPass:             r3e.PushToPass{Available: -1, Engaged: -1, AmountLeft: -1, EngagedTimeLeft: -1, WaitTimeLeft: -1},
		TractionControlSetting: 3,
		EngineMapSetting:       1,
		EngineBrakeSetting:     1,
		CarDamage:              r3e.CarDamage{Engine: 1, Transmission: 1, Aerodynamics: 1, Suspension: 1},

		NumCars: 1,
	}
	s.Flags.Green = 1
	copy(s.TrackName[:], "Test Track")
	copy(s.LayoutName[:], "Full")
	copy(s.PlayerName[:], "Test Driver")

	for i := range s.TireTemp {
		s.TireTemp[i] = r3e.TireTempInfo{CurrentTemp: [3]float32{85, 88, 86}, OptimalTemp: 90, ColdTemp: 60, HotTemp: 110}
		s.BrakeTemp[i] = r3e.BrakeTemp{CurrentTemp: 400, OptimalTemp: 550, ColdTemp: 200, HotTemp: 900}
		s.TireGrip[i] = 1
		s.TireWear[i] = 1
	}

	s.VehicleInfo.SlotID = 0
	s.VehicleInfo.CarNumber = 1
	s.VehicleInfo.UserID = -1
	copy(s.VehicleInfo.Name[:], "Test Driver")

	dd := &s.AllDriversData[0]
	dd.DriverInfo = s.VehicleInfo
	dd.FinishStatus = r3e.FinishStatusNone
	dd.Place = 1
	dd.PlaceClass = 1
	dd.TrackSector = 1
	dd.CurrentLapValid = 1
	dd.SectorTimeCurrentSelf = noSectors
	dd.SectorTimePreviousSelf = noSectors
	dd.SectorTimeBestSelf = noSectors
	dd.TimeDeltaFront = -1
	dd.TimeDeltaBehind = -1
	dd.PenaltyType = -1
	dd.PenaltyReason = -1
	return s
}

// syntheticRace drives a snapshot around the layout, accelerating to top
// speed and back down again while ABS flicks in and out.
type syntheticRace struct {
	s    *r3e.Shared
	down bool
	tick int
}

func (sr *syntheticRace) advance(dt time.Duration) {
	s := sr.s
	sr.tick++

	if sr.down {
		s.CarSpeed -= testAcceleration
	} else {
		s.CarSpeed += testAcceleration
	}
	if s.CarSpeed <= 0 {
		s.CarSpeed = 0
		sr.down = false
	} else if s.CarSpeed >= testTopSpeed {
		s.CarSpeed = testTopSpeed
		sr.down = true
	}
	s.EngineRps = s.MaxEngineRps * s.CarSpeed / testTopSpeed
	s.Throttle, s.Brake = 1, 0
	if sr.down {
		s.Throttle, s.Brake = 0, 1
	}

	if sr.tick%testAidPeriod == 0 {
		if s.AidSettings.ABS == r3e.AidActive {
			s.AidSettings.ABS = testABSLevel
		} else {
			s.AidSettings.ABS = r3e.AidActive
		}
	}

	secs := float32(dt.Seconds())
	travelled := s.CarSpeed * secs
	s.LapTimeCurrentSelf += secs
	s.LapDistance += travelled
	s.FuelLeft -= s.FuelPerLap * travelled / s.LayoutLength
	if s.FuelLeft < 0 {
		s.FuelLeft = 0
	}

	if s.LapDistance >= s.LayoutLength {
		sr.completeLap()
	} else if sector := int32(3*s.LapDistance/s.LayoutLength) + 1; sector > s.TrackSector {
		s.SectorTimesCurrentSelf[s.TrackSector-1] = s.LapTimeCurrentSelf
		s.TrackSector = sector
	}
	s.LapDistanceFraction = s.LapDistance / s.LayoutLength

	dd := &s.AllDriversData[0]
	dd.LapDistance = s.LapDistance
	dd.TrackSector = s.TrackSector
	dd.CompletedLaps = s.CompletedLaps
	dd.LapTimeCurrentSelf = s.LapTimeCurrentSelf
	dd.SectorTimeCurrentSelf = s.SectorTimesCurrentSelf
	dd.SectorTimePreviousSelf = s.SectorTimesPreviousSelf
	dd.SectorTimeBestSelf = s.SectorTimesBestSelf
	dd.FinishStatus = s.FinishStatus
	dd.CarSpeed = s.CarSpeed
}

func (sr *syntheticRace) completeLap() {
	s := sr.s
	lap := s.LapTimeCurrentSelf

	s.LapDistance -= s.LayoutLength
	s.SectorTimesCurrentSelf[2] = lap
	s.LapTimePreviousSelf = lap
	s.SectorTimesPreviousSelf = s.SectorTimesCurrentSelf
	if s.LapTimeBestSelf < 0 || lap < s.LapTimeBestSelf {
		s.LapTimeBestSelf = lap
		s.SectorTimesBestSelf = s.SectorTimesCurrentSelf
		s.LapTimeBestLeader = lap
		s.LapTimeBestLeaderClass = lap
		s.SectorTimesSessionBestLap = s.SectorTimesCurrentSelf
	}
	s.LapTimeCurrentSelf = 0
	s.SectorTimesCurrentSelf = noSectors
	s.TrackSector = 1
	s.CompletedLaps++

	switch {
	case s.CompletedLaps >= s.NumberOfLaps+2:
		// start over
		s.CompletedLaps = 0
		s.SessionPhase = r3e.SessionPhaseGreen
		s.FinishStatus = r3e.FinishStatusNone
		s.Flags.Checkered = 0
		s.Flags.Green = 1
		s.FuelLeft = 60
	case s.CompletedLaps >= s.NumberOfLaps:
		s.SessionPhase = r3e.SessionPhaseCheckered
		s.FinishStatus = r3e.FinishStatusFinished
		s.Flags.Checkered = 1
		s.Flags.Green = 0
	}

	switch {
	case s.CompletedLaps >= s.PitWindowStart && s.CompletedLaps < s.PitWindowEnd:
		s.PitWindowStatus = r3e.PitWindowOpen
	default:
		s.PitWindowStatus = r3e.PitWindowClosed
	}
}
