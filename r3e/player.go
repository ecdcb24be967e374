package r3e

import (
	"github.com/jd3nn1s/simdash/telemetry"
	"github.com/jd3nn1s/simdash/units"
)

// blue flag warnings before a drive through
const maxBlueFlagWarnings = 2

func (d *Decoder) decodePlayer(s *Shared) *telemetry.Player {
	p := &telemetry.Player{
		RawInputs: telemetry.Inputs{
			Throttle: float64(s.ThrottleRaw),
			Brake:    float64(s.BrakeRaw),
			Clutch:   float64(s.ClutchRaw),
			Steering: float64(s.SteerInputRaw),
		},
		Inputs: telemetry.Inputs{
			Throttle: float64(s.Throttle),
			Brake:    float64(s.Brake),
			Clutch:   float64(s.Clutch),
			// the record has no filtered steering value, only the raw one
			Steering: float64(s.SteerInputRaw),
		},
		SteerWheelRange: units.AngleFromDeg(float64(s.SteerWheelRangeDegrees)),
		DrivingAids:     d.decodeAids(s),
		VehicleSettings: telemetry.VehicleSettings{
			EngineMap:            optUint(s.EngineMapSetting),
			EngineBrakeReduction: optUint(s.EngineBrakeSetting),
			TractionControl:      optUint(s.TractionControlSetting),
		},
		VehicleDamage: telemetry.VehicleDamage{
			Aerodynamics: optFloat(s.CarDamage.Aerodynamics),
			Engine:       optFloat(s.CarDamage.Engine),
			Suspension:   optFloat(s.CarDamage.Suspension),
			Transmission: optFloat(s.CarDamage.Transmission),
		},
		Tyres: [][]telemetry.Tyre{
			{decodeTyre(s, FrontLeft), decodeTyre(s, FrontRight)},
			{decodeTyre(s, RearLeft), decodeTyre(s, RearRight)},
		},
		Fuel: telemetry.Fuel{
			Max:  units.CapacityFromL(float64(s.FuelCapacity)),
			Left: units.CapacityFromL(float64(s.FuelLeft)),
		},
		Engine: telemetry.Engine{
			Speed:        units.AngularSpeedFromRadPS(float64(s.EngineRps)),
			UpshiftSpeed: units.AngularSpeedFromRadPS(float64(s.UpshiftRps)),
			MaxSpeed:     units.AngularSpeedFromRadPS(float64(s.MaxEngineRps)),
		},
		Gear:                int(s.Gear),
		CgLocation:          vector(s.CarCgLocation),
		Orientation:         orientation(s.CarOrientation),
		LocalAcceleration:   acceleration(s.LocalAcceleration),
		ClassBestSectors:    individualSectors(s.BestIndividualSectorTimeLeaderClass),
		PersonalBestSectors: individualSectors(s.BestIndividualSectorTimeSelf),
		Drs:                 decodeDrs(s),
		PushToPass:          decodePushToPass(s),
		PitStopStatus:       pitStopStatus(s.PitAction),
		Warnings:            decodeWarnings(s),
		OvertakeAllowed:     optBool(s.Flags.YellowOvertake),
	}
	if s.FuelPerLap > 0 {
		perLap := units.CapacityFromL(float64(s.FuelPerLap))
		p.Fuel.PerLap = &perLap
	}
	if s.TimeDeltaBestSelf != timeDeltaUnavailable {
		delta := seconds(s.TimeDeltaBestSelf)
		p.PersonalBestDelta = &delta
	}
	return p
}

func (d *Decoder) decodeAids(s *Shared) telemetry.DrivingAids {
	aids := telemetry.DrivingAids{
		ABS:          d.aids.abs.update(s.AidSettings.ABS),
		ESP:          d.aids.esp.update(s.AidSettings.ESP),
		Countersteer: d.aids.countersteer.update(s.AidSettings.Countersteer),
		Cornering:    d.aids.cornering.update(s.AidSettings.Cornering),
	}
	if tc := d.aids.tc.update(s.AidSettings.TC); tc != nil {
		aids.TC = &telemetry.TractionControl{Aid: *tc}
		if s.TractionControlPercent >= 0 {
			cut := float64(s.TractionControlPercent) / 100
			aids.TC.Cut = &cut
		}
	}
	return aids
}

func decodeTyre(s *Shared, i int) telemetry.Tyre {
	temp := &s.TireTemp[i]
	var current []units.Temperature
	if sectorsComplete(temp.CurrentTemp) {
		current = []units.Temperature{
			units.TemperatureFromC(float64(temp.CurrentTemp[0])),
			units.TemperatureFromC(float64(temp.CurrentTemp[1])),
			units.TemperatureFromC(float64(temp.CurrentTemp[2])),
		}
	}
	brake := &s.BrakeTemp[i]
	t := telemetry.Tyre{
		Dirt: optFloat(s.TireDirt[i]),
		Grip: optFloat(s.TireGrip[i]),
		Wear: optFloat(s.TireWear[i]),
		Temperatures: telemetry.TyreTemperatures{
			OptimalTemperature: optCelsius(temp.OptimalTemp),
			ColdTemperature:    optCelsius(temp.ColdTemp),
			HotTemperature:     optCelsius(temp.HotTemp),
		},
		BrakeTemperatures: telemetry.BrakeTemperatures{
			CurrentTemperature: optCelsius(brake.CurrentTemp),
			OptimalTemperature: optCelsius(brake.OptimalTemp),
			ColdTemperature:    optCelsius(brake.ColdTemp),
			HotTemperature:     optCelsius(brake.HotTemp),
		},
	}
	if current != nil {
		t.Temperatures.CurrentTemperatures = [][]units.Temperature{current}
	}
	return t
}

func activations(left, total int32) *telemetry.BoundedValue[uint32] {
	if left < 0 || total <= 0 {
		return nil
	}
	return &telemetry.BoundedValue[uint32]{Value: uint32(left), Total: uint32(total)}
}

func decodeDrs(s *Shared) *telemetry.ActivationToggle {
	if s.Drs.Equipped <= 0 {
		return nil
	}
	return &telemetry.ActivationToggle{
		Available:       s.Drs.Available > 0,
		Engaged:         s.Drs.Engaged > 0,
		ActivationsLeft: activations(s.Drs.NumActivationsLeft, s.DrsNumActivationsTotal),
	}
}

func decodePushToPass(s *Shared) *telemetry.WaitTimeToggle {
	ptp := &s.PushToPass
	if ptp.Available < 0 {
		return nil
	}
	t := &telemetry.WaitTimeToggle{
		ActivationToggle: telemetry.ActivationToggle{
			Available:       ptp.Available > 0,
			Engaged:         ptp.Engaged > 0,
			ActivationsLeft: activations(ptp.AmountLeft, s.PtpNumActivationsTotal),
		},
	}
	if ptp.EngagedTimeLeft > 0 {
		t.EngagedTimeLeft = seconds(ptp.EngagedTimeLeft)
	}
	if ptp.WaitTimeLeft > 0 {
		t.WaitTimeLeft = seconds(ptp.WaitTimeLeft)
	}
	return t
}

func decodeWarnings(s *Shared) telemetry.Warnings {
	w := telemetry.Warnings{
		IncidentPoints:   optUint(s.IncidentPoints),
		CutTrackWarnings: optUint(s.CutTrackWarnings),
	}
	switch bw := s.Flags.BlackAndWhite; {
	case bw == BlackWhiteBlueFlag1 || bw == BlackWhiteBlueFlag2:
		w.BlueFlagWarnings = &telemetry.BoundedValue[uint32]{Value: uint32(bw), Total: maxBlueFlagWarnings}
	case bw >= 0:
		w.BlueFlagWarnings = &telemetry.BoundedValue[uint32]{Total: maxBlueFlagWarnings}
	}
	if s.Flags.YellowPositionsGained > 0 {
		w.GiveBackPositions = uint32(s.Flags.YellowPositionsGained)
	}
	return w
}
