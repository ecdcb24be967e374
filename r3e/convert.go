package r3e

import (
	"bytes"
	"strings"
	"time"

	"github.com/jd3nn1s/simdash/telemetry"
	"github.com/jd3nn1s/simdash/units"
)

// timeDeltaUnavailable is the sentinel for signed deltas, where -1 is a
// legitimate value.
const timeDeltaUnavailable = -1000.0

func seconds(v float32) time.Duration {
	return time.Duration(float64(v) * float64(time.Second))
}

func optSeconds(v float32) *time.Duration {
	if v < 0 {
		return nil
	}
	d := seconds(v)
	return &d
}

func optFloat(v float32) *float64 {
	if v < 0 {
		return nil
	}
	f := float64(v)
	return &f
}

func optUint(v int32) *uint32 {
	if v < 0 {
		return nil
	}
	u := uint32(v)
	return &u
}

func optCelsius(v float32) *units.Temperature {
	if v < 0 {
		return nil
	}
	t := units.TemperatureFromC(float64(v))
	return &t
}

func optBool(v int32) *bool {
	if v < 0 {
		return nil
	}
	b := v > 0
	return &b
}

// decodeString decodes a null terminated UTF-8 buffer.
func decodeString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return strings.ToValidUTF8(string(b), "\uFFFD")
}

func vector(v Vec3) units.Vector3[units.Distance] {
	return units.Vector3[units.Distance]{
		X: units.DistanceFromM(float64(v.X)),
		Y: units.DistanceFromM(float64(v.Y)),
		Z: units.DistanceFromM(float64(v.Z)),
	}
}

func acceleration(v Vec3) units.Vector3[units.Acceleration] {
	return units.Vector3[units.Acceleration]{
		X: units.AccelerationFromMPS2(float64(v.X)),
		Y: units.AccelerationFromMPS2(float64(v.Y)),
		Z: units.AccelerationFromMPS2(float64(v.Z)),
	}
}

func orientation(o Ori) units.Orientation {
	return units.Orientation{
		Yaw:   units.AngleFromRad(float64(o.Yaw)),
		Pitch: units.AngleFromRad(float64(o.Pitch)),
		Roll:  units.AngleFromRad(float64(o.Roll)),
	}
}

func sectorsComplete(s Sectors) bool {
	for _, v := range s {
		if v < 0 {
			return false
		}
	}
	return true
}

func durations(s Sectors) [sectorCount]time.Duration {
	var d [sectorCount]time.Duration
	for i, v := range s {
		d[i] = seconds(v)
	}
	return d
}

// cumulativeSectors is nil unless every sector is set.
func cumulativeSectors(s Sectors) *telemetry.Sectors {
	if !sectorsComplete(s) {
		return nil
	}
	sectors := telemetry.SectorsFromCumulative(durations(s))
	return &sectors
}

func individualSectors(s Sectors) *telemetry.Sectors {
	if !sectorsComplete(s) {
		return nil
	}
	sectors := telemetry.SectorsFromIndividual(durations(s))
	return &sectors
}

// completedLap builds a lap from cumulative sectors, the last of which is
// the lap time.
func completedLap(s Sectors) *telemetry.LapTime {
	sectors := cumulativeSectors(s)
	if sectors == nil {
		return nil
	}
	return &telemetry.LapTime{
		Overall: sectors.Cumulative[sectorCount-1],
		Sectors: sectors,
	}
}

// lapWithSectors prefers an explicit overall time when one is reported.
func lapWithSectors(overall float32, s Sectors) *telemetry.LapTime {
	if overall < 0 {
		return completedLap(s)
	}
	return &telemetry.LapTime{
		Overall: seconds(overall),
		Sectors: cumulativeSectors(s),
	}
}

func currentLap(overall float32) *telemetry.LapTime {
	d := optSeconds(overall)
	if d == nil {
		return nil
	}
	return &telemetry.LapTime{Overall: *d}
}

// currentSplits collects the cumulative sector times reached so far. The
// last sector ends the lap, so it never appears.
func currentSplits(s Sectors) []time.Duration {
	var splits []time.Duration
	for _, v := range s[:sectorCount-1] {
		if v < 0 {
			break
		}
		splits = append(splits, seconds(v))
	}
	return splits
}
