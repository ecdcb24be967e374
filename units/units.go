// Package units holds immutable physical quantities. Each type stores one
// magnitude in its canonical unit and derives every other projection on
// demand, so values of different quantities cannot be mixed by accident.
package units

import "math"

const (
	metersPerKilometer = 1000.0
	metersPerMile      = 1609.344

	// standard gravity
	metersPerSecondSquaredPerG = 9.80665

	kelvinAtZeroCelsius = 273.15

	pascalsPerKilopascal = 1000.0
	pascalsPerBar        = 100000.0
	pascalsPerPSI        = 6894.757293168

	litersPerUSGallon       = 3.785411784
	litersPerImperialGallon = 4.54609
)

// Distance in meters.
type Distance struct {
	m float64
}

func DistanceFromM(v float64) Distance { return Distance{m: v} }
func DistanceFromKm(v float64) Distance { return Distance{m: v * metersPerKilometer} }
func DistanceFromMi(v float64) Distance { return Distance{m: v * metersPerMile} }
func (d Distance) M() float64 { return d.m }
func (d Distance) Km() float64 { return d.m / metersPerKilometer }
func (d Distance) Mi() float64 { return d.m / metersPerMile }
func (d Distance) Scale(f float64) Distance { return Distance{m: d.m * f} }

// RatioTo returns d/other; other being zero yields ±Inf or NaN.
func (d Distance) RatioTo(other Distance) float64 { return d.m / other.m }

// Speed in meters per second.
type Speed struct {
	mps float64
}

func SpeedFromMPS(v float64) Speed { return Speed{mps: v} }
func SpeedFromKPH(v float64) Speed { return Speed{mps: v * metersPerKilometer / 3600} }
func SpeedFromMPH(v float64) Speed { return Speed{mps: v * metersPerMile / 3600} }
func (s Speed) MPS() float64 { return s.mps }
func (s Speed) KPH() float64 { return s.mps * 3600 / metersPerKilometer }
func (s Speed) MPH() float64 { return s.mps * 3600 / metersPerMile }
func (s Speed) Scale(f float64) Speed { return Speed{mps: s.mps * f} }
func (s Speed) RatioTo(o Speed) float64 { return s.mps / o.mps }

// Acceleration in meters per second squared.
type Acceleration struct {
	mps2 float64
}

func AccelerationFromMPS2(v float64) Acceleration { return Acceleration{mps2: v} }
func AccelerationFromG(v float64) Acceleration {
	return Acceleration{mps2: v * metersPerSecondSquaredPerG}
}
func (a Acceleration) MPS2() float64 { return a.mps2 }
func (a Acceleration) G() float64 { return a.mps2 / metersPerSecondSquaredPerG }
func (a Acceleration) Scale(f float64) Acceleration {
	return Acceleration{mps2: a.mps2 * f}
}
func (a Acceleration) RatioTo(o Acceleration) float64 { return a.mps2 / o.mps2 }

// Angle in radians.
type Angle struct {
	rad float64
}

func AngleFromRad(v float64) Angle { return Angle{rad: v} }
func AngleFromDeg(v float64) Angle { return Angle{rad: v * math.Pi / 180} }
func AngleFromRev(v float64) Angle { return Angle{rad: v * 2 * math.Pi} }
func (a Angle) Rad() float64 { return a.rad }
func (a Angle) Deg() float64 { return a.rad * 180 / math.Pi }
func (a Angle) Rev() float64 { return a.rad / (2 * math.Pi) }
func (a Angle) Scale(f float64) Angle { return Angle{rad: a.rad * f} }
func (a Angle) RatioTo(o Angle) float64 { return a.rad / o.rad }

// AngularSpeed in radians per second.
type AngularSpeed struct {
	radps float64
}

func AngularSpeedFromRadPS(v float64) AngularSpeed { return AngularSpeed{radps: v} }
func AngularSpeedFromRPS(v float64) AngularSpeed {
	return AngularSpeed{radps: v * 2 * math.Pi}
}
func AngularSpeedFromRPM(v float64) AngularSpeed {
	return AngularSpeed{radps: v * 2 * math.Pi / 60}
}
func (s AngularSpeed) RadPS() float64 { return s.radps }
func (s AngularSpeed) RPS() float64 { return s.radps / (2 * math.Pi) }
func (s AngularSpeed) RPM() float64 { return s.radps * 60 / (2 * math.Pi) }
func (s AngularSpeed) Scale(f float64) AngularSpeed {
	return AngularSpeed{radps: s.radps * f}
}
func (s AngularSpeed) RatioTo(o AngularSpeed) float64 { return s.radps / o.radps }

// Temperature in Kelvin. Scale and RatioTo work on the absolute scale.
type Temperature struct {
	k float64
}

func TemperatureFromK(v float64) Temperature { return Temperature{k: v} }
func TemperatureFromC(v float64) Temperature { return Temperature{k: v + kelvinAtZeroCelsius} }
func TemperatureFromF(v float64) Temperature {
	return Temperature{k: (v-32)*5/9 + kelvinAtZeroCelsius}
}
func (t Temperature) K() float64 { return t.k }
func (t Temperature) C() float64 { return t.k - kelvinAtZeroCelsius }
func (t Temperature) F() float64 { return (t.k-kelvinAtZeroCelsius)*9/5 + 32 }
func (t Temperature) Scale(f float64) Temperature {
	return Temperature{k: t.k * f}
}
func (t Temperature) RatioTo(o Temperature) float64 { return t.k / o.k }

// Pressure in pascals.
type Pressure struct {
	pa float64
}

func PressureFromPa(v float64) Pressure { return Pressure{pa: v} }
func PressureFromKPa(v float64) Pressure { return Pressure{pa: v * pascalsPerKilopascal} }
func PressureFromBar(v float64) Pressure { return Pressure{pa: v * pascalsPerBar} }
func PressureFromPSI(v float64) Pressure { return Pressure{pa: v * pascalsPerPSI} }
func (p Pressure) Pa() float64 { return p.pa }
func (p Pressure) KPa() float64 { return p.pa / pascalsPerKilopascal }
func (p Pressure) Bar() float64 { return p.pa / pascalsPerBar }
func (p Pressure) PSI() float64 { return p.pa / pascalsPerPSI }
func (p Pressure) Scale(f float64) Pressure { return Pressure{pa: p.pa * f} }
func (p Pressure) RatioTo(o Pressure) float64 { return p.pa / o.pa }

// Capacity (volume) in liters.
type Capacity struct {
	l float64
}

func CapacityFromL(v float64) Capacity { return Capacity{l: v} }
func CapacityFromUSGal(v float64) Capacity { return Capacity{l: v * litersPerUSGallon} }
func CapacityFromImpGal(v float64) Capacity { return Capacity{l: v * litersPerImperialGallon} }
func (c Capacity) L() float64 { return c.l }
func (c Capacity) USGal() float64 { return c.l / litersPerUSGallon }
func (c Capacity) ImpGal() float64 { return c.l / litersPerImperialGallon }
func (c Capacity) Scale(f float64) Capacity { return Capacity{l: c.l * f} }
func (c Capacity) RatioTo(o Capacity) float64 { return c.l / o.l }
