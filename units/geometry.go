package units

// Vector3 is a three component quantity in a right handed world frame.
type Vector3[T any] struct {
	X T
	Y T
	Z T
}

// Orientation of a body as Tait-Bryan angles.
type Orientation struct {
	Yaw   Angle
	Pitch Angle
	Roll  Angle
}

// DistanceFraction is a position along a known total length, e.g. a point
// on a lap. The fraction is kept alongside the total so both projections
// are exact.
type DistanceFraction struct {
	fraction float64
	total    Distance
}

func NewDistanceFraction(fraction float64, total Distance) DistanceFraction {
	return DistanceFraction{fraction: fraction, total: total}
}

// DistanceFractionOf builds the fraction that d represents of total. A zero
// total yields a zero fraction.
func DistanceFractionOf(d Distance, total Distance) DistanceFraction {
	if total.m == 0 {
		return DistanceFraction{total: total}
	}
	return DistanceFraction{fraction: d.m / total.m, total: total}
}

func (f DistanceFraction) Fraction() float64 { return f.fraction }
func (f DistanceFraction) Total() Distance { return f.total }
func (f DistanceFraction) Value() Distance { return f.total.Scale(f.fraction) }
