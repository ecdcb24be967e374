package telemetry

type GreenReason int

const (
	GreenReasonUnknown GreenReason = iota
	GreenReasonRaceStart
	GreenReasonRestart
)

type YellowReason int

const (
	YellowReasonUnknown YellowReason = iota
	// YellowReasonCausedIt is set when the focused car caused the yellow.
	YellowReasonCausedIt
	YellowReasonLocal
	YellowReasonFullCourse
)

type BlueReason int

const (
	BlueReasonUnknown BlueReason = iota
)

type WhiteReason int

const (
	WhiteReasonUnknown WhiteReason = iota
	WhiteReasonLastLap
	WhiteReasonSlowCarAhead
)

type CheckeredReason int

const (
	CheckeredReasonUnknown CheckeredReason = iota
)

type BlackReason int

const (
	BlackReasonUnknown BlackReason = iota
)

type BlackWhiteReason int

const (
	BlackWhiteReasonUnknown BlackWhiteReason = iota
	BlackWhiteReasonIgnoredBlueFlags
	BlackWhiteReasonWrongWay
	BlackWhiteReasonCutting
)

// Flag is shown to a driver for Reason.
type Flag[R ~int] struct {
	Reason R
}

// Flags are independent of one another; a nil flag is not being shown.
type Flags struct {
	Green      *Flag[GreenReason]
	Yellow     *Flag[YellowReason]
	Blue       *Flag[BlueReason]
	White      *Flag[WhiteReason]
	Checkered  *Flag[CheckeredReason]
	Black      *Flag[BlackReason]
	BlackWhite *Flag[BlackWhiteReason]
}
