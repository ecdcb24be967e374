package dash

import (
	"time"

	"github.com/jd3nn1s/simdash/telemetry"
)

// Legacy pit window status codes.
const (
	PitWindowUnavailable = -1
	PitWindowDisabled    = 0
	PitWindowClosed      = 1
	PitWindowOpen        = 2
	PitWindowStopped     = 3
	PitWindowCompleted   = 4
)

// Legacy black and white flag codes.
const (
	blackWhiteNone         = 0
	blackWhiteActive       = 1
	blackWhiteWrongWay     = 3
	blackWhiteCuttingTrack = 4
)

const (
	sessionLengthTime        = 0
	sessionLengthLaps        = 1
	sessionLengthTimeAndLaps = 2
)

const (
	pitStateNone     = 0
	pitStateEntered  = 2
	pitStateStopped  = 3
	pitStateExiting  = 4
	startLightsGreen = 6
)

// PitWindowStatus derives the legacy status. A stop in progress outranks
// the window timing, which in turn outranks a completed requirement, which
// outranks being outside the window.
func PitWindowStatus(gt *telemetry.GameTelemetry) int {
	s := gt.Session
	switch {
	case s == nil:
		return PitWindowUnavailable
	case !s.PitLaneOpen:
		return PitWindowDisabled
	case gt.FocusedVehicle == nil:
		return PitWindowUnavailable
	}
	v := gt.FocusedVehicle
	window := s.Requirements.PitWindow
	switch {
	case v.Pit.InPitStall():
		return PitWindowStopped
	case window == nil:
		return PitWindowOpen
	case v.Pit.MandatoryStopsDone >= s.Requirements.MandatoryPitStops:
		return PitWindowCompleted
	case window.Contains(s.CurrentInstant(v.CompletedLaps)):
		return PitWindowOpen
	}
	return PitWindowClosed
}

// pitWindowBounds are in laps or whole minutes, matching the window kind.
func pitWindowBounds(w telemetry.PitWindow) (int, int) {
	switch w := w.(type) {
	case telemetry.LapsPitWindow:
		return w.Start, w.Finish
	case telemetry.TimePitWindow:
		return int(w.Start / time.Minute), int(w.Finish / time.Minute)
	}
	return unavailable, unavailable
}

// raceOngoing is false before the start and once the leader has finished.
func raceOngoing(gt *telemetry.GameTelemetry) bool {
	if gt.Session == nil {
		return false
	}
	switch gt.Session.Phase {
	case telemetry.SessionPhaseStarted, telemetry.SessionPhaseFullCourseYellow, telemetry.SessionPhaseStopped:
		return true
	case telemetry.SessionPhaseOver:
		leader := gt.Leader()
		return leader != nil && leader.RacingStatus.Kind == telemetry.RacingStatusRacing
	}
	return false
}

func flags(gt *telemetry.GameTelemetry) Flags {
	f := Flags{
		Yellow:                unavailable,
		YellowCausedIt:        unavailable,
		YellowOvertake:        unavailable,
		YellowPositionsGained: unavailable,
		Blue:                  unavailable,
		Black:                 unavailable,
		Green:                 unavailable,
		Checkered:             unavailable,
		White:                 unavailable,
		BlackAndWhite:         unavailable,
	}
	v := gt.FocusedVehicle
	if v == nil {
		return f
	}
	vf := &v.Flags
	f.Black = boolInt(vf.Black != nil)
	f.Checkered = boolInt(vf.Checkered != nil)
	f.BlackAndWhite = blackWhite(vf.BlackWhite, gt.Player)
	if gt.Player != nil && gt.Player.OvertakeAllowed != nil {
		f.YellowOvertake = boolInt(*gt.Player.OvertakeAllowed)
	}

	if !raceOngoing(gt) {
		return f
	}
	f.Yellow = boolInt(vf.Yellow != nil)
	f.YellowCausedIt = boolInt(vf.Yellow != nil && vf.Yellow.Reason == telemetry.YellowReasonCausedIt)
	f.Blue = boolInt(vf.Blue != nil)
	f.Green = boolInt(vf.Green != nil)
	f.White = boolInt(vf.White != nil)
	if gt.Player != nil {
		f.YellowPositionsGained = int(gt.Player.Warnings.GiveBackPositions)
	}
	return f
}

// blackWhite folds the flag reason and the blue flag warning counter into
// the single legacy code.
func blackWhite(flag *telemetry.Flag[telemetry.BlackWhiteReason], player *telemetry.Player) int {
	if flag == nil {
		return blackWhiteNone
	}
	switch flag.Reason {
	case telemetry.BlackWhiteReasonIgnoredBlueFlags:
		if player == nil || player.Warnings.BlueFlagWarnings == nil {
			break
		}
		if w := player.Warnings.BlueFlagWarnings.Value; w == 1 || w == 2 {
			return int(w)
		}
	case telemetry.BlackWhiteReasonWrongWay:
		return blackWhiteWrongWay
	case telemetry.BlackWhiteReasonCutting:
		return blackWhiteCuttingTrack
	}
	return blackWhiteActive
}

func sessionType(t telemetry.SessionType) int {
	switch t {
	case telemetry.SessionTypePractice:
		return 0
	case telemetry.SessionTypeQualify:
		return 1
	case telemetry.SessionTypeRace:
		return 2
	case telemetry.SessionTypeWarmup:
		return 3
	}
	return unavailable
}

// sessionPhase has no legacy code for a caution or a stopped race; both
// are reported as green.
func sessionPhase(p telemetry.SessionPhase) int {
	switch p {
	case telemetry.SessionPhaseGarage:
		return 1
	case telemetry.SessionPhaseGridWalk:
		return 2
	case telemetry.SessionPhaseFormation:
		return 3
	case telemetry.SessionPhaseCountdown:
		return 4
	case telemetry.SessionPhaseStarted, telemetry.SessionPhaseFullCourseYellow, telemetry.SessionPhaseStopped:
		return 5
	case telemetry.SessionPhaseOver:
		return 6
	}
	return unavailable
}

func startLights(l *telemetry.StartLights) int {
	switch {
	case l == nil:
		return unavailable
	case l.Color == telemetry.LightColorGreen:
		return startLightsGreen
	}
	return l.Lit
}

func finishStatus(s telemetry.RacingStatus) int {
	switch s.Kind {
	case telemetry.RacingStatusRacing:
		return 0
	case telemetry.RacingStatusFinished:
		return 1
	case telemetry.RacingStatusDNF:
		return 2
	case telemetry.RacingStatusDNQ:
		return 3
	case telemetry.RacingStatusDNS:
		return 4
	case telemetry.RacingStatusDisqualified:
		return 5
	}
	return unavailable
}

func controlType(c telemetry.ControlType) int {
	switch c {
	case telemetry.ControlTypeLocalPlayer:
		return 0
	case telemetry.ControlTypeAI:
		return 1
	case telemetry.ControlTypeRemotePlayer:
		return 2
	case telemetry.ControlTypeReplay:
		return 3
	}
	return unavailable
}

func engineType(e telemetry.EngineType) int {
	switch e {
	case telemetry.EngineTypeCombustion:
		return 0
	case telemetry.EngineTypeElectric:
		return 1
	case telemetry.EngineTypeHybrid:
		return 2
	}
	return unavailable
}

func pitState(p *telemetry.PitLanePhase) int {
	if p == nil {
		return pitStateNone
	}
	switch *p {
	case telemetry.PitLanePhaseEntered:
		return pitStateEntered
	case telemetry.PitLanePhaseStopped:
		return pitStateStopped
	case telemetry.PitLanePhaseExiting:
		return pitStateExiting
	}
	return unavailable
}

var penaltyTypes = []telemetry.PenaltyType{
	telemetry.PenaltyTypeDriveThrough,
	telemetry.PenaltyTypeStopAndGo,
	telemetry.PenaltyTypePitStop,
	telemetry.PenaltyTypeTimeDeduction,
	telemetry.PenaltyTypeSlowDown,
	telemetry.PenaltyTypeDisqualify,
}

// penaltyType is the legacy index of the first outstanding penalty.
func penaltyType(v *telemetry.Vehicle) int {
	if v.RacingStatus.Kind == telemetry.RacingStatusDisqualified {
		return len(penaltyTypes) - 1
	}
	if len(v.Penalties) == 0 {
		return unavailable
	}
	for i, pt := range penaltyTypes {
		if pt == v.Penalties[0].Type {
			return i
		}
	}
	return unavailable
}

func penalties(v *telemetry.Vehicle) Penalties {
	return Penalties{
		DriveThrough:  boolInt(v.HasPenalty(telemetry.PenaltyTypeDriveThrough)),
		StopAndGo:     boolInt(v.HasPenalty(telemetry.PenaltyTypeStopAndGo)),
		PitStop:       boolInt(v.HasPenalty(telemetry.PenaltyTypePitStop)),
		TimeDeduction: boolInt(v.HasPenalty(telemetry.PenaltyTypeTimeDeduction)),
		SlowDown:      boolInt(v.HasPenalty(telemetry.PenaltyTypeSlowDown)),
	}
}

// aidActive is reported in place of the level while an aid intervenes.
const aidActive = 5

func aid(a *telemetry.Aid) int {
	switch {
	case a == nil:
		return unavailable
	case a.Active:
		return aidActive
	}
	return int(a.Level)
}
