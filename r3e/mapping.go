package r3e

import "github.com/jd3nn1s/simdash/telemetry"

func gameState(s *Shared) telemetry.GameState {
	switch {
	case s.GameInReplay > 0:
		return telemetry.GameStateReplay
	case s.GameInMenus > 0:
		return telemetry.GameStateMenu
	case s.GamePaused > 0:
		return telemetry.GameStatePaused
	case s.GameInReplay < 0 && s.GameInMenus < 0 && s.GamePaused < 0:
		return telemetry.GameStateUnknown
	}
	return telemetry.GameStateDriving
}

func sessionType(raw int32) telemetry.SessionType {
	switch raw {
	case SessionPractice:
		return telemetry.SessionTypePractice
	case SessionQualify:
		return telemetry.SessionTypeQualify
	case SessionRace:
		return telemetry.SessionTypeRace
	case SessionWarmup:
		return telemetry.SessionTypeWarmup
	}
	return telemetry.SessionTypeUnknown
}

func sessionPhase(raw int32) telemetry.SessionPhase {
	switch raw {
	case SessionPhaseGarage:
		return telemetry.SessionPhaseGarage
	case SessionPhaseGridwalk:
		return telemetry.SessionPhaseGridWalk
	case SessionPhaseFormation:
		return telemetry.SessionPhaseFormation
	case SessionPhaseCountdown:
		return telemetry.SessionPhaseCountdown
	case SessionPhaseGreen:
		return telemetry.SessionPhaseStarted
	case SessionPhaseCheckered:
		return telemetry.SessionPhaseOver
	}
	return telemetry.SessionPhaseUnknown
}

var disqualificationReasons = []telemetry.DisqualificationReason{
	telemetry.DisqualificationReasonFalseStart,
	telemetry.DisqualificationReasonPitLaneSpeeding,
	telemetry.DisqualificationReasonWrongWay,
	telemetry.DisqualificationReasonEnteringPitUnderRed,
	telemetry.DisqualificationReasonExitingPitUnderRed,
	telemetry.DisqualificationReasonFailedDriverChange,
	telemetry.DisqualificationReasonThreeDriveThroughsInLap,
	telemetry.DisqualificationReasonLappedFieldMultipleTimes,
	telemetry.DisqualificationReasonIgnoredDriveThroughPenalty,
	telemetry.DisqualificationReasonIgnoredStopAndGoPenalty,
	telemetry.DisqualificationReasonIgnoredPitStopPenalty,
	telemetry.DisqualificationReasonIgnoredTimePenalty,
	telemetry.DisqualificationReasonExcessiveCutting,
	telemetry.DisqualificationReasonIgnoredBlueFlag,
}

// racingStatus takes the disqualification reason from the driver's penalty
// fields when they describe one.
func racingStatus(finish, penaltyType, penaltyReason int32) telemetry.RacingStatus {
	switch finish {
	case FinishStatusNone:
		return telemetry.RacingStatus{Kind: telemetry.RacingStatusRacing}
	case FinishStatusFinished:
		return telemetry.RacingStatus{Kind: telemetry.RacingStatusFinished}
	case FinishStatusDNF:
		return telemetry.RacingStatus{Kind: telemetry.RacingStatusDNF}
	case FinishStatusDNQ:
		return telemetry.RacingStatus{Kind: telemetry.RacingStatusDNQ}
	case FinishStatusDNS:
		return telemetry.RacingStatus{Kind: telemetry.RacingStatusDNS}
	case FinishStatusDQ:
		reason := telemetry.DisqualificationReasonUnknown
		if penaltyType == PenaltyDisqualify && penaltyReason >= 0 && int(penaltyReason) < len(disqualificationReasons) {
			reason = disqualificationReasons[penaltyReason]
		}
		return telemetry.Disqualified(reason)
	}
	return telemetry.RacingStatus{Kind: telemetry.RacingStatusUnknown}
}

func engineType(raw int32) telemetry.EngineType {
	switch raw {
	case EngineElectric:
		return telemetry.EngineTypeElectric
	case EngineHybrid:
		return telemetry.EngineTypeHybrid
	}
	return telemetry.EngineTypeCombustion
}

func controlType(raw int32) telemetry.ControlType {
	switch raw {
	case ControlAI:
		return telemetry.ControlTypeAI
	case ControlRemote:
		return telemetry.ControlTypeRemotePlayer
	case ControlReplay:
		return telemetry.ControlTypeReplay
	}
	return telemetry.ControlTypeLocalPlayer
}

func pitLanePhase(pitState int32) *telemetry.PitLanePhase {
	var phase telemetry.PitLanePhase
	switch pitState {
	case PitStateEntered:
		phase = telemetry.PitLanePhaseEntered
	case PitStateStopped:
		phase = telemetry.PitLanePhaseStopped
	case PitStateExiting:
		phase = telemetry.PitLanePhaseExiting
	default:
		return nil
	}
	return &phase
}

// penaltyReasons maps the raw reason index for each penalty type.
var penaltyReasons = map[int32][]telemetry.PenaltyReason{
	PenaltyDriveThrough: {
		telemetry.PenaltyReasonTrackCutting,
		telemetry.PenaltyReasonPitLaneSpeeding,
		telemetry.PenaltyReasonFalseStart,
		telemetry.PenaltyReasonIgnoredBlueFlag,
		telemetry.PenaltyReasonDrivingTooSlow,
		telemetry.PenaltyReasonIllegallyPassingBeforeGreen,
		telemetry.PenaltyReasonIllegallyPassingBeforeFinish,
		telemetry.PenaltyReasonIllegallyPassingBeforePitEntrance,
		telemetry.PenaltyReasonIgnoredSlowDown,
	},
	PenaltyStopAndGo: {
		telemetry.PenaltyReasonTrackCutting,
		telemetry.PenaltyReasonOvertakingUnderYellow,
	},
	PenaltyPitStop: {
		telemetry.PenaltyReasonIgnoredMandatoryPit,
	},
	PenaltyTimeDeduction: {
		telemetry.PenaltyReasonMandatoryPitStopTooShort,
	},
	PenaltySlowDown: {
		telemetry.PenaltyReasonTrackCutting,
		telemetry.PenaltyReasonPitLaneEntryCutting,
	},
}

func penaltyReason(penaltyType, raw int32) telemetry.PenaltyReason {
	reasons := penaltyReasons[penaltyType]
	if raw < 0 || int(raw) >= len(reasons) {
		return telemetry.PenaltyReasonUnknown
	}
	return reasons[raw]
}

// penalties lists every outstanding penalty. Only the most recent one has
// a reason attached by the game.
func penalties(p CutTrackPenalties, lastType, lastReason int32) []telemetry.Penalty {
	raw := []struct {
		flag int32
		typ  int32
		pt   telemetry.PenaltyType
	}{
		{p.DriveThrough, PenaltyDriveThrough, telemetry.PenaltyTypeDriveThrough},
		{p.StopAndGo, PenaltyStopAndGo, telemetry.PenaltyTypeStopAndGo},
		{p.PitStop, PenaltyPitStop, telemetry.PenaltyTypePitStop},
		{p.TimeDeduction, PenaltyTimeDeduction, telemetry.PenaltyTypeTimeDeduction},
		{p.SlowDown, PenaltySlowDown, telemetry.PenaltyTypeSlowDown},
	}
	var out []telemetry.Penalty
	for _, r := range raw {
		if r.flag <= 0 {
			continue
		}
		reason := telemetry.PenaltyReasonUnknown
		if r.typ == lastType {
			reason = penaltyReason(lastType, lastReason)
		}
		out = append(out, telemetry.Penalty{Type: r.pt, Reason: reason})
	}
	return out
}

var pitActions = []struct {
	raw    int32
	status telemetry.PitStopStatus
}{
	{PitActionPreparing, telemetry.PitStopStatusPreparing},
	{PitActionPenalty, telemetry.PitStopStatusServingPenalty},
	{PitActionDriverChange, telemetry.PitStopStatusDriverChange},
	{PitActionRefuel, telemetry.PitStopStatusRefuelling},
	{PitActionFrontTires, telemetry.PitStopStatusChangeFrontTyres},
	{PitActionRearTires, telemetry.PitStopStatusChangeRearTyres},
	{PitActionBody, telemetry.PitStopStatusRepairBody},
	{PitActionFrontWing, telemetry.PitStopStatusRepairFrontWing},
	{PitActionRearWing, telemetry.PitStopStatusRepairRearWing},
	{PitActionSuspension, telemetry.PitStopStatusRepairSuspension},
}

func pitStopStatus(raw int32) telemetry.PitStopStatus {
	status := telemetry.PitStopStatusNone
	if raw <= 0 {
		return status
	}
	for _, a := range pitActions {
		if raw&a.raw != 0 {
			status |= a.status
		}
	}
	return status
}

func blackWhiteReason(raw int32) telemetry.BlackWhiteReason {
	switch raw {
	case BlackWhiteBlueFlag1, BlackWhiteBlueFlag2:
		return telemetry.BlackWhiteReasonIgnoredBlueFlags
	case BlackWhiteWrongWay:
		return telemetry.BlackWhiteReasonWrongWay
	case BlackWhiteCuttingTrack:
		return telemetry.BlackWhiteReasonCutting
	}
	return telemetry.BlackWhiteReasonUnknown
}
