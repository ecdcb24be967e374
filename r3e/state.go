package r3e

import (
	"time"

	"github.com/jd3nn1s/simdash/telemetry"
	log "github.com/sirupsen/logrus"
)

// aidTracker remembers the last concrete level reported for one driving
// aid. The "active" code carries no level so it is combined with the
// remembered one.
type aidTracker struct {
	known bool
	level uint32
}

func (t *aidTracker) update(raw int32) *telemetry.Aid {
	switch {
	case raw < 0:
		t.known = false
		t.level = 0
		return nil
	case raw == AidActive:
		if !t.known {
			return nil
		}
		return &telemetry.Aid{Level: t.level, Active: true}
	default:
		t.known = true
		t.level = uint32(raw)
		return &telemetry.Aid{Level: t.level}
	}
}

type aidTrackers struct {
	abs          aidTracker
	tc           aidTracker
	esp          aidTracker
	countersteer aidTracker
	cornering    aidTracker
}

// pitWindowCache keeps the last reliably reported pit window. The game
// stops reporting the window once a stop has been made or the car is in
// the pits, so only some statuses are trusted to overwrite it.
type pitWindowCache struct {
	window telemetry.PitWindow
}

func pitWindowReliable(status int32) bool {
	switch status {
	case PitWindowUnavailable, PitWindowDisabled, PitWindowOpen:
		return true
	}
	return false
}

func (c *pitWindowCache) update(status int32, window telemetry.PitWindow) telemetry.PitWindow {
	if pitWindowReliable(status) {
		c.window = window
	} else if c.window != nil {
		log.WithField("pitWindowStatus", status).Debug("keeping last pit window")
	}
	return c.window
}

// rawPitWindow converts the raw boundaries, in laps or minutes depending on
// the session length format.
func rawPitWindow(s *Shared) telemetry.PitWindow {
	if s.PitWindowStart < 0 || s.PitWindowEnd < 0 || s.SessionLengthFormat < 0 {
		return nil
	}
	if s.SessionLengthFormat == SessionLengthLapBased {
		return telemetry.LapsPitWindow{
			Start:  int(s.PitWindowStart),
			Finish: int(s.PitWindowEnd),
		}
	}
	return telemetry.TimePitWindow{
		Start:  time.Duration(s.PitWindowStart) * time.Minute,
		Finish: time.Duration(s.PitWindowEnd) * time.Minute,
	}
}
