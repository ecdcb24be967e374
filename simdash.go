// Package simdash polls the simulator's shared memory, decodes each
// snapshot and pushes the dashboard payload to the configured forwarders.
package simdash

import (
	"bytes"
	"context"

	"github.com/jd3nn1s/simdash/dash"
	"github.com/jd3nn1s/simdash/r3e"
	"github.com/jd3nn1s/simdash/shm"
	"github.com/jd3nn1s/simdash/telemetry"
	log "github.com/sirupsen/logrus"
)

const channelBufferSize = 1

var sourceOpen = func(path string) Source {
	return shm.NewReader(path, r3e.Size)
}

type Dash struct {
	// Telemetry and Payload hold the most recent decoded snapshot.
	Telemetry *telemetry.GameTelemetry
	Payload   []byte

	config       *Config
	decoder      *r3e.Decoder
	snapshotChan chan *r3e.Shared
	forwarders   []Forwarder
	testMode     bool
	failing      bool
}

func NewDash(config *Config) *Dash {
	if config == nil {
		config = DefaultConfig()
	}
	return &Dash{
		config:       config,
		decoder:      r3e.NewDecoder(),
		snapshotChan: make(chan *r3e.Shared, channelBufferSize),
	}
}

func (d *Dash) AddForwarder(f Forwarder) {
	d.forwarders = append(d.forwarders, f)
}

func (d *Dash) SetTestMode(b bool) {
	d.testMode = b
}

func (d *Dash) Start(ctx context.Context) {
	if d.testMode {
		log.Info("generating synthetic telemetry")
		d.runTestMode(ctx)
		return
	}
	sr := &sourceRetryable{
		source:   sourceOpen(d.config.SharedMemoryPath),
		interval: d.config.PollInterval(),
		sendChan: d.snapshotChan,
	}
	go func() {
		_ = retry(ctx, sr)
	}()
}

// CheckChannels waits for the next snapshot and reports whether its
// payload differs from the previous one. It returns false once ctx is done.
func (d *Dash) CheckChannels(ctx context.Context) (changed bool) {
	select {
	case s := <-d.snapshotChan:
		return d.update(s)
	case <-ctx.Done():
		return false
	}
}

func (d *Dash) update(s *r3e.Shared) bool {
	gt, err := d.decoder.Decode(s)
	if err != nil {
		// a mismatched version repeats every poll; only report the first
		if !d.failing {
			log.WithField("err", err).Warn("unable to decode snapshot")
		}
		d.failing = true
		return false
	}
	if d.failing {
		log.Info("decoding snapshots again")
		d.failing = false
	}

	payload, err := dash.Encode(gt)
	if err != nil {
		log.WithField("err", err).Warn("unable to encode payload")
		return false
	}
	d.Telemetry = gt
	if bytes.Equal(payload, d.Payload) {
		return false
	}
	d.Payload = payload
	return true
}

// TelemetryUpdate sends the current payload to every forwarder.
func (d *Dash) TelemetryUpdate() {
	if d.Payload == nil {
		return
	}
	for _, f := range d.forwarders {
		if err := f.Forward(d.Payload); err != nil {
			log.WithField("forwarder", f.Name()).Warn("unable to forward payload ", err)
		}
	}
}
