package simdash

import (
	"context"
	"time"

	"github.com/jd3nn1s/simdash/r3e"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var retrySleep = time.Second

type Retryable interface {
	Open() error
	Close() error
	Start(ctx context.Context) error
	Name() string
}

func retry(ctx context.Context, r Retryable) error {
	errStarting := errors.New("starting")
	err := errStarting
	for {
		select {
		case <-ctx.Done():
			if err := r.Close(); err != nil {
				log.WithField("err", err).Warnf("%s: unable to close", r.Name())
			}
			return ctx.Err()
		default:
		}
		if err != nil {
			if err != errStarting {
				log.WithField("err", err).Errorf("%s: reconnecting due to error", r.Name())
				if err = r.Close(); err != nil {
					log.WithField("err", err).Warnf("%s: unable to close", r.Name())
				}
				time.Sleep(retrySleep)
			}
			err = r.Open()
			if err != nil {
				continue
			}
		}
		err = r.Start(ctx)
	}
}

// sourceRetryable polls a Source and hands decoded records to the
// pipeline. A record is dropped if the previous one has not been taken.
type sourceRetryable struct {
	source   Source
	interval time.Duration
	sendChan chan<- *r3e.Shared
}

func (sr *sourceRetryable) Open() error {
	return sr.source.Open()
}

func (sr *sourceRetryable) Close() error {
	return sr.source.Close()
}

func (sr *sourceRetryable) Name() string {
	return sr.source.Name()
}

func (sr *sourceRetryable) Start(ctx context.Context) error {
	ticker := time.NewTicker(sr.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
		b, err := sr.source.Read()
		if err != nil {
			return errors.Wrap(err, "unable to read snapshot")
		}
		s, err := r3e.Read(b)
		if err != nil {
			return err
		}
		select {
		case sr.sendChan <- s:
		default:
		}
	}
}
