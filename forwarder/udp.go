// Package forwarder pushes encoded dashboard payloads to consumers.
package forwarder

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// largest payload that fits a single IPv4 datagram
const maxDatagramSize = 65507

const defaultUDPInterval = 16 * time.Millisecond

type UDPConfig struct {
	Server string
	Port   int

	// IntervalMs limits how often datagrams are sent.
	IntervalMs int
}

func (c *UDPConfig) interval() time.Duration {
	if c.IntervalMs <= 0 {
		return defaultUDPInterval
	}
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// UDPForwarder sends every payload as one datagram. Payloads arriving
// while a send is pending are dropped.
type UDPForwarder struct {
	Config *UDPConfig

	conn    net.Conn
	fwdChan chan []byte
}

func NewUDPForwarderFromReader(configReader io.Reader) (*UDPForwarder, error) {
	configData, err := io.ReadAll(configReader)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read config reader")
	}
	config := UDPConfig{}
	if _, err := toml.Decode(string(configData), &config); err != nil {
		return nil, errors.Wrapf(err, "unable to load udp forwarder configuration")
	}
	return NewUDPForwarderFromConfig(&config)
}

func NewUDPForwarderFromConfig(config *UDPConfig) (*UDPForwarder, error) {
	if config == nil {
		return nil, errors.New("missing udp forwarder configuration")
	}
	udp := &UDPForwarder{
		Config:  config,
		fwdChan: make(chan []byte, 1),
	}
	if err := udp.connect(); err != nil {
		return nil, err
	}
	return udp, nil
}

func (udp *UDPForwarder) Name() string {
	return fmt.Sprintf("udp %s:%d", udp.Config.Server, udp.Config.Port)
}

func (udp *UDPForwarder) Close() error {
	return udp.conn.Close()
}

func (udp *UDPForwarder) Forward(payload []byte) error {
	if len(payload) > maxDatagramSize {
		return errors.Errorf("payload of %d bytes exceeds datagram limit", len(payload))
	}
	select {
	// copy payload as we're sending it on another go-routine
	case udp.fwdChan <- bytes.Clone(payload):
	default:
		// if channel is full, skip
	}
	return nil
}

func (udp *UDPForwarder) Start(ctx context.Context) error {
	limiter := time.NewTicker(udp.Config.interval())
	defer limiter.Stop()
	for {
		select {
		case <-limiter.C:
		case <-ctx.Done():
			return ctx.Err()
		}
		select {
		case p := <-udp.fwdChan:
			if err := udp.forward(p); err != nil {
				log.WithField("server", udp.Name()).Error("unable to forward payload to server ", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (udp *UDPForwarder) forward(payload []byte) error {
	_, err := udp.conn.Write(payload)
	return errors.Wrap(err, "unable to write udp packet")
}

func (udp *UDPForwarder) connect() error {
	writeBufSize := maxDatagramSize * 2

	conn, err := net.Dial("udp", fmt.Sprintf("%s:%d",
		udp.Config.Server,
		udp.Config.Port))
	if err != nil {
		return errors.Wrap(err, "unable to dial udp server")
	}
	udpConn := conn.(*net.UDPConn)
	if err = udpConn.SetWriteBuffer(writeBufSize); err != nil {
		conn.Close()
		return errors.Wrapf(err, "unable to set OS write buffer to %v", writeBufSize)
	}

	udp.conn = conn
	return nil
}
