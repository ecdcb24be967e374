package forwarder

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUDPForwarder(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()
	udpAddr := pc.LocalAddr().(*net.UDPAddr)
	config := fmt.Sprintf(`
Server = "127.0.0.1"
Port = %d
IntervalMs = 5
`, udpAddr.Port)

	recvData := struct {
		data []byte
		len  int
	}{}

	dataChan := make(chan struct{}, 1)
	go func() {
		buffer := make([]byte, 1024)
		assert.NoError(t, pc.SetReadDeadline(time.Now().Add(time.Second*3)))
		n, _, err := pc.ReadFrom(buffer)
		assert.NoError(t, err)
		recvData.data = buffer
		recvData.len = n
		dataChan <- struct{}{}
	}()

	udp, err := NewUDPForwarderFromReader(bytes.NewBufferString(config))
	require.NoError(t, err)
	defer udp.Close()
	assert.Equal(t, 5*time.Millisecond, udp.Config.interval())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = udp.Start(ctx)
	}()

	payload := []byte(`{"VersionMajor":2,"VersionMinor":11}`)
	assert.NoError(t, udp.Forward(payload))
	// the forwarder keeps its own copy
	payload[0] = 'x'

	<-dataChan
	assert.Equal(t, `{"VersionMajor":2,"VersionMinor":11}`, string(recvData.data[:recvData.len]))
}

func TestUDPForwarderDropsWhenBusy(t *testing.T) {
	udp := &UDPForwarder{Config: &UDPConfig{}, fwdChan: make(chan []byte, 1)}
	assert.NoError(t, udp.Forward([]byte("first")))
	assert.NoError(t, udp.Forward([]byte("second")))
	assert.Equal(t, []byte("first"), <-udp.fwdChan)
	assert.Equal(t, defaultUDPInterval, udp.Config.interval())
}

func TestUDPForwarderOversizedPayload(t *testing.T) {
	udp := &UDPForwarder{Config: &UDPConfig{}, fwdChan: make(chan []byte, 1)}
	assert.Error(t, udp.Forward(make([]byte, maxDatagramSize+1)))
	assert.Empty(t, udp.fwdChan)
}

func TestUDPForwarderBadConfig(t *testing.T) {
	_, err := NewUDPForwarderFromReader(bytes.NewBufferString("Server = "))
	assert.Error(t, err)

	_, err = NewUDPForwarderFromConfig(nil)
	assert.Error(t, err)
}
