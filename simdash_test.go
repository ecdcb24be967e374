package simdash

import (
	"context"
	"sync"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingForwarder struct {
	mu       sync.Mutex
	payloads [][]byte
	err      error
}

func (f *recordingForwarder) Forward(payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	return f.err
}

func (f *recordingForwarder) Name() string {
	return "recording"
}

func payloadField(t *testing.T, payload []byte, key string) interface{} {
	t.Helper()
	var doc map[string]interface{}
	require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(payload, &doc))
	return doc[key]
}

func TestCheckChannels(t *testing.T) {
	ctx := context.Background()
	d := NewDash(nil)
	s := syntheticSnapshot()

	d.snapshotChan <- s
	assert.True(t, d.CheckChannels(ctx))
	require.NotNil(t, d.Telemetry)
	require.NotEmpty(t, d.Payload)
	assert.EqualValues(t, 2, payloadField(t, d.Payload, "VersionMajor"))

	// send the same data
	d.snapshotChan <- s
	prevPayload := d.Payload
	assert.False(t, d.CheckChannels(ctx))
	assert.Equal(t, prevPayload, d.Payload)

	// send different data
	changed := *s
	changed.CarSpeed = 40
	d.snapshotChan <- &changed
	assert.True(t, d.CheckChannels(ctx))
	assert.EqualValues(t, 40, payloadField(t, d.Payload, "CarSpeed"))
}

func TestCheckChannelsDecodeFailure(t *testing.T) {
	ctx := context.Background()
	d := NewDash(nil)

	d.snapshotChan <- syntheticSnapshot()
	require.True(t, d.CheckChannels(ctx))
	prevPayload := d.Payload

	bad := syntheticSnapshot()
	bad.VersionMajor = 3
	bad.CarSpeed = 50
	d.snapshotChan <- bad
	assert.False(t, d.CheckChannels(ctx))
	assert.True(t, d.failing)
	assert.Equal(t, prevPayload, d.Payload)

	good := syntheticSnapshot()
	good.CarSpeed = 50
	d.snapshotChan <- good
	assert.True(t, d.CheckChannels(ctx))
	assert.False(t, d.failing)
}

func TestCheckChannelsDone(t *testing.T) {
	d := NewDash(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, d.CheckChannels(ctx))
	assert.Nil(t, d.Payload)
}

func TestTelemetryUpdate(t *testing.T) {
	d := NewDash(nil)
	failing := &recordingForwarder{err: errors.New("unreachable")}
	fwd := &recordingForwarder{}
	d.AddForwarder(failing)
	d.AddForwarder(fwd)

	// nothing decoded yet
	d.TelemetryUpdate()
	assert.Empty(t, fwd.payloads)

	d.snapshotChan <- syntheticSnapshot()
	require.True(t, d.CheckChannels(context.Background()))
	d.TelemetryUpdate()
	require.Len(t, fwd.payloads, 1)
	assert.Equal(t, d.Payload, fwd.payloads[0])
	assert.Len(t, failing.payloads, 1)
}

func TestStart(t *testing.T) {
	defer noDelays()()
	src := &fakeSource{frames: [][]byte{frame(t, syntheticSnapshot())}}

	origSourceOpen := sourceOpen
	defer func() {
		sourceOpen = origSourceOpen
	}()
	var openedPath string
	sourceOpen = func(path string) Source {
		openedPath = path
		return src
	}

	d := NewDash(&Config{PollIntervalMs: 1, SharedMemoryPath: "/tmp/r3e-test"})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	d.Start(ctx)
	assert.Equal(t, "/tmp/r3e-test", openedPath)

	require.True(t, d.CheckChannels(ctx))
	require.NotNil(t, d.Telemetry.Session)

	src.mu.Lock()
	assert.Equal(t, 1, src.opens)
	src.mu.Unlock()
}

func TestStartTestMode(t *testing.T) {
	d := NewDash(&Config{PollIntervalMs: 1})
	d.SetTestMode(true)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	d.Start(ctx)

	require.True(t, d.CheckChannels(ctx))
	require.NotNil(t, d.Telemetry)
	assert.NotNil(t, d.Telemetry.Session)
	assert.NotNil(t, d.Telemetry.FocusedVehicle)
}
