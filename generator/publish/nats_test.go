package publish

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaron8/rca-telemetry-synth/generator/dataset"
	"github.com/yaron8/rca-telemetry-synth/telemetrics"
)

type published struct {
	subject string
	data    []byte
}

type fakeConn struct {
	msgs       []published
	failAt     int
	flushed    bool
	drained    bool
	closed     bool
	publishErr error
}

func (c *fakeConn) Publish(subject string, data []byte) error {
	if c.publishErr != nil && len(c.msgs) == c.failAt {
		return c.publishErr
	}
	c.msgs = append(c.msgs, published{subject, data})
	return nil
}

func (c *fakeConn) Flush() error { c.flushed = true; return nil }
func (c *fakeConn) Drain() error { c.drained = true; return nil }
func (c *fakeConn) Close()       { c.closed = true }

func testRun() *dataset.Run {
	ts := time.Date(2023, 6, 6, 0, 0, 0, 0, time.UTC)
	return &dataset.Run{
		ID: uuid.MustParse("6f1c1f0e-8a49-4b8e-9d1c-3f4a2b7c9e10"),
		Rows: []telemetrics.Row{
			{Timestamp: ts, EquipmentID: "ce-ro-2", EquipmentType: telemetrics.Router, ParentDeviceID: "ce-ro-2"},
			{Timestamp: ts, EquipmentID: "cpe-sw-4", EquipmentType: telemetrics.Switch, IsRootCause: true},
			{Timestamp: ts, EquipmentID: "cpe-fw-1", EquipmentType: telemetrics.Firewall},
		},
	}
}

func TestPublishRun(t *testing.T) {
	conn := &fakeConn{}
	p := newPublisher(conn, "rcagen.observations")

	require.NoError(t, p.PublishRun(testRun()))

	require.Len(t, conn.msgs, 3)
	assert.Equal(t, "rcagen.observations.router", conn.msgs[0].subject)
	assert.Equal(t, "rcagen.observations.switch", conn.msgs[1].subject)
	assert.Equal(t, "rcagen.observations.firewall", conn.msgs[2].subject)
	assert.True(t, conn.flushed)

	var msg Message
	require.NoError(t, json.Unmarshal(conn.msgs[1].data, &msg))
	assert.Equal(t, "6f1c1f0e-8a49-4b8e-9d1c-3f4a2b7c9e10", msg.RunID)
	assert.Equal(t, 1, msg.Seq)
	assert.Equal(t, "cpe-sw-4", msg.Row.EquipmentID)
	assert.True(t, msg.Row.IsRootCause)
}

func TestPublishRun_StopsOnError(t *testing.T) {
	conn := &fakeConn{failAt: 1, publishErr: errors.New("slow consumer")}
	p := newPublisher(conn, "rcagen")

	err := p.PublishRun(testRun())

	assert.EqualError(t, err, "publish row 1: slow consumer")
	assert.Len(t, conn.msgs, 1)
	assert.False(t, conn.flushed)
}

func TestClose(t *testing.T) {
	conn := &fakeConn{}
	newPublisher(conn, "rcagen").Close()

	assert.True(t, conn.drained)
	assert.True(t, conn.closed)
}

func TestNewPublisher_NoServer(t *testing.T) {
	_, err := NewPublisher("nats://127.0.0.1:1", "rcagen")
	assert.ErrorContains(t, err, "connect nats")
}
