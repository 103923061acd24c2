// Package publish streams generated rows to NATS.
package publish

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/yaron8/rca-telemetry-synth/generator/dataset"
	"github.com/yaron8/rca-telemetry-synth/logi"
	"github.com/yaron8/rca-telemetry-synth/telemetrics"
)

// Conn is the part of *nats.Conn the publisher uses.
type Conn interface {
	Publish(subject string, data []byte) error
	Flush() error
	Drain() error
	Close()
}

// Message is the payload of one published row.
type Message struct {
	RunID string          `json:"run_id"`
	Seq   int             `json:"seq"`
	Row   telemetrics.Row `json:"row"`
}

type Publisher struct {
	conn    Conn
	subject string
	logger  *zap.Logger
}

// NewPublisher connects to url. Rows go to <subject>.<equipment type>.
func NewPublisher(url, subject string) (*Publisher, error) {
	conn, err := nats.Connect(url, nats.Name("rca-telemetry-synth"))
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	return newPublisher(conn, subject), nil
}

func newPublisher(conn Conn, subject string) *Publisher {
	return &Publisher{conn: conn, subject: subject, logger: logi.GetLogger()}
}

// Subject returns the subject a row of type t is published on.
func (p *Publisher) Subject(t telemetrics.EquipmentType) string {
	return p.subject + "." + strings.ToLower(string(t))
}

// PublishRun publishes every row of run in order and flushes the connection.
func (p *Publisher) PublishRun(run *dataset.Run) error {
	for i, row := range run.Rows {
		data, err := json.Marshal(Message{RunID: run.ID.String(), Seq: i, Row: row})
		if err != nil {
			return fmt.Errorf("marshal row %d: %w", i, err)
		}
		if err := p.conn.Publish(p.Subject(row.EquipmentType), data); err != nil {
			return fmt.Errorf("publish row %d: %w", i, err)
		}
	}
	if err := p.conn.Flush(); err != nil {
		return fmt.Errorf("flush nats: %w", err)
	}

	p.logger.Info("run published", zap.String("run_id", run.ID.String()), zap.Int("rows", len(run.Rows)))
	return nil
}

func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Drain()
		p.conn.Close()
	}
}
