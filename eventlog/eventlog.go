//go:build !solution

// Package eventlog receives human-readable notifications about reads and
// writes of the shared resource.
package eventlog

import (
	"fmt"

	"go.uber.org/zap"
)

type Kind int

const (
	KindRead Kind = iota
	KindWrite
)

func (k Kind) String() string {
	switch k {
	case KindRead:
		return "read"
	case KindWrite:
		return "write"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Event is reported while the agent holds access to the resource.
// Value is the value observed by a reader or being stored by a writer.
type Event struct {
	Kind    Kind
	AgentID int
	Value   any
}

func (e Event) String() string {
	if e.Kind == KindRead {
		return fmt.Sprintf("Reader %d is reading", e.AgentID)
	}
	return fmt.Sprintf("Writer %d is writing", e.AgentID)
}

//go:generate mockgen -destination mocks/sink.go -package mocks . Sink

// Sink must be safe for concurrent use.
type Sink interface {
	Record(e Event)
}

type nopSink struct{}

func (nopSink) Record(Event) {}

// Nop returns a Sink that drops every event.
func Nop() Sink {
	return nopSink{}
}

// ZapSink writes events to a zap logger at info level.
type ZapSink struct {
	logger *zap.Logger
}

func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger.Named("events")}
}

func (s *ZapSink) Record(e Event) {
	s.logger.Info(e.String(),
		zap.Stringer("kind", e.Kind),
		zap.Int("id", e.AgentID),
		zap.Any("value", e.Value),
	)
}
