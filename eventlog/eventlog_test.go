//go:build !change

package eventlog

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestEvent_String(t *testing.T) {
	for _, tc := range []struct {
		event    Event
		expected string
	}{
		{event: Event{Kind: KindRead, AgentID: 0}, expected: "Reader 0 is reading"},
		{event: Event{Kind: KindWrite, AgentID: 2, Value: "x"}, expected: "Writer 2 is writing"},
	} {
		t.Run(tc.expected, func(t *testing.T) {
			require.Equal(t, tc.expected, tc.event.String())
		})
	}

	require.Equal(t, "Kind(7)", Kind(7).String())
}

func TestZapSink_Record(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sink := NewZapSink(zap.New(core))

	sink.Record(Event{Kind: KindWrite, AgentID: 1, Value: "Data from Writer 1"})
	sink.Record(Event{Kind: KindRead, AgentID: 3, Value: "Data from Writer 1"})

	entries := logs.All()
	require.Len(t, entries, 2)

	require.Equal(t, "Writer 1 is writing", entries[0].Message)
	require.Equal(t, "events", entries[0].LoggerName)
	fields := entries[0].ContextMap()
	require.Equal(t, "write", fields["kind"])
	require.Equal(t, int64(1), fields["id"])
	require.Equal(t, "Data from Writer 1", fields["value"])

	require.Equal(t, "Reader 3 is reading", entries[1].Message)
}

func TestNop(t *testing.T) {
	require.NotPanics(t, func() { Nop().Record(Event{}) })
}
