//go:build !solution

// Package agent runs reader and writer loops against a shared resource.
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/Rogov-KS/readwrite/metrics"
)

type Role string

const (
	RoleReader Role = "reader"
	RoleWriter Role = "writer"
)

// Target is the part of sharedres.Resource an agent needs.
type Target[T any] interface {
	Read(readerID int) T
	Write(writerID int, v T)
}

// Pacer suspends an agent between two operations.
type Pacer interface {
	Pace(ctx context.Context) error
}

// ClockPacer waits for Interval on Clock.
type ClockPacer struct {
	Clock    clockwork.Clock
	Interval time.Duration
}

func (p ClockPacer) Pace(ctx context.Context) error {
	if p.Interval <= 0 {
		return ctx.Err()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.Clock.After(p.Interval):
		return nil
	}
}

// PayloadFunc builds the value a writer stores on each iteration.
type PayloadFunc[T any] func(writerID int) T

// DefaultPayload is the payload used for string resources.
func DefaultPayload(writerID int) string {
	return fmt.Sprintf("Data from Writer %d", writerID)
}

type Agent[T any] struct {
	Role    Role
	ID      int
	Target  Target[T]
	Payload PayloadFunc[T]
	Pacer   Pacer
	Logger  *zap.Logger
	Metrics *metrics.Lock
}

// Run repeats the agent's operation until ctx is cancelled.
// Role, Target and Pacer are required, and writers also need a Payload.
// Cancellation is checked between iterations only: an agent waiting for the
// lock finishes its operation first.
func (a *Agent[T]) Run(ctx context.Context) error {
	if a.Role != RoleReader && a.Role != RoleWriter {
		return fmt.Errorf("agent %d: unknown role %q", a.ID, a.Role)
	}
	if a.Role == RoleWriter && a.Payload == nil {
		return fmt.Errorf("writer %d: no payload", a.ID)
	}
	if a.Pacer == nil {
		return fmt.Errorf("%s %d: no pacer", a.Role, a.ID)
	}

	logger := a.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("role", string(a.Role)), zap.Int("id", a.ID))

	for {
		if ctx.Err() != nil {
			return nil
		}

		a.step()

		if err := a.Pacer.Pace(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			// пауза прервалась - пропускаем её и идём на следующую итерацию
			logger.Warn("pacing interrupted", zap.Error(err))
			a.Metrics.PacingError(string(a.Role))
		}
	}
}

func (a *Agent[T]) step() {
	if a.Role == RoleReader {
		a.Target.Read(a.ID)
		return
	}
	a.Target.Write(a.ID, a.Payload(a.ID))
}
