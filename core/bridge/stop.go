package bridge

import (
	"context"
	"time"
)

// Stop cancels synthesis and discards queued text. It returns only after the
// relay has left its dispatch loop and the engine has been canceled, so no
// handler runs for the canceled text once Stop returns.
//
// When the bridge was built with [WithCallerHeldLock] the lock is released
// for the duration of the wait and held again on return. ctx is only used for
// tracing; the wait itself is not bounded.
func (b *Bridge) Stop(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "bridge.stop")
	defer span.End()

	if err := b.ready(); err != nil {
		return recordError(span, err)
	}

	var err error
	b.withoutCallerLock(func() {
		b.stopMu.Lock()
		defer b.stopMu.Unlock()

		start := time.Now()
		idle := b.state.requestStop()
		b.awaitIdle(ctx, idle, start)
		result := b.engine.Cancel()
		b.state.clearStop()

		stopDuration.Record(ctx, time.Since(start).Seconds())
		err = resultError(result)
	})
	if err != nil {
		return recordError(span, err)
	}

	return nil
}

// awaitIdle blocks until idle is closed, warning periodically while the relay
// is still dispatching.
func (b *Bridge) awaitIdle(ctx context.Context, idle <-chan struct{}, start time.Time) {
	select {
	case <-idle:
		return
	default:
	}

	ticker := time.NewTicker(b.stopWarnInterval)
	defer ticker.Stop()

	for {
		select {
		case <-idle:
			return
		case <-ticker.C:
			logger.WarnContext(ctx, "stop is still waiting for the synth callback to return",
				"waited", time.Since(start).String())
		}
	}
}
