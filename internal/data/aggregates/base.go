package aggregates

import (
	"context"
	"strings"
	"time"

	domainagg "github.com/yungbote/jobtrack-backend/internal/domain/aggregates"
	"github.com/yungbote/jobtrack-backend/internal/platform/dbctx"
	"github.com/yungbote/jobtrack-backend/internal/platform/logger"
	"gorm.io/gorm"
)

const defaultMaxAttempts = 5

type BaseDeps struct {
	DB       *gorm.DB
	Log      *logger.Logger
	Runner   TxRunner
	Hooks    Hooks
	CASGuard CASGuard
	Locker   Locker
	// MaxAttempts bounds how often a write losing a concurrency race is replayed.
	MaxAttempts int
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.CASGuard.db == nil {
		d.CASGuard = NewCASGuard(d.DB)
	}
	if d.Locker == nil {
		d.Locker = NewKeyedMutex()
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.MaxAttempts <= 0 {
		d.MaxAttempts = defaultMaxAttempts
	}
	return d
}

func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}
	err := deps.Runner.InTx(ctx, fn)
	mapped := MapError(op, err)

	status := "success"
	if mapped != nil {
		status = aggregateErrorStatus(mapped)
		if domainagg.IsCode(mapped, domainagg.CodeConflict) {
			deps.Hooks.IncConflict(op)
		}
		if domainagg.IsCode(mapped, domainagg.CodeRetryable) {
			deps.Hooks.IncRetry(op)
		}
	}
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
	return mapped
}

// executeSerializedWrite holds the key's lock for the whole write and replays
// the transaction when it loses a version or sequence race.
func executeSerializedWrite(ctx context.Context, deps BaseDeps, op, key string, fn func(dbc dbctx.Context) error) error {
	deps = deps.withDefaults()
	unlock, err := deps.Locker.Lock(ctx, key)
	if err != nil {
		mapped := MapError(op, err)
		deps.Hooks.ObserveOperation(op, aggregateErrorStatus(mapped), 0)
		return mapped
	}
	defer unlock()

	for attempt := 1; ; attempt++ {
		err = executeWrite(ctx, deps, op, fn)
		if err == nil || !Retryable(err) || attempt >= deps.MaxAttempts || ctx.Err() != nil {
			return err
		}
		deps.Log.Debug("retrying aggregate write", "op", op, "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return MapError(op, ctx.Err())
		case <-time.After(time.Duration(attempt) * 5 * time.Millisecond):
		}
	}
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		code = strings.TrimSpace(string(domainagg.CodeOf(MapError("aggregate.status", err))))
	}
	if code == "" {
		return "failure"
	}
	return code
}
