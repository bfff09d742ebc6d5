// Package state defines shared program state.
package state

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scopec/config"
	"scopec/scope"
)

type envKey struct{}

// LocalEnv keeps everything the program needs in a single place. The scope
// registry is the only piece of process-wide mutable state: it is created
// empty at build start and discarded with the environment at build end.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// Scopes is the per-build scope-ID allocation table.
	Scopes *scope.Registry
	// BuildID tags log records and report artifacts of one run.
	BuildID uuid.UUID

	// used by compile subcommand
	NoDirs    bool
	Overwrite bool

	start         time.Time
	restoreStdLog func()
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.restoreStdLog == nil {
		return
	}
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	e.restoreStdLog()
	e.restoreStdLog = nil
}
