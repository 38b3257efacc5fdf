// Package logging writes resolution events from the global event bus as
// structured zap logs.
package logging

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	eventbus "github.com/hanpama/gqlshape/internal/eventbus"
	events "github.com/hanpama/gqlshape/internal/events"
	reqid "github.com/hanpama/gqlshape/internal/reqid"
)

// New builds a console logger writing to stderr at the given level
// ("debug", "info", "warn", "error").
func New(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// Attach logs document events at info and per-definition events at debug.
// Failures are logged at error. It returns a function that removes the
// subscriptions.
func Attach(log *zap.Logger) (detach func()) {
	unsubs := []func(){
		eventbus.Subscribe(func(ctx context.Context, e events.DocumentStart) {
			log.Info("resolving document",
				runID(ctx),
				zap.String("source", e.Source),
				zap.Int("definitions", e.Definitions))
		}),
		eventbus.Subscribe(func(ctx context.Context, e events.DocumentFinish) {
			if e.Err != nil {
				log.Error("document failed", runID(ctx), zap.String("source", e.Source), zap.Error(e.Err))
				return
			}
			log.Info("document resolved", runID(ctx), zap.String("source", e.Source), zap.Duration("duration", e.Duration))
		}),
		eventbus.Subscribe(func(ctx context.Context, e events.ResolveStart) {
			log.Debug("resolving definition",
				runID(ctx),
				zap.String("kind", string(e.Kind)),
				zap.String("definition", e.Definition))
		}),
		eventbus.Subscribe(func(ctx context.Context, e events.ResolveFinish) {
			fields := []zap.Field{
				runID(ctx),
				zap.String("kind", string(e.Kind)),
				zap.String("definition", e.Definition),
				zap.Duration("duration", e.Duration),
			}
			if e.Err != nil {
				log.Error("definition failed", append(fields, zap.Error(e.Err))...)
				return
			}
			log.Debug("definition resolved", append(fields, zap.Int("members", e.Members))...)
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func runID(ctx context.Context) zap.Field {
	rid, _ := reqid.FromContext(ctx)
	return zap.String("run", rid)
}
