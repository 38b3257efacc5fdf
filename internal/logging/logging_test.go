package logging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	eventbus "github.com/hanpama/gqlshape/internal/eventbus"
	events "github.com/hanpama/gqlshape/internal/events"
	reqid "github.com/hanpama/gqlshape/internal/reqid"
)

func TestAttach(t *testing.T) {
	eventbus.Use(eventbus.New())
	t.Cleanup(func() { eventbus.Use(nil) })

	core, logs := observer.New(zapcore.DebugLevel)
	detach := Attach(zap.New(core))

	ctx, rid := reqid.NewContext(context.Background())
	eventbus.Publish(ctx, events.DocumentStart{Source: "q.graphql", Definitions: 1})
	eventbus.Publish(ctx, events.ResolveStart{Source: "q.graphql", Definition: "Me", Kind: "query"})
	eventbus.Publish(ctx, events.ResolveFinish{Source: "q.graphql", Definition: "Me", Kind: "query", Err: errors.New("boom")})
	eventbus.Publish(ctx, events.DocumentFinish{Source: "q.graphql", Err: errors.New("boom")})
	detach()
	eventbus.Publish(ctx, events.DocumentStart{Source: "ignored.graphql"})

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)
	require.Equal(t, "resolving document", entries[0].Message)
	require.Equal(t, zapcore.DebugLevel, entries[1].Level)
	require.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	require.Equal(t, "definition failed", entries[2].Message)
	require.Equal(t, "document failed", entries[3].Message)
	require.Equal(t, rid, entries[0].ContextMap()["run"])
	require.Equal(t, "Me", entries[2].ContextMap()["definition"])
}

func TestNew(t *testing.T) {
	log, err := New("warn")
	require.NoError(t, err)
	require.False(t, log.Core().Enabled(zapcore.InfoLevel))
	require.True(t, log.Core().Enabled(zapcore.WarnLevel))

	_, err = New("loud")
	require.Error(t, err)
}
