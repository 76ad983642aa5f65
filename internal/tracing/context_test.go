package tracing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCycleIDFromContext_Empty(t *testing.T) {
	require.Equal(t, "", CycleIDFromContext(context.Background()))
	require.Equal(t, "", CycleIDFromContext(nil)) //nolint:staticcheck // nil context is part of the contract
}

func TestContextWithCycleID_RoundTrip(t *testing.T) {
	id := uuid.NewString()
	ctx := ContextWithCycleID(context.Background(), id)
	require.Equal(t, id, CycleIDFromContext(ctx))
}

func TestContextWithCycleID_EmptyIDUnchanged(t *testing.T) {
	ctx := context.Background()
	require.Equal(t, ctx, ContextWithCycleID(ctx, ""))
}

func TestContextWithCycleID_Overwrites(t *testing.T) {
	ctx := ContextWithCycleID(context.Background(), "first")
	ctx = ContextWithCycleID(ctx, "second")
	require.Equal(t, "second", CycleIDFromContext(ctx))
}
