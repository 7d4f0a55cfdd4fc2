package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestWithContext_RoundTrip(t *testing.T) {
	logger := zap.NewNop()
	ctx := WithContext(context.Background(), logger)

	assert.Same(t, logger, FromContext(ctx))
}

func TestFromContext_Missing(t *testing.T) {
	logger := FromContext(context.Background())

	// A no-op logger, never nil
	assert.NotNil(t, logger)
	assert.NotPanics(t, func() { logger.Info("ignored") })
}

func TestWithRequestID(t *testing.T) {
	ctx, enriched := WithRequestID(context.Background(), zap.NewNop(), "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Same(t, enriched, FromContext(ctx))
}

func TestWithUserID(t *testing.T) {
	ctx, _ := WithUserID(context.Background(), zap.NewNop(), "user-456")

	assert.Equal(t, "user-456", GetUserID(ctx))
}

func TestWithBranchID(t *testing.T) {
	ctx, _ := WithBranchID(context.Background(), zap.NewNop(), "branch-789")

	assert.Equal(t, "branch-789", GetBranchID(ctx))
}

func TestContextValues_Compose(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	ctx, logger = WithRequestID(ctx, logger, "req-1")
	ctx, logger = WithBranchID(ctx, logger, "branch-1")
	ctx, _ = WithUserID(ctx, logger, "user-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "branch-1", GetBranchID(ctx))
	assert.Equal(t, "user-1", GetUserID(ctx))
}

func TestGetters_Empty(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetUserID(ctx))
	assert.Empty(t, GetBranchID(ctx))
}
