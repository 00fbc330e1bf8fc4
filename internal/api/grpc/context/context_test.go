package context

import (
	stdctx "context"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/metadata"
)

func TestManager_SetAndGetOperator(t *testing.T) {
	m := NewManager()
	ctx := m.SetOperatorToContext(stdctx.Background(), "ops")

	got, ok := m.GetOperatorFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "ops", got)
}

func TestManager_GetOperator_NotFound(t *testing.T) {
	m := NewManager()
	_, ok := m.GetOperatorFromContext(stdctx.Background())
	assert.False(t, ok)
}

func TestManager_SetOperator_KeepsExistingMetadata(t *testing.T) {
	m := NewManager()
	baseMD := metadata.New(map[string]string{"x-trace-id": "t"})
	ctxWithMD := metadata.NewIncomingContext(stdctx.Background(), baseMD)

	ctx := m.SetOperatorToContext(ctxWithMD, "ops")
	got, ok := m.GetOperatorFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "ops", got)

	md, _ := metadata.FromIncomingContext(ctx)
	assert.Equal(t, []string{"t"}, md.Get("x-trace-id"))
	assert.Empty(t, baseMD.Get(operatorKey))
}

func TestManager_SetOperator_OverridesClientValue(t *testing.T) {
	m := NewManager()
	spoofed := metadata.NewIncomingContext(stdctx.Background(), metadata.Pairs(operatorKey, "intruder"))

	ctx := m.SetOperatorToContext(spoofed, "ops")
	got, ok := m.GetOperatorFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "ops", got)
}

func TestManager_GetOperator_Empty(t *testing.T) {
	m := NewManager()
	ctx := metadata.NewIncomingContext(stdctx.Background(), metadata.Pairs(operatorKey, ""))
	_, ok := m.GetOperatorFromContext(ctx)
	assert.False(t, ok)
}
