package context

import (
	"context"

	"google.golang.org/grpc/metadata"
)

// operatorKey is the metadata key used to store the authenticated operator.
const (
	operatorKey string = "x-operator-id"
)

// Manager stores the authenticated operator in incoming gRPC metadata.
type Manager struct{}

// NewManager creates a new gRPC context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetOperatorToContext sets the operator ID in the incoming metadata of ctx,
// replacing any value sent by the client.
func (m *Manager) SetOperatorToContext(ctx context.Context, operatorID string) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		md = metadata.New(map[string]string{operatorKey: operatorID})
	} else {
		md = md.Copy()
		md.Set(operatorKey, operatorID)
	}

	return metadata.NewIncomingContext(ctx, md)
}

// GetOperatorFromContext retrieves the operator ID from incoming metadata.
func (m *Manager) GetOperatorFromContext(ctx context.Context) (string, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", false
	}

	ids := md.Get(operatorKey)
	if len(ids) == 0 || ids[0] == "" {
		return "", false
	}

	return ids[0], true
}
