package model

import "context"

// ContextManager carries the authenticated operator through a request.
type ContextManager interface {
	SetOperatorToContext(ctx context.Context, operatorID string) context.Context
	GetOperatorFromContext(ctx context.Context) (string, bool)
}
