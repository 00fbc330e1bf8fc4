package middleware

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/user-registry/internal/logger"
	"github.com/dtroode/user-registry/internal/model"
)

// TokenParser resolves the operator ID from a bearer token.
type TokenParser interface {
	ParseAccessToken(token string) (string, error)
}

// Authenticate validates bearer tokens and injects the operator into context.
type Authenticate struct {
	tokens         TokenParser
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens TokenParser, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, contextManager: contextManager, logger: logger}
}

// AuthFunc parses the authorization header, validates the token and returns a
// context carrying the operator ID.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	var tokenString string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if authHeaders := md.Get("authorization"); len(authHeaders) > 0 {
			tokenString = strings.TrimPrefix(authHeaders[0], "Bearer ")
		}
	}

	operatorID, err := m.authenticate(tokenString)
	if err != nil {
		m.logger.Warn("Authenticate: request rejected", "error", err)
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	return m.contextManager.SetOperatorToContext(ctx, operatorID), nil
}

func (m *Authenticate) authenticate(tokenString string) (string, error) {
	if tokenString == "" {
		return "", model.ErrMissingToken
	}

	operatorID, err := m.tokens.ParseAccessToken(tokenString)
	if err != nil || operatorID == "" {
		return "", model.ErrInvalidToken
	}

	return operatorID, nil
}
