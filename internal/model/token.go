package model

import "time"

// TokenManager issues and validates operator access tokens.
type TokenManager interface {
	GenerateAccessToken(operatorID string, ttl time.Duration) (string, error)
	ParseAccessToken(token string) (string, error)
}
