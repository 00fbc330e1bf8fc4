package model

import (
	"context"
	"net"
)

// SecurityLayer opens the listener the API is served on, plain or TLS.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is a network frontend of the registry.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}

// Worker is a background loop that runs until its context is cancelled.
type Worker interface {
	Run(ctx context.Context) error
}
