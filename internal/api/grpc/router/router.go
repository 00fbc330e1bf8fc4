package router

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/dtroode/user-registry/internal/api/grpc/handler"
	"github.com/dtroode/user-registry/internal/api/grpc/middleware"
	"github.com/dtroode/user-registry/internal/api/grpc/registryapi"
	"github.com/dtroode/user-registry/internal/logger"
	"github.com/dtroode/user-registry/internal/model"
)

// Router represents a gRPC router for user registry operations.
// It manages gRPC service registration and middleware configuration.
type Router struct {
	sagas          handler.SagaService
	users          handler.UserService
	emails         handler.EmailService
	tokens         middleware.TokenParser
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates new gRPC Router instance.
func New(
	sagas handler.SagaService,
	users handler.UserService,
	emails handler.EmailService,
	tokens middleware.TokenParser,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		sagas:          sagas,
		users:          users,
		emails:         emails,
		tokens:         tokens,
		contextManager: contextManager,
		logger:         logger,
	}
}

// requiresAuth matches the operator methods.
func requiresAuth(_ context.Context, c interceptors.CallMeta) bool {
	return strings.HasPrefix(c.FullMethod(), "/"+registryapi.AdminServiceName+"/")
}

// Register registers all gRPC services and middleware.
// Operator methods require a bearer token, registry methods are public.
//
// Returns the configured gRPC server instance.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokens, r.contextManager, r.logger)
	recoverer := recovery.WithRecoveryHandler(func(p any) error {
		r.logger.Error("gRPC handler panic", "panic", p)
		return status.Error(codes.Internal, "internal server error")
	})

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			recovery.UnaryServerInterceptor(recoverer),
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
		grpc.ChainStreamInterceptor(
			recovery.StreamServerInterceptor(recoverer),
			selector.StreamServerInterceptor(
				auth.StreamServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
	)
	r.registerRegistryRoutes(s)
	r.registerAdminRoutes(s)
	r.registerHealth(s)

	return s
}

func (r *Router) registerRegistryRoutes(server *grpc.Server) {
	registryHandler := handler.NewRegistry(r.sagas, r.users, r.emails, r.logger)
	registryapi.RegisterRegistryServer(server, registryHandler)
}

func (r *Router) registerAdminRoutes(server *grpc.Server) {
	adminHandler := handler.NewAdmin(r.sagas, r.contextManager, r.logger)
	registryapi.RegisterAdminServer(server, adminHandler)
}

func (r *Router) registerHealth(server *grpc.Server) {
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(registryapi.RegistryServiceName, healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(registryapi.AdminServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(server, healthServer)
}
