package handler

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dtroode/user-registry/internal/api/grpc/registryapi"
	"github.com/dtroode/user-registry/internal/logger"
	"github.com/dtroode/user-registry/internal/model"
)

// SagaService defines the user creation saga operations exposed over gRPC.
type SagaService interface {
	Start(ctx context.Context, userID string, cmd model.CreateUserCommand) (model.SagaInstance, error)
	GetState(ctx context.Context, userID string) (model.SagaInstance, error)
	GetHistory(ctx context.Context, userID string) ([]model.SagaTransition, error)
	Resume(ctx context.Context, userID string) (model.SagaInstance, error)
}

// UserService defines read access to the user aggregate.
type UserService interface {
	GetState(ctx context.Context, userID string) (model.User, error)
}

// EmailService defines read access to the email ledger.
type EmailService interface {
	GetState(ctx context.Context, address string) (model.EmailRecord, error)
}

// Registry handles the public saga endpoints.
type Registry struct {
	registryapi.UnimplementedRegistryServer
	sagas  SagaService
	users  UserService
	emails EmailService
	logger *logger.Logger
}

// NewRegistry creates a new Registry handler.
func NewRegistry(sagas SagaService, users UserService, emails EmailService, logger *logger.Logger) *Registry {
	return &Registry{
		sagas:  sagas,
		users:  users,
		emails: emails,
		logger: logger,
	}
}

// Start begins a user creation saga. Starting an existing saga returns its
// current state.
func (h *Registry) Start(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID := stringField(req, "user_id")
	cmd := model.CreateUserCommand{
		Name:    stringField(req, "name"),
		Country: stringField(req, "country"),
		Email:   stringField(req, "email"),
	}

	h.logger.Debug("Registry handler: processing start request",
		"user_id", userID,
		"email", cmd.Email)

	inst, err := h.sagas.Start(ctx, userID, cmd)
	if err != nil {
		h.logger.Error("Registry handler: start failed",
			"user_id", userID,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Registry handler: saga started",
		"user_id", inst.UserID,
		"status", inst.Status)

	return h.encode(instanceToProto(inst))
}

// GetState returns the current saga state.
func (h *Registry) GetState(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	userID, err := requireValue(req, "user id")
	if err != nil {
		return nil, err
	}

	inst, err := h.sagas.GetState(ctx, userID)
	if err != nil {
		h.logger.Debug("Registry handler: get state failed", "user_id", userID, "error", err.Error())
		return nil, handleError(err)
	}

	return h.encode(instanceToProto(inst))
}

// GetUserInfo returns the user created by a saga.
func (h *Registry) GetUserInfo(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	userID, err := requireValue(req, "user id")
	if err != nil {
		return nil, err
	}

	user, err := h.users.GetState(ctx, userID)
	if err != nil {
		h.logger.Debug("Registry handler: get user failed", "user_id", userID, "error", err.Error())
		return nil, handleError(err)
	}

	return h.encode(userToProto(user))
}

// GetEmailInfo returns the ledger record of an address.
func (h *Registry) GetEmailInfo(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	address, err := requireValue(req, "email address")
	if err != nil {
		return nil, err
	}

	rec, err := h.emails.GetState(ctx, address)
	if err != nil {
		h.logger.Debug("Registry handler: get email failed", "address", address, "error", err.Error())
		return nil, handleError(err)
	}

	return h.encode(emailToProto(rec))
}

// GetHistory returns the committed transitions of a saga.
func (h *Registry) GetHistory(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	userID, err := requireValue(req, "user id")
	if err != nil {
		return nil, err
	}

	history, err := h.sagas.GetHistory(ctx, userID)
	if err != nil {
		h.logger.Debug("Registry handler: get history failed", "user_id", userID, "error", err.Error())
		return nil, handleError(err)
	}

	return h.encode(historyToProto(userID, history))
}

func (h *Registry) encode(resp *structpb.Struct, err error) (*structpb.Struct, error) {
	if err != nil {
		h.logger.Error("Registry handler: failed to encode response", "error", err.Error())
		return nil, status.Error(codes.Internal, "internal server error")
	}
	return resp, nil
}

func requireValue(req *wrapperspb.StringValue, what string) (string, error) {
	value := strings.TrimSpace(req.GetValue())
	if value == "" {
		return "", status.Errorf(codes.InvalidArgument, "%s is required", what)
	}
	return value, nil
}
