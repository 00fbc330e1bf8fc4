package handler

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dtroode/user-registry/internal/api/grpc/registryapi"
	"github.com/dtroode/user-registry/internal/logger"
	"github.com/dtroode/user-registry/internal/model"
)

// Admin handles operator endpoints. Requests reach it authenticated.
type Admin struct {
	registryapi.UnimplementedAdminServer
	sagas          SagaService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAdmin creates a new Admin handler.
func NewAdmin(sagas SagaService, contextManager model.ContextManager, logger *logger.Logger) *Admin {
	return &Admin{
		sagas:          sagas,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Resume retries the email reservation of a paused saga.
func (h *Admin) Resume(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	userID, err := requireValue(req, "user id")
	if err != nil {
		return nil, err
	}

	operatorID, _ := h.contextManager.GetOperatorFromContext(ctx)

	inst, err := h.sagas.Resume(ctx, userID)
	if err != nil {
		h.logger.Error("Admin handler: resume failed",
			"user_id", userID,
			"operator_id", operatorID,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Admin handler: saga resumed",
		"user_id", userID,
		"operator_id", operatorID)

	resp, err := instanceToProto(inst)
	if err != nil {
		return nil, handleError(err)
	}
	return resp, nil
}
