package handler

import (
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/user-registry/internal/model"
)

func stringField(s *structpb.Struct, key string) string {
	return strings.TrimSpace(s.GetFields()[key].GetStringValue())
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func instanceToProto(inst model.SagaInstance) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"user_id":       inst.UserID,
		"name":          inst.Command.Name,
		"country":       inst.Command.Country,
		"email":         inst.Command.Email,
		"status":        string(inst.Status),
		"error_message": inst.ErrorMessage,
		"created_at":    formatTime(inst.CreatedAt),
		"updated_at":    formatTime(inst.UpdatedAt),
	})
}

func userToProto(user model.User) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"user_id": user.ID,
		"name":    user.Name,
		"country": user.Country,
		"email":   user.Email,
	})
}

func emailToProto(rec model.EmailRecord) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"address":  rec.Address,
		"status":   string(rec.Status),
		"owner_id": rec.OwnerID,
	})
}

func historyToProto(userID string, history []model.SagaTransition) (*structpb.Struct, error) {
	transitions := make([]interface{}, 0, len(history))
	for _, t := range history {
		transitions = append(transitions, map[string]interface{}{
			"seq":     t.Seq,
			"step":    string(t.Step),
			"from":    string(t.From),
			"to":      string(t.To),
			"next":    string(t.Next),
			"message": t.Message,
			"at":      formatTime(t.At),
		})
	}

	return structpb.NewStruct(map[string]interface{}{
		"user_id":     userID,
		"transitions": transitions,
	})
}
