package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dtroode/user-registry/internal/logger"
	"github.com/dtroode/user-registry/internal/model"
)

// JournalArchive writes the journal of finished sagas to object storage.
type JournalArchive struct {
	storage model.Storage
	prefix  string
	logger  *logger.Logger
}

func NewJournalArchive(storage model.Storage, prefix string, logger *logger.Logger) *JournalArchive {
	return &JournalArchive{
		storage: storage,
		prefix:  prefix,
		logger:  logger,
	}
}

type archivedTransition struct {
	Seq     int       `json:"seq"`
	Step    string    `json:"step,omitempty"`
	From    string    `json:"from,omitempty"`
	To      string    `json:"to"`
	Next    string    `json:"next,omitempty"`
	Message string    `json:"message,omitempty"`
	At      time.Time `json:"at"`
}

type archivedSaga struct {
	UserID       string               `json:"user_id"`
	Name         string               `json:"name"`
	Country      string               `json:"country"`
	Email        string               `json:"email"`
	Status       string               `json:"status"`
	ErrorMessage string               `json:"error_message,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
	Transitions  []archivedTransition `json:"transitions"`
}

// Key returns the object key of the archived journal of userID.
func (a *JournalArchive) Key(userID string) string {
	return fmt.Sprintf("%s%s.json", a.prefix, userID)
}

// Archive uploads the journal of inst unless it was archived before.
func (a *JournalArchive) Archive(ctx context.Context, inst model.SagaInstance, history []model.SagaTransition) error {
	key := a.Key(inst.UserID)

	exists, err := a.storage.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check archive: %w", err)
	}
	if exists {
		a.logger.Debug("Journal archive: already archived", "user_id", inst.UserID, "key", key)
		return nil
	}

	doc := archivedSaga{
		UserID:       inst.UserID,
		Name:         inst.Command.Name,
		Country:      inst.Command.Country,
		Email:        inst.Command.Email,
		Status:       string(inst.Status),
		ErrorMessage: inst.ErrorMessage,
		CreatedAt:    inst.CreatedAt,
		UpdatedAt:    inst.UpdatedAt,
		Transitions:  make([]archivedTransition, 0, len(history)),
	}
	for _, t := range history {
		doc.Transitions = append(doc.Transitions, archivedTransition{
			Seq:     t.Seq,
			Step:    string(t.Step),
			From:    string(t.From),
			To:      string(t.To),
			Next:    string(t.Next),
			Message: t.Message,
			At:      t.At,
		})
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode journal: %w", err)
	}

	if err := a.storage.Upload(ctx, key, bytes.NewReader(body), int64(len(body)), "application/json"); err != nil {
		return fmt.Errorf("failed to upload journal: %w", err)
	}

	a.logger.Info("Journal archive: saga archived", "user_id", inst.UserID, "key", key, "status", inst.Status)

	return nil
}
