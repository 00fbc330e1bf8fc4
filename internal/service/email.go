package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/text/cases"

	"github.com/dtroode/user-registry/internal/logger"
	"github.com/dtroode/user-registry/internal/model"
)

// EmailLedger owns the uniqueness invariant of email addresses.
type EmailLedger struct {
	store  model.EmailStore
	logger *logger.Logger
}

func NewEmailLedger(store model.EmailStore, logger *logger.Logger) *EmailLedger {
	return &EmailLedger{
		store:  store,
		logger: logger,
	}
}

// NormalizeAddress trims and case-folds an email address so that it can be
// used as the ledger key.
func NormalizeAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", fmt.Errorf("%w: email address is empty", model.ErrInvalidArgument)
	}
	parsed, err := mail.ParseAddress(address)
	if err != nil || parsed.Address != address {
		return "", fmt.Errorf("%w: malformed email address '%s'", model.ErrInvalidArgument, address)
	}

	return cases.Fold().String(address), nil
}

// Reserve marks address as reserved by ownerID. Reserving an address the same
// owner already holds succeeds without changes.
func (s *EmailLedger) Reserve(ctx context.Context, address, ownerID string) (model.EmailRecord, error) {
	if ownerID == "" {
		return model.EmailRecord{}, fmt.Errorf("%w: owner id is empty", model.ErrInvalidArgument)
	}

	return s.update(ctx, address, func(rec model.EmailRecord) (model.EmailRecord, error) {
		switch rec.Status {
		case model.EmailAvailable:
			rec.Status = model.EmailReserved
			rec.OwnerID = ownerID
			return rec, nil
		case model.EmailReserved, model.EmailConfirmed:
			if rec.OwnerID == ownerID {
				return rec, nil
			}
			return rec, fmt.Errorf("%w: '%s' is owned by another user", model.ErrAlreadyReserved, rec.Address)
		default:
			return rec, fmt.Errorf("%w: unknown status %s", model.ErrInvalidState, rec.Status)
		}
	})
}

// Confirm turns the reservation held by ownerID into a permanent one.
func (s *EmailLedger) Confirm(ctx context.Context, address, ownerID string) (model.EmailRecord, error) {
	return s.update(ctx, address, func(rec model.EmailRecord) (model.EmailRecord, error) {
		if rec.Status == model.EmailAvailable {
			return rec, fmt.Errorf("%w: '%s' is not reserved", model.ErrInvalidState, rec.Address)
		}
		if rec.OwnerID != ownerID {
			return rec, fmt.Errorf("%w: '%s' is not reserved by %s", model.ErrInvalidState, rec.Address, ownerID)
		}
		rec.Status = model.EmailConfirmed
		return rec, nil
	})
}

// UnReserve releases a reservation held by ownerID. Confirmed addresses cannot
// be released. A reservation held by somebody else is left untouched.
func (s *EmailLedger) UnReserve(ctx context.Context, address, ownerID string) (model.EmailRecord, error) {
	return s.update(ctx, address, func(rec model.EmailRecord) (model.EmailRecord, error) {
		switch rec.Status {
		case model.EmailAvailable:
			return rec, nil
		case model.EmailConfirmed:
			return rec, fmt.Errorf("%w: '%s' is confirmed", model.ErrInvalidState, rec.Address)
		}
		if rec.OwnerID != ownerID {
			s.logger.Warn("Email ledger: skipping release of foreign reservation",
				"address", rec.Address,
				"owner_id", rec.OwnerID,
				"requested_by", ownerID)
			return rec, nil
		}
		rec.Status = model.EmailAvailable
		rec.OwnerID = ""
		return rec, nil
	})
}

// GetState returns the record for address, or an AVAILABLE record if the
// address was never reserved.
func (s *EmailLedger) GetState(ctx context.Context, address string) (model.EmailRecord, error) {
	key, err := NormalizeAddress(address)
	if err != nil {
		return model.EmailRecord{}, err
	}

	rec, err := s.store.Get(ctx, key)
	if errors.Is(err, model.ErrNotFound) {
		return model.EmailRecord{Address: key, Status: model.EmailAvailable}, nil
	}
	if err != nil {
		return model.EmailRecord{}, fmt.Errorf("failed to get email record: %w", err)
	}

	return rec, nil
}

func (s *EmailLedger) update(ctx context.Context, address string, fn func(model.EmailRecord) (model.EmailRecord, error)) (model.EmailRecord, error) {
	key, err := NormalizeAddress(address)
	if err != nil {
		return model.EmailRecord{}, err
	}

	rec, err := s.store.Update(ctx, key, func(rec model.EmailRecord) (model.EmailRecord, error) {
		rec.Address = key
		if rec.Status == "" {
			rec.Status = model.EmailAvailable
		}
		return fn(rec)
	})
	if err != nil {
		return model.EmailRecord{}, fmt.Errorf("failed to update email record: %w", err)
	}

	s.logger.Debug("Email ledger: record updated",
		"address", rec.Address,
		"status", rec.Status,
		"owner_id", rec.OwnerID)

	return rec, nil
}
