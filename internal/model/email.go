package model

import "context"

// ReservationStatus is the state of an email ledger record.
type ReservationStatus string

const (
	EmailAvailable ReservationStatus = "AVAILABLE"
	EmailReserved  ReservationStatus = "RESERVED"
	EmailConfirmed ReservationStatus = "CONFIRMED"
)

// EmailRecord tracks ownership of one normalized email address.
type EmailRecord struct {
	Address string
	Status  ReservationStatus
	OwnerID string
}

// EmailStore persists email ledger records.
type EmailStore interface {
	// Get returns the record or ErrNotFound.
	Get(ctx context.Context, address string) (EmailRecord, error)
	// Update runs fn while holding the writer lock for address and stores the
	// returned record. fn receives an AVAILABLE record when none is stored.
	// An error from fn aborts the update and is returned as is.
	Update(ctx context.Context, address string, fn func(EmailRecord) (EmailRecord, error)) (EmailRecord, error)
}
