package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/user-registry/internal/model"
)

var _ model.EmailStore = (*EmailRepository)(nil)

type EmailRepository struct {
	db *Connection
}

func NewEmailRepository(db *Connection) *EmailRepository {
	return &EmailRepository{
		db: db,
	}
}

func (r *EmailRepository) Get(ctx context.Context, address string) (model.EmailRecord, error) {
	query := `SELECT address, status, COALESCE(owner_id, '') FROM email_records WHERE address = $1`

	var rec model.EmailRecord
	err := r.db.QueryRow(ctx, query, address).Scan(&rec.Address, &rec.Status, &rec.OwnerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.EmailRecord{}, model.ErrNotFound
		}
		return model.EmailRecord{}, fmt.Errorf("failed to get email record: %w", err)
	}

	return rec, nil
}

// Update locks the row of address for the duration of fn. A missing row is
// inserted as AVAILABLE first so that concurrent writers queue on the same lock.
func (r *EmailRepository) Update(ctx context.Context, address string, fn func(model.EmailRecord) (model.EmailRecord, error)) (model.EmailRecord, error) {
	var updated model.EmailRecord

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO email_records (address, status) VALUES ($1, $2) ON CONFLICT (address) DO NOTHING`,
			address, model.EmailAvailable)
		if err != nil {
			return fmt.Errorf("failed to insert email record: %w", err)
		}

		var current model.EmailRecord
		err = tx.QueryRow(ctx,
			`SELECT address, status, COALESCE(owner_id, '') FROM email_records WHERE address = $1 FOR UPDATE`,
			address,
		).Scan(&current.Address, &current.Status, &current.OwnerID)
		if err != nil {
			return fmt.Errorf("failed to lock email record: %w", err)
		}

		updated, err = fn(current)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE email_records SET status = $2, owner_id = NULLIF($3, ''), updated_at = now() WHERE address = $1`,
			address, updated.Status, updated.OwnerID)
		if err != nil {
			return fmt.Errorf("failed to update email record: %w", err)
		}

		return nil
	})
	if err != nil {
		return model.EmailRecord{}, err
	}

	updated.Address = address
	return updated, nil
}
