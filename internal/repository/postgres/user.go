package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dtroode/user-registry/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// userPayload is the JSON body of a user event.
type userPayload struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	Email   string `json:"email"`
}

func (r *UserRepository) Append(ctx context.Context, event model.UserEvent) (bool, error) {
	payload, err := json.Marshal(userPayload{Name: event.Name, Country: event.Country, Email: event.Email})
	if err != nil {
		return false, fmt.Errorf("failed to encode user event: %w", err)
	}

	query := `INSERT INTO user_events (id, user_id, version, event_type, payload, occurred_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (user_id, version) DO NOTHING`

	tag, err := r.db.Exec(ctx, query,
		event.ID, event.UserID, event.Version, event.Type, payload, event.OccurredAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to append user event: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *UserRepository) Events(ctx context.Context, userID string) ([]model.UserEvent, error) {
	query := `SELECT id, user_id, version, event_type, payload, occurred_at
			  FROM user_events WHERE user_id = $1 ORDER BY version`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user events: %w", err)
	}
	defer rows.Close()

	var events []model.UserEvent
	for rows.Next() {
		var (
			e       model.UserEvent
			payload []byte
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Version, &e.Type, &payload, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan user event: %w", err)
		}

		var p userPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("failed to decode user event %s: %w", e.ID, err)
		}
		e.Name, e.Country, e.Email = p.Name, p.Country, p.Email

		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user events: %w", err)
	}

	return events, nil
}
