package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/user-registry/internal/model"
)

var _ model.SagaStore = (*SagaRepository)(nil)

// SagaRepository stores saga instances, their pending task and their journal.
// Every state change and the matching task change share one transaction.
type SagaRepository struct {
	db *Connection
}

func NewSagaRepository(db *Connection) *SagaRepository {
	return &SagaRepository{
		db: db,
	}
}

const sagaColumns = `user_id, name, country, email, status, error_message, created_at, updated_at`

func scanInstance(row pgx.Row) (model.SagaInstance, error) {
	var inst model.SagaInstance
	err := row.Scan(
		&inst.UserID, &inst.Command.Name, &inst.Command.Country, &inst.Command.Email,
		&inst.Status, &inst.ErrorMessage, &inst.CreatedAt, &inst.UpdatedAt,
	)
	return inst, err
}

func (r *SagaRepository) Create(ctx context.Context, inst model.SagaInstance, first model.SagaStep) (model.SagaInstance, bool, error) {
	var (
		stored  model.SagaInstance
		created bool
	)

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		query := `INSERT INTO saga_instances (` + sagaColumns + `)
				  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				  ON CONFLICT (user_id) DO NOTHING`

		tag, err := tx.Exec(ctx, query,
			inst.UserID, inst.Command.Name, inst.Command.Country, inst.Command.Email,
			inst.Status, inst.ErrorMessage, inst.CreatedAt, inst.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert saga instance: %w", err)
		}

		if tag.RowsAffected() == 0 {
			stored, err = scanInstance(tx.QueryRow(ctx,
				`SELECT `+sagaColumns+` FROM saga_instances WHERE user_id = $1`, inst.UserID))
			if err != nil {
				return fmt.Errorf("failed to get existing saga instance: %w", err)
			}
			return nil
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO saga_tasks (instance_id, step, attempt, run_at) VALUES ($1, $2, 1, $3)`,
			inst.UserID, first, inst.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to schedule first step: %w", err)
		}

		err = appendTransition(ctx, tx, model.SagaTransition{
			InstanceID: inst.UserID,
			To:         inst.Status,
			Next:       first,
			Message:    "started",
			At:         inst.CreatedAt,
		})
		if err != nil {
			return err
		}

		stored, created = inst, true
		return nil
	})
	if err != nil {
		return model.SagaInstance{}, false, err
	}

	return stored, created, nil
}

func (r *SagaRepository) Get(ctx context.Context, id string) (model.SagaInstance, error) {
	inst, err := scanInstance(r.db.QueryRow(ctx,
		`SELECT `+sagaColumns+` FROM saga_instances WHERE user_id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SagaInstance{}, model.ErrNotFound
		}
		return model.SagaInstance{}, fmt.Errorf("failed to get saga instance: %w", err)
	}

	return inst, nil
}

// Claim leases due tasks with SKIP LOCKED so that concurrent runners never
// pick the same task. Expired leases are due again and count as an attempt.
func (r *SagaRepository) Claim(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]model.SagaTask, error) {
	query := `WITH due AS (
				  SELECT instance_id FROM saga_tasks
				  WHERE NOT parked AND run_at <= $1
				  ORDER BY run_at
				  LIMIT $2
				  FOR UPDATE SKIP LOCKED
			  )
			  UPDATE saga_tasks t
				  SET attempt = t.attempt + CASE WHEN t.lease_id IS NOT NULL THEN 1 ELSE 0 END,
				      lease_id = $3, run_at = $4
			  FROM due WHERE t.instance_id = due.instance_id
			  RETURNING t.instance_id, t.step, t.attempt, t.run_at, t.lease_id, t.parked, t.last_error`

	rows, err := r.db.Query(ctx, query, now, limit, uuid.NewString(), now.Add(lease))
	if err != nil {
		return nil, fmt.Errorf("failed to claim saga tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.SagaTask
	for rows.Next() {
		var t model.SagaTask
		if err := rows.Scan(&t.InstanceID, &t.Step, &t.Attempt, &t.RunAt, &t.LeaseID, &t.Parked, &t.LastError); err != nil {
			return nil, fmt.Errorf("failed to scan saga task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate saga tasks: %w", err)
	}

	return tasks, nil
}

func (r *SagaRepository) Commit(ctx context.Context, task model.SagaTask, from model.SagaStatus, decision model.SagaDecision) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`DELETE FROM saga_tasks WHERE instance_id = $1 AND step = $2 AND lease_id = $3`,
			task.InstanceID, task.Step, task.LeaseID)
		if err != nil {
			return fmt.Errorf("failed to complete saga task: %w", err)
		}
		if tag.RowsAffected() != 1 {
			return model.ErrStaleTask
		}

		next := decision.Instance
		tag, err = tx.Exec(ctx,
			`UPDATE saga_instances SET status = $3, error_message = $4, updated_at = $5
			 WHERE user_id = $1 AND status = $2`,
			task.InstanceID, from, next.Status, next.ErrorMessage, next.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to update saga instance: %w", err)
		}
		if tag.RowsAffected() != 1 {
			return model.ErrStaleTask
		}

		if decision.Next != "" {
			_, err = tx.Exec(ctx,
				`INSERT INTO saga_tasks (instance_id, step, attempt, run_at) VALUES ($1, $2, 1, $3)`,
				task.InstanceID, decision.Next, next.UpdatedAt)
			if err != nil {
				return fmt.Errorf("failed to schedule next step: %w", err)
			}
		}

		return appendTransition(ctx, tx, model.SagaTransition{
			InstanceID: task.InstanceID,
			Step:       task.Step,
			From:       from,
			To:         next.Status,
			Next:       decision.Next,
			Message:    decision.Message,
			At:         next.UpdatedAt,
		})
	})
}

func (r *SagaRepository) Retry(ctx context.Context, task model.SagaTask, attempt int, runAt time.Time) error {
	query := `UPDATE saga_tasks SET attempt = $4, run_at = $5, lease_id = NULL
			  WHERE instance_id = $1 AND step = $2 AND lease_id = $3`

	tag, err := r.db.Exec(ctx, query, task.InstanceID, task.Step, task.LeaseID, attempt, runAt)
	if err != nil {
		return fmt.Errorf("failed to reschedule saga task: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return model.ErrStaleTask
	}

	return nil
}

func (r *SagaRepository) Park(ctx context.Context, task model.SagaTask, reason string) error {
	query := `UPDATE saga_tasks SET parked = TRUE, last_error = $4, lease_id = NULL
			  WHERE instance_id = $1 AND step = $2 AND lease_id = $3`

	tag, err := r.db.Exec(ctx, query, task.InstanceID, task.Step, task.LeaseID, reason)
	if err != nil {
		return fmt.Errorf("failed to park saga task: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return model.ErrStaleTask
	}

	return nil
}

func (r *SagaRepository) Reschedule(ctx context.Context, id string, from, to model.SagaStatus, step model.SagaStep) (model.SagaInstance, error) {
	var inst model.SagaInstance

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		inst, err = scanInstance(tx.QueryRow(ctx,
			`UPDATE saga_instances SET status = $3, error_message = '', updated_at = now()
			 WHERE user_id = $1 AND status = $2
			 RETURNING `+sagaColumns,
			id, from, to))
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM saga_instances WHERE user_id = $1)`, id).Scan(&exists); err != nil {
				return fmt.Errorf("failed to check saga instance: %w", err)
			}
			if !exists {
				return model.ErrNotFound
			}
			return model.ErrInvalidState
		}
		if err != nil {
			return fmt.Errorf("failed to update saga instance: %w", err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO saga_tasks (instance_id, step, attempt, run_at) VALUES ($1, $2, 1, $3)
			 ON CONFLICT (instance_id) DO UPDATE
			 SET step = EXCLUDED.step, attempt = 1, run_at = EXCLUDED.run_at, lease_id = NULL, parked = FALSE, last_error = ''`,
			id, step, inst.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to schedule step: %w", err)
		}

		return appendTransition(ctx, tx, model.SagaTransition{
			InstanceID: id,
			From:       from,
			To:         to,
			Next:       step,
			Message:    "resumed",
			At:         inst.UpdatedAt,
		})
	})
	if err != nil {
		return model.SagaInstance{}, err
	}

	return inst, nil
}

func (r *SagaRepository) History(ctx context.Context, id string) ([]model.SagaTransition, error) {
	query := `SELECT instance_id, seq, step, from_status, to_status, next_step, message, at
			  FROM saga_transitions WHERE instance_id = $1 ORDER BY seq`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query saga transitions: %w", err)
	}
	defer rows.Close()

	var history []model.SagaTransition
	for rows.Next() {
		var t model.SagaTransition
		if err := rows.Scan(&t.InstanceID, &t.Seq, &t.Step, &t.From, &t.To, &t.Next, &t.Message, &t.At); err != nil {
			return nil, fmt.Errorf("failed to scan saga transition: %w", err)
		}
		history = append(history, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate saga transitions: %w", err)
	}

	return history, nil
}

func appendTransition(ctx context.Context, tx pgx.Tx, t model.SagaTransition) error {
	query := `INSERT INTO saga_transitions (instance_id, seq, step, from_status, to_status, next_step, message, at)
			  SELECT $1::text, COALESCE(MAX(seq), 0) + 1, $2::text, $3::text, $4::text, $5::text, $6::text, $7::timestamptz
			  FROM saga_transitions WHERE instance_id = $1::text`

	_, err := tx.Exec(ctx, query, t.InstanceID, t.Step, t.From, t.To, t.Next, t.Message, t.At)
	if err != nil {
		return fmt.Errorf("failed to append saga transition: %w", err)
	}

	return nil
}
