package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/arenapulse/esports-system/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrDepositNotFound    = errors.New("deposit not found")
	ErrDepositProcessed   = errors.New("deposit already processed")
	ErrDepositUTRConflict = errors.New("transaction reference already submitted")
)

type DepositRepository interface {
	Create(ctx context.Context, exec SQLExecutor, d *models.Deposit) error
	GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.Deposit, error)
	// Transition is guarded on status = 'pending' so a deposit can be
	// approved or rejected exactly once.
	Transition(ctx context.Context, exec SQLExecutor, id uuid.UUID, to models.DepositStatus, adminNote *string) error
	ListPending(ctx context.Context) ([]*models.Deposit, error)
	CountPending(ctx context.Context) (int, error)
}

type postgresDepositRepository struct {
	db *sql.DB
}

func NewPostgresDepositRepository(db *sql.DB) DepositRepository {
	return &postgresDepositRepository{db: db}
}

func (r *postgresDepositRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const depositColumns = `id, profile_id, amount, utr_number, status, admin_note, created_at`

func (r *postgresDepositRepository) Create(ctx context.Context, exec SQLExecutor, d *models.Deposit) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO deposits (id, profile_id, amount, utr_number, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := executor.QueryRowContext(ctx, query,
		d.ID, d.ProfileID, d.Amount, d.UTRNumber, d.Status,
	).Scan(&d.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrDepositUTRConflict
		}
		return err
	}
	return nil
}

func (r *postgresDepositRepository) GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.Deposit, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + depositColumns + ` FROM deposits WHERE id = $1`

	d := &models.Deposit{}
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.ProfileID, &d.Amount, &d.UTRNumber, &d.Status, &d.AdminNote, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDepositNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *postgresDepositRepository) Transition(ctx context.Context, exec SQLExecutor, id uuid.UUID, to models.DepositStatus, adminNote *string) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE deposits
		SET status = $1, admin_note = COALESCE($2, admin_note)
		WHERE id = $3 AND status = 'pending'`

	result, err := executor.ExecContext(ctx, query, to, adminNote, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		if _, getErr := r.GetByID(ctx, executor, id); getErr != nil {
			return getErr
		}
		return ErrDepositProcessed
	}
	return nil
}

func (r *postgresDepositRepository) ListPending(ctx context.Context) ([]*models.Deposit, error) {
	query := `SELECT ` + depositColumns + ` FROM deposits WHERE status = 'pending' ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deposits := make([]*models.Deposit, 0)
	for rows.Next() {
		d := &models.Deposit{}
		if scanErr := rows.Scan(&d.ID, &d.ProfileID, &d.Amount, &d.UTRNumber, &d.Status, &d.AdminNote, &d.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		deposits = append(deposits, d)
	}
	return deposits, rows.Err()
}

func (r *postgresDepositRepository) CountPending(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM deposits WHERE status = 'pending'`).Scan(&count)
	return count, err
}
