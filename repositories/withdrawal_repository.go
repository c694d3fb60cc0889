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
	ErrWithdrawalNotFound  = errors.New("withdrawal not found")
	ErrWithdrawalProcessed = errors.New("withdrawal already processed")
	ErrWithdrawalInvalidFK = errors.New("invalid profile reference on withdrawal")
)

type WithdrawalRepository interface {
	Create(ctx context.Context, exec SQLExecutor, w *models.Withdrawal) error
	GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.Withdrawal, error)
	// Transition moves a withdrawal from one status to another. The
	// update is guarded on the expected current status so a raced or
	// repeated call reports ErrWithdrawalProcessed.
	Transition(ctx context.Context, exec SQLExecutor, id uuid.UUID, from, to models.WithdrawalStatus, adminNote, payoutID *string) error
	ListByProfile(ctx context.Context, profileID int) ([]*models.Withdrawal, error)
	ListAll(ctx context.Context) ([]*models.Withdrawal, error)
	CountPending(ctx context.Context) (int, error)
}

type postgresWithdrawalRepository struct {
	db *sql.DB
}

func NewPostgresWithdrawalRepository(db *sql.DB) WithdrawalRepository {
	return &postgresWithdrawalRepository{db: db}
}

func (r *postgresWithdrawalRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const withdrawalColumns = `id, profile_id, amount, status, upi_id, bank_details, payout_id, admin_note, requested_at`

func scanWithdrawal(row interface{ Scan(...interface{}) error }, w *models.Withdrawal) error {
	return row.Scan(
		&w.ID, &w.ProfileID, &w.Amount, &w.Status, &w.UPIID,
		&w.BankDetails, &w.PayoutID, &w.AdminNote, &w.RequestedAt,
	)
}

func (r *postgresWithdrawalRepository) Create(ctx context.Context, exec SQLExecutor, w *models.Withdrawal) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO withdrawals (id, profile_id, amount, status, upi_id, bank_details)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING requested_at`

	err := executor.QueryRowContext(ctx, query,
		w.ID, w.ProfileID, w.Amount, w.Status, w.UPIID, w.BankDetails,
	).Scan(&w.RequestedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrWithdrawalInvalidFK
		}
		return err
	}
	return nil
}

func (r *postgresWithdrawalRepository) GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.Withdrawal, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE id = $1`

	w := &models.Withdrawal{}
	err := scanWithdrawal(executor.QueryRowContext(ctx, query, id), w)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWithdrawalNotFound
		}
		return nil, err
	}
	return w, nil
}

func (r *postgresWithdrawalRepository) Transition(ctx context.Context, exec SQLExecutor, id uuid.UUID, from, to models.WithdrawalStatus, adminNote, payoutID *string) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE withdrawals
		SET status = $1,
			admin_note = COALESCE($2, admin_note),
			payout_id = COALESCE($3, payout_id)
		WHERE id = $4 AND status = $5`

	result, err := executor.ExecContext(ctx, query, to, adminNote, payoutID, id, from)
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
		return ErrWithdrawalProcessed
	}
	return nil
}

func (r *postgresWithdrawalRepository) ListByProfile(ctx context.Context, profileID int) ([]*models.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE profile_id = $1 ORDER BY requested_at DESC`
	rows, err := r.db.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWithdrawals(rows)
}

func (r *postgresWithdrawalRepository) ListAll(ctx context.Context) ([]*models.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals ORDER BY requested_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWithdrawals(rows)
}

func collectWithdrawals(rows *sql.Rows) ([]*models.Withdrawal, error) {
	withdrawals := make([]*models.Withdrawal, 0)
	for rows.Next() {
		w := &models.Withdrawal{}
		if err := scanWithdrawal(rows, w); err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, w)
	}
	return withdrawals, rows.Err()
}

func (r *postgresWithdrawalRepository) CountPending(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM withdrawals WHERE status = 'pending'`).Scan(&count)
	return count, err
}
