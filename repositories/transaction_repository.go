package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/arenapulse/esports-system/models"
	"github.com/lib/pq"
)

var ErrTransactionInvalidFK = errors.New("invalid profile reference on transaction")

// TransactionRepository is append-only: ledger entries are created and
// listed, never updated or deleted.
type TransactionRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tx *models.WalletTransaction) error
	ListByProfile(ctx context.Context, profileID int, limit, offset int) ([]*models.WalletTransaction, error)
}

type postgresTransactionRepository struct {
	db *sql.DB
}

func NewPostgresTransactionRepository(db *sql.DB) TransactionRepository {
	return &postgresTransactionRepository{db: db}
}

func (r *postgresTransactionRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTransactionRepository) Create(ctx context.Context, exec SQLExecutor, tx *models.WalletTransaction) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO wallet_transactions (id, profile_id, tx_type, amount, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := executor.QueryRowContext(ctx, query,
		tx.ID, tx.ProfileID, tx.Type, tx.Amount, tx.Note,
	).Scan(&tx.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrTransactionInvalidFK
		}
		return err
	}
	return nil
}

func (r *postgresTransactionRepository) ListByProfile(ctx context.Context, profileID int, limit, offset int) ([]*models.WalletTransaction, error) {
	query := `
		SELECT id, profile_id, tx_type, amount, note, created_at
		FROM wallet_transactions
		WHERE profile_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, query, profileID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]*models.WalletTransaction, 0)
	for rows.Next() {
		tx := &models.WalletTransaction{}
		if scanErr := rows.Scan(&tx.ID, &tx.ProfileID, &tx.Type, &tx.Amount, &tx.Note, &tx.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}
