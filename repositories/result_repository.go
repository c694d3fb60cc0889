package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/arenapulse/esports-system/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrResultNotFound    = errors.New("room result not found")
	ErrResultAlreadyPaid = errors.New("room result already paid out")
	ErrResultInvalidFK   = errors.New("invalid room or participant reference")
)

type ResultRepository interface {
	// Upsert creates or updates the (room, participant) result. A row
	// whose payout has already been paid is left untouched and
	// reported as ErrResultAlreadyPaid so a paid prize amount stays
	// immutable.
	Upsert(ctx context.Context, exec SQLExecutor, result *models.RoomResult) error
	GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.RoomResult, error)
	ListByRoom(ctx context.Context, exec SQLExecutor, roomID uuid.UUID) ([]*models.RoomResult, error)
	// ListPendingByRoomForUpdate locks the pending result rows for the
	// caller's transaction so concurrent approvals cannot credit the
	// same result twice.
	ListPendingByRoomForUpdate(ctx context.Context, exec SQLExecutor, roomID uuid.UUID) ([]*models.RoomResult, error)
	ListPending(ctx context.Context) ([]*models.RoomResult, error)
	// MarkPaid flips pending -> paid, stamping the approver. Guarded on
	// the current status; an already-terminal result reports
	// ErrResultAlreadyPaid.
	MarkPaid(ctx context.Context, exec SQLExecutor, id uuid.UUID, approvedBy int, approvedAt time.Time) error
	CountPending(ctx context.Context) (int, error)
}

type postgresResultRepository struct {
	db *sql.DB
}

func NewPostgresResultRepository(db *sql.DB) ResultRepository {
	return &postgresResultRepository{db: db}
}

func (r *postgresResultRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const resultColumns = `id, room_id, participant_id, rank, prize_amount, payout_status, approved_by, approved_at, created_at`

func scanResult(row interface{ Scan(...interface{}) error }, res *models.RoomResult) error {
	return row.Scan(
		&res.ID, &res.RoomID, &res.ParticipantID, &res.Rank, &res.PrizeAmount,
		&res.PayoutStatus, &res.ApprovedBy, &res.ApprovedAt, &res.CreatedAt,
	)
}

func (r *postgresResultRepository) Upsert(ctx context.Context, exec SQLExecutor, result *models.RoomResult) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO room_results (id, room_id, participant_id, rank, prize_amount, payout_status, approved_by, approved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (room_id, participant_id) DO UPDATE
		SET rank = EXCLUDED.rank,
			prize_amount = EXCLUDED.prize_amount,
			payout_status = EXCLUDED.payout_status,
			approved_by = EXCLUDED.approved_by,
			approved_at = EXCLUDED.approved_at
		WHERE room_results.payout_status <> 'paid'
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		result.ID, result.RoomID, result.ParticipantID, result.Rank,
		result.PrizeAmount, result.PayoutStatus, result.ApprovedBy, result.ApprovedAt,
	).Scan(&result.ID, &result.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Conflict row exists but is already paid.
			return ErrResultAlreadyPaid
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrResultInvalidFK
		}
		return err
	}
	return nil
}

func (r *postgresResultRepository) GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.RoomResult, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + resultColumns + ` FROM room_results WHERE id = $1`

	res := &models.RoomResult{}
	err := scanResult(executor.QueryRowContext(ctx, query, id), res)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}
	return res, nil
}

func (r *postgresResultRepository) ListByRoom(ctx context.Context, exec SQLExecutor, roomID uuid.UUID) ([]*models.RoomResult, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + resultColumns + ` FROM room_results WHERE room_id = $1 ORDER BY rank ASC`

	rows, err := executor.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectResults(rows)
}

func (r *postgresResultRepository) ListPendingByRoomForUpdate(ctx context.Context, exec SQLExecutor, roomID uuid.UUID) ([]*models.RoomResult, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT ` + resultColumns + `
		FROM room_results
		WHERE room_id = $1 AND payout_status = 'pending'
		ORDER BY rank ASC
		FOR UPDATE`

	rows, err := executor.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectResults(rows)
}

func (r *postgresResultRepository) ListPending(ctx context.Context) ([]*models.RoomResult, error) {
	query := `SELECT ` + resultColumns + ` FROM room_results WHERE payout_status = 'pending' ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectResults(rows)
}

func collectResults(rows *sql.Rows) ([]*models.RoomResult, error) {
	results := make([]*models.RoomResult, 0)
	for rows.Next() {
		res := &models.RoomResult{}
		if err := scanResult(rows, res); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

func (r *postgresResultRepository) MarkPaid(ctx context.Context, exec SQLExecutor, id uuid.UUID, approvedBy int, approvedAt time.Time) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE room_results
		SET payout_status = 'paid', approved_by = $1, approved_at = $2
		WHERE id = $3 AND payout_status = 'pending'`

	result, err := executor.ExecContext(ctx, query, approvedBy, approvedAt, id)
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
		return ErrResultAlreadyPaid
	}
	return nil
}

func (r *postgresResultRepository) CountPending(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM room_results WHERE payout_status = 'pending'`).Scan(&count)
	return count, err
}
