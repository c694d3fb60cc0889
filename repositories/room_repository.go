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
	ErrRoomNotFound          = errors.New("room not found")
	ErrRoomAlreadyExists     = errors.New("room already exists for this tournament")
	ErrRoomInvalidTournament = errors.New("invalid tournament reference")
)

type RoomRepository interface {
	Create(ctx context.Context, exec SQLExecutor, room *models.Room) error
	GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.Room, error)
	// GetByIDForUpdate locks the room row for the remainder of the
	// caller's transaction. Every join path takes this lock first so
	// capacity checks and membership writes are serialized per room.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.Room, error)
	GetByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) (*models.Room, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id uuid.UUID, status models.RoomStatus) error
	CountByStatus(ctx context.Context, status models.RoomStatus) (int, error)
}

type postgresRoomRepository struct {
	db *sql.DB
}

func NewPostgresRoomRepository(db *sql.DB) RoomRepository {
	return &postgresRoomRepository{db: db}
}

func (r *postgresRoomRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRoomRepository) Create(ctx context.Context, exec SQLExecutor, room *models.Room) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO rooms (id, tournament_id, owner_id, status, payment_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := executor.QueryRowContext(ctx, query,
		room.ID, room.TournamentID, room.OwnerID, room.Status, room.PaymentType,
	).Scan(&room.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return ErrRoomAlreadyExists
			case "23503":
				return ErrRoomInvalidTournament
			}
		}
		return err
	}
	return nil
}

func (r *postgresRoomRepository) getBy(ctx context.Context, executor SQLExecutor, query string, arg interface{}) (*models.Room, error) {
	room := &models.Room{}
	err := executor.QueryRowContext(ctx, query, arg).Scan(
		&room.ID, &room.TournamentID, &room.OwnerID, &room.Status, &room.PaymentType, &room.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

func (r *postgresRoomRepository) GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.Room, error) {
	query := `
		SELECT id, tournament_id, owner_id, status, payment_type, created_at
		FROM rooms WHERE id = $1`
	return r.getBy(ctx, r.getExecutor(exec), query, id)
}

func (r *postgresRoomRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.Room, error) {
	query := `
		SELECT id, tournament_id, owner_id, status, payment_type, created_at
		FROM rooms WHERE id = $1
		FOR UPDATE`
	return r.getBy(ctx, r.getExecutor(exec), query, id)
}

func (r *postgresRoomRepository) GetByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) (*models.Room, error) {
	query := `
		SELECT id, tournament_id, owner_id, status, payment_type, created_at
		FROM rooms WHERE tournament_id = $1`
	return r.getBy(ctx, r.getExecutor(exec), query, tournamentID)
}

func (r *postgresRoomRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id uuid.UUID, status models.RoomStatus) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE rooms SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRoomNotFound)
}

func (r *postgresRoomRepository) CountByStatus(ctx context.Context, status models.RoomStatus) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms WHERE status = $1`, status).Scan(&count)
	return count, err
}
