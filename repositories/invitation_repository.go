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
	ErrInvitationNotFound  = errors.New("team invitation not found")
	ErrInvitationProcessed = errors.New("team invitation already processed")
	ErrInvitationInvalidFK = errors.New("invalid room or inviter reference")
)

type InvitationRepository interface {
	Create(ctx context.Context, exec SQLExecutor, inv *models.TeamInvitation) error
	GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.TeamInvitation, error)
	// Resolve moves a pending invitation to a terminal status. The
	// update is guarded on status = 'pending' so a raced second call
	// reports ErrInvitationProcessed instead of overwriting.
	Resolve(ctx context.Context, exec SQLExecutor, id uuid.UUID, status models.InvitationStatus, inviteeUserID *int) error
	ListPendingByGameIDs(ctx context.Context, gameIDs []string) ([]*models.TeamInvitation, error)
	ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*models.TeamInvitation, error)
	ExpireOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type postgresInvitationRepository struct {
	db *sql.DB
}

func NewPostgresInvitationRepository(db *sql.DB) InvitationRepository {
	return &postgresInvitationRepository{db: db}
}

func (r *postgresInvitationRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const invitationColumns = `id, room_id, inviter_id, invitee_game_id, invitee_user_id, status, created_at`

func scanInvitation(row interface{ Scan(...interface{}) error }, inv *models.TeamInvitation) error {
	return row.Scan(
		&inv.ID, &inv.RoomID, &inv.InviterID, &inv.InviteeGameID,
		&inv.InviteeUserID, &inv.Status, &inv.CreatedAt,
	)
}

func (r *postgresInvitationRepository) Create(ctx context.Context, exec SQLExecutor, inv *models.TeamInvitation) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO team_invitations (id, room_id, inviter_id, invitee_game_id, invitee_user_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := executor.QueryRowContext(ctx, query,
		inv.ID, inv.RoomID, inv.InviterID, inv.InviteeGameID, inv.InviteeUserID, inv.Status,
	).Scan(&inv.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrInvitationInvalidFK
		}
		return err
	}
	return nil
}

func (r *postgresInvitationRepository) GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.TeamInvitation, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + invitationColumns + ` FROM team_invitations WHERE id = $1`

	inv := &models.TeamInvitation{}
	err := scanInvitation(executor.QueryRowContext(ctx, query, id), inv)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *postgresInvitationRepository) Resolve(ctx context.Context, exec SQLExecutor, id uuid.UUID, status models.InvitationStatus, inviteeUserID *int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE team_invitations
		SET status = $1, invitee_user_id = COALESCE($2, invitee_user_id)
		WHERE id = $3 AND status = 'pending'`

	result, err := executor.ExecContext(ctx, query, status, inviteeUserID, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		// Either the id is unknown or the invitation left pending.
		if _, getErr := r.GetByID(ctx, executor, id); getErr != nil {
			return getErr
		}
		return ErrInvitationProcessed
	}
	return nil
}

func (r *postgresInvitationRepository) ListPendingByGameIDs(ctx context.Context, gameIDs []string) ([]*models.TeamInvitation, error) {
	if len(gameIDs) == 0 {
		return []*models.TeamInvitation{}, nil
	}
	query := `
		SELECT ` + invitationColumns + `
		FROM team_invitations
		WHERE status = 'pending' AND invitee_game_id = ANY($1)
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(gameIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInvitations(rows)
}

func (r *postgresInvitationRepository) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*models.TeamInvitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM team_invitations WHERE room_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInvitations(rows)
}

func collectInvitations(rows *sql.Rows) ([]*models.TeamInvitation, error) {
	invitations := make([]*models.TeamInvitation, 0)
	for rows.Next() {
		inv := &models.TeamInvitation{}
		if err := scanInvitation(rows, inv); err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

func (r *postgresInvitationRepository) ExpireOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE team_invitations SET status = 'expired' WHERE status = 'pending' AND created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
