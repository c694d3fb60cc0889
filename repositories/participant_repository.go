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
	ErrParticipantNotFound  = errors.New("room participant not found")
	ErrParticipantConflict  = errors.New("user already joined this room")
	ErrParticipantInvalidFK = errors.New("invalid room or user reference")
)

type ParticipantRepository interface {
	Create(ctx context.Context, exec SQLExecutor, p *models.RoomParticipant) error
	GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.RoomParticipant, error)
	GetByRoomAndUser(ctx context.Context, exec SQLExecutor, roomID uuid.UUID, userID int) (*models.RoomParticipant, error)
	GetByGatewayOrderID(ctx context.Context, exec SQLExecutor, orderID string) (*models.RoomParticipant, error)
	ListByRoom(ctx context.Context, exec SQLExecutor, roomID uuid.UUID) ([]*models.RoomParticipant, error)
	ListByUser(ctx context.Context, userID int) ([]*models.RoomParticipant, error)
	CountByRoom(ctx context.Context, exec SQLExecutor, roomID uuid.UUID) (int, error)
	CountByTeam(ctx context.Context, exec SQLExecutor, roomID uuid.UUID, leaderUserID int) (int, error)
	CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
	CountPaidByRoom(ctx context.Context, exec SQLExecutor, roomID uuid.UUID) (int, error)
	SetGatewayOrder(ctx context.Context, exec SQLExecutor, id uuid.UUID, orderID string) error
	MarkPaid(ctx context.Context, exec SQLExecutor, id uuid.UUID, gatewayPaymentID *string) error
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const participantColumns = `
	id, room_id, user_id, joined_at, paid, team_leader_id,
	is_team_leader, payment_share, gateway_order_id, gateway_payment_id`

func scanParticipant(row interface{ Scan(...interface{}) error }, p *models.RoomParticipant) error {
	return row.Scan(
		&p.ID, &p.RoomID, &p.UserID, &p.JoinedAt, &p.Paid, &p.TeamLeaderID,
		&p.IsTeamLeader, &p.PaymentShare, &p.GatewayOrderID, &p.GatewayPaymentID,
	)
}

func (r *postgresParticipantRepository) Create(ctx context.Context, exec SQLExecutor, p *models.RoomParticipant) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO room_participants (
			id, room_id, user_id, paid, team_leader_id, is_team_leader,
			payment_share, gateway_order_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING joined_at`

	err := executor.QueryRowContext(ctx, query,
		p.ID, p.RoomID, p.UserID, p.Paid, p.TeamLeaderID, p.IsTeamLeader,
		p.PaymentShare, p.GatewayOrderID,
	).Scan(&p.JoinedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return ErrParticipantConflict
			case "23503":
				return ErrParticipantInvalidFK
			}
		}
		return err
	}
	return nil
}

func (r *postgresParticipantRepository) getOne(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) (*models.RoomParticipant, error) {
	p := &models.RoomParticipant{}
	err := scanParticipant(executor.QueryRowContext(ctx, query, args...), p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresParticipantRepository) GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.RoomParticipant, error) {
	query := `SELECT` + participantColumns + ` FROM room_participants WHERE id = $1`
	return r.getOne(ctx, r.getExecutor(exec), query, id)
}

func (r *postgresParticipantRepository) GetByRoomAndUser(ctx context.Context, exec SQLExecutor, roomID uuid.UUID, userID int) (*models.RoomParticipant, error) {
	query := `SELECT` + participantColumns + ` FROM room_participants WHERE room_id = $1 AND user_id = $2`
	return r.getOne(ctx, r.getExecutor(exec), query, roomID, userID)
}

func (r *postgresParticipantRepository) GetByGatewayOrderID(ctx context.Context, exec SQLExecutor, orderID string) (*models.RoomParticipant, error) {
	query := `SELECT` + participantColumns + ` FROM room_participants WHERE gateway_order_id = $1`
	return r.getOne(ctx, r.getExecutor(exec), query, orderID)
}

func (r *postgresParticipantRepository) ListByRoom(ctx context.Context, exec SQLExecutor, roomID uuid.UUID) ([]*models.RoomParticipant, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT p.id, p.room_id, p.user_id, p.joined_at, p.paid, p.team_leader_id,
			p.is_team_leader, p.payment_share, p.gateway_order_id, p.gateway_payment_id,
			u.id, u.username, u.email, u.is_staff, u.created_at
		FROM room_participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.room_id = $1
		ORDER BY p.joined_at ASC`

	rows, err := executor.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]*models.RoomParticipant, 0)
	for rows.Next() {
		p := &models.RoomParticipant{User: &models.User{}}
		if scanErr := rows.Scan(
			&p.ID, &p.RoomID, &p.UserID, &p.JoinedAt, &p.Paid, &p.TeamLeaderID,
			&p.IsTeamLeader, &p.PaymentShare, &p.GatewayOrderID, &p.GatewayPaymentID,
			&p.User.ID, &p.User.Username, &p.User.Email, &p.User.IsStaff, &p.User.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (r *postgresParticipantRepository) ListByUser(ctx context.Context, userID int) ([]*models.RoomParticipant, error) {
	query := `SELECT` + participantColumns + ` FROM room_participants WHERE user_id = $1 ORDER BY joined_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]*models.RoomParticipant, 0)
	for rows.Next() {
		p := &models.RoomParticipant{}
		if scanErr := scanParticipant(rows, p); scanErr != nil {
			return nil, scanErr
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (r *postgresParticipantRepository) CountByRoom(ctx context.Context, exec SQLExecutor, roomID uuid.UUID) (int, error) {
	executor := r.getExecutor(exec)
	var count int
	err := executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM room_participants WHERE room_id = $1`, roomID).Scan(&count)
	return count, err
}

// CountByTeam counts the leader's row plus every teammate linked to it,
// so a room holding several teams sizes each one independently.
func (r *postgresParticipantRepository) CountByTeam(ctx context.Context, exec SQLExecutor, roomID uuid.UUID, leaderUserID int) (int, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT COUNT(*)
		FROM room_participants
		WHERE room_id = $1 AND (user_id = $2 OR team_leader_id = $2)`
	var count int
	err := executor.QueryRowContext(ctx, query, roomID, leaderUserID).Scan(&count)
	return count, err
}

func (r *postgresParticipantRepository) CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT COUNT(*)
		FROM room_participants p
		JOIN rooms r ON r.id = p.room_id
		WHERE r.tournament_id = $1`
	var count int
	err := executor.QueryRowContext(ctx, query, tournamentID).Scan(&count)
	return count, err
}

func (r *postgresParticipantRepository) CountPaidByRoom(ctx context.Context, exec SQLExecutor, roomID uuid.UUID) (int, error) {
	executor := r.getExecutor(exec)
	var count int
	err := executor.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM room_participants WHERE room_id = $1 AND paid = TRUE`, roomID,
	).Scan(&count)
	return count, err
}

func (r *postgresParticipantRepository) SetGatewayOrder(ctx context.Context, exec SQLExecutor, id uuid.UUID, orderID string) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE room_participants SET gateway_order_id = $1 WHERE id = $2`, orderID, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) MarkPaid(ctx context.Context, exec SQLExecutor, id uuid.UUID, gatewayPaymentID *string) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE room_participants SET paid = TRUE, gateway_payment_id = COALESCE($1, gateway_payment_id) WHERE id = $2`,
		gatewayPaymentID, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}
