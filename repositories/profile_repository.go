package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/arenapulse/esports-system/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrProfileExists       = errors.New("profile already exists for this user")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
)

type ProfileRepository interface {
	Create(ctx context.Context, exec SQLExecutor, p *models.Profile) error
	GetByUserID(ctx context.Context, exec SQLExecutor, userID int) (*models.Profile, error)
	GetByPlayerUUID(ctx context.Context, exec SQLExecutor, playerUUID uuid.UUID) (*models.Profile, error)
	// GetByAnyGameID matches an in-game identifier against every
	// identifier column a player can register.
	GetByAnyGameID(ctx context.Context, exec SQLExecutor, gameID string) (*models.Profile, error)
	IdentifierInUse(ctx context.Context, column, value string, excludeUserID int) (bool, error)
	Update(ctx context.Context, exec SQLExecutor, p *models.Profile) error
	UpdateVerification(ctx context.Context, exec SQLExecutor, profileID int, section models.VerificationSection, status models.VerificationStatus, reason *string) error
	SetKYCDocumentKey(ctx context.Context, profileID int, key string) error
	ListPendingVerifications(ctx context.Context) ([]*models.Profile, error)
	// AddToBalance applies a signed balance delta. For debits the
	// update is guarded on balance >= amount so the check and the
	// write are one statement; a guard miss reports
	// ErrInsufficientBalance.
	AddToBalance(ctx context.Context, exec SQLExecutor, profileID int, delta decimal.Decimal) (decimal.Decimal, error)
	GetBalance(ctx context.Context, exec SQLExecutor, profileID int) (decimal.Decimal, error)
	SumBalances(ctx context.Context) (decimal.Decimal, error)
}

type postgresProfileRepository struct {
	db *sql.DB
}

func NewPostgresProfileRepository(db *sql.DB) ProfileRepository {
	return &postgresProfileRepository{db: db}
}

func (r *postgresProfileRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const profileColumns = `
	id, user_id, player_uuid, balance,
	bgmi_id, freefire_id, fifa_id, game_id,
	game_id_verified, game_id_status, game_id_rejection_reason,
	kyc_status, kyc_full_name, kyc_id_type, kyc_id_number, kyc_document_key, kyc_rejection_reason,
	bank_name, account_number, ifsc_code, upi_id,
	payment_details_status, payment_details_rejection_reason, created_at`

func scanProfile(row interface{ Scan(...interface{}) error }, p *models.Profile) error {
	return row.Scan(
		&p.ID, &p.UserID, &p.PlayerUUID, &p.Balance,
		&p.BGMIID, &p.FreeFireID, &p.FIFAID, &p.GameID,
		&p.GameIDVerified, &p.GameIDStatus, &p.GameIDRejectionReason,
		&p.KYCStatus, &p.KYCFullName, &p.KYCIDType, &p.KYCIDNumber, &p.KYCDocumentKey, &p.KYCRejectionReason,
		&p.BankName, &p.AccountNumber, &p.IFSCCode, &p.UPIID,
		&p.PaymentDetailsStatus, &p.PaymentDetailsRejectionReason, &p.CreatedAt,
	)
}

func (r *postgresProfileRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Profile) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO profiles (user_id, player_uuid, balance, game_id, game_id_status, kyc_status, payment_details_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		p.UserID, p.PlayerUUID, p.Balance, p.GameID, p.GameIDStatus, p.KYCStatus, p.PaymentDetailsStatus,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrProfileExists
		}
		return err
	}
	return nil
}

func (r *postgresProfileRepository) getOne(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) (*models.Profile, error) {
	p := &models.Profile{}
	err := scanProfile(executor.QueryRowContext(ctx, query, args...), p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresProfileRepository) GetByUserID(ctx context.Context, exec SQLExecutor, userID int) (*models.Profile, error) {
	query := `SELECT` + profileColumns + ` FROM profiles WHERE user_id = $1`
	return r.getOne(ctx, r.getExecutor(exec), query, userID)
}

func (r *postgresProfileRepository) GetByPlayerUUID(ctx context.Context, exec SQLExecutor, playerUUID uuid.UUID) (*models.Profile, error) {
	query := `SELECT` + profileColumns + ` FROM profiles WHERE player_uuid = $1`
	return r.getOne(ctx, r.getExecutor(exec), query, playerUUID)
}

func (r *postgresProfileRepository) GetByAnyGameID(ctx context.Context, exec SQLExecutor, gameID string) (*models.Profile, error) {
	query := `
		SELECT` + profileColumns + `
		FROM profiles
		WHERE bgmi_id = $1 OR freefire_id = $1 OR fifa_id = $1 OR game_id = $1
		LIMIT 1`
	return r.getOne(ctx, r.getExecutor(exec), query, gameID)
}

// IdentifierInUse checks whether another user already registered the
// value in the given identifier column. The column name comes from a
// closed set in the service layer, never from user input.
func (r *postgresProfileRepository) IdentifierInUse(ctx context.Context, column, value string, excludeUserID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM profiles WHERE ` + column + ` = $1 AND user_id <> $2)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, value, excludeUserID).Scan(&exists)
	return exists, err
}

func (r *postgresProfileRepository) Update(ctx context.Context, exec SQLExecutor, p *models.Profile) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE profiles SET
			bgmi_id = $1, freefire_id = $2, fifa_id = $3, game_id = $4,
			game_id_status = $5,
			kyc_status = $6, kyc_full_name = $7, kyc_id_type = $8, kyc_id_number = $9,
			bank_name = $10, account_number = $11, ifsc_code = $12, upi_id = $13,
			payment_details_status = $14
		WHERE id = $15`

	result, err := executor.ExecContext(ctx, query,
		p.BGMIID, p.FreeFireID, p.FIFAID, p.GameID,
		p.GameIDStatus,
		p.KYCStatus, p.KYCFullName, p.KYCIDType, p.KYCIDNumber,
		p.BankName, p.AccountNumber, p.IFSCCode, p.UPIID,
		p.PaymentDetailsStatus,
		p.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}

func (r *postgresProfileRepository) UpdateVerification(ctx context.Context, exec SQLExecutor, profileID int, section models.VerificationSection, status models.VerificationStatus, reason *string) error {
	executor := r.getExecutor(exec)

	var query string
	switch section {
	case models.SectionKYC:
		query = `UPDATE profiles SET kyc_status = $1, kyc_rejection_reason = $2 WHERE id = $3`
	case models.SectionGameID:
		query = `UPDATE profiles SET game_id_status = $1, game_id_rejection_reason = $2, game_id_verified = ($1 = 'approved') WHERE id = $3`
	case models.SectionPayment:
		query = `UPDATE profiles SET payment_details_status = $1, payment_details_rejection_reason = $2 WHERE id = $3`
	default:
		return errors.New("unknown verification section")
	}

	result, err := executor.ExecContext(ctx, query, status, reason, profileID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}

func (r *postgresProfileRepository) SetKYCDocumentKey(ctx context.Context, profileID int, key string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET kyc_document_key = $1, kyc_status = 'pending' WHERE id = $2`, key, profileID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}

func (r *postgresProfileRepository) ListPendingVerifications(ctx context.Context) ([]*models.Profile, error) {
	query := `
		SELECT` + profileColumns + `
		FROM profiles
		WHERE kyc_status = 'pending' OR game_id_status = 'pending' OR payment_details_status = 'pending'
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]*models.Profile, 0)
	for rows.Next() {
		p := &models.Profile{}
		if scanErr := scanProfile(rows, p); scanErr != nil {
			return nil, scanErr
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *postgresProfileRepository) AddToBalance(ctx context.Context, exec SQLExecutor, profileID int, delta decimal.Decimal) (decimal.Decimal, error) {
	executor := r.getExecutor(exec)

	query := `UPDATE profiles SET balance = balance + $1 WHERE id = $2 RETURNING balance`
	if delta.IsNegative() {
		// Debit: the balance guard is part of the statement so there
		// is no read-then-write window.
		query = `UPDATE profiles SET balance = balance + $1 WHERE id = $2 AND balance >= -$1 RETURNING balance`
	}

	var balance decimal.Decimal
	err := executor.QueryRowContext(ctx, query, delta, profileID).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if !delta.IsNegative() {
				return decimal.Zero, ErrProfileNotFound
			}
			// Distinguish a missing profile from a guard miss.
			if _, getErr := r.GetBalance(ctx, executor, profileID); getErr != nil {
				return decimal.Zero, getErr
			}
			return decimal.Zero, ErrInsufficientBalance
		}
		return decimal.Zero, err
	}
	return balance, nil
}

func (r *postgresProfileRepository) GetBalance(ctx context.Context, exec SQLExecutor, profileID int) (decimal.Decimal, error) {
	executor := r.getExecutor(exec)
	var balance decimal.Decimal
	err := executor.QueryRowContext(ctx, `SELECT balance FROM profiles WHERE id = $1`, profileID).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, ErrProfileNotFound
		}
		return decimal.Zero, err
	}
	return balance, nil
}

func (r *postgresProfileRepository) SumBalances(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(balance), 0) FROM profiles`).Scan(&total)
	return total, err
}
