package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/arenapulse/esports-system/models"
	"github.com/arenapulse/esports-system/repositories"
	"github.com/arenapulse/esports-system/storage"
	"github.com/google/uuid"
)

// UpdateProfileInput carries the player-editable fields. A nil pointer
// leaves the field untouched.
type UpdateProfileInput struct {
	BGMIID     *string `json:"bgmi_id"`
	FreeFireID *string `json:"freefire_id"`
	FIFAID     *string `json:"fifa_id"`
	GameID     *string `json:"game_id"`

	KYCFullName *string `json:"kyc_full_name"`
	KYCIDType   *string `json:"kyc_id_type"`
	KYCIDNumber *string `json:"kyc_id_number"`

	BankName      *string `json:"bank_name"`
	AccountNumber *string `json:"account_number"`
	IFSCCode      *string `json:"ifsc_code"`
	UPIID         *string `json:"upi_id"`
}

type ProfileService interface {
	// GetOrCreate enforces the one-wallet-per-identity rule: a user
	// without a profile gets one with a fresh player UUID.
	GetOrCreate(ctx context.Context, userID int) (*models.Profile, error)
	Update(ctx context.Context, userID int, input UpdateProfileInput) (*models.Profile, error)
	VerifySection(ctx context.Context, profileID int, section models.VerificationSection, status models.VerificationStatus, reason *string) error
	ListPendingVerifications(ctx context.Context) ([]*models.Profile, error)
	UploadKYCDocument(ctx context.Context, userID int, contentType string, document io.Reader) (string, error)
}

type profileService struct {
	profileRepo repositories.ProfileRepository
	uploader    storage.FileUploader
	logger      *slog.Logger
}

func NewProfileService(
	profileRepo repositories.ProfileRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		uploader:    uploader,
		logger:      logger,
	}
}

func (s *profileService) GetOrCreate(ctx context.Context, userID int) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, nil, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repositories.ErrProfileNotFound) {
		return nil, err
	}

	profile = models.NewProfile(userID)
	if createErr := s.profileRepo.Create(ctx, nil, profile); createErr != nil {
		// A concurrent first request created it; that one wins.
		if errors.Is(createErr, repositories.ErrProfileExists) {
			return s.profileRepo.GetByUserID(ctx, nil, userID)
		}
		return nil, createErr
	}
	return profile, nil
}

// identifierColumns maps the updatable identifier fields to their
// storage columns. The column names never come from user input.
var identifierColumns = []struct {
	column string
	get    func(*UpdateProfileInput) *string
	set    func(*models.Profile, *string)
}{
	{"bgmi_id", func(in *UpdateProfileInput) *string { return in.BGMIID }, func(p *models.Profile, v *string) { p.BGMIID = v }},
	{"freefire_id", func(in *UpdateProfileInput) *string { return in.FreeFireID }, func(p *models.Profile, v *string) { p.FreeFireID = v }},
	{"fifa_id", func(in *UpdateProfileInput) *string { return in.FIFAID }, func(p *models.Profile, v *string) { p.FIFAID = v }},
	{"game_id", func(in *UpdateProfileInput) *string { return in.GameID }, func(p *models.Profile, v *string) { p.GameID = v }},
}

func (s *profileService) Update(ctx context.Context, userID int, input UpdateProfileInput) (*models.Profile, error) {
	profile, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	identifiersChanged := false
	for _, ic := range identifierColumns {
		value := ic.get(&input)
		if value == nil {
			continue
		}
		if *value != "" {
			inUse, err := s.profileRepo.IdentifierInUse(ctx, ic.column, *value, userID)
			if err != nil {
				return nil, err
			}
			if inUse {
				return nil, fmt.Errorf("%w: %s", ErrIdentifierTaken, *value)
			}
		}
		ic.set(profile, value)
		identifiersChanged = true
	}
	if identifiersChanged {
		// Changed identifiers go back through review.
		profile.GameIDStatus = models.VerificationPending
	}

	if input.KYCFullName != nil || input.KYCIDType != nil || input.KYCIDNumber != nil {
		if input.KYCFullName != nil {
			profile.KYCFullName = input.KYCFullName
		}
		if input.KYCIDType != nil {
			profile.KYCIDType = input.KYCIDType
		}
		if input.KYCIDNumber != nil {
			profile.KYCIDNumber = input.KYCIDNumber
		}
		profile.KYCStatus = models.VerificationPending
	}

	if input.BankName != nil || input.AccountNumber != nil || input.IFSCCode != nil || input.UPIID != nil {
		if input.BankName != nil {
			profile.BankName = input.BankName
		}
		if input.AccountNumber != nil {
			profile.AccountNumber = input.AccountNumber
		}
		if input.IFSCCode != nil {
			profile.IFSCCode = input.IFSCCode
		}
		if input.UPIID != nil {
			profile.UPIID = input.UPIID
		}
		profile.PaymentDetailsStatus = models.VerificationPending
	}

	if err := s.profileRepo.Update(ctx, nil, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *profileService) VerifySection(ctx context.Context, profileID int, section models.VerificationSection, status models.VerificationStatus, reason *string) error {
	switch section {
	case models.SectionKYC, models.SectionGameID, models.SectionPayment:
	default:
		return fmt.Errorf("%w: unknown verification section %q", ErrInvalidInput, section)
	}
	if status != models.VerificationApproved && status != models.VerificationRejected {
		return fmt.Errorf("%w: verification status must be approved or rejected", ErrInvalidInput)
	}
	if status == models.VerificationRejected && (reason == nil || *reason == "") {
		return fmt.Errorf("%w: rejection requires a reason", ErrInvalidInput)
	}

	if err := s.profileRepo.UpdateVerification(ctx, nil, profileID, section, status, reason); err != nil {
		return err
	}
	s.logger.Info("verification updated", "profile_id", profileID, "section", section, "status", status)
	return nil
}

func (s *profileService) ListPendingVerifications(ctx context.Context) ([]*models.Profile, error) {
	return s.profileRepo.ListPendingVerifications(ctx)
}

func (s *profileService) UploadKYCDocument(ctx context.Context, userID int, contentType string, document io.Reader) (string, error) {
	profile, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("kyc/%d/%s", profile.ID, uuid.New())
	result, err := s.uploader.Upload(ctx, key, contentType, document)
	if err != nil {
		return "", fmt.Errorf("failed to upload KYC document: %w", err)
	}

	if err := s.profileRepo.SetKYCDocumentKey(ctx, profile.ID, result.Key); err != nil {
		// The orphaned object is unreachable without a key on the
		// profile; best effort cleanup.
		_ = s.uploader.Delete(ctx, result.Key)
		return "", err
	}
	return result.Location, nil
}
