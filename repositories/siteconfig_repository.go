package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/arenapulse/esports-system/models"
)

type SiteConfigRepository interface {
	// Get returns the single configuration row, creating the default
	// one on first access.
	Get(ctx context.Context) (*models.SiteConfiguration, error)
}

type postgresSiteConfigRepository struct {
	db *sql.DB
}

func NewPostgresSiteConfigRepository(db *sql.DB) SiteConfigRepository {
	return &postgresSiteConfigRepository{db: db}
}

func (r *postgresSiteConfigRepository) Get(ctx context.Context) (*models.SiteConfiguration, error) {
	cfg := &models.SiteConfiguration{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, upi_id, whatsapp_number, qr_code_key FROM site_configuration LIMIT 1`,
	).Scan(&cfg.ID, &cfg.UPIID, &cfg.WhatsAppNumber, &cfg.QRCodeKey)

	if errors.Is(err, sql.ErrNoRows) {
		err = r.db.QueryRowContext(ctx,
			`INSERT INTO site_configuration (upi_id, whatsapp_number)
			 VALUES ('example@upi', '+910000000000')
			 RETURNING id, upi_id, whatsapp_number, qr_code_key`,
		).Scan(&cfg.ID, &cfg.UPIID, &cfg.WhatsAppNumber, &cfg.QRCodeKey)
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
