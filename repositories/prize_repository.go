package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/arenapulse/esports-system/models"
	"github.com/lib/pq"
)

var (
	ErrPrizeNotFound     = errors.New("prize distribution not found")
	ErrPrizeRankConflict = errors.New("duplicate rank in prize distribution")
)

type PrizeRepository interface {
	ReplaceForTournament(ctx context.Context, exec SQLExecutor, tournamentID int, distributions []*models.PrizeDistribution) error
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.PrizeDistribution, error)
	GetByTournamentAndRank(ctx context.Context, exec SQLExecutor, tournamentID, rank int) (*models.PrizeDistribution, error)
}

type postgresPrizeRepository struct {
	db *sql.DB
}

func NewPostgresPrizeRepository(db *sql.DB) PrizeRepository {
	return &postgresPrizeRepository{db: db}
}

func (r *postgresPrizeRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// ReplaceForTournament swaps the whole prize table for a tournament.
// Callers are expected to run it inside a transaction so the table is
// never observed half-replaced.
func (r *postgresPrizeRepository) ReplaceForTournament(ctx context.Context, exec SQLExecutor, tournamentID int, distributions []*models.PrizeDistribution) error {
	executor := r.getExecutor(exec)

	if _, err := executor.ExecContext(ctx, `DELETE FROM prize_distributions WHERE tournament_id = $1`, tournamentID); err != nil {
		return err
	}

	query := `
		INSERT INTO prize_distributions (id, tournament_id, rank, prize_amount)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`
	for _, d := range distributions {
		err := executor.QueryRowContext(ctx, query, d.ID, tournamentID, d.Rank, d.PrizeAmount).Scan(&d.CreatedAt)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
				return ErrPrizeRankConflict
			}
			return err
		}
		d.TournamentID = tournamentID
	}
	return nil
}

func (r *postgresPrizeRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.PrizeDistribution, error) {
	query := `
		SELECT id, tournament_id, rank, prize_amount, created_at
		FROM prize_distributions
		WHERE tournament_id = $1
		ORDER BY rank ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	distributions := make([]*models.PrizeDistribution, 0)
	for rows.Next() {
		var d models.PrizeDistribution
		if scanErr := rows.Scan(&d.ID, &d.TournamentID, &d.Rank, &d.PrizeAmount, &d.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		distributions = append(distributions, &d)
	}
	return distributions, rows.Err()
}

func (r *postgresPrizeRepository) GetByTournamentAndRank(ctx context.Context, exec SQLExecutor, tournamentID, rank int) (*models.PrizeDistribution, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, tournament_id, rank, prize_amount, created_at
		FROM prize_distributions
		WHERE tournament_id = $1 AND rank = $2`

	var d models.PrizeDistribution
	err := executor.QueryRowContext(ctx, query, tournamentID, rank).Scan(
		&d.ID, &d.TournamentID, &d.Rank, &d.PrizeAmount, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPrizeNotFound
		}
		return nil, err
	}
	return &d, nil
}
