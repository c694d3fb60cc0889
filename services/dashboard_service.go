package services

import (
	"context"

	"github.com/arenapulse/esports-system/models"
	"github.com/arenapulse/esports-system/repositories"
	"golang.org/x/sync/errgroup"
)

type DashboardService interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
	SiteConfig(ctx context.Context) (*models.SiteConfiguration, error)
}

type dashboardService struct {
	userRepo       repositories.UserRepository
	tournamentRepo repositories.TournamentRepository
	roomRepo       repositories.RoomRepository
	withdrawalRepo repositories.WithdrawalRepository
	depositRepo    repositories.DepositRepository
	resultRepo     repositories.ResultRepository
	profileRepo    repositories.ProfileRepository
	siteConfigRepo repositories.SiteConfigRepository
}

func NewDashboardService(
	userRepo repositories.UserRepository,
	tournamentRepo repositories.TournamentRepository,
	roomRepo repositories.RoomRepository,
	withdrawalRepo repositories.WithdrawalRepository,
	depositRepo repositories.DepositRepository,
	resultRepo repositories.ResultRepository,
	profileRepo repositories.ProfileRepository,
	siteConfigRepo repositories.SiteConfigRepository,
) DashboardService {
	return &dashboardService{
		userRepo:       userRepo,
		tournamentRepo: tournamentRepo,
		roomRepo:       roomRepo,
		withdrawalRepo: withdrawalRepo,
		depositRepo:    depositRepo,
		resultRepo:     resultRepo,
		profileRepo:    profileRepo,
		siteConfigRepo: siteConfigRepo,
	}
}

// Stats fans the count queries out concurrently; each one is
// independent read-only work.
func (s *dashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.UsersTotal, err = s.userRepo.CountAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TournamentsTotal, err = s.tournamentRepo.CountAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveTournaments, err = s.tournamentRepo.CountActive(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.OpenRooms, err = s.roomRepo.CountByStatus(gctx, models.RoomStatusOpen)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingWithdrawals, err = s.withdrawalRepo.CountPending(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingDeposits, err = s.depositRepo.CountPending(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingPayouts, err = s.resultRepo.CountPending(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.WalletBalanceTotal, err = s.profileRepo.SumBalances(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *dashboardService) SiteConfig(ctx context.Context) (*models.SiteConfiguration, error) {
	return s.siteConfigRepo.Get(ctx)
}
