package models

import "github.com/shopspring/decimal"

type DashboardStats struct {
	UsersTotal          int             `json:"users_total"`
	TournamentsTotal    int             `json:"tournaments_total"`
	ActiveTournaments   int             `json:"active_tournaments"`
	OpenRooms           int             `json:"open_rooms"`
	PendingWithdrawals  int             `json:"pending_withdrawals"`
	PendingDeposits     int             `json:"pending_deposits"`
	PendingPayouts      int             `json:"pending_payouts"`
	WalletBalanceTotal  decimal.Decimal `json:"wallet_balance_total"`
}

type SiteConfiguration struct {
	ID             int    `json:"id" db:"id"`
	UPIID          string `json:"upi_id" db:"upi_id"`
	WhatsAppNumber string `json:"whatsapp_number" db:"whatsapp_number"`
	QRCodeKey      *string `json:"-" db:"qr_code_key"`
}
