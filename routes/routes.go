package routes

import (
	"github.com/arenapulse/esports-system/handlers"
	"github.com/arenapulse/esports-system/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Tournament *handlers.TournamentHandler
	Room       *handlers.RoomHandler
	Wallet     *handlers.WalletHandler
	Withdrawal *handlers.WithdrawalHandler
	Deposit    *handlers.DepositHandler
	Settlement *handlers.SettlementHandler
	Profile    *handlers.ProfileHandler
	Admin      *handlers.AdminHandler
	Live       *handlers.LiveHandler
}

func InitRoutes(h Handlers, auth *middleware.Authenticator) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/auth/register", h.Auth.Register)
	router.Post("/auth/login", h.Auth.Login)

	router.Get("/site-config", h.Admin.SiteConfig)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.Tournament.List)
		r.Get("/{tournamentID}", h.Tournament.Get)
		r.Get("/{tournamentID}/participants", h.Tournament.Participants)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth, auth.RequireStaff)
			r.Post("/", h.Tournament.Create)
			r.Patch("/{tournamentID}/active", h.Tournament.SetActive)
			r.Put("/{tournamentID}/prizes", h.Tournament.SetPrizes)
		})
	})

	router.Route("/rooms", func(r chi.Router) {
		r.Get("/{roomID}", h.Room.Detail)
		r.Get("/{roomID}/live", h.Live.Subscribe)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Post("/{roomID}/join", h.Room.JoinSolo)
			r.Post("/{roomID}/team", h.Room.CreateTeam)
			r.Post("/{roomID}/entry-order", h.Room.CreateEntryOrder)
			r.Get("/{roomID}/results", h.Settlement.RoomResults)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth, auth.RequireStaff)
			r.Post("/{roomID}/start", h.Room.Start)
			r.Post("/{roomID}/cancel", h.Room.Cancel)
			r.Post("/{roomID}/results", h.Settlement.DeclareResults)
			r.Post("/{roomID}/payouts/approve", h.Settlement.ApprovePayouts)
			r.Post("/{roomID}/winner", h.Settlement.AddSingleWinner)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)

		r.Post("/payments/verify", h.Room.VerifyPayment)

		r.Route("/invitations", func(r chi.Router) {
			r.Get("/", h.Room.MyInvitations)
			r.Post("/{invitationID}/accept", h.Room.AcceptInvitation)
			r.Post("/{invitationID}/reject", h.Room.RejectInvitation)
		})

		r.Get("/my/rooms", h.Room.MyRooms)

		r.Route("/wallet", func(r chi.Router) {
			r.Get("/balance", h.Wallet.Balance)
			r.Get("/transactions", h.Wallet.Transactions)
		})

		r.Route("/withdrawals", func(r chi.Router) {
			r.Post("/", h.Withdrawal.Request)
			r.Get("/", h.Withdrawal.ListMine)
		})

		r.Post("/deposits", h.Deposit.Request)

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", h.Profile.Me)
			r.Put("/", h.Profile.Update)
			r.Post("/kyc-document", h.Profile.UploadKYCDocument)
		})
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(auth.RequireAuth, auth.RequireStaff)

		r.Get("/stats", h.Admin.Stats)
		r.Get("/verifications", h.Admin.PendingVerifications)
		r.Post("/verifications/{profileID}", h.Admin.VerifySection)

		r.Get("/withdrawals", h.Withdrawal.ListAll)
		r.Post("/withdrawals/{withdrawalID}/approve", h.Withdrawal.Approve)
		r.Post("/withdrawals/{withdrawalID}/reject", h.Withdrawal.Reject)
		r.Post("/withdrawals/{withdrawalID}/paid", h.Withdrawal.MarkPaid)

		r.Get("/deposits", h.Deposit.ListPending)
		r.Post("/deposits/{depositID}/verify", h.Deposit.Verify)

		r.Get("/payouts/pending", h.Settlement.PendingPayouts)
	})

	return router
}
