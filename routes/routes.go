package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"

	"github.com/landrytower/liprobakin/handlers"
	"github.com/landrytower/liprobakin/middleware"
	"github.com/landrytower/liprobakin/models"
	"github.com/landrytower/liprobakin/services"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Team         *handlers.TeamHandler
	Game         *handlers.GameHandler
	Standings    *handlers.StandingsHandler
	Verification *handlers.VerificationHandler
	Admin        *handlers.AdminHandler
	News         *handlers.NewsHandler
	Directory    *handlers.DirectoryHandler
	WebSocket    *handlers.WebSocketHandler
}

func InitRoutes(h Handlers, adminService services.AdminService, jwtSecret []byte) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)
	requirePermission := func(allowed func(models.AdminPermissions) bool) func(next http.Handler) http.Handler {
		return middleware.RequirePermission(adminService, allowed)
	}

	router.Post("/users/signup", h.Auth.Register)
	router.Post("/users/signin", h.Auth.Login)

	// Публичные разделы сайта.
	router.Route("/teams", func(r chi.Router) {
		r.Get("/", h.Team.List)
		r.Get("/{teamID}", h.Team.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(requirePermission(func(p models.AdminPermissions) bool { return p.ManageTeams }))

			r.Post("/", h.Team.Create)
			r.Put("/{teamID}", h.Team.Update)
			r.Delete("/{teamID}", h.Team.Delete)
			r.Post("/{teamID}/logo", h.Team.UploadLogo)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(requirePermission(func(p models.AdminPermissions) bool { return p.ManageRosters }))

			r.Post("/{teamID}/players", h.Team.AddPlayer)
			r.Put("/{teamID}/players/{playerID}", h.Team.UpdatePlayer)
			r.Delete("/{teamID}/players/{playerID}", h.Team.RemovePlayer)
			r.Post("/{teamID}/players/{playerID}/photo", h.Team.UploadPlayerPhoto)

			r.Post("/{teamID}/staff", h.Team.AddStaff)
			r.Put("/{teamID}/staff/{staffID}", h.Team.UpdateStaff)
			r.Delete("/{teamID}/staff/{staffID}", h.Team.RemoveStaff)
		})
	})

	router.Route("/games", func(r chi.Router) {
		r.Get("/", h.Game.List)
		r.Get("/{gameID}", h.Game.Get)
		r.Get("/{gameID}/ws", h.WebSocket.ServeGame)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(requirePermission(func(p models.AdminPermissions) bool { return p.ScheduleGames }))

			r.Post("/", h.Game.Schedule)
			r.Post("/season", h.Game.GenerateSeason)
			r.Put("/{gameID}", h.Game.Update)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(requirePermission(func(p models.AdminPermissions) bool { return p.RecordResults }))

			r.Post("/{gameID}/start", h.Game.Start)
			r.Post("/{gameID}/complete", h.Game.Complete)
			r.Post("/{gameID}/cancel", h.Game.Cancel)
		})
	})

	router.Get("/standings", h.Standings.Get)

	router.Route("/news", func(r chi.Router) {
		r.Get("/", h.News.ListPublished)
		r.Get("/{articleID}", h.News.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(requirePermission(func(p models.AdminPermissions) bool { return p.ManageNews }))

			r.Get("/drafts", h.News.ListAll)
			r.Post("/", h.News.Create)
			r.Put("/{articleID}", h.News.Update)
			r.Post("/{articleID}/publish", h.News.SetPublished)
			r.Delete("/{articleID}", h.News.Delete)
			r.Post("/{articleID}/image", h.News.UploadImage)
		})
	})

	router.Route("/partners", func(r chi.Router) {
		r.Get("/", h.Directory.ListPartners)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(requirePermission(func(p models.AdminPermissions) bool { return p.ManagePartners }))

			r.Post("/", h.Directory.CreatePartner)
			r.Put("/{partnerID}", h.Directory.UpdatePartner)
			r.Delete("/{partnerID}", h.Directory.DeletePartner)
			r.Post("/{partnerID}/logo", h.Directory.UploadPartnerLogo)
		})
	})

	router.Route("/committee", func(r chi.Router) {
		r.Get("/", h.Directory.ListCommitteeMembers)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(requirePermission(func(p models.AdminPermissions) bool { return p.ManageVenues }))

			r.Post("/", h.Directory.CreateCommitteeMember)
			r.Put("/{memberID}", h.Directory.UpdateCommitteeMember)
			r.Delete("/{memberID}", h.Directory.DeleteCommitteeMember)
		})
	})

	router.Route("/referees", func(r chi.Router) {
		r.Get("/", h.Directory.ListReferees)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(requirePermission(func(p models.AdminPermissions) bool { return p.ManageReferees }))

			r.Post("/", h.Directory.CreateReferee)
			r.Put("/{refereeID}", h.Directory.UpdateReferee)
			r.Delete("/{refereeID}", h.Directory.DeleteReferee)
		})
	})

	// Кабинет болельщика.
	router.Route("/profile", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.RequireKind(middleware.KindUser))

		r.Get("/", h.User.GetProfile)
		r.Put("/", h.User.UpdateProfile)
		r.Post("/verification", h.Verification.Submit)
	})

	// Админка.
	router.Route("/admin", func(r chi.Router) {
		r.Post("/login", h.Admin.Login)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireKind(middleware.KindAdmin))

			r.Get("/me", h.Admin.Me)
			r.Post("/password", h.Admin.ChangePassword)
			r.Get("/dashboard", h.Admin.Dashboard)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(requirePermission(func(p models.AdminPermissions) bool { return p.ReviewVerifications }))

			r.Get("/verifications", h.Verification.ListPending)
			r.Post("/verifications/{requestID}/review", h.Verification.Review)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(requirePermission(func(p models.AdminPermissions) bool { return p.ManageAdmins }))

			r.Get("/users", h.Admin.List)
			r.Post("/users", h.Admin.Create)
			r.Put("/users/{adminID}/roles", h.Admin.UpdateRoles)
			r.Put("/users/{adminID}/active", h.Admin.SetActive)
			r.Delete("/users/{adminID}", h.Admin.Delete)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(requirePermission(func(p models.AdminPermissions) bool { return p.ViewAuditLogs }))

			r.Get("/audit-log", h.Admin.AuditLog)
		})
	})

	return router
}
