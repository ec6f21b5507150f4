package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/msomdec/mockmatch/internal/service"
)

// Dependencies are the services and settings the router needs.
type Dependencies struct {
	Auth          *service.AuthService
	Users         *service.UserService
	MatchRequests *service.MatchRequestService
	Slots         *service.SlotService
	BestMatch     *service.BestMatchService

	// AuthLimiter throttles register and login per client IP. Nil disables
	// throttling.
	AuthLimiter    *service.TokenBucket
	CookieSecure   bool
	RequestTimeout time.Duration
}

// NewRouter sets up all HTTP routes.
func NewRouter(deps Dependencies) http.Handler {
	authH := NewAuthHandler(deps.Auth, deps.CookieSecure)
	userH := NewUserHandler(deps.Users)
	matchH := NewMatchRequestHandler(deps.MatchRequests)
	slotH := NewSlotHandler(deps.Slots)
	bestH := NewBestMatchHandler(deps.BestMatch)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders)
	if deps.RequestTimeout > 0 {
		r.Use(middleware.Timeout(deps.RequestTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	r.Get("/healthz", HandleHealthz)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if deps.AuthLimiter != nil {
				r.Use(RateLimit(deps.AuthLimiter))
			}
			r.Post("/register", authH.HandleRegister)
			r.Post("/login", authH.HandleLogin)
		})
		r.Post("/logout", authH.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(func(next http.Handler) http.Handler { return RequireAuth(deps.Auth, next) })

			r.Get("/user", authH.HandleMe)

			r.Get("/users", userH.HandleList)
			r.Get("/users/{id}", userH.HandleGet)
			r.Put("/users/{id}", userH.HandleUpdate)

			r.Route("/match-requests", func(r chi.Router) {
				r.Post("/", matchH.HandleCreate)
				r.Get("/", matchH.HandleList)
				r.Get("/incoming", matchH.HandleIncoming)
				r.Get("/outgoing", matchH.HandleOutgoing)
				r.Get("/{id}", matchH.HandleGet)
				r.Put("/{id}/status", matchH.HandleUpdateStatus)
			})

			r.Route("/interview-slots", func(r chi.Router) {
				r.Post("/", slotH.HandleCreate)
				r.Get("/", slotH.HandleMine)
				r.Get("/available", slotH.HandleAvailable)
				r.Get("/upcoming", slotH.HandleUpcoming)
				r.Get("/past", slotH.HandlePast)
				r.Get("/{id}", slotH.HandleGet)
				r.Put("/{id}/book", slotH.HandleBook)
				r.Put("/{id}/cancel", slotH.HandleCancel)
				r.Put("/{id}/meeting-link", slotH.HandleUpdateMeetingLink)
			})

			r.Get("/best-match", bestH.HandleBestMatch)
		})
	})

	return r
}
