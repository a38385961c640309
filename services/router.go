package services

import (
	"net/http"

	"github.com/SaiNageswarS/travel-boot/ratelimit"
)

// NewRouter mounts the public API. Chat endpoints are authenticated and rate limited,
// history endpoints are authenticated only.
func NewRouter(travel *TravelService, login *LoginService, auth *Authenticator, limiter ratelimit.Limiter) http.Handler {
	mux := http.NewServeMux()

	chat := func(h http.HandlerFunc) http.Handler {
		return ratelimit.Middleware(limiter, auth.Middleware(h))
	}

	mux.Handle("POST /api/v1/travel", chat(travel.Chat))
	mux.Handle("POST /api/v1/travel/stream", chat(travel.Stream))
	mux.Handle("GET /api/v1/conversations", auth.Middleware(http.HandlerFunc(travel.ListConversations)))
	mux.Handle("GET /api/v1/conversations/{id}", auth.Middleware(http.HandlerFunc(travel.GetConversation)))

	mux.HandleFunc("POST /api/v1/auth/signup", login.SignUp)
	mux.HandleFunc("POST /api/v1/auth/login", login.Login)
	mux.HandleFunc("POST /api/v1/auth/logout", login.Logout)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return mux
}
