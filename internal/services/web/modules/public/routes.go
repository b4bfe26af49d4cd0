package public

import (
	"net/http"

	"github.com/louisbranch/subtrack/internal/services/web/platform/httpx"
	"github.com/louisbranch/subtrack/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Root+"{$}", h.handleRoot)
	mux.HandleFunc(http.MethodGet+" "+routepath.Health, h.handleHealth)

	mux.HandleFunc(http.MethodGet+" "+routepath.Login, h.handleLoginPage)
	mux.HandleFunc(http.MethodPost+" "+routepath.Login, h.handleLoginSubmit)
	mux.HandleFunc(http.MethodGet+" "+routepath.Signup, h.handleSignupPage)
	mux.HandleFunc(http.MethodPost+" "+routepath.Signup, h.handleSignupSubmit)

	mux.HandleFunc(http.MethodPost+" "+routepath.Logout, h.handleLogout)
	mux.HandleFunc(http.MethodGet+" "+routepath.Logout, httpx.MethodNotAllowed(http.MethodPost))

	mux.HandleFunc(http.MethodGet+" /{rest...}", h.handleNotFound)
}
