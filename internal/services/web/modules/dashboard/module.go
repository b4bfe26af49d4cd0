// Package dashboard serves the signed-in landing page.
package dashboard

import (
	"net/http"

	module "github.com/louisbranch/subtrack/internal/services/web/module"
	"github.com/louisbranch/subtrack/internal/services/web/modules/subscriptions"
	"github.com/louisbranch/subtrack/internal/services/web/routepath"
)

// Module provides the dashboard route.
type Module struct{}

// New returns a dashboard module.
func New() Module {
	return Module{}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "dashboard" }

// Mount wires the dashboard handler.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, deps)
	return module.Mount{Prefix: routepath.DashboardPrefix, Handler: mux}, nil
}

func registerRoutes(mux *http.ServeMux, deps module.Dependencies) {
	if mux == nil {
		return
	}
	index := func(w http.ResponseWriter, r *http.Request) {
		subscriptions.WriteDashboard(w, r, deps, subscriptions.DashboardForm{})
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.AppDashboard, index)
	mux.HandleFunc(http.MethodGet+" "+routepath.DashboardPrefix+"{$}", index)
}
