// Package public serves the anonymous pages: sign-in, sign-up, sign-out and
// the liveness probe.
package public

import (
	"net/http"

	module "github.com/louisbranch/subtrack/internal/services/web/module"
	"github.com/louisbranch/subtrack/internal/services/web/routepath"
)

// Module provides public routes.
type Module struct{}

// New returns a public module.
func New() Module {
	return Module{}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "public" }

// Mount wires public route handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(newService(deps.Auth), deps))
	return module.Mount{Prefix: routepath.Root, Handler: mux}, nil
}
