// Package profile serves the viewer's profile editor.
package profile

import (
	"net/http"

	module "github.com/louisbranch/subtrack/internal/services/web/module"
	"github.com/louisbranch/subtrack/internal/services/web/routepath"
)

// Module provides authenticated profile routes.
type Module struct{}

// New returns a profile module.
func New() Module {
	return Module{}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "profile" }

// Mount wires profile route handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(newService(deps.Profiles), deps))
	return module.Mount{Prefix: routepath.ProfilePrefix, Handler: mux}, nil
}
