// Package events streams subscription change notifications to the viewer's
// browser over Server-Sent Events or a websocket.
package events

import (
	"net/http"

	module "github.com/louisbranch/subtrack/internal/services/web/module"
	"github.com/louisbranch/subtrack/internal/services/web/routepath"
)

// Module provides the change feed routes.
type Module struct{}

// New returns an events module.
func New() Module {
	return Module{}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "events" }

// Mount wires the change feed handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(deps))
	return module.Mount{Prefix: routepath.EventsPrefix, Handler: mux}, nil
}
