// Package subscriptions serves the subscription list fragment and the
// create, edit and delete flows.
package subscriptions

import (
	"net/http"

	module "github.com/louisbranch/subtrack/internal/services/web/module"
	"github.com/louisbranch/subtrack/internal/services/web/routepath"
)

// Module provides authenticated subscription routes.
type Module struct{}

// New returns a subscriptions module.
func New() Module {
	return Module{}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "subscriptions" }

// Mount wires subscription route handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(newService(deps.Subscriptions), deps))
	return module.Mount{Prefix: routepath.SubscriptionsPrefix, Handler: mux}, nil
}
