package modules

import (
	"github.com/louisbranch/subtrack/internal/services/web/modules/dashboard"
	"github.com/louisbranch/subtrack/internal/services/web/modules/events"
	"github.com/louisbranch/subtrack/internal/services/web/modules/profile"
	"github.com/louisbranch/subtrack/internal/services/web/modules/public"
	"github.com/louisbranch/subtrack/internal/services/web/modules/subscriptions"
)

// DefaultPublicModules returns the anonymous modules.
func DefaultPublicModules() []Module {
	return []Module{
		public.New(),
	}
}

// DefaultProtectedModules returns the authenticated modules mounted under /app/.
func DefaultProtectedModules() []Module {
	return []Module{
		dashboard.New(),
		subscriptions.New(),
		profile.New(),
		events.New(),
	}
}
