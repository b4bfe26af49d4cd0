package profile

import (
	"context"

	"github.com/louisbranch/subtrack/internal/platform/timeouts"
	"github.com/louisbranch/subtrack/internal/services/profiles/profile"
	module "github.com/louisbranch/subtrack/internal/services/web/module"
	apperrors "github.com/louisbranch/subtrack/internal/services/web/platform/errors"
)

type service struct {
	profiles module.ProfileService
}

type unavailableService struct{}

func (unavailableService) Get(context.Context, string) (profile.Profile, error) {
	return profile.Profile{}, apperrors.E(apperrors.KindUnavailable, "profile service is not configured")
}

func (unavailableService) Update(context.Context, string, profile.Input) (profile.Profile, error) {
	return profile.Profile{}, apperrors.E(apperrors.KindUnavailable, "profile service is not configured")
}

func newService(profiles module.ProfileService) service {
	if profiles == nil {
		return service{profiles: unavailableService{}}
	}
	return service{profiles: profiles}
}

func (s service) load(ctx context.Context, userID string) (profile.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.StoreCall)
	defer cancel()
	return s.profiles.Get(ctx, userID)
}

func (s service) save(ctx context.Context, userID string, input profile.Input) (profile.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.StoreCall)
	defer cancel()
	return s.profiles.Update(ctx, userID, input)
}
