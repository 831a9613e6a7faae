package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/athlos-portal-api/internal/rbac"
	"github.com/noah-isme/athlos-portal-api/internal/repository"
)

// ActorResolver maps identity-provider subjects to synced user records for
// the session middleware.
type ActorResolver struct {
	users repository.UserRepository
}

// NewActorResolver constructs the resolver.
func NewActorResolver(users repository.UserRepository) *ActorResolver {
	return &ActorResolver{users: users}
}

// ResolveActor looks up the local record for a provider subject. A missing
// record is not an error: the subject simply has not been synced yet.
func (r *ActorResolver) ResolveActor(ctx context.Context, externalID string) (uint, rbac.Role, bool, error) {
	user, err := r.users.FindByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, "", false, nil
		}
		return 0, "", false, err
	}
	return user.ID, rbac.ParseRole(user.Role), true, nil
}
