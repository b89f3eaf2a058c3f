package identity

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"socially/internal/core"
)

const fallbackUsername = "user"

// Resolver is the single translation point from an external session
// identity to an internal user row. Every resolution refreshes the mutable
// display fields, so repeated syncs with identical input are no-ops.
type Resolver struct {
	Logger *slog.Logger
	Users  core.UserRepository
}

func (r *Resolver) Init(_ context.Context) error {
	r.Logger = r.Logger.With("component", "identity.Resolver")
	return nil
}

func (r *Resolver) Resolve(ctx context.Context, identity *core.ExternalIdentity) (*core.User, error) {
	if identity == nil {
		return nil, nil
	}

	user := &core.User{
		ID:         uuid.NewString(),
		ExternalID: identity.ExternalID,
		Username:   deriveUsername(identity),
		Name:       deriveName(identity),
		Email:      identity.Email,
		Image:      identity.AvatarURL,
	}

	if err := r.Users.Upsert(ctx, user); err != nil {
		return nil, err
	}

	// The upsert may have hit an existing row; re-read for the canonical ID.
	resolved, err := r.Users.GetByExternalID(ctx, identity.ExternalID)
	if err != nil {
		return nil, err
	}

	r.Logger.Debug("resolved user", "id", resolved.ID, "username", resolved.Username)
	return resolved, nil
}

func deriveUsername(identity *core.ExternalIdentity) string {
	if identity.Username != "" {
		return identity.Username
	}
	if local, _, found := strings.Cut(identity.Email, "@"); found && local != "" {
		return local
	}
	return fallbackUsername
}

func deriveName(identity *core.ExternalIdentity) string {
	name := strings.TrimSpace(identity.FirstName + " " + identity.LastName)
	if name == "" {
		return "Anonymous"
	}
	return name
}
