package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anonto42/pigstar/backend/internal/apperrors"
	"github.com/anonto42/pigstar/backend/internal/cache"
	"github.com/anonto42/pigstar/backend/internal/models"
	"github.com/anonto42/pigstar/backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxUsernameLen = 48

// IdentityResolver maps identities from the external provider to internal users.
type IdentityResolver struct {
	users repositories.UserRepository
	feed  cache.FeedCache
	log   *zap.Logger
}

func NewIdentityResolver(users repositories.UserRepository, feed cache.FeedCache, log *zap.Logger) *IdentityResolver {
	return &IdentityResolver{users: users, feed: feed, log: log}
}

// Resolve returns the user for identity, creating it on first sight and
// refreshing username, email and avatar when the provider reports new values.
func (r *IdentityResolver) Resolve(ctx context.Context, identity models.ExternalIdentity) (*models.User, error) {
	if identity.ExternalID == "" {
		return nil, &apperrors.UnauthenticatedError{}
	}

	user, err := r.users.GetUserByExternalID(ctx, identity.ExternalID)
	if err == nil {
		return r.refresh(ctx, user, identity)
	}
	if !apperrors.IsNotFound(err) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	username, err := r.availableUsername(ctx, baseUsername(identity), identity.ExternalID)
	if err != nil {
		return nil, err
	}
	user = &models.User{
		ExternalID:  identity.ExternalID,
		Username:    username,
		Email:       identity.Email,
		DisplayName: strings.TrimSpace(identity.FirstName + " " + identity.LastName),
		AvatarURL:   identity.AvatarURL,
	}
	if err := r.users.CreateUser(ctx, user); err != nil {
		// a concurrent first request may have inserted the same identity
		existing, lookupErr := r.users.GetUserByExternalID(ctx, identity.ExternalID)
		if lookupErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	r.log.Info("user created",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username),
	)
	return user, nil
}

// Lookup returns the internal user of an identity that must already exist.
func (r *IdentityResolver) Lookup(ctx context.Context, externalID string) (*models.User, error) {
	if externalID == "" {
		return nil, &apperrors.UnauthenticatedError{}
	}
	return r.users.GetUserByExternalID(ctx, externalID)
}

func (r *IdentityResolver) refresh(ctx context.Context, user *models.User, identity models.ExternalIdentity) (*models.User, error) {
	changed := false
	previous := user.Username

	desired := baseUsername(identity)
	if desired != user.Username && !strings.HasPrefix(user.Username, desired+"_") {
		taken, err := r.users.UsernameTaken(ctx, desired, identity.ExternalID)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if !taken {
			user.Username = desired
			changed = true
		}
	}
	if identity.Email != user.Email {
		user.Email = identity.Email
		changed = true
	}
	if identity.AvatarURL != user.AvatarURL {
		user.AvatarURL = identity.AvatarURL
		changed = true
	}
	if !changed {
		return user, nil
	}

	err := r.users.UpdateUser(ctx, user)
	if apperrors.IsConflict(err) && user.Username != previous {
		// another account claimed the name between the check and the write
		user.Username = previous
		err = r.users.UpdateUser(ctx, user)
	}
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	invalidateFeed(ctx, r.feed, r.log)
	r.log.Debug("user refreshed from identity provider", zap.String("user_id", user.ID))
	return user, nil
}

func (r *IdentityResolver) availableUsername(ctx context.Context, base, externalID string) (string, error) {
	taken, err := r.users.UsernameTaken(ctx, base, externalID)
	if err != nil {
		return "", fmt.Errorf("check username: %w", err)
	}
	if !taken {
		return base, nil
	}
	return base + "_" + uuid.NewString()[:8], nil
}

// baseUsername derives a username from the provider hint, else the email local part.
func baseUsername(identity models.ExternalIdentity) string {
	candidate := identity.UsernameHint
	if candidate == "" {
		candidate, _, _ = strings.Cut(identity.Email, "@")
	}

	var b strings.Builder
	for _, r := range strings.ToLower(candidate) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '.', r == '-':
			b.WriteRune(r)
		}
	}
	name := b.String()
	if len(name) > maxUsernameLen {
		name = name[:maxUsernameLen]
	}
	if name == "" {
		return "user"
	}
	return name
}
