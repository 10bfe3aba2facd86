package services

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/anonto42/pigstar/backend/internal/apperrors"
	"github.com/anonto42/pigstar/backend/internal/cache"
	"github.com/anonto42/pigstar/backend/internal/models"
	"github.com/anonto42/pigstar/backend/internal/repositories"
	"github.com/anonto42/pigstar/backend/internal/testutil/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newResolver(t *testing.T) (*IdentityResolver, repositories.UserRepository) {
	t.Helper()
	users := repositories.NewPostgresUserRepository(testdb.Open(t))
	return NewIdentityResolver(users, cache.Noop{}, zap.NewNop()), users
}

func TestResolveCreatesOnFirstSight(t *testing.T) {
	r, _ := newResolver(t)
	ctx := context.Background()
	identity := models.ExternalIdentity{
		ExternalID: "idp|1",
		FirstName:  "Dana",
		LastName:   "Scully",
		Email:      "Dana.Scully@fbi.example.com",
		AvatarURL:  "https://img.example.com/dana.png",
	}

	user, err := r.Resolve(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, "dana.scully", user.Username)
	assert.Equal(t, "Dana Scully", user.DisplayName)

	again, err := r.Resolve(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	looked, err := r.Lookup(ctx, "idp|1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, looked.ID)
}

func TestResolveRefreshesChangedFields(t *testing.T) {
	r, users := newResolver(t)
	ctx := context.Background()
	identity := models.ExternalIdentity{ExternalID: "idp|2", Email: "mulder@example.com", UsernameHint: "fox"}
	user, err := r.Resolve(ctx, identity)
	require.NoError(t, err)

	identity.Email = "fox@example.com"
	identity.AvatarURL = "https://img.example.com/fox.png"
	identity.UsernameHint = "spooky"
	_, err = r.Resolve(ctx, identity)
	require.NoError(t, err)

	stored, err := users.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "spooky", stored.Username)
	assert.Equal(t, "fox@example.com", stored.Email)
	assert.Equal(t, "https://img.example.com/fox.png", stored.AvatarURL)
}

func TestResolveAvoidsUsernameCollision(t *testing.T) {
	r, _ := newResolver(t)
	ctx := context.Background()

	first, err := r.Resolve(ctx, models.ExternalIdentity{ExternalID: "idp|a", Email: "sam@one.example.com"})
	require.NoError(t, err)
	second, err := r.Resolve(ctx, models.ExternalIdentity{ExternalID: "idp|b", Email: "sam@two.example.com"})
	require.NoError(t, err)

	assert.Equal(t, "sam", first.Username)
	assert.True(t, strings.HasPrefix(second.Username, "sam_"), second.Username)

	// the suffixed name is kept on later syncs
	again, err := r.Resolve(ctx, models.ExternalIdentity{ExternalID: "idp|b", Email: "sam@two.example.com"})
	require.NoError(t, err)
	assert.Equal(t, second.Username, again.Username)
}

func TestResolveFallbackUsername(t *testing.T) {
	r, _ := newResolver(t)
	user, err := r.Resolve(context.Background(), models.ExternalIdentity{ExternalID: "idp|anon"})
	require.NoError(t, err)
	assert.Equal(t, "user", user.Username)
}

func TestResolveAndLookupErrors(t *testing.T) {
	r, _ := newResolver(t)
	ctx := context.Background()

	_, err := r.Resolve(ctx, models.ExternalIdentity{})
	assert.Equal(t, http.StatusUnauthorized, apperrors.HTTPStatus(err))

	_, err = r.Lookup(ctx, "idp|ghost")
	assert.True(t, apperrors.IsNotFound(err))
}

// staleUsernames answers every availability check with "free", as a check
// that ran just before another account claimed the name would.
type staleUsernames struct {
	repositories.UserRepository
}

func (staleUsernames) UsernameTaken(context.Context, string, string) (bool, error) {
	return false, nil
}

func TestRefreshKeepsUsernameWhenClaimedConcurrently(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	testdb.SeedUser(t, db, "alice")
	bob := testdb.SeedUser(t, db, "bob")

	users := repositories.NewPostgresUserRepository(db)
	r := NewIdentityResolver(staleUsernames{users}, cache.Noop{}, zap.NewNop())

	user, err := r.Resolve(ctx, models.ExternalIdentity{
		ExternalID:   bob.ExternalID,
		UsernameHint: "alice",
		Email:        "bob@new.example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)
	assert.Equal(t, "bob@new.example.com", user.Email)

	stored, err := users.GetUserByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", stored.Username)
	assert.Equal(t, "bob@new.example.com", stored.Email)
}
