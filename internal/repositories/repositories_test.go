package repositories_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/anonto42/pigstar/backend/internal/apperrors"
	"github.com/anonto42/pigstar/backend/internal/models"
	"github.com/anonto42/pigstar/backend/internal/repositories"
	"github.com/anonto42/pigstar/backend/internal/testutil/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeInsertIsIdempotent(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	alice := testdb.SeedUser(t, db, "alice")
	post := testdb.SeedPosts(t, db, alice.ID, 1, time.Now().UTC())[0]
	likes := repositories.NewPostgresLikeRepository(db)

	created, err := likes.Insert(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = likes.Insert(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, created, "duplicate insert must be a no-op")

	count, err := likes.CountTo(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	removed, err := likes.Remove(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = likes.Remove(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestFollowEdges(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	alice := testdb.SeedUser(t, db, "alice")
	bob := testdb.SeedUser(t, db, "bob")
	follows := repositories.NewPostgresFollowRepository(db)

	_, err := follows.Insert(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	ok, err := follows.Exists(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = follows.Exists(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok, "edges are directed")

	users := repositories.NewPostgresUserRepository(db)
	counts, err := users.GetCounts(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserCounts{Followers: 1}, counts)
}

func TestListPostsKeyset(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	alice := testdb.SeedUser(t, db, "alice")
	bob := testdb.SeedUser(t, db, "bob")
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	alicePosts := testdb.SeedPosts(t, db, alice.ID, 3, start)
	bobPosts := testdb.SeedPosts(t, db, bob.ID, 2, start.Add(time.Hour))
	repo := repositories.NewPostgresPostRepository(db)

	all, err := repo.ListPosts(ctx, repositories.PostFilter{}, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, bobPosts[1].ID, all[0].ID)
	assert.Equal(t, alicePosts[0].ID, all[4].ID)
	assert.Equal(t, "bob", all[0].Author.Username)

	after, err := repo.ListPosts(ctx, repositories.PostFilter{}, bobPosts[0].ID, 10)
	require.NoError(t, err)
	require.Len(t, after, 3)
	assert.Equal(t, alicePosts[2].ID, after[0].ID)

	byAlice, err := repo.ListPosts(ctx, repositories.PostFilter{AuthorID: alice.ID}, "", 10)
	require.NoError(t, err)
	assert.Len(t, byAlice, 3)

	stale, err := repo.ListPosts(ctx, repositories.PostFilter{}, "missing-id", 10)
	require.NoError(t, err)
	assert.Empty(t, stale)
}

func TestListPostsLikedBy(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	alice := testdb.SeedUser(t, db, "alice")
	bob := testdb.SeedUser(t, db, "bob")
	posts := testdb.SeedPosts(t, db, alice.ID, 4, time.Now().UTC())
	likes := repositories.NewPostgresLikeRepository(db)
	_, err := likes.Insert(ctx, bob.ID, posts[1].ID)
	require.NoError(t, err)
	_, err = likes.Insert(ctx, bob.ID, posts[3].ID)
	require.NoError(t, err)

	repo := repositories.NewPostgresPostRepository(db)
	liked, err := repo.ListPosts(ctx, repositories.PostFilter{LikedBy: bob.ID}, "", 10)
	require.NoError(t, err)
	require.Len(t, liked, 2)
	assert.Equal(t, posts[3].ID, liked[0].ID)
	assert.Equal(t, posts[1].ID, liked[1].ID)
	assert.Len(t, liked[0].Likes, 1)
}

func TestUsernameCollisionIsConflict(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	testdb.SeedUser(t, db, "alice")
	bob := testdb.SeedUser(t, db, "bob")
	users := repositories.NewPostgresUserRepository(db)

	bob.Username = "alice"
	err := users.UpdateUser(ctx, bob)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	assert.Equal(t, http.StatusConflict, apperrors.HTTPStatus(err))

	err = users.CreateUser(ctx, &models.User{ExternalID: "ext-other", Username: "alice"})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestDeletePostMissing(t *testing.T) {
	db := testdb.Open(t)
	repo := repositories.NewPostgresPostRepository(db)

	err := repo.DeletePost(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestMarkAsReadOnlyTouchesRecipient(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	alice := testdb.SeedUser(t, db, "alice")
	bob := testdb.SeedUser(t, db, "bob")
	repo := repositories.NewPostgresNotificationRepository(db)

	forAlice := &models.Notification{Type: models.NotificationFollow, RecipientID: alice.ID, ActorID: bob.ID}
	forBob := &models.Notification{Type: models.NotificationFollow, RecipientID: bob.ID, ActorID: alice.ID}
	require.NoError(t, repo.CreateNotification(ctx, forAlice))
	require.NoError(t, repo.CreateNotification(ctx, forBob))

	changed, err := repo.MarkAsRead(ctx, alice.ID, []string{forAlice.ID, forBob.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, changed)

	unread, err := repo.GetUnreadCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)

	list, err := repo.ListByRecipient(ctx, alice.ID, "", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Read)
	assert.Equal(t, "bob", list[0].Actor.Username)
}
