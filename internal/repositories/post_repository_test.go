package repositories

import (
	"testing"
	"time"

	"github.com/chirper-app/backend/internal/apperrors"
	"github.com/chirper-app/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)
	alice := createTestUser(t, db, "alice")

	post := &models.Post{UserID: alice.ID, Content: "hello world"}
	require.NoError(t, repo.CreatePost(post))
	assert.NotZero(t, post.ID)
	assert.False(t, post.CreatedAt.IsZero())
	// Timestamps are stored at microsecond precision so cursors round-trip
	assert.True(t, post.CreatedAt.Equal(post.CreatedAt.Truncate(time.Microsecond)))

	err := repo.CreatePost(&models.Post{UserID: 9999, Content: "orphan"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestCreateReply(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)
	alice := createTestUser(t, db, "alice")
	parent := createTestPost(t, db, alice.ID, "parent", time.Now())

	reply := &models.Post{UserID: alice.ID, Content: "reply", ReplyToID: &parent.ID}
	require.NoError(t, repo.CreatePost(reply))

	replies, total, err := repo.GetReplies(parent.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, replies, 1)
	assert.Equal(t, reply.ID, replies[0].ID)

	missing := uint(9999)
	err = repo.CreatePost(&models.Post{UserID: alice.ID, Content: "dangling", ReplyToID: &missing})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestUpdatePostWithinWindow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)
	alice := createTestUser(t, db, "alice")

	post := createTestPost(t, db, alice.ID, "first draft", time.Now())
	require.NoError(t, repo.UpdatePost(post.ID, "second draft"))

	updated, err := repo.GetPostByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "second draft", updated.Content)
}

func TestUpdatePostWindowExpired(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)
	alice := createTestUser(t, db, "alice")

	stale := createTestPost(t, db, alice.ID, "old", time.Now().Add(-EditWindow-time.Minute))
	err := repo.UpdatePost(stale.ID, "too late")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalid))

	unchanged, err := repo.GetPostByID(stale.ID)
	require.NoError(t, err)
	assert.Equal(t, "old", unchanged.Content)

	err = repo.UpdatePost(9999, "nothing there")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestGetPostByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)

	_, err := repo.GetPostByID(9999)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestGetPostsByUserID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)
	alice := createTestUser(t, db, "alice")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	createTestPost(t, db, alice.ID, "older", base)
	newer := createTestPost(t, db, alice.ID, "newer", base.Add(time.Minute))

	posts, total, err := repo.GetPostsByUserID(alice.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, posts, 2)
	assert.Equal(t, newer.ID, posts[0].ID)

	_, _, err = repo.GetPostsByUserID(9999, 1, 20)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestGetRecentPostsCursor(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	createTestPost(t, db, alice.ID, "a", base)
	createTestPost(t, db, bob.ID, "b", base.Add(time.Second))
	createTestPost(t, db, alice.ID, "c", base.Add(2*time.Second))

	page1, next, err := repo.GetRecentPosts("", 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.NotEmpty(t, next)
	assert.Equal(t, "c", page1[0].Content)
	assert.Equal(t, "b", page1[1].Content)

	page2, next, err := repo.GetRecentPosts(next, 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "a", page2[0].Content)
	assert.Empty(t, next)
}

func TestDeletePostCascades(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	post := createTestPost(t, db, alice.ID, "doomed", time.Now())
	other := createTestPost(t, db, alice.ID, "survivor", time.Now())

	require.NoError(t, db.Create(&models.Like{UserID: bob.ID, PostID: post.ID}).Error)
	require.NoError(t, db.Create(&models.Like{UserID: bob.ID, PostID: other.ID}).Error)
	require.NoError(t, db.Create(&models.Notification{
		Type: models.NotificationLike, ActorID: bob.ID, RecipientID: alice.ID, SubjectID: &post.ID,
	}).Error)
	require.NoError(t, db.Create(&models.Notification{
		Type: models.NotificationFollow, ActorID: bob.ID, RecipientID: alice.ID,
	}).Error)

	require.NoError(t, repo.DeletePost(post.ID))

	_, err := repo.GetPostByID(post.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	var likeCount int64
	require.NoError(t, db.Model(&models.Like{}).Count(&likeCount).Error)
	assert.EqualValues(t, 1, likeCount)

	// The like notification about the deleted post is gone; the follow
	// notification has no subject and stays.
	var notifCount int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&notifCount).Error)
	assert.EqualValues(t, 1, notifCount)
	var remaining models.Notification
	require.NoError(t, db.First(&remaining).Error)
	assert.Equal(t, models.NotificationFollow, remaining.Type)

	assert.True(t, apperrors.IsKind(repo.DeletePost(post.ID), apperrors.KindNotFound))
}
