package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/chirper-app/backend/internal/fanout"
	"github.com/chirper-app/backend/internal/models"
	"github.com/chirper-app/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newLikeHandler(db *gorm.DB) *LikeHandler {
	notifier := fanout.NewNotifier(repositories.NewPostgresNotificationRepository(db), zap.NewNop())
	return NewLikeHandler(
		repositories.NewPostgresLikeRepository(db),
		repositories.NewPostgresPostRepository(db),
		notifier,
	)
}

func TestToggleLikeEndpoint(t *testing.T) {
	db := setupTestDB(t)
	e := newTestEcho()
	h := newLikeHandler(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	post := createTestPost(t, db, alice.ID, "hello", time.Now())

	target := fmt.Sprintf("/api/v1/posts/%d/like", post.ID)

	c, rec := newJSONContext(e, http.MethodPost, target, "", bob.ID)
	c.SetParamNames("post_id")
	c.SetParamValues(fmt.Sprint(post.ID))
	require.NoError(t, h.ToggleLike(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"liked":true`)
	assert.Contains(t, rec.Body.String(), `"like_count":1`)

	// Alice was notified about her post
	var notifs []models.Notification
	require.NoError(t, db.Find(&notifs).Error)
	require.Len(t, notifs, 1)
	assert.Equal(t, alice.ID, notifs[0].RecipientID)
	assert.Equal(t, models.NotificationLike, notifs[0].Type)
	require.NotNil(t, notifs[0].SubjectID)
	assert.Equal(t, post.ID, *notifs[0].SubjectID)

	// Unlike leaves the notification in place
	c, rec = newJSONContext(e, http.MethodPost, target, "", bob.ID)
	c.SetParamNames("post_id")
	c.SetParamValues(fmt.Sprint(post.ID))
	require.NoError(t, h.ToggleLike(c))
	assert.Contains(t, rec.Body.String(), `"liked":false`)
	assert.Contains(t, rec.Body.String(), `"like_count":0`)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestToggleLikeOwnPostNoNotification(t *testing.T) {
	db := setupTestDB(t)
	e := newTestEcho()
	h := newLikeHandler(db)
	alice := createTestUser(t, db, "alice")
	post := createTestPost(t, db, alice.ID, "hello", time.Now())

	c, rec := newJSONContext(e, http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/like", post.ID), "", alice.ID)
	c.SetParamNames("post_id")
	c.SetParamValues(fmt.Sprint(post.ID))
	require.NoError(t, h.ToggleLike(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"liked":true`)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestToggleLikeMissingPost(t *testing.T) {
	db := setupTestDB(t)
	e := newTestEcho()
	h := newLikeHandler(db)
	alice := createTestUser(t, db, "alice")

	c, _ := newJSONContext(e, http.MethodPost, "/api/v1/posts/9999/like", "", alice.ID)
	c.SetParamNames("post_id")
	c.SetParamValues("9999")
	err := h.ToggleLike(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}
