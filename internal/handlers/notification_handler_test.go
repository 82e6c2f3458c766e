package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/chirper-app/backend/internal/models"
	"github.com/chirper-app/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newNotificationHandler(db *gorm.DB) *NotificationHandler {
	return NewNotificationHandler(
		repositories.NewPostgresNotificationRepository(db),
		repositories.NewPostgresUserRepository(db),
	)
}

func TestGetNotificationsEnriched(t *testing.T) {
	db := setupTestDB(t)
	e := newTestEcho()
	h := newNotificationHandler(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	require.NoError(t, db.Create(&models.Notification{
		Type: models.NotificationFollow, ActorID: bob.ID, RecipientID: alice.ID,
	}).Error)

	c, rec := newJSONContext(e, http.MethodGet, "/api/v1/notifications", "", alice.ID)
	require.NoError(t, h.GetNotifications(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Notifications []EnrichedNotification `json:"notifications"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Notifications, 1)
	assert.Equal(t, "bob", resp.Data.Notifications[0].Actor.Username)
	assert.Equal(t, models.NotificationFollow, resp.Data.Notifications[0].Type)
}

func TestGetUnreadCountEndpoint(t *testing.T) {
	db := setupTestDB(t)
	e := newTestEcho()
	h := newNotificationHandler(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	require.NoError(t, db.Create(&models.Notification{
		Type: models.NotificationFollow, ActorID: bob.ID, RecipientID: alice.ID,
	}).Error)

	c, rec := newJSONContext(e, http.MethodGet, "/api/v1/notifications/unread-count", "", alice.ID)
	require.NoError(t, h.GetUnreadCount(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"unread_count":1`)
}

func TestMarkAsReadOwnership(t *testing.T) {
	db := setupTestDB(t)
	e := newTestEcho()
	h := newNotificationHandler(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	notif := &models.Notification{Type: models.NotificationFollow, ActorID: bob.ID, RecipientID: alice.ID}
	require.NoError(t, db.Create(notif).Error)

	target := fmt.Sprintf("/api/v1/notifications/%d/read", notif.ID)

	// Someone else's notification cannot be marked
	c, _ := newJSONContext(e, http.MethodPut, target, "", bob.ID)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(notif.ID))
	err := h.MarkAsRead(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, httpStatus(t, err))

	// The recipient can
	c, rec := newJSONContext(e, http.MethodPut, target, "", alice.ID)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(notif.ID))
	require.NoError(t, h.MarkAsRead(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var updated models.Notification
	require.NoError(t, db.First(&updated, notif.ID).Error)
	assert.True(t, updated.IsRead)

	// Missing notification is a 404, not a 403
	c, _ = newJSONContext(e, http.MethodPut, "/api/v1/notifications/9999/read", "", alice.ID)
	c.SetParamNames("id")
	c.SetParamValues("9999")
	err = h.MarkAsRead(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}
