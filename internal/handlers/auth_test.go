package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/chirper-app/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAndSignIn(t *testing.T) {
	db := setupTestDB(t)
	e := newTestEcho()
	h := NewAuthHandler(repositories.NewPostgresUserRepository(db), "test-secret")

	signupBody := `{"username":"alice","email":"alice@example.com","password":"hunter2hunter2"}`
	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/auth/signup", signupBody, 0)
	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var signupResp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signupResp))
	assert.NotEmpty(t, signupResp["token"])
	// The password hash never leaves the server
	assert.NotContains(t, rec.Body.String(), "password")

	// Display name defaults to the username
	var user struct {
		DisplayName string `json:"display_name"`
	}
	require.NoError(t, json.Unmarshal(signupResp["user"], &user))
	assert.Equal(t, "alice", user.DisplayName)

	c, rec = newJSONContext(e, http.MethodPost, "/api/v1/auth/signin",
		`{"email":"alice@example.com","password":"hunter2hunter2"}`, 0)
	require.NoError(t, h.SignIn(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSignupDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	e := newTestEcho()
	h := NewAuthHandler(repositories.NewPostgresUserRepository(db), "test-secret")

	body := `{"username":"alice","email":"alice@example.com","password":"hunter2hunter2"}`
	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/auth/signup", body, 0)
	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, _ = newJSONContext(e, http.MethodPost, "/api/v1/auth/signup",
		`{"username":"alice","email":"second@example.com","password":"hunter2hunter2"}`, 0)
	err := h.Signup(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, httpStatus(t, err))
}

func TestSignupValidation(t *testing.T) {
	db := setupTestDB(t)
	e := newTestEcho()
	h := NewAuthHandler(repositories.NewPostgresUserRepository(db), "test-secret")

	cases := []string{
		`{"username":"alice","email":"not-an-email","password":"hunter2hunter2"}`,
		`{"username":"alice","email":"alice@example.com","password":"short"}`,
		`{"email":"alice@example.com","password":"hunter2hunter2"}`,
	}
	for _, body := range cases {
		c, _ := newJSONContext(e, http.MethodPost, "/api/v1/auth/signup", body, 0)
		err := h.Signup(c)
		require.Error(t, err, "body %s", body)
		assert.Equal(t, http.StatusBadRequest, httpStatus(t, err), "body %s", body)
	}
}

func TestSignInWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	e := newTestEcho()
	h := NewAuthHandler(repositories.NewPostgresUserRepository(db), "test-secret")

	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/auth/signup",
		`{"username":"alice","email":"alice@example.com","password":"hunter2hunter2"}`, 0)
	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, _ = newJSONContext(e, http.MethodPost, "/api/v1/auth/signin",
		`{"email":"alice@example.com","password":"wrong-password"}`, 0)
	err := h.SignIn(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, httpStatus(t, err))

	// Unknown email gets the same answer as a wrong password
	c, _ = newJSONContext(e, http.MethodPost, "/api/v1/auth/signin",
		`{"email":"nobody@example.com","password":"hunter2hunter2"}`, 0)
	err = h.SignIn(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, httpStatus(t, err))
}
