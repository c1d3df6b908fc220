package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ooad/textile-shop/internal/config"
	"github.com/ooad/textile-shop/internal/hash"
	"github.com/ooad/textile-shop/internal/models"
)

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	return &testEnv{T: t, E: echo.New(), DB: db}
}

// doJSON builds an echo context carrying the authenticated user, the way the
// refresh middleware would have populated it.
func (env *testEnv) doJSON(method, path string, body any, userID uint, role string) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	if userID != 0 {
		c.Set("userID", userID)
		c.Set("role", role)
	}
	return rec, c
}

func (env *testEnv) createUser(username, email, password string) models.User {
	env.T.Helper()
	passwordHash, err := hash.HashPassword(password)
	require.NoError(env.T, err)
	user := models.User{Username: username, Email: email, PasswordHash: passwordHash, Role: "user"}
	require.NoError(env.T, env.DB.Create(&user).Error)
	return user
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	return he.Code
}
