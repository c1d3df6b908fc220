package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ooad/textile-shop/internal/hash"
	"github.com/ooad/textile-shop/internal/models"
	"github.com/ooad/textile-shop/internal/mykafka"
	"github.com/ooad/textile-shop/internal/otp"
)

type captureSender struct {
	email string
	code  string
}

func (s *captureSender) SendOTP(email, code string) error {
	s.email = email
	s.code = code
	return nil
}

func newAuthHandler(env *testEnv, sender OTPSender) *AuthHandler {
	if sender == nil {
		sender = LogOTPSender{}
	}
	return &AuthHandler{
		DB:            env.DB,
		JWTSecret:     []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		Producer:      mykafka.Nop{},
		OTP:           otp.NewStore(otp.DefaultTTL, otp.DefaultCapacity),
		Sender:        sender,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	h := newAuthHandler(env, nil)

	rec, c := env.doJSON(http.MethodPost, "/auth/register", map[string]any{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "s3cret",
		"gender":   "female",
	}, 0, "")
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var user models.User
	require.NoError(t, env.DB.Where("username = ?", "alice").First(&user).Error)
	require.Equal(t, "user", user.Role)
	require.True(t, hash.CheckPassword(user.PasswordHash, "s3cret"))

	rec, c = env.doJSON(http.MethodPost, "/auth/login", map[string]any{
		"username": "alice",
		"password": "s3cret",
	}, 0, "")
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		IsAdmin      bool   `json:"is_admin"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.False(t, resp.IsAdmin)

	cookies := rec.Result().Cookies()
	names := make(map[string]bool, len(cookies))
	for _, ck := range cookies {
		names[ck.Name] = true
	}
	require.True(t, names["accessToken"])
	require.True(t, names["refreshToken"])
}

func TestRegisterDuplicate(t *testing.T) {
	env := newTestEnv(t)
	h := newAuthHandler(env, nil)
	env.createUser("bob", "bob@example.com", "pw")

	_, c := env.doJSON(http.MethodPost, "/auth/register", map[string]any{
		"username": "bob",
		"email":    "other@example.com",
		"password": "pw",
	}, 0, "")
	err := h.Register(c)
	require.Equal(t, http.StatusConflict, httpCode(t, err))
}

func TestLoginByEmail(t *testing.T) {
	env := newTestEnv(t)
	h := newAuthHandler(env, nil)
	env.createUser("bob", "bob@example.com", "pw")

	rec, c := env.doJSON(http.MethodPost, "/auth/login", map[string]any{
		"username": "bob@example.com",
		"password": "pw",
	}, 0, "")
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	h := newAuthHandler(env, nil)
	env.createUser("bob", "bob@example.com", "pw")

	_, c := env.doJSON(http.MethodPost, "/auth/login", map[string]any{
		"username": "bob",
		"password": "wrong",
	}, 0, "")
	err := h.Login(c)
	require.Equal(t, http.StatusUnauthorized, httpCode(t, err))
}

func TestForgotPasswordResetFlow(t *testing.T) {
	env := newTestEnv(t)
	sender := &captureSender{}
	h := newAuthHandler(env, sender)
	env.createUser("carol", "carol@example.com", "old-pw")

	rec, c := env.doJSON(http.MethodPost, "/auth/forgot-password", map[string]any{"email": "carol@example.com"}, 0, "")
	require.NoError(t, h.ForgotPassword(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "carol@example.com", sender.email)
	require.Len(t, sender.code, 6)

	rec, c = env.doJSON(http.MethodPost, "/auth/forgot-password/verify", map[string]any{
		"email": "carol@example.com",
		"code":  sender.code,
	}, 0, "")
	require.NoError(t, h.ForgotPasswordVerify(c))
	var verifyResp struct {
		ResetToken string `json:"reset_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verifyResp))
	require.NotEmpty(t, verifyResp.ResetToken)

	// the code is consumed, a second verify fails
	_, c = env.doJSON(http.MethodPost, "/auth/forgot-password/verify", map[string]any{
		"email": "carol@example.com",
		"code":  sender.code,
	}, 0, "")
	require.Equal(t, http.StatusUnauthorized, httpCode(t, h.ForgotPasswordVerify(c)))

	rec, c = env.doJSON(http.MethodPost, "/auth/reset-password", map[string]any{
		"reset_token": verifyResp.ResetToken,
		"password":    "new-pw",
	}, 0, "")
	require.NoError(t, h.ResetPassword(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	var user models.User
	require.NoError(t, env.DB.Where("email = ?", "carol@example.com").First(&user).Error)
	require.True(t, hash.CheckPassword(user.PasswordHash, "new-pw"))
	require.False(t, hash.CheckPassword(user.PasswordHash, "old-pw"))
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	env := newTestEnv(t)
	sender := &captureSender{}
	h := newAuthHandler(env, sender)

	rec, c := env.doJSON(http.MethodPost, "/auth/forgot-password", map[string]any{"email": "nobody@example.com"}, 0, "")
	require.NoError(t, h.ForgotPassword(c))
	// same answer as for a known account, and no code goes out
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, sender.code)
}

func TestResetPasswordBadToken(t *testing.T) {
	env := newTestEnv(t)
	h := newAuthHandler(env, nil)

	_, c := env.doJSON(http.MethodPost, "/auth/reset-password", map[string]any{
		"reset_token": "garbage",
		"password":    "new-pw",
	}, 0, "")
	require.Equal(t, http.StatusUnauthorized, httpCode(t, h.ResetPassword(c)))
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	env := newTestEnv(t)
	h := newAuthHandler(env, nil)
	user := env.createUser("dave", "dave@example.com", "pw")

	_, c := env.doJSON(http.MethodPost, "/profile/change-password", map[string]any{
		"current_password": "wrong",
		"new_password":     "new-pw",
	}, user.ID, "user")
	require.Equal(t, http.StatusUnauthorized, httpCode(t, h.ChangePassword(c)))
}

func TestCompleteProfileTakenUsername(t *testing.T) {
	env := newTestEnv(t)
	h := newAuthHandler(env, nil)
	env.createUser("erin", "erin@example.com", "pw")
	user := env.createUser("pending", "frank@example.com", "pw")

	_, c := env.doJSON(http.MethodPost, "/profile/complete", map[string]any{
		"username": "erin",
		"gender":   "male",
	}, user.ID, "user")
	require.Equal(t, http.StatusConflict, httpCode(t, h.CompleteProfile(c)))
}
