package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varshinivarma16/booksbackend/internal/config"
	"github.com/varshinivarma16/booksbackend/internal/sessions"
	"github.com/varshinivarma16/booksbackend/internal/tokens"
	"github.com/varshinivarma16/booksbackend/internal/users"
	"golang.org/x/crypto/bcrypt"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *users.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	iss := tokens.NewIssuer(config.JWTConfig{
		Secret:          "test-secret-32-bytes-should-be-long-enough",
		RefreshSecret:   "refresh-secret-32-bytes-xxxxxxxxxxxx",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})
	uSvc := users.NewService(users.NewMemoryUserRepository()).WithCost(bcrypt.MinCost)
	sSvc := sessions.NewService(sessions.NewMemoryRepository())
	h := NewAuthHandler(iss, uSvc, sSvc, nil)
	r := gin.New()
	h.Register(r.Group("/api/login"))
	return r, uSvc
}

func postJSON(r *gin.Engine, path, body string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func refreshCookieFrom(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "refreshToken" {
			return c
		}
	}
	t.Fatal("refreshToken cookie not set")
	return nil
}

func TestSignupValidation(t *testing.T) {
	r, _ := newAuthRouter(t)

	w := postJSON(r, "/api/login/signup", `{"username":"a","email":"a@x.io","password":"pw"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid role")

	w = postJSON(r, "/api/login/signup", `{"username":"a","email":"a@x.io","password":"pw","role":"student"}`, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "User created successfully")

	w = postJSON(r, "/api/login/signup", `{"username":"a","email":"b@x.io","password":"pw","role":"faculty"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(r, "/api/login/signup", `{"username":"b","email":"b@x.io","password":"pw","role":"janitor"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid role")

	w = postJSON(r, "/api/login/signup", `{"username":"b"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginRefreshLogoutFlow(t *testing.T) {
	srv, err := mr.Run()
	require.NoError(t, err)
	defer srv.Close()
	sessions.SetBlacklistClient(redis.NewClient(&redis.Options{Addr: srv.Addr()}))
	defer sessions.SetBlacklistClient(nil)

	r, uSvc := newAuthRouter(t)
	_, err = uSvc.Signup(t.Context(), "faculty1", "faculty1@example.com", "abcd", "faculty")
	require.NoError(t, err)

	w := postJSON(r, "/api/login/login", `{"email":"nobody@example.com","password":"abcd"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = postJSON(r, "/api/login/login", `{"email":"faculty1@example.com","password":"nope"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(r, "/api/login/login", `{"email":"faculty1@example.com","password":"abcd"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		AccessToken string `json:"accessToken"`
		User        struct {
			ID       string `json:"id"`
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.AccessToken)
	assert.Equal(t, "faculty", body.User.Role)
	cookie := refreshCookieFrom(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 7*24*3600, cookie.MaxAge)

	// profile with the access token
	req := httptest.NewRequest(http.MethodGet, "/api/login/user", nil)
	req.Header.Set("Authorization", "Bearer "+body.AccessToken)
	pw := httptest.NewRecorder()
	r.ServeHTTP(pw, req)
	require.Equal(t, http.StatusOK, pw.Code)
	assert.Contains(t, pw.Body.String(), "faculty1")

	// refresh without cookie, with garbage, then with the real cookie
	w = postJSON(r, "/api/login/refresh-token", ``, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = postJSON(r, "/api/login/refresh-token", ``, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "refreshToken", Value: "garbage"})
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = postJSON(r, "/api/login/refresh-token", ``, func(r *http.Request) { r.AddCookie(cookie) })
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "accessToken")

	// logout revokes both tokens
	w = postJSON(r, "/api/login/logout", ``, func(r *http.Request) {
		r.AddCookie(cookie)
		r.Header.Set("Authorization", "Bearer "+body.AccessToken)
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Logged out successfully")

	w = postJSON(r, "/api/login/refresh-token", ``, func(r *http.Request) { r.AddCookie(cookie) })
	assert.Equal(t, http.StatusForbidden, w.Code)

	pw = httptest.NewRecorder()
	r.ServeHTTP(pw, req)
	assert.Equal(t, http.StatusUnauthorized, pw.Code)
}

func TestUsersAndRoleUpdate(t *testing.T) {
	r, uSvc := newAuthRouter(t)
	require.NoError(t, uSvc.Seed(t.Context()))

	lw := httptest.NewRecorder()
	r.ServeHTTP(lw, httptest.NewRequest(http.MethodGet, "/api/login/users", nil))
	require.Equal(t, http.StatusOK, lw.Code)
	assert.NotContains(t, lw.Body.String(), "password")
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(lw.Body.Bytes(), &list))
	require.Len(t, list, 3)

	w := postJSON(r, "/api/login/login", `{"email":"admin1@example.com","password":"admin123"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	student, err := uSvc.Authenticate(t.Context(), "student1@example.com", "1234")
	require.NoError(t, err)

	patch := func(role, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, "/api/login/users/"+student.ID.Hex()+"/role", strings.NewReader(`{"role":"`+role+`"}`))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rw := httptest.NewRecorder()
		r.ServeHTTP(rw, req)
		return rw
	}
	assert.Equal(t, http.StatusUnauthorized, patch("faculty", "").Code)
	assert.Equal(t, http.StatusForbidden, patch("faculty", "not-a-token").Code)
	assert.Equal(t, http.StatusBadRequest, patch("wizard", login.AccessToken).Code)
	ok := patch("faculty", login.AccessToken)
	require.Equal(t, http.StatusOK, ok.Code)
	assert.Contains(t, ok.Body.String(), "Role updated successfully")
}
