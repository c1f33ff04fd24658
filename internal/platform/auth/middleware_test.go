package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func mintToken(t *testing.T, role string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-1",
		"role": role,
		"exp":  exp.Unix(),
	})
	s, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return s
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	authed := r.Group("/")
	authed.Use(RequireAuth(testSecret))
	authed.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"sub": SubjectFrom(c), "role": RoleFrom(c)})
	})

	admin := r.Group("/")
	admin.Use(RequireAuth(testSecret), RequireAdmin())
	admin.GET("/admin-only", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func doGet(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	r := newTestRouter()

	t.Run("有効なトークンで通る", func(t *testing.T) {
		tok := mintToken(t, RoleTeacher, time.Now().Add(time.Hour))
		w := doGet(r, "/me", "Bearer "+tok)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"sub":"user-1"`)
		assert.Contains(t, w.Body.String(), `"role":"teacher"`)
	})

	t.Run("ヘッダなしは401", func(t *testing.T) {
		w := doGet(r, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Bearer以外は401", func(t *testing.T) {
		w := doGet(r, "/me", "Basic abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("期限切れは401", func(t *testing.T) {
		tok := mintToken(t, RoleTeacher, time.Now().Add(-time.Hour))
		w := doGet(r, "/me", "Bearer "+tok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("別鍵の署名は401", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "user-1",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		s, err := token.SignedString([]byte("other-secret"))
		require.NoError(t, err)
		w := doGet(r, "/me", "Bearer "+s)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	r := newTestRouter()

	t.Run("adminは通る", func(t *testing.T) {
		tok := mintToken(t, RoleAdmin, time.Now().Add(time.Hour))
		w := doGet(r, "/admin-only", "Bearer "+tok)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("teacherは403", func(t *testing.T) {
		tok := mintToken(t, RoleTeacher, time.Now().Add(time.Hour))
		w := doGet(r, "/admin-only", "Bearer "+tok)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
