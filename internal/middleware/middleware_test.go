package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quillpress/internal/config"
	"quillpress/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestLoggerWritesRequestLine(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestID(), Logger(zerolog.New(&buf)))
	r.GET("/missing", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"path":"/missing"`)
	assert.Contains(t, out, `"status":404`)
}

func TestAuthRequired(t *testing.T) {
	r := gin.New()
	r.GET("/private", AuthRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, "secret")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private?tab=1", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=%2Fprivate%3Ftab%3D1", w.Header().Get("Location"))

	r = gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(CheckUserKey, &models.User{ID: 1, Role: models.RoleReader})
	})
	r.GET("/private", AuthRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, string(CurrentUser(c).Role))
	})

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "reader", w.Body.String())
}

func TestRememberSession(t *testing.T) {
	cfg := config.SessionConfig{Name: "sess", Secret: "secret", RememberMaxAge: 600}

	r := gin.New()
	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(CookieOptions(cfg, 0))
	r.Use(sessions.Sessions(cfg.Name, store), RememberSession(cfg))
	r.GET("/login", func(c *gin.Context) {
		remember := c.Query("remember") == "1"
		session := sessions.Default(c)
		session.Set(RememberKey, remember)
		if remember {
			session.Options(CookieOptions(cfg, cfg.RememberMaxAge))
		}
		require.NoError(t, session.Save())
		c.Status(http.StatusOK)
	})
	r.GET("/touch", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set("n", 1)
		require.NoError(t, session.Save())
		c.Status(http.StatusOK)
	})

	maxAge := func(w *httptest.ResponseRecorder) int {
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		return cookies[0].MaxAge
	}

	for _, tc := range []struct {
		remember string
		want     int
	}{
		{"1", 600},
		{"0", 0},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login?remember="+tc.remember, nil))
		assert.Equal(t, tc.want, maxAge(w))
		cookies := w.Result().Cookies()

		req := httptest.NewRequest(http.MethodGet, "/touch", nil)
		req.AddCookie(cookies[0])
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.want, maxAge(w), "remember=%s", tc.remember)
	}
}
