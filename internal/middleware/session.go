package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"quillpress/internal/config"
)

// RememberKey marks a session created with "remember me" checked
const RememberKey = "remember"

// CookieOptions builds the session cookie options. maxAge 0 gives a browser-session cookie.
func CookieOptions(cfg config.SessionConfig, maxAge int) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// RememberSession keeps the cookie lifetime chosen at login on every later save
func RememberSession(cfg config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		maxAge := 0
		if remember, _ := session.Get(RememberKey).(bool); remember {
			maxAge = cfg.RememberMaxAge
		}
		session.Options(CookieOptions(cfg, maxAge))
		c.Next()
	}
}
