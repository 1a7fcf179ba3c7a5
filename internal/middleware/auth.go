package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"quillpress/internal/models"
	"quillpress/internal/services"
)

const CheckUserKey = "user"
const UnreadCountKey = "unread_count"

// SessionUserKey is the session field holding the logged-in user id
const SessionUserKey = "user_id"

// CurrentUser returns the user loaded by LoadUser, or nil for anonymous requests
func CurrentUser(c *gin.Context) *models.User {
	if v, exists := c.Get(CheckUserKey); exists {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// AuthRequired sends anonymous visitors to the login page
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoadUser retrieves user from session and sets to context
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(SessionUserKey).(uint)
		if !ok {
			c.Next()
			return
		}

		user, err := services.GetUser(userID)
		if err != nil {
			// account is gone, drop the stale session
			session.Delete(SessionUserKey)
			session.Save()
			c.Next()
			return
		}
		c.Set(CheckUserKey, user)

		count, err := services.UnreadCount(user.ID)
		if err != nil {
			log.Warn().Err(err).Uint("user_id", user.ID).Msg("Failed to count unread notifications")
		}
		c.Set(UnreadCountKey, count)

		c.Next()
	}
}
