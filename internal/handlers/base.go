package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"quillpress/internal/middleware"
	"quillpress/internal/services"
)

// Flash categories, matching the alert styles in the layout
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

var flashCategories = []string{FlashSuccess, FlashInfo, FlashWarning, FlashDanger}

// Flash is a one-shot message shown on the next rendered page
type Flash struct {
	Category string
	Message  string
}

// AddFlash queues a message for the next rendered page
func AddFlash(c *gin.Context, category, message string) {
	session := sessions.Default(c)
	session.AddFlash(message, category)
	if err := session.Save(); err != nil {
		log.Warn().Err(err).Msg("Failed to save flash message")
	}
}

// popFlashes drains every queued flash. The session must be saved afterwards.
func popFlashes(session sessions.Session) []Flash {
	var flashes []Flash
	for _, category := range flashCategories {
		for _, m := range session.Flashes(category) {
			if message, ok := m.(string); ok {
				flashes = append(flashes, Flash{Category: category, Message: message})
			}
		}
	}
	return flashes
}

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user := middleware.CurrentUser(c); user != nil {
		obj["CurrentUser"] = user
		count, _ := c.Get(middleware.UnreadCountKey)
		n, _ := count.(int64)
		obj["UnreadCount"] = int(n)
	}

	obj["CurrentPath"] = c.Request.URL.Path

	session := sessions.Default(c)
	obj["Flashes"] = popFlashes(session)
	if err := session.Save(); err != nil {
		log.Warn().Err(err).Msg("Failed to save session")
	}

	c.HTML(code, name, obj)
}

// RenderError renders the error page with the given status
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{
		"Title": http.StatusText(code),
		"Code":  code,
		"Error": message,
	})
}

// handleError maps a service error to a response. ValidationError is not
// handled here since each form re-renders itself.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		RenderError(c, http.StatusNotFound, "The page you requested does not exist.")
	case errors.Is(err, services.ErrForbidden):
		RenderError(c, http.StatusForbidden, "You do not have permission to do that.")
	case errors.Is(err, services.ErrUnauthenticated):
		c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
	default:
		serverError(c, err)
	}
}

func serverError(c *gin.Context, err error) {
	log.Error().Err(err).
		Str("request_id", c.GetString(middleware.RequestIDKey)).
		Str("path", c.Request.URL.Path).
		Msg("Request failed")
	RenderError(c, http.StatusInternalServerError, "Something went wrong on our side.")
}

// safeNext only accepts local absolute paths as a post-login target
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return "/"
	}
	return next
}
