package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quillpress/internal/middleware"
	"quillpress/internal/services"
)

type NotificationHandler struct{}

func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{}
}

// List shows the latest notifications of the current user. Reading them does
// not mark them read.
func (h *NotificationHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	notifications, err := services.ListNotifications(user.ID)
	if err != nil {
		serverError(c, err)
		return
	}

	Render(c, http.StatusOK, "notification/list.html", gin.H{
		"Title":         "Notifications",
		"Notifications": notifications,
		"Active":        "notifications",
	})
}
