package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"quillpress/internal/middleware"
	"quillpress/internal/models"
	"quillpress/internal/services"
)

type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// Overview is the landing page for any logged-in user
func (h *DashboardHandler) Overview(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var postCount, pendingCount int
	if user.IsAuthor() {
		posts, err := services.ListPostsByAuthor(user.ID)
		if err != nil {
			serverError(c, err)
			return
		}
		postCount = len(posts)
		for _, p := range posts {
			if p.Status == models.PostStatusPending {
				pendingCount++
			}
		}
	}

	Render(c, http.StatusOK, "dashboard/overview.html", gin.H{
		"Title":        "Dashboard",
		"Active":       "overview",
		"PostCount":    postCount,
		"PendingCount": pendingCount,
	})
}

func (h *DashboardHandler) Author(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := services.Authorize(user, services.ActionAuthorDashboard, nil); err != nil {
		handleError(c, err)
		return
	}

	posts, err := services.ListPostsByAuthor(user.ID)
	if err != nil {
		serverError(c, err)
		return
	}

	Render(c, http.StatusOK, "dashboard/author.html", gin.H{
		"Title":  "My posts",
		"Active": "posts",
		"Posts":  posts,
	})
}

func (h *DashboardHandler) ShowSettings(c *gin.Context) {
	user := middleware.CurrentUser(c)
	Render(c, http.StatusOK, "dashboard/settings.html", gin.H{
		"Title":  "Settings",
		"Active": "settings",
		"Form":   SettingsForm{Name: user.Name, Email: user.Email},
	})
}

func (h *DashboardHandler) UpdateSettings(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var form SettingsForm
	renderForm := func(errs services.ValidationError) {
		form.Password, form.ConfirmPassword = "", ""
		Render(c, http.StatusBadRequest, "dashboard/settings.html", gin.H{
			"Title":  "Settings",
			"Active": "settings",
			"Form":   form,
			"Errors": errs,
		})
	}

	if errs := bindForm(c, &form); len(errs) > 0 {
		renderForm(errs)
		return
	}

	err := services.UpdateProfile(user, services.ProfileInput{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
		Confirm:  form.ConfirmPassword,
	})
	var verr services.ValidationError
	if errors.As(err, &verr) {
		renderForm(verr)
		return
	}
	if err != nil {
		handleError(c, err)
		return
	}

	AddFlash(c, FlashSuccess, "Your profile has been updated.")
	c.Redirect(http.StatusFound, "/dashboard/settings")
}
