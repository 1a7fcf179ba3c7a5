package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"quillpress/internal/config"
	"quillpress/internal/middleware"
	"quillpress/internal/models"
	"quillpress/internal/services"
)

type AuthHandler struct {
	session config.SessionConfig
}

func NewAuthHandler(cfg config.SessionConfig) *AuthHandler {
	return &AuthHandler{session: cfg}
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	Render(c, http.StatusOK, "auth/register.html", gin.H{
		"Title": "Register",
		"Form":  RegisterForm{Role: string(models.RoleReader)},
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	var form RegisterForm
	renderForm := func(code int, errs services.ValidationError) {
		form.Password, form.ConfirmPassword = "", ""
		Render(c, code, "auth/register.html", gin.H{
			"Title":  "Register",
			"Form":   form,
			"Errors": errs,
		})
	}

	if errs := bindForm(c, &form); len(errs) > 0 {
		renderForm(http.StatusBadRequest, errs)
		return
	}

	_, err := services.Register(services.RegisterInput{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
		Confirm:  form.ConfirmPassword,
		Role:     models.Role(form.Role),
	})
	var verr services.ValidationError
	if errors.As(err, &verr) {
		renderForm(http.StatusBadRequest, verr)
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	AddFlash(c, FlashSuccess, "Account created! Please log in.")
	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	Render(c, http.StatusOK, "auth/login.html", gin.H{
		"Title": "Log in",
		"Form":  LoginForm{Next: c.Query("next")},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	var form LoginForm
	if errs := bindForm(c, &form); len(errs) > 0 {
		form.Password = ""
		Render(c, http.StatusBadRequest, "auth/login.html", gin.H{
			"Title":  "Log in",
			"Form":   form,
			"Errors": errs,
		})
		return
	}

	user, err := services.Authenticate(form.Email, form.Password)
	if errors.Is(err, services.ErrAuthFailure) {
		AddFlash(c, FlashDanger, "Login failed. Check email and password.")
		form.Password = ""
		Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{
			"Title": "Log in",
			"Form":  form,
		})
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	// unchecked remember keeps the cookie for the browser session only
	remember := strings.TrimSpace(form.Remember) != ""
	maxAge := 0
	if remember {
		maxAge = h.session.RememberMaxAge
	}

	session := sessions.Default(c)
	session.Clear()
	session.Options(middleware.CookieOptions(h.session, maxAge))
	session.Set(middleware.SessionUserKey, user.ID)
	session.Set(middleware.RememberKey, remember)
	session.AddFlash("Logged in successfully.", FlashSuccess)
	if err := session.Save(); err != nil {
		serverError(c, err)
		return
	}

	c.Redirect(http.StatusFound, safeNext(form.Next))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(middleware.CookieOptions(h.session, 0))
	session.AddFlash("Logged out.", FlashInfo)
	session.Save()
	c.Redirect(http.StatusFound, "/")
}
