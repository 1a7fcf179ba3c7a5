package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"quillpress/internal/middleware"
	"quillpress/internal/models"
	"quillpress/internal/services"
	"quillpress/internal/utils"
)

type AdminHandler struct{}

func NewAdminHandler() *AdminHandler {
	return &AdminHandler{}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	if err := services.Authorize(middleware.CurrentUser(c), services.ActionAdminDashboard, nil); err != nil {
		handleError(c, err)
		return
	}

	users, err := services.ListUsers()
	if err != nil {
		serverError(c, err)
		return
	}
	posts, err := services.ListAllPosts()
	if err != nil {
		serverError(c, err)
		return
	}
	comments, err := services.ListAllComments()
	if err != nil {
		serverError(c, err)
		return
	}
	categories, err := services.ListCategories()
	if err != nil {
		serverError(c, err)
		return
	}

	Render(c, http.StatusOK, "admin/dashboard.html", gin.H{
		"Title":      "Admin dashboard",
		"Users":      users,
		"Posts":      posts,
		"Comments":   comments,
		"Categories": categories,
	})
}

// moderator returns the acting admin. Anyone else is sent home with a flash
// instead of a 403.
func (h *AdminHandler) moderator(c *gin.Context) (*models.User, bool) {
	user := middleware.CurrentUser(c)
	err := services.Authorize(user, services.ActionModeratePost, nil)
	if err == nil {
		return user, true
	}
	if errors.Is(err, services.ErrForbidden) {
		AddFlash(c, FlashDanger, "Access denied.")
		c.Redirect(http.StatusFound, "/")
		return nil, false
	}
	handleError(c, err)
	return nil, false
}

func (h *AdminHandler) PendingPosts(c *gin.Context) {
	if _, ok := h.moderator(c); !ok {
		return
	}

	posts, err := services.ListPending()
	if err != nil {
		serverError(c, err)
		return
	}

	Render(c, http.StatusOK, "admin/pending.html", gin.H{
		"Title": "Pending posts",
		"Posts": posts,
	})
}

// Approve publishes a post. It is a GET so the pending list can link to it.
func (h *AdminHandler) Approve(c *gin.Context) {
	user, ok := h.moderator(c)
	if !ok {
		return
	}
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		handleError(c, services.ErrNotFound)
		return
	}

	if _, err := services.ApprovePost(user, id); err != nil {
		handleError(c, err)
		return
	}

	AddFlash(c, FlashSuccess, "Post approved and published!")
	c.Redirect(http.StatusFound, "/admin/posts/pending")
}

func (h *AdminHandler) Reject(c *gin.Context) {
	user, ok := h.moderator(c)
	if !ok {
		return
	}
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		handleError(c, services.ErrNotFound)
		return
	}

	if _, err := services.RejectPost(user, id); err != nil {
		handleError(c, err)
		return
	}

	AddFlash(c, FlashWarning, "Post has been rejected.")
	c.Redirect(http.StatusFound, "/admin/posts/pending")
}

func (h *AdminHandler) renderTaxonomy(c *gin.Context, code int, kind string, form TaxonomyForm, errs services.ValidationError) {
	data := gin.H{
		"Kind":   kind,
		"Form":   form,
		"Errors": errs,
	}

	var err error
	if kind == "category" {
		data["Title"] = "Categories"
		data["Action"] = "/admin/categories"
		data["Items"], err = services.ListCategories()
	} else {
		data["Title"] = "Tags"
		data["Action"] = "/admin/tags"
		data["Items"], err = services.ListTags()
	}
	if err != nil {
		serverError(c, err)
		return
	}
	Render(c, code, "admin/taxonomy.html", data)
}

func (h *AdminHandler) Categories(c *gin.Context) {
	if err := services.Authorize(middleware.CurrentUser(c), services.ActionManageTaxonomy, nil); err != nil {
		handleError(c, err)
		return
	}
	h.renderTaxonomy(c, http.StatusOK, "category", TaxonomyForm{}, nil)
}

func (h *AdminHandler) CreateCategory(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := services.Authorize(user, services.ActionManageTaxonomy, nil); err != nil {
		handleError(c, err)
		return
	}

	var form TaxonomyForm
	if errs := bindForm(c, &form); len(errs) > 0 {
		h.renderTaxonomy(c, http.StatusBadRequest, "category", form, errs)
		return
	}

	category, err := services.CreateCategory(user, form.Name)
	var verr services.ValidationError
	if errors.As(err, &verr) {
		h.renderTaxonomy(c, http.StatusBadRequest, "category", form, verr)
		return
	}
	if err != nil {
		handleError(c, err)
		return
	}

	AddFlash(c, FlashSuccess, "Category \""+category.Name+"\" created.")
	c.Redirect(http.StatusFound, "/admin/categories")
}

func (h *AdminHandler) Tags(c *gin.Context) {
	if err := services.Authorize(middleware.CurrentUser(c), services.ActionManageTaxonomy, nil); err != nil {
		handleError(c, err)
		return
	}
	h.renderTaxonomy(c, http.StatusOK, "tag", TaxonomyForm{}, nil)
}

func (h *AdminHandler) CreateTag(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := services.Authorize(user, services.ActionManageTaxonomy, nil); err != nil {
		handleError(c, err)
		return
	}

	var form TaxonomyForm
	if errs := bindForm(c, &form); len(errs) > 0 {
		h.renderTaxonomy(c, http.StatusBadRequest, "tag", form, errs)
		return
	}

	tag, err := services.CreateTag(user, form.Name)
	var verr services.ValidationError
	if errors.As(err, &verr) {
		h.renderTaxonomy(c, http.StatusBadRequest, "tag", form, verr)
		return
	}
	if err != nil {
		handleError(c, err)
		return
	}

	AddFlash(c, FlashSuccess, "Tag \""+tag.Name+"\" created.")
	c.Redirect(http.StatusFound, "/admin/tags")
}
