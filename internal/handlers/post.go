package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"quillpress/internal/middleware"
	"quillpress/internal/models"
	"quillpress/internal/services"
	"quillpress/internal/utils"
)

type PostHandler struct {
	images *services.ImageStore
}

func NewPostHandler(images *services.ImageStore) *PostHandler {
	return &PostHandler{images: images}
}

func (h *PostHandler) Index(c *gin.Context) {
	posts, err := services.ListPublished()
	if err != nil {
		serverError(c, err)
		return
	}
	Render(c, http.StatusOK, "index.html", gin.H{
		"Title": "Latest posts",
		"Posts": posts,
	})
}

func (h *PostHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	posts, err := services.SearchPosts(query)
	if err != nil {
		serverError(c, err)
		return
	}
	Render(c, http.StatusOK, "search.html", gin.H{
		"Title": "Search",
		"Query": query,
		"Posts": posts,
	})
}

// renderPostForm renders the create or edit page with the taxonomy choices
func (h *PostHandler) renderPostForm(c *gin.Context, code int, view string, data gin.H) {
	categories, err := services.ListCategories()
	if err != nil {
		serverError(c, err)
		return
	}
	tags, err := services.ListTags()
	if err != nil {
		serverError(c, err)
		return
	}
	data["Categories"] = categories
	data["Tags"] = tags
	Render(c, code, view, data)
}

// readPostForm binds the post form and stores an uploaded image.
// The image is only saved once every other field is valid.
func (h *PostHandler) readPostForm(c *gin.Context, form *PostForm) (services.PostInput, services.ValidationError, error) {
	errs := bindForm(c, form)
	if errs == nil {
		errs = services.ValidationError{}
	}
	in := toPostInput(form, errs)

	file, err := c.FormFile("image")
	hasImage := err == nil && file.Filename != ""
	if hasImage && !h.images.Allowed(file.Filename) {
		errs["image"] = "Images only!"
	}
	if len(errs) > 0 {
		return in, errs, nil
	}

	if err := services.ValidatePostRefs(in); err != nil {
		if mergeErrors(errs, err) {
			return in, errs, nil
		}
		return in, nil, err
	}

	if hasImage {
		name, err := h.images.Save(file)
		if err != nil {
			if mergeErrors(errs, err) {
				return in, errs, nil
			}
			return in, nil, err
		}
		in.ImageFilename = name
	}
	return in, nil, nil
}

func (h *PostHandler) ShowCreate(c *gin.Context) {
	if err := services.Authorize(middleware.CurrentUser(c), services.ActionCreatePost, nil); err != nil {
		handleError(c, err)
		return
	}
	h.renderPostForm(c, http.StatusOK, "post/create.html", gin.H{
		"Title": "New post",
		"Form":  PostForm{},
	})
}

func (h *PostHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := services.Authorize(user, services.ActionCreatePost, nil); err != nil {
		handleError(c, err)
		return
	}

	var form PostForm
	in, errs, err := h.readPostForm(c, &form)
	if err != nil {
		serverError(c, err)
		return
	}
	if len(errs) > 0 {
		h.renderPostForm(c, http.StatusBadRequest, "post/create.html", gin.H{
			"Title":  "New post",
			"Form":   form,
			"Errors": errs,
		})
		return
	}

	if _, err := services.CreatePost(user, in); err != nil {
		var verr services.ValidationError
		if errors.As(err, &verr) {
			h.renderPostForm(c, http.StatusBadRequest, "post/create.html", gin.H{
				"Title":  "New post",
				"Form":   form,
				"Errors": verr,
			})
			return
		}
		handleError(c, err)
		return
	}

	AddFlash(c, FlashSuccess, "Post created.")
	c.Redirect(http.StatusFound, "/author/dashboard")
}

// loadPost reads the :id path parameter and loads the post
func loadPost(c *gin.Context) (*models.Post, bool) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		handleError(c, services.ErrNotFound)
		return nil, false
	}
	post, err := services.GetPost(id)
	if err != nil {
		handleError(c, err)
		return nil, false
	}
	return post, true
}

func formFromPost(post *models.Post) PostForm {
	form := PostForm{
		Title:   post.Title,
		Content: post.Content,
	}
	if post.CategoryID != nil {
		form.Category = strconv.FormatUint(uint64(*post.CategoryID), 10)
	}
	for _, id := range post.TagIDs() {
		form.Tags = append(form.Tags, strconv.FormatUint(uint64(id), 10))
	}
	if post.ScheduledPublish != nil {
		form.ScheduledPublish = post.ScheduledPublish.UTC().Format("2006-01-02T15:04")
	}
	return form
}

func (h *PostHandler) ShowEdit(c *gin.Context) {
	post, ok := loadPost(c)
	if !ok {
		return
	}
	if err := services.Authorize(middleware.CurrentUser(c), services.ActionEditPost, post); err != nil {
		handleError(c, err)
		return
	}
	h.renderPostForm(c, http.StatusOK, "post/edit.html", gin.H{
		"Title": "Edit post",
		"Post":  post,
		"Form":  formFromPost(post),
	})
}

func (h *PostHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)
	post, ok := loadPost(c)
	if !ok {
		return
	}
	if err := services.Authorize(user, services.ActionEditPost, post); err != nil {
		handleError(c, err)
		return
	}

	var form PostForm
	renderForm := func(errs services.ValidationError) {
		h.renderPostForm(c, http.StatusBadRequest, "post/edit.html", gin.H{
			"Title":  "Edit post",
			"Post":   post,
			"Form":   form,
			"Errors": errs,
		})
	}

	in, errs, err := h.readPostForm(c, &form)
	if err != nil {
		serverError(c, err)
		return
	}
	if len(errs) > 0 {
		renderForm(errs)
		return
	}

	if err := services.UpdatePost(user, post, in); err != nil {
		var verr services.ValidationError
		if errors.As(err, &verr) {
			renderForm(verr)
			return
		}
		handleError(c, err)
		return
	}

	AddFlash(c, FlashSuccess, "Post updated.")
	if user.IsAuthor() && post.UserID == user.ID {
		c.Redirect(http.StatusFound, "/author/dashboard")
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", post.ID))
}

// renderDetail shows a post with its comment thread and the comment form
func renderDetail(c *gin.Context, code int, post *models.Post, form CommentForm, errs services.ValidationError) {
	thread, err := services.LoadCommentThread(post.ID)
	if err != nil {
		serverError(c, err)
		return
	}
	Render(c, code, "post/detail.html", gin.H{
		"Title":  post.Title,
		"Post":   post,
		"Body":   utils.RenderMarkdown(post.Content),
		"Thread": thread,
		"Form":   form,
		"Errors": errs,
	})
}

func (h *PostHandler) Detail(c *gin.Context) {
	post, ok := loadPost(c)
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	if err := services.Authorize(user, services.ActionReadPost, post); err != nil {
		handleError(c, err)
		return
	}

	form := CommentForm{ParentID: c.Query("reply")}
	if user != nil {
		form.Name = user.Name
		form.Email = user.Email
	}
	renderDetail(c, http.StatusOK, post, form, nil)
}

func (h *PostHandler) Comment(c *gin.Context) {
	post, ok := loadPost(c)
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	if err := services.Authorize(user, services.ActionReadPost, post); err != nil {
		handleError(c, err)
		return
	}

	var form CommentForm
	errs := bindForm(c, &form)
	if errs == nil {
		errs = services.ValidationError{}
	}

	in := services.CommentInput{
		Name:    strings.TrimSpace(form.Name),
		Email:   strings.TrimSpace(form.Email),
		Content: form.Content,
	}
	if form.ParentID != "" {
		if id, ok := utils.ParseID(form.ParentID); ok {
			in.ParentID = &id
		} else {
			errs["parent_id"] = "The comment you replied to does not exist"
		}
	}
	if len(errs) > 0 {
		renderDetail(c, http.StatusBadRequest, post, form, errs)
		return
	}

	if _, err := services.AddComment(post, user, in); err != nil {
		var verr services.ValidationError
		if errors.As(err, &verr) {
			renderDetail(c, http.StatusBadRequest, post, form, verr)
			return
		}
		handleError(c, err)
		return
	}

	AddFlash(c, FlashSuccess, "Comment added!")
	c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", post.ID))
}
