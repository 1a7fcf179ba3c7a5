package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"quillpress/internal/services"
	"quillpress/internal/utils"
)

type RegisterForm struct {
	Name            string `form:"name" binding:"required,min=2,max=50"`
	Email           string `form:"email" binding:"required,email"`
	Password        string `form:"password" binding:"required"`
	ConfirmPassword string `form:"confirm_password" binding:"required,eqfield=Password"`
	Role            string `form:"role" binding:"required,oneof=reader author"`
}

type LoginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
	Remember string `form:"remember"` // checkbox, any value means checked
	Next     string `form:"next"`
}

type PostForm struct {
	Title            string   `form:"title" binding:"required,min=2,max=200"`
	Content          string   `form:"content" binding:"required"`
	Category         string   `form:"category"`
	Tags             []string `form:"tags"`
	ScheduledPublish string   `form:"scheduled_publish"`
}

type CommentForm struct {
	Name     string `form:"name" binding:"required,min=2,max=100"`
	Email    string `form:"email" binding:"omitempty,email"`
	Content  string `form:"content" binding:"required"`
	ParentID string `form:"parent_id"`
}

type TaxonomyForm struct {
	Name string `form:"name" binding:"required,min=2,max=50"`
}

type SettingsForm struct {
	Name            string `form:"name" binding:"required,min=2,max=50"`
	Email           string `form:"email" binding:"required,email"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirm_password" binding:"eqfield=Password"`
}

// scheduleLayouts are tried in order; all are read as UTC
var scheduleLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

// bindForm binds the request into form and returns field errors keyed by form name
func bindForm(c *gin.Context, form interface{}) services.ValidationError {
	err := c.ShouldBind(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return services.ValidationError{"form": "The submitted form could not be read."}
	}

	errs := services.ValidationError{}
	t := reflect.TypeOf(form).Elem()
	for _, fe := range fieldErrs {
		name := fe.Field()
		if f, ok := t.FieldByName(fe.StructField()); ok {
			if tag := f.Tag.Get("form"); tag != "" {
				name = tag
			}
		}
		if _, exists := errs[name]; !exists {
			errs[name] = fieldMessage(fe)
		}
	}
	return errs
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		return fmt.Sprintf("Field must be at least %s characters long.", fe.Param())
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	case "email":
		return "Invalid email address."
	case "eqfield":
		return "Passwords must match"
	case "oneof":
		return "Not a valid choice"
	}
	return "Invalid value."
}

// parseSchedule reads the optional schedule field; empty means none
func parseSchedule(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range scheduleLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return &t, nil
		}
	}
	return nil, services.ValidationError{"scheduled_publish": "Not a valid datetime value."}
}

// toPostInput converts a bound post form, collecting reference and schedule errors into errs
func toPostInput(form *PostForm, errs services.ValidationError) services.PostInput {
	in := services.PostInput{
		Title:   strings.TrimSpace(form.Title),
		Content: form.Content,
		TagIDs:  utils.ParseIDs(form.Tags),
	}

	if form.Category != "" && form.Category != "0" {
		if id, ok := utils.ParseID(form.Category); ok {
			in.CategoryID = &id
		} else {
			errs["category"] = "Not a valid choice"
		}
	}

	schedule, err := parseSchedule(form.ScheduledPublish)
	var verr services.ValidationError
	if errors.As(err, &verr) {
		for k, v := range verr {
			errs[k] = v
		}
	}
	in.ScheduledPublish = schedule
	return in
}

// mergeErrors copies src into dst, keeping messages already in dst
func mergeErrors(dst services.ValidationError, src error) bool {
	var verr services.ValidationError
	if !errors.As(src, &verr) {
		return false
	}
	for k, v := range verr {
		if _, exists := dst[k]; !exists {
			dst[k] = v
		}
	}
	return true
}
