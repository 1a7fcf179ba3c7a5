package handlers_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"

	"quillpress/internal/config"
	"quillpress/internal/db"
	"quillpress/internal/models"
	"quillpress/internal/router"
	"quillpress/internal/services"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "adminpass"
)

type testApp struct {
	t      *testing.T
	cfg    *config.Config
	server *httptest.Server
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	log.Logger = zerolog.Nop()

	dir := t.TempDir()
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test", SiteURL: "http://blog.test"},
		Database: config.DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: filepath.Join(dir, "test.db"),
		},
		Session: config.SessionConfig{
			Name:           "quillpress_test",
			Secret:         "test-secret",
			RememberMaxAge: 3600,
		},
		Upload: config.UploadConfig{
			Dir:               filepath.Join(dir, "uploads"),
			MaxSize:           1 << 20,
			AllowedExtensions: []string{"jpg", "jpeg", "png", "gif"},
		},
		Admin: config.AdminConfig{Name: "Admin", Email: adminEmail, Password: adminPassword},
	}

	prev := db.DB
	require.NoError(t, db.Init(cfg))

	server := httptest.NewServer(router.New(cfg))
	t.Cleanup(func() {
		server.Close()
		if sqlDB, err := db.DB.DB(); err == nil {
			sqlDB.Close()
		}
		db.DB = prev
	})

	return &testApp{t: t, cfg: cfg, server: server}
}

// client is a browser-like session that does not follow redirects
type client struct {
	app  *testApp
	http *http.Client
}

func (a *testApp) newClient() *client {
	jar, err := cookiejar.New(nil)
	require.NoError(a.t, err)
	return &client{
		app: a,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type response struct {
	*http.Response
	Body string
}

func (c *client) do(req *http.Request) *response {
	c.app.t.Helper()
	resp, err := c.http.Do(req)
	require.NoError(c.app.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(c.app.t, err)
	return &response{Response: resp, Body: string(body)}
}

func (c *client) get(path string) *response {
	c.app.t.Helper()
	req, err := http.NewRequest(http.MethodGet, c.app.server.URL+path, nil)
	require.NoError(c.app.t, err)
	return c.do(req)
}

func (c *client) postForm(path string, values url.Values) *response {
	c.app.t.Helper()
	req, err := http.NewRequest(http.MethodPost, c.app.server.URL+path, strings.NewReader(values.Encode()))
	require.NoError(c.app.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) postMultipart(path string, values url.Values, fileField, fileName string, content []byte) *response {
	c.app.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, vals := range values {
		for _, v := range vals {
			require.NoError(c.app.t, w.WriteField(key, v))
		}
	}
	part, err := w.CreateFormFile(fileField, fileName)
	require.NoError(c.app.t, err)
	_, err = part.Write(content)
	require.NoError(c.app.t, err)
	require.NoError(c.app.t, w.Close())

	req, err := http.NewRequest(http.MethodPost, c.app.server.URL+path, &buf)
	require.NoError(c.app.t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req)
}

func (c *client) login(email, password string) *response {
	c.app.t.Helper()
	resp := c.postForm("/login", url.Values{"email": {email}, "password": {password}})
	require.Equal(c.app.t, http.StatusFound, resp.StatusCode, resp.Body)
	return resp
}

// createUser registers an account directly through the service layer
func (a *testApp) createUser(name string, role models.Role) *models.User {
	a.t.Helper()
	hash, err := services.HashPassword("password")
	require.NoError(a.t, err)
	user := &models.User{Name: name, Email: name + "@example.com", Password: hash, Role: role}
	require.NoError(a.t, db.DB.Create(user).Error)
	return user
}

func (a *testApp) loginAs(user *models.User) *client {
	a.t.Helper()
	c := a.newClient()
	c.login(user.Email, "password")
	return c
}

func (a *testApp) createPost(owner *models.User, title string, status models.PostStatus) *models.Post {
	a.t.Helper()
	post := &models.Post{UserID: owner.ID, Title: title, Content: "Body of " + title, Status: status}
	require.NoError(a.t, db.DB.Create(post).Error)
	return post
}

func (a *testApp) reloadPost(id uint) *models.Post {
	a.t.Helper()
	post, err := services.GetPost(id)
	require.NoError(a.t, err)
	return post
}

func count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.DB.Model(model).Count(&n).Error)
	return n
}
