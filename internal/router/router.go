package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"quillpress/internal/config"
	"quillpress/internal/handlers"
	"quillpress/internal/middleware"
	"quillpress/internal/services"
)

// New builds the engine with sessions, templates and every route
func New(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.MaxMultipartMemory = cfg.Upload.MaxSize
	r.HTMLRender = LoadTemplates()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log.Logger))
	r.Use(middleware.Recovery(log.Logger))

	store := cookie.NewStore([]byte(cfg.Session.Secret))
	store.Options(middleware.CookieOptions(cfg.Session, 0))
	r.Use(sessions.Sessions(cfg.Session.Name, store))
	r.Use(middleware.RememberSession(cfg.Session))
	r.Use(middleware.LoadUser())

	RegisterRoutes(r, cfg)
	return r
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config) {
	images := services.NewImageStore(cfg.Upload)

	// Handlers
	authHandler := handlers.NewAuthHandler(cfg.Session)
	postHandler := handlers.NewPostHandler(images)
	uploadHandler := handlers.NewUploadHandler(images)
	dashboardHandler := handlers.NewDashboardHandler()
	notificationHandler := handlers.NewNotificationHandler()
	adminHandler := handlers.NewAdminHandler()
	seoHandler := handlers.NewSEOHandler(cfg.Server.SiteURL)

	// Public Routes
	r.GET("/", postHandler.Index)
	r.GET("/search", postHandler.Search)
	r.GET("/post/:id", postHandler.Detail)
	r.POST("/post/:id", postHandler.Comment)
	r.GET("/uploads/:filename", uploadHandler.Serve)
	r.GET("/healthz", handlers.Health)
	r.GET("/robots.txt", seoHandler.RobotsTxt)
	r.GET("/sitemap.xml", seoHandler.SitemapXML)

	r.GET("/register", authHandler.ShowRegister)
	r.POST("/register", authHandler.Register)
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", authHandler.Login)

	// Protected Routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/logout", authHandler.Logout)

		authorized.GET("/post/create", postHandler.ShowCreate)
		authorized.POST("/post/create", postHandler.Create)
		authorized.GET("/post/edit/:id", postHandler.ShowEdit)
		authorized.POST("/post/edit/:id", postHandler.Update)

		authorized.GET("/author/dashboard", dashboardHandler.Author)
	}

	// Dashboard Routes
	dashboard := r.Group("/dashboard")
	dashboard.Use(middleware.AuthRequired())
	{
		dashboard.GET("", dashboardHandler.Overview)
		dashboard.GET("/notifications", notificationHandler.List)
		dashboard.GET("/settings", dashboardHandler.ShowSettings)
		dashboard.POST("/settings", dashboardHandler.UpdateSettings)
	}

	// Admin Routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired())
	{
		admin.GET("/dashboard", adminHandler.Dashboard)
		admin.GET("/categories", adminHandler.Categories)
		admin.POST("/categories", adminHandler.CreateCategory)
		admin.GET("/tags", adminHandler.Tags)
		admin.POST("/tags", adminHandler.CreateTag)

		admin.GET("/posts/pending", adminHandler.PendingPosts)
		admin.GET("/posts/approve/:id", adminHandler.Approve)
		admin.GET("/posts/reject/:id", adminHandler.Reject)
	}
}
