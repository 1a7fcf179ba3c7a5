package handlers

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"quillpress/internal/services"
)

type SEOHandler struct {
	siteURL string
}

func NewSEOHandler(siteURL string) *SEOHandler {
	return &SEOHandler{siteURL: siteURL}
}

// RobotsTxt keeps crawlers out of the account and moderation pages
func (h *SEOHandler) RobotsTxt(c *gin.Context) {
	content := fmt.Sprintf(`User-agent: *
Allow: /

Disallow: /dashboard
Disallow: /author/
Disallow: /admin/
Disallow: /post/create
Disallow: /post/edit/
Disallow: /login
Disallow: /register
Disallow: /search

Sitemap: %s/sitemap.xml
`, h.siteURL)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, content)
}

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq"`
	Priority   float64 `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// SitemapXML lists the home page and every published post
func (h *SEOHandler) SitemapXML(c *gin.Context) {
	posts, err := services.ListPublished()
	if err != nil {
		serverError(c, err)
		return
	}

	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	set.URLs = append(set.URLs, sitemapURL{
		Loc:        h.siteURL + "/",
		LastMod:    time.Now().UTC().Format("2006-01-02"),
		ChangeFreq: "daily",
		Priority:   1.0,
	})

	for _, post := range posts {
		entry := sitemapURL{
			Loc:        fmt.Sprintf("%s/post/%d", h.siteURL, post.ID),
			ChangeFreq: "weekly",
			Priority:   0.6,
		}
		if post.PublishedAt != nil {
			entry.LastMod = post.PublishedAt.UTC().Format("2006-01-02")
			if time.Since(*post.PublishedAt) < 7*24*time.Hour {
				entry.ChangeFreq = "daily"
				entry.Priority = 0.8
			}
		}
		set.URLs = append(set.URLs, entry)
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		serverError(c, err)
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), out...))
}
