package utils

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	policy = bluemonday.UGCPolicy()

	// comments get a smaller policy without images or headings
	commentPolicy = bluemonday.NewPolicy()

	renderCache = NewRenderCache(renderCacheSize)
)

func init() {
	policy.AllowImages()
	policy.RequireNoReferrerOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)

	commentPolicy.AllowStandardURLs()
	commentPolicy.AllowAttrs("href").OnElements("a")
	commentPolicy.AllowElements("p", "br", "strong", "em", "del", "code", "pre", "blockquote", "ul", "ol", "li")
	commentPolicy.RequireNoFollowOnLinks(true)
	commentPolicy.RequireNoReferrerOnLinks(true)
	commentPolicy.AddTargetBlankToFullyQualifiedLinks(true)
}

func convert(source string) ([]byte, bool) {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}

// RenderMarkdown renders a post body to sanitised HTML
func RenderMarkdown(source string) template.HTML {
	return renderCache.GetOrRender("post", source, renderPost)
}

// RenderComment renders a comment body. Images are stripped.
func RenderComment(source string) template.HTML {
	return renderCache.GetOrRender("comment", source, renderComment)
}

func renderPost(source string) template.HTML {
	out, ok := convert(source)
	if !ok {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return EnhanceHTMLContent(string(policy.SanitizeBytes(out)))
}

func renderComment(source string) template.HTML {
	out, ok := convert(source)
	if !ok {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(commentPolicy.SanitizeBytes(out))
}
