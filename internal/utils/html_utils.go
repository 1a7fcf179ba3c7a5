package utils

import (
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// UploadsPrefix is the URL path stored images are served under
const UploadsPrefix = "/uploads/"

// EnhanceHTMLContent adds loading and referrer attributes to images and points
// bare image names at the upload directory
func EnhanceHTMLContent(htmlStr string) template.HTML {
	if htmlStr == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return template.HTML(htmlStr)
	}

	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && isBareFilename(src) {
			s.SetAttr("src", UploadsPrefix+src)
		}
		s.SetAttr("referrerpolicy", "no-referrer")
		s.SetAttr("loading", "lazy")
	})

	// goquery wraps fragments in html/body
	html, _ := doc.Find("body").Html()
	if html == "" {
		html, _ = doc.Html()
	}

	return template.HTML(html)
}

func isBareFilename(src string) bool {
	return src != "" && !strings.ContainsAny(src, "/:?#")
}

// Excerpt returns the first max runes of the text content of rendered HTML
func Excerpt(rendered template.HTML, max int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(rendered)))
	if err != nil {
		return ""
	}

	text := strings.Join(strings.Fields(doc.Text()), " ")
	if utf8.RuneCountInString(text) <= max {
		return text
	}

	runes := []rune(text)
	return strings.TrimSpace(string(runes[:max])) + "…"
}
