package router

import (
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strconv"
	"time"

	"github.com/gin-contrib/multitemplate"

	"quillpress/internal/services"
	"quillpress/internal/utils"
	"quillpress/web"
)

// views lists every page; each is parsed with the layout and includes
var views = []string{
	"index.html",
	"search.html",
	"error.html",
	"auth/login.html",
	"auth/register.html",
	"post/create.html",
	"post/edit.html",
	"post/detail.html",
	"dashboard/overview.html",
	"dashboard/author.html",
	"dashboard/settings.html",
	"notification/list.html",
	"admin/dashboard.html",
	"admin/pending.html",
	"admin/taxonomy.html",
}

// LoadTemplates parses the embedded templates into a multitemplate renderer
func LoadTemplates() multitemplate.Renderer {
	return loadTemplates(web.Templates)
}

func loadTemplates(fsys fs.FS) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layouts, err := fs.Glob(fsys, "templates/layouts/*.html")
	if err != nil {
		panic(err)
	}
	includes, err := fs.Glob(fsys, "templates/includes/*.html")
	if err != nil {
		panic(err)
	}

	funcMap := templateFuncs()
	for _, view := range views {
		files := make([]string, 0, len(layouts)+len(includes)+1)
		files = append(files, layouts...)
		files = append(files, includes...)
		files = append(files, "templates/views/"+view)

		tmpl := template.Must(template.New(path.Base(files[0])).Funcs(funcMap).ParseFS(fsys, files...))
		r.Add(view, tmpl)
	}
	return r
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"add": func(a, b int) int {
			return a + b
		},
		"timeAgo":    timeAgo,
		"formatTime": formatTime,
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
		"markdown": utils.RenderMarkdown,
		"comment":  utils.RenderComment,
		"excerpt": func(s string) string {
			return utils.Excerpt(utils.RenderMarkdown(s), 200)
		},
		"fieldError": func(errs interface{}, field string) string {
			if v, ok := errs.(services.ValidationError); ok {
				return v[field]
			}
			return ""
		},
		"selected": func(values []string, id uint) bool {
			want := strconv.FormatUint(uint64(id), 10)
			for _, v := range values {
				if v == want {
					return true
				}
			}
			return false
		},
		"idString": func(id uint) string {
			return strconv.FormatUint(uint64(id), 10)
		},
	}
}

func derefTime(t interface{}) (time.Time, bool) {
	switch v := t.(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, !v.IsZero()
	}
	return time.Time{}, false
}

func formatTime(t interface{}) string {
	v, ok := derefTime(t)
	if !ok {
		return ""
	}
	return v.UTC().Format("Jan 2, 2006 15:04")
}

func timeAgo(t interface{}) string {
	v, ok := derefTime(t)
	if !ok {
		return ""
	}

	seconds := int(time.Since(v).Seconds())
	plural := func(n int, unit string) string {
		if n == 1 {
			return fmt.Sprintf("1 %s ago", unit)
		}
		return fmt.Sprintf("%d %ss ago", n, unit)
	}

	switch {
	case seconds < 60:
		return "just now"
	case seconds < 3600:
		return plural(seconds/60, "minute")
	case seconds < 86400:
		return plural(seconds/3600, "hour")
	case seconds < 2592000:
		return plural(seconds/86400, "day")
	case seconds < 31536000:
		return plural(seconds/2592000, "month")
	}
	return plural(seconds/31536000, "year")
}
