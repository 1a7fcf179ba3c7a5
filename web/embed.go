package web

import "embed"

// Templates holds the HTML layouts, includes and views
//
//go:embed templates
var Templates embed.FS
