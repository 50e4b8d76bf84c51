package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/url"

	"github.com/dmitrijs2005/karmaboard/internal/server/services"
	"github.com/dmitrijs2005/karmaboard/internal/table"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(
	template.New("index.html").Funcs(template.FuncMap{
		"rank": func(i int) string { return fmt.Sprintf("%02d", i+1) },
		"cell": func(v table.Value) string {
			if s := v.String(); s != "" {
				return s
			}
			return "—"
		},
	}).ParseFS(templateFS, "templates/index.html"),
)

type pageData struct {
	Rows []table.Row
	Spec string
	// Cols is the cols query parameter as requested, carried into links.
	Cols  string
	View  string
	Error string
}

func (d pageData) Sprint() bool { return d.View == services.ViewSprint }

// ViewURL links to view with the current cols kept.
func (d pageData) ViewURL(view string) string {
	return withQuery("/", d.Cols, view)
}

// DownloadURL links to the XLSX export of what is on screen.
func (d pageData) DownloadURL() string {
	return withQuery("/leaderboard.xlsx", d.Cols, d.View)
}

func withQuery(path, cols, view string) string {
	q := url.Values{}
	if cols != "" {
		q.Set("cols", cols)
	}
	if view != "" && view != services.ViewAll {
		q.Set("view", view)
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
