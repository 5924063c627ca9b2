package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/healthme/pkg"

	log "github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templatesFS embed.FS

type pageData struct {
	Title    string
	LoggedIn bool
	Message  string
	Messages []string
	Data     any
}

type Pages struct {
	tmpl *template.Template
}

func NewPages() (*Pages, error) {
	tmpl, err := template.New("pages").
		Funcs(template.FuncMap{
			"date": func(t time.Time) string {
				return t.Format("2006-01-02 15:04")
			},
			"day": func(t time.Time) string {
				return t.Format(formDateLayout)
			},
			"num": func(f float64) string {
				return strconv.FormatFloat(f, 'f', 1, 64)
			},
			"optNum": func(f *float64) string {
				if f == nil {
					return "-"
				}
				return strconv.FormatFloat(*f, 'f', 1, 64)
			},
		}).
		ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Pages{
		tmpl: tmpl,
	}, nil
}

// Render executes the page into a buffer first, so a failing template never
// leaves a half written page behind.
func (p *Pages) Render(w http.ResponseWriter, statusCode int, name string, data pageData) {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		log.Errorf("render page %s: %s", name, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.HTML, buf.Bytes(), statusCode)
}
