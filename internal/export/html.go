package export

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"weekly-meal-planner/internal/meal"
	"weekly-meal-planner/internal/shopping"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// HTML renders a printable page: day anchors, one table per meal, then the grocery list.
type HTML struct {
	tmpl *template.Template
}

// NewHTML parses the embedded page template.
func NewHTML() (*HTML, error) {
	tmpl, err := template.New("plan.html.tmpl").Funcs(template.FuncMap{
		"title": meal.TitleCase,
		"join":  strings.Join,
	}).ParseFS(templateFS, "templates/plan.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse html template: %w", err)
	}
	return &HTML{tmpl: tmpl}, nil
}

func (*HTML) Format() Format      { return FormatHTML }
func (*HTML) ContentType() string { return "text/html; charset=utf-8" }
func (*HTML) Extension() string   { return ".html" }

type htmlView struct {
	Title     string
	CreatedAt time.Time
	Days      []DayView
	Items     []shopping.Item
}

func (h *HTML) Render(w io.Writer, doc Document) error {
	view := htmlView{
		Title:     doc.Title,
		CreatedAt: doc.CreatedAt,
		Days:      doc.Days(),
		Items:     doc.Index.Items(),
	}
	if err := h.tmpl.Execute(w, view); err != nil {
		return fmt.Errorf("failed to render html: %w", err)
	}
	return nil
}
