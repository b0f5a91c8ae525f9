// Package view renders the trade tracker page.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"trade-tracker-go/internal/intake"
	"trade-tracker-go/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Style is the appearance of a Result cell.
type Style struct {
	Background string
	Color      string
	Class      string
}

// CSS returns the inline style declaration for the cell.
func (s Style) CSS() template.CSS {
	return template.CSS(fmt.Sprintf("background-color: %s; color: %s", s.Background, s.Color))
}

var resultStyles = map[models.Result]Style{
	models.ResultWin:       {Background: "green", Color: "white", Class: "result-win"},
	models.ResultLoss:      {Background: "red", Color: "white", Class: "result-loss"},
	models.ResultBreakEven: {Background: "gray", Color: "white", Class: "result-break-even"},
}

// UnknownStyle is used for any Result outside the known outcomes.
var UnknownStyle = Style{Background: "white", Color: "white", Class: "result-unknown"}

// ResultStyle looks up the cell style for r.
func ResultStyle(r models.Result) Style {
	if s, ok := resultStyles[r]; ok {
		return s
	}
	return UnknownStyle
}

// Page is the data behind one render of the page.
type Page struct {
	Trades  models.TradeSet
	Form    intake.Form
	Success string
}

// Renderer executes the page template.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("index.html").Funcs(template.FuncMap{
		"resultStyle": ResultStyle,
		"results":     func() []models.Result { return models.Results },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the full page to w.
func (r *Renderer) Render(w io.Writer, p Page) error {
	if err := r.tmpl.ExecuteTemplate(w, "index.html", p); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}
