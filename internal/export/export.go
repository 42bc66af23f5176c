package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"weekly-meal-planner/internal/meal"
	"weekly-meal-planner/internal/planner"
	"weekly-meal-planner/internal/shopping"
)

// DefaultTitle is used for documents rendered without a name.
const DefaultTitle = "Weekly Meal Plan"

// Document is everything a renderer needs: the plan and its derived grocery data.
type Document struct {
	Title     string
	CreatedAt time.Time
	Plan      *planner.WeeklyPlan
	Grocery   []string
	Index     shopping.IngredientIndex
}

// NewDocument derives the grocery list and ingredient index for plan.
func NewDocument(title string, createdAt time.Time, plan *planner.WeeklyPlan) Document {
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	return Document{
		Title:     title,
		CreatedAt: createdAt,
		Plan:      plan,
		Grocery:   shopping.GroceryList(plan),
		Index:     shopping.BuildIngredientIndex(plan),
	}
}

// Cell is one (day, category) slot prepared for display.
type Cell struct {
	Category    meal.Category
	Meal        meal.Record
	Assigned    bool
	Ingredients string // title-cased, sorted, comma separated
}

// DayView is one day of the plan prepared for display.
type DayView struct {
	Index int
	Name  string
	Cells []Cell
}

// Days lays the plan out day by day with the required categories first. Empty cells of a
// partial plan are kept so renderers can show them.
func (d Document) Days() []DayView {
	days := make([]DayView, 0, planner.DaysPerWeek)
	for day := planner.Monday; day <= planner.Sunday; day++ {
		view := DayView{Index: int(day), Name: day.String()}
		categories := append([]meal.Category(nil), meal.RequiredCategories...)
		for _, c := range d.Plan.Days[day].Categories() {
			if !c.IsRequired() {
				categories = append(categories, c)
			}
		}
		for _, c := range categories {
			rec, ok := d.Plan.Meal(day, c)
			cell := Cell{Category: c, Meal: rec, Assigned: ok}
			if ok {
				cell.Ingredients = displayIngredients(rec.Ingredients)
			}
			view.Cells = append(view.Cells, cell)
		}
		days = append(days, view)
	}
	return days
}

func displayIngredients(set meal.IngredientSet) string {
	sorted := set.Sorted()
	for i, ing := range sorted {
		sorted[i] = meal.TitleCase(ing)
	}
	return strings.Join(sorted, ", ")
}

// Format names an export format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatPNG      Format = "png"
	FormatJSON     Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatMarkdown, FormatHTML, FormatPNG, FormatJSON}

// ParseFormat accepts a format name or a common file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	case "png":
		return FormatPNG, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// Renderer writes a Document in one format.
type Renderer interface {
	Format() Format
	ContentType() string
	Extension() string
	Render(w io.Writer, doc Document) error
}

// Options tune renderer construction.
type Options struct {
	FontPath string // TrueType font for PNG output; the built-in Go font when empty
}

// NewRenderer returns the renderer for format.
func NewRenderer(format Format, opts Options) (Renderer, error) {
	switch format {
	case FormatMarkdown:
		return Markdown{}, nil
	case FormatHTML:
		return NewHTML()
	case FormatPNG:
		return NewPNG(opts.FontPath)
	case FormatJSON:
		return JSON{}, nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}
