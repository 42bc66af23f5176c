package export

import (
	"bytes"
	"image/png"
	"strings"
	"testing"
	"time"

	"weekly-meal-planner/internal/meal"
	"weekly-meal-planner/internal/planner"
)

func record(name string, c meal.Category, notes string, ings ...string) meal.Record {
	return meal.Record{ItemName: name, Category: c, Ingredients: meal.NewIngredientSet(ings...), Notes: notes}
}

func samplePlan() *planner.WeeklyPlan {
	p := planner.NewWeeklyPlan()
	p.Set(planner.Monday, meal.Breakfast, record("Omelette", meal.Breakfast, "", "egg", "milk"))
	p.Set(planner.Monday, meal.Dinner, record("Carbonara_Deluxe", meal.Dinner, "https://example.com/carbonara", "egg", "pasta", "bacon"))
	p.Set(planner.Sunday, meal.Snack, record("Fruit", meal.Snack, "seasonal", "apple"))
	return p
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"markdown": FormatMarkdown,
		".md":      FormatMarkdown,
		"HTML":     FormatHTML,
		"png":      FormatPNG,
		" json ":   FormatJSON,
	}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Error("Expected an error for an unknown format")
	}
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument("  ", time.Time{}, samplePlan())
	if doc.Title != DefaultTitle {
		t.Errorf("Expected default title, got %q", doc.Title)
	}
	if strings.Join(doc.Grocery, ",") != "apple,bacon,egg,milk,pasta" {
		t.Errorf("Unexpected grocery list: %v", doc.Grocery)
	}

	days := doc.Days()
	if len(days) != planner.DaysPerWeek {
		t.Fatalf("Expected 7 days, got %d", len(days))
	}
	monday := days[0]
	if len(monday.Cells) != len(meal.RequiredCategories) {
		t.Fatalf("Expected a cell per required category, got %d", len(monday.Cells))
	}
	if !monday.Cells[0].Assigned || monday.Cells[0].Ingredients != "Egg, Milk" {
		t.Errorf("Unexpected breakfast cell: %+v", monday.Cells[0])
	}
	if monday.Cells[1].Assigned {
		t.Error("Expected Monday lunch to be empty")
	}
}

func TestMarkdownParts(t *testing.T) {
	doc := NewDocument("Week 12", time.Time{}, samplePlan())
	plan, grocery := MarkdownParts(doc)

	if !strings.HasPrefix(plan, "📅 *Week 12*") {
		t.Errorf("Unexpected header: %q", plan[:20])
	}
	if !strings.Contains(plan, "• Dinner: [Carbonara\\_Deluxe](https://example.com/carbonara)") {
		t.Errorf("Expected an escaped recipe link, got:\n%s", plan)
	}
	if !strings.Contains(plan, "• Lunch: _no meal assigned_") {
		t.Error("Expected empty cells to be marked")
	}
	if !strings.Contains(grocery, "• egg (Breakfast: Omelette; Dinner: Carbonara\\_Deluxe)") {
		t.Errorf("Unexpected grocery text:\n%s", grocery)
	}
}

func TestRenderers(t *testing.T) {
	doc := NewDocument("Week 12", time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC), samplePlan())

	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			r, err := NewRenderer(f, Options{})
			if err != nil {
				t.Fatalf("NewRenderer failed: %v", err)
			}
			if r.Format() != f || r.ContentType() == "" || !strings.HasPrefix(r.Extension(), ".") {
				t.Errorf("Unexpected renderer metadata for %s", f)
			}
			var buf bytes.Buffer
			if err := r.Render(&buf, doc); err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if buf.Len() == 0 {
				t.Fatal("Expected output")
			}

			switch f {
			case FormatHTML:
				out := buf.String()
				for _, want := range []string{`href="#day6"`, "Dinner — Carbonara_Deluxe", `<a href="https://example.com/carbonara">View Recipe</a>`, "☐ Pasta (Dinner: Carbonara_Deluxe)", "No meal assigned"} {
					if !strings.Contains(out, want) {
						t.Errorf("Expected HTML to contain %q", want)
					}
				}
			case FormatPNG:
				img, err := png.Decode(&buf)
				if err != nil {
					t.Fatalf("Expected a valid PNG: %v", err)
				}
				if img.Bounds().Dx() < 1000 {
					t.Errorf("Unexpected image width %d", img.Bounds().Dx())
				}
			case FormatJSON:
				back, err := planner.UnmarshalPlan(buf.Bytes())
				if err != nil {
					t.Fatalf("Expected a decodable plan: %v", err)
				}
				if !back.Equal(doc.Plan) {
					t.Error("Expected the JSON export to decode to the same plan")
				}
			}
		})
	}
}

func TestNewPNG_BadFont(t *testing.T) {
	if _, err := NewPNG("/nonexistent/font.ttf"); err == nil {
		t.Error("Expected an error for a missing font file")
	}
}
