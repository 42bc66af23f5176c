package clipper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"weekly-meal-planner/internal/llm"
	"weekly-meal-planner/internal/logger"
	"weekly-meal-planner/internal/meal"
)

// ErrNoRecipeFound is returned when a page carries no recognizable ingredient list.
var ErrNoRecipeFound = errors.New("no recipe found on page")

// Extraction methods, in the order they are tried.
const (
	MethodJSONLD    = "json-ld"
	MethodMicrodata = "microdata"
	MethodMarkup    = "markup"
	MethodLLM       = "llm"
)

// Recipe is what the clipper pulled out of a page.
type Recipe struct {
	Title       string
	Ingredients []string // raw ingredient lines as written on the page
	URL         string
	Method      string
	Usage       llm.TokenUsage
}

// Row converts the recipe into a catalogue row for category. Ingredient lines are reduced
// to plain ingredient names and the source URL becomes the notes.
func (r Recipe) Row(category meal.Category) meal.Row {
	return meal.Row{
		ItemName:    r.Title,
		Category:    string(category),
		Ingredients: strings.Join(CleanIngredients(r.Ingredients), ", "),
		Notes:       r.URL,
	}
}

// Clipper fetches recipe pages and extracts their ingredient lists.
type Clipper struct {
	httpClient *http.Client
	textGen    llm.TextGenerator
	log        *logger.Logger
}

// NewClipper creates a new Clipper. textGen is optional; without it pages lacking
// structured recipe data fail with ErrNoRecipeFound.
func NewClipper(textGen llm.TextGenerator, log *logger.Logger) *Clipper {
	if log == nil {
		log = logger.Nop()
	}
	return &Clipper{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		textGen:    textGen,
		log:        log.With("component", "clipper"),
	}
}

// ClipURL fetches url and extracts its recipe.
func (c *Clipper) ClipURL(ctx context.Context, url string) (*Recipe, error) {
	doc, err := c.fetchDocument(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	rec, err := c.extract(ctx, doc)
	if err != nil {
		return nil, err
	}
	rec.URL = url
	c.log.Info("recipe clipped", "url", url, "title", rec.Title, "method", rec.Method, "ingredients", len(rec.Ingredients))
	return rec, nil
}

// ExtractHTML runs the same extraction over an HTML fragment, such as a CMS post body.
func (c *Clipper) ExtractHTML(ctx context.Context, html string) (*Recipe, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return c.extract(ctx, doc)
}

func (c *Clipper) extract(ctx context.Context, doc *goquery.Document) (*Recipe, error) {
	for _, try := range []func(*goquery.Document) *Recipe{fromJSONLD, fromMicrodata, fromMarkup} {
		if rec := try(doc); rec != nil && len(rec.Ingredients) > 0 {
			if rec.Title == "" {
				rec.Title = pageTitle(doc)
			}
			return rec, nil
		}
	}

	if c.textGen == nil {
		return nil, ErrNoRecipeFound
	}
	return c.fromLLM(ctx, doc)
}

func (c *Clipper) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "weekly-meal-planner/1.0 (+recipe clipper)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	return goquery.NewDocumentFromReader(io.LimitReader(resp.Body, 5<<20))
}

// fromJSONLD reads schema.org Recipe objects, including ones nested in @graph or arrays.
func fromJSONLD(doc *goquery.Document) *Recipe {
	var found *Recipe
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data interface{}
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		if node := findRecipeNode(data); node != nil {
			found = &Recipe{
				Title:       strings.TrimSpace(asString(node["name"])),
				Ingredients: asStrings(node["recipeIngredient"]),
				Method:      MethodJSONLD,
			}
			if len(found.Ingredients) == 0 {
				found.Ingredients = asStrings(node["ingredients"])
			}
			return false
		}
		return true
	})
	return found
}

func findRecipeNode(v interface{}) map[string]interface{} {
	switch t := v.(type) {
	case []interface{}:
		for _, item := range t {
			if node := findRecipeNode(item); node != nil {
				return node
			}
		}
	case map[string]interface{}:
		if isRecipeType(t["@type"]) {
			return t
		}
		if graph, ok := t["@graph"]; ok {
			return findRecipeNode(graph)
		}
	}
	return nil
}

func isRecipeType(v interface{}) bool {
	switch t := v.(type) {
	case string:
		return t == "Recipe"
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok && s == "Recipe" {
				return true
			}
		}
	}
	return false
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asStrings(v interface{}) []string {
	var out []string
	switch t := v.(type) {
	case string:
		for _, line := range strings.Split(t, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				out = append(out, line)
			}
		}
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	}
	return out
}

func fromMicrodata(doc *goquery.Document) *Recipe {
	scope := doc.Find(`[itemtype*="schema.org/Recipe"]`).First()
	if scope.Length() == 0 {
		return nil
	}
	rec := &Recipe{
		Title:  strings.TrimSpace(scope.Find(`[itemprop="name"]`).First().Text()),
		Method: MethodMicrodata,
	}
	scope.Find(`[itemprop="recipeIngredient"], [itemprop="ingredients"]`).Each(func(_ int, s *goquery.Selection) {
		if line := collapseSpace(s.Text()); line != "" {
			rec.Ingredients = append(rec.Ingredients, line)
		}
	})
	return rec
}

// fromMarkup handles plugin class names and plain "Ingredients" headings followed by a list.
func fromMarkup(doc *goquery.Document) *Recipe {
	rec := &Recipe{Method: MethodMarkup}
	add := func(_ int, s *goquery.Selection) {
		if line := collapseSpace(s.Text()); line != "" {
			rec.Ingredients = append(rec.Ingredients, line)
		}
	}

	doc.Find(".wprm-recipe-ingredient, .tasty-recipes-ingredients li, .recipe-ingredients li, .ingredients li").Each(add)
	if len(rec.Ingredients) > 0 {
		return rec
	}

	doc.Find("h1, h2, h3, h4").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(h.Text()), "ingredient") {
			return true
		}
		list := h.NextAllFiltered("ul, ol").First()
		if list.Length() == 0 {
			return true
		}
		list.Find("li").Each(add)
		return false
	})
	return rec
}

const extractionPrompt = `You are a recipe extraction expert. Extract the recipe from the following page text.
Return strictly a JSON object with this structure:
{"title": "Recipe Title", "ingredients": ["ingredient line 1", "ingredient line 2"]}
If the page holds no recipe, return {"title": "", "ingredients": []}.

Page text:
%s
`

type llmRecipe struct {
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients"`
}

func (c *Clipper) fromLLM(ctx context.Context, doc *goquery.Document) (*Recipe, error) {
	text := cleanText(doc)
	if len(text) > 20000 {
		text = text[:20000]
	}

	resp, err := c.textGen.GenerateContent(ctx, fmt.Sprintf(extractionPrompt, text))
	if err != nil {
		return nil, fmt.Errorf("ai extraction failed: %w", err)
	}

	var out llmRecipe
	if err := json.Unmarshal([]byte(llm.StripCodeFence(resp.Content)), &out); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}
	if len(out.Ingredients) == 0 {
		return nil, ErrNoRecipeFound
	}
	title := strings.TrimSpace(out.Title)
	if title == "" {
		title = pageTitle(doc)
	}
	return &Recipe{Title: title, Ingredients: out.Ingredients, Method: MethodLLM, Usage: resp.Usage}, nil
}

// cleanText strips noise to save LLM tokens and returns the visible body text.
func cleanText(doc *goquery.Document) string {
	body := doc.Find("body").Clone()
	body.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Remove()
	return collapseSpace(body.Text())
}

func pageTitle(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(og) != "" {
		return strings.TrimSpace(og)
	}
	if h1 := collapseSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	return collapseSpace(doc.Find("title").First().Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
