package meal

import (
	"errors"
	"strings"
)

// ErrMissingItemName is returned by Normalize for a row without a usable name.
var ErrMissingItemName = errors.New("meal row has no item name")

// Row is a raw catalogue entry as the store hands it out.
type Row struct {
	ItemName    string `json:"item_name" yaml:"item_name"`
	Category    string `json:"category" yaml:"category"`
	Ingredients string `json:"ingredients" yaml:"ingredients"`
	Notes       string `json:"notes" yaml:"notes"`
}

// Record is a normalized catalogue meal. Every field is always present.
type Record struct {
	ItemName    string
	Category    Category
	Ingredients IngredientSet
	Notes       string // free text, often a recipe URL
}

// Normalize validates a row and converts it to a Record.
func Normalize(row Row) (Record, error) {
	name := strings.TrimSpace(row.ItemName)
	if name == "" {
		return Record{}, ErrMissingItemName
	}
	return Record{
		ItemName:    name,
		Category:    ParseCategory(row.Category),
		Ingredients: ParseIngredients(row.Ingredients),
		Notes:       strings.TrimSpace(row.Notes),
	}, nil
}

// Equal compares two records, treating ingredients as a set.
func (r Record) Equal(other Record) bool {
	return r.ItemName == other.ItemName &&
		r.Category == other.Category &&
		r.Notes == other.Notes &&
		r.Ingredients.Equal(other.Ingredients)
}

// Label is the "Category: item" string used by grocery indexes.
func (r Record) Label() string {
	return r.Category.Label() + ": " + r.ItemName
}

// HasRecipeLink reports whether the notes hold a link rather than free text.
func (r Record) HasRecipeLink() bool {
	return strings.HasPrefix(r.Notes, "http")
}

// Group buckets records by category, keeping input order inside each bucket.
// Categories must already be normalized.
func Group(records []Record) map[Category][]Record {
	grouped := make(map[Category][]Record)
	for _, r := range records {
		grouped[r.Category] = append(grouped[r.Category], r)
	}
	return grouped
}
