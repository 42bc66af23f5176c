package meal

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is one of the fixed meal slots of a day.
type Category string

const (
	Breakfast Category = "breakfast"
	Lunch     Category = "lunch"
	Dinner    Category = "dinner"
	Snack     Category = "snack"
)

// RequiredCategories lists the slots every complete day must fill, in display order.
var RequiredCategories = []Category{Breakfast, Lunch, Dinner, Snack}

// ParseCategory trims and lowercases a raw category name.
func ParseCategory(raw string) Category {
	return Category(strings.ToLower(strings.TrimSpace(raw)))
}

// IsRequired reports whether c is one of RequiredCategories.
func (c Category) IsRequired() bool {
	for _, rc := range RequiredCategories {
		if c == rc {
			return true
		}
	}
	return false
}

// Label returns the capitalized display name ("Breakfast").
func (c Category) Label() string {
	return TitleCase(string(c))
}

// TitleCase capitalizes every word of s for display.
// A Caser is stateful, so one is created per call.
func TitleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// Order returns the position of c in RequiredCategories, or len(RequiredCategories)
// for categories outside the fixed set.
func (c Category) Order() int {
	for i, rc := range RequiredCategories {
		if c == rc {
			return i
		}
	}
	return len(RequiredCategories)
}
