package clipper

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	parenthetical = regexp.MustCompile(`\([^)]*\)`)
	// leading amounts: "2", "1/2", "1 1/2", "1-2", "0.5", "½", "2x"
	quantity = regexp.MustCompile(`^(?:[\d½¼¾⅓⅔⅛.,/\-–]+\s*(?:x\s+)?)+`)
)

var units = map[string]bool{
	"cup": true, "cups": true, "c": true,
	"tbsp": true, "tbs": true, "tablespoon": true, "tablespoons": true,
	"tsp": true, "teaspoon": true, "teaspoons": true,
	"g": true, "gram": true, "grams": true, "kg": true, "kilogram": true, "kilograms": true,
	"mg": true, "ml": true, "millilitre": true, "milliliter": true, "millilitres": true, "milliliters": true,
	"l": true, "litre": true, "liter": true, "litres": true, "liters": true, "dl": true, "cl": true,
	"oz": true, "ounce": true, "ounces": true, "lb": true, "lbs": true, "pound": true, "pounds": true,
	"pinch": true, "pinches": true, "dash": true, "handful": true, "handfuls": true,
	"can": true, "cans": true, "tin": true, "tins": true, "jar": true, "jars": true,
	"package": true, "packages": true, "pack": true, "packet": true,
	"slice": true, "slices": true, "piece": true, "pieces": true, "bunch": true, "bunches": true,
	"sprig": true, "sprigs": true, "stick": true, "sticks": true,
}

var descriptors = map[string]bool{
	"large": true, "small": true, "medium": true, "fresh": true, "freshly": true,
	"chopped": true, "diced": true, "minced": true, "sliced": true, "grated": true,
	"finely": true, "roughly": true, "heaped": true, "level": true, "about": true,
}

// CleanIngredient reduces a recipe ingredient line ("2 cups (250g) flour, sifted") to the
// ingredient name ("flour"). It returns "" when nothing usable remains.
func CleanIngredient(line string) string {
	s := strings.ToLower(strings.TrimSpace(line))
	s = parenthetical.ReplaceAllString(s, " ")
	s = quantity.ReplaceAllString(strings.TrimSpace(s), "")
	if i := strings.IndexAny(s, ",;"); i >= 0 {
		s = s[:i]
	}

	words := strings.Fields(s)
	for len(words) > 0 {
		w := strings.TrimRight(words[0], ".")
		if units[w] || descriptors[w] || isAmount(w) {
			words = words[1:]
			continue
		}
		if w == "of" && len(words) > 1 {
			words = words[1:]
			continue
		}
		break
	}
	return strings.TrimSpace(strings.Join(words, " "))
}

// CleanIngredients cleans every line and drops duplicates and blanks, keeping first-seen order.
func CleanIngredients(lines []string) []string {
	seen := make(map[string]bool, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		ing := CleanIngredient(line)
		if ing == "" || seen[ing] {
			continue
		}
		seen[ing] = true
		out = append(out, ing)
	}
	return out
}

func isAmount(w string) bool {
	for _, r := range w {
		if !unicode.IsDigit(r) && !strings.ContainsRune("½¼¾⅓⅔⅛./-–", r) {
			return false
		}
	}
	return w != ""
}
