package shopping

import (
	"sort"

	"weekly-meal-planner/internal/meal"
	"weekly-meal-planner/internal/planner"
)

// GroceryList returns every ingredient used anywhere in the plan, sorted and deduplicated.
func GroceryList(plan *planner.WeeklyPlan) []string {
	all := make(meal.IngredientSet)
	plan.Each(func(_ planner.Day, _ meal.Category, rec meal.Record) {
		for ing := range rec.Ingredients {
			all[ing] = struct{}{}
		}
	})
	return all.Sorted()
}

// IngredientIndex maps an ingredient to the "Category: item" labels of the meals needing it,
// one label per planned meal in plan order.
type IngredientIndex map[string][]string

// BuildIngredientIndex walks days in order and categories in display order.
func BuildIngredientIndex(plan *planner.WeeklyPlan) IngredientIndex {
	index := make(IngredientIndex)
	plan.Each(func(_ planner.Day, category meal.Category, rec meal.Record) {
		label := category.Label() + ": " + rec.ItemName
		for _, ing := range rec.Ingredients.Sorted() {
			index[ing] = append(index[ing], label)
		}
	})
	return index
}

// Ingredients returns the index keys in ascending order.
func (ix IngredientIndex) Ingredients() []string {
	keys := make([]string, 0, len(ix))
	for k := range ix {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Item is one grocery line with the meals that use it.
type Item struct {
	Ingredient string   `json:"ingredient"`
	Meals      []string `json:"meals"`
}

// Items flattens the index into sorted grocery lines.
func (ix IngredientIndex) Items() []Item {
	items := make([]Item, 0, len(ix))
	for _, ing := range ix.Ingredients() {
		items = append(items, Item{Ingredient: ing, Meals: ix[ing]})
	}
	return items
}

// ChecklistItem is a grocery line with its ticked state.
type ChecklistItem struct {
	Item
	Checked bool `json:"checked"`
}

// Checklist merges grocery lines with the set of ticked ingredients. Ticks for ingredients
// no longer in the plan are ignored.
func Checklist(index IngredientIndex, checked map[string]bool) []ChecklistItem {
	items := index.Items()
	list := make([]ChecklistItem, 0, len(items))
	for _, it := range items {
		list = append(list, ChecklistItem{Item: it, Checked: checked[it.Ingredient]})
	}
	return list
}
