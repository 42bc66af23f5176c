package shopping

import (
	"fmt"
	"math/rand"
	"testing"

	"weekly-meal-planner/internal/meal"
	"weekly-meal-planner/internal/planner"
)

func rec(name string, category meal.Category, ingredients ...string) meal.Record {
	return meal.Record{ItemName: name, Category: category, Ingredients: meal.NewIngredientSet(ingredients...)}
}

func smallPlan() *planner.WeeklyPlan {
	plan := planner.NewWeeklyPlan()
	plan.Set(planner.Monday, meal.Breakfast, rec("Omelette", meal.Breakfast, "egg", "milk"))
	plan.Set(planner.Monday, meal.Dinner, rec("Carbonara", meal.Dinner, "egg", "pasta", "bacon"))
	plan.Set(planner.Monday, meal.Lunch, rec("Salad", meal.Lunch, "lettuce", "tomato"))
	plan.Set(planner.Wednesday, meal.Breakfast, rec("Omelette", meal.Breakfast, "egg", "milk"))
	plan.Set(planner.Sunday, meal.Snack, rec("Fruit", meal.Snack, "apple"))
	return plan
}

func TestGroceryList(t *testing.T) {
	t.Run("SortedUnion", func(t *testing.T) {
		got := GroceryList(smallPlan())
		want := []string{"apple", "bacon", "egg", "lettuce", "milk", "pasta", "tomato"}
		if len(got) != len(want) {
			t.Fatalf("Expected %v, got %v", want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Expected %s at %d, got %s", want[i], i, got[i])
			}
		}
	})

	t.Run("EmptyPlan", func(t *testing.T) {
		if got := GroceryList(planner.NewWeeklyPlan()); len(got) != 0 {
			t.Errorf("Expected empty list, got %v", got)
		}
	})

	t.Run("MatchesUnionOfCells", func(t *testing.T) {
		var rows []meal.Row
		for _, c := range meal.RequiredCategories {
			for i := 0; i < 12; i++ {
				rows = append(rows, meal.Row{
					ItemName:    fmt.Sprintf("%s %d", c, i),
					Category:    string(c),
					Ingredients: fmt.Sprintf("shared, %s-%d, extra-%d", c, i, i%3),
				})
			}
		}
		plan, err := planner.NewBuilder(planner.NewSelector(planner.PolicyTolerant, rand.New(rand.NewSource(4))), nil).Build(rows)
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}

		union := make(meal.IngredientSet)
		plan.Each(func(_ planner.Day, _ meal.Category, r meal.Record) {
			for ing := range r.Ingredients {
				union[ing] = struct{}{}
			}
		})

		got := GroceryList(plan)
		if !meal.NewIngredientSet(got...).Equal(union) {
			t.Fatalf("Grocery list %v does not match union %v", got, union.Sorted())
		}
		for i := 1; i < len(got); i++ {
			if got[i-1] >= got[i] {
				t.Fatalf("Grocery list not strictly ascending at %d: %v", i, got)
			}
		}
	})
}

func TestBuildIngredientIndex(t *testing.T) {
	plan := smallPlan()
	index := BuildIngredientIndex(plan)

	eggs := index["egg"]
	want := []string{"Breakfast: Omelette", "Dinner: Carbonara", "Breakfast: Omelette"}
	if len(eggs) != len(want) {
		t.Fatalf("Expected %v for egg, got %v", want, eggs)
	}
	for i := range want {
		if eggs[i] != want[i] {
			t.Errorf("Expected egg label %d to be '%s', got '%s'", i, want[i], eggs[i])
		}
	}

	t.Run("Complete", func(t *testing.T) {
		for _, ing := range GroceryList(plan) {
			labels := index[ing]
			if len(labels) == 0 {
				t.Fatalf("No labels for %s", ing)
			}
			cells := 0
			plan.Each(func(_ planner.Day, _ meal.Category, r meal.Record) {
				if r.Ingredients.Contains(ing) {
					cells++
				}
			})
			if cells != len(labels) {
				t.Errorf("Expected %d labels for %s, got %d", cells, ing, len(labels))
			}
		}
	})

	t.Run("Items", func(t *testing.T) {
		items := index.Items()
		if len(items) != len(GroceryList(plan)) {
			t.Fatalf("Expected %d items, got %d", len(GroceryList(plan)), len(items))
		}
		if items[0].Ingredient != "apple" || items[0].Meals[0] != "Snack: Fruit" {
			t.Errorf("Unexpected first item: %+v", items[0])
		}
	})
}
