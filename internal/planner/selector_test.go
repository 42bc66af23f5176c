package planner

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"weekly-meal-planner/internal/meal"
)

// panicRand fails the test if the selector ever reaches for randomness.
type panicRand struct{ t *testing.T }

func (p panicRand) Intn(n int) int {
	p.t.Fatalf("random source used unexpectedly (Intn(%d))", n)
	return 0
}

func record(name string, category meal.Category, ingredients ...string) meal.Record {
	return meal.Record{ItemName: name, Category: category, Ingredients: meal.NewIngredientSet(ingredients...)}
}

// distinctPool builds n meals whose ingredients never overlap, with a descending number
// of shared "common" tokens so every meal has a distinct score.
func distinctPool(n int) []meal.Record {
	pool := make([]meal.Record, n)
	for i := 0; i < n; i++ {
		ings := []string{fmt.Sprintf("unique-%d", i)}
		for k := 0; k < n-i; k++ {
			ings = append(ings, fmt.Sprintf("common-%d", k))
		}
		pool[i] = record(fmt.Sprintf("Meal %02d", i), meal.Lunch, ings...)
	}
	return pool
}

func assertNoRepeats(t *testing.T, got []meal.Record) {
	t.Helper()
	seen := make(map[string]bool)
	for _, m := range got {
		if seen[m.ItemName] {
			t.Fatalf("Meal '%s' selected twice", m.ItemName)
		}
		seen[m.ItemName] = true
	}
}

func TestScores(t *testing.T) {
	pool := []meal.Record{
		record("Omelette", meal.Breakfast, "egg", "milk"),
		record("Pancakes", meal.Breakfast, "egg", "flour", "milk"),
		record("Toast", meal.Breakfast, "bread"),
	}
	scores := Scores(pool)

	want := map[int]int{0: 4, 1: 5, 2: 1}
	for i, w := range want {
		if scores[i] != w {
			t.Errorf("Expected score %d for %s, got %d", w, pool[i].ItemName, scores[i])
		}
	}
	for _, m := range pool {
		if len(m.Ingredients) == 0 {
			t.Fatal("Scoring must not touch the records")
		}
	}
}

func TestRank(t *testing.T) {
	t.Run("SharedIngredientsRankFirst", func(t *testing.T) {
		var pool []meal.Record
		for i := 0; i < 5; i++ {
			pool = append(pool, record(fmt.Sprintf("Plain %d", i), meal.Breakfast,
				fmt.Sprintf("x-%d", i), fmt.Sprintf("y-%d", i)))
		}
		for i := 0; i < 4; i++ {
			pool = append(pool, record(fmt.Sprintf("Egg %d", i), meal.Breakfast, "egg", fmt.Sprintf("side-%d", i)))
		}
		for i := 5; i < 10; i++ {
			pool = append(pool, record(fmt.Sprintf("Plain %d", i), meal.Breakfast,
				fmt.Sprintf("x-%d", i), fmt.Sprintf("y-%d", i)))
		}

		ranked := Rank(pool)
		for i := 0; i < 4; i++ {
			if !ranked[i].Ingredients.Contains("egg") {
				t.Fatalf("Expected an egg meal at rank %d, got '%s'", i, ranked[i].ItemName)
			}
		}
		for i := 4; i < len(ranked); i++ {
			if ranked[i].Ingredients.Contains("egg") {
				t.Fatalf("Egg meal '%s' ranked behind a disjoint meal", ranked[i].ItemName)
			}
		}
	})

	t.Run("TiesKeepPoolOrder", func(t *testing.T) {
		pool := []meal.Record{
			record("C", meal.Snack, "c"),
			record("A", meal.Snack, "a"),
			record("B", meal.Snack, "b"),
		}
		ranked := Rank(pool)
		for i, want := range []string{"C", "A", "B"} {
			if ranked[i].ItemName != want {
				t.Errorf("Expected '%s' at %d, got '%s'", want, i, ranked[i].ItemName)
			}
		}
	})
}

func TestSelect(t *testing.T) {
	t.Run("EmptyPoolTolerant", func(t *testing.T) {
		s := NewSelector(PolicyTolerant, panicRand{t})
		got, err := s.Select(meal.Dinner, nil, DaysPerWeek)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Expected empty selection, got %d meals", len(got))
		}
	})

	t.Run("EmptyPoolStrict", func(t *testing.T) {
		s := NewSelector(PolicyStrict, panicRand{t})
		_, err := s.Select(meal.Dinner, nil, DaysPerWeek)
		if !errors.Is(err, ErrEmptyCategoryPool) {
			t.Fatalf("Expected ErrEmptyCategoryPool, got %v", err)
		}
	})

	t.Run("SmallPoolsReturnWhole", func(t *testing.T) {
		s := NewSelector(PolicyTolerant, panicRand{t})
		for n := 1; n <= DaysPerWeek; n++ {
			pool := distinctPool(n)
			got, err := s.Select(meal.Lunch, pool, DaysPerWeek)
			if err != nil {
				t.Fatalf("n=%d: unexpected error %v", n, err)
			}
			if len(got) != n {
				t.Fatalf("n=%d: expected %d meals, got %d", n, n, len(got))
			}
			assertNoRepeats(t, got)
		}
	})

	t.Run("ExactlySevenInScoreOrder", func(t *testing.T) {
		pool := distinctPool(DaysPerWeek)
		// reverse so that pool order and score order disagree
		for i, j := 0, len(pool)-1; i < j; i, j = i+1, j-1 {
			pool[i], pool[j] = pool[j], pool[i]
		}
		s := NewSelector(PolicyTolerant, panicRand{t})
		got, err := s.Select(meal.Lunch, pool, DaysPerWeek)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		scores := Scores(got)
		for i := 1; i < len(got); i++ {
			if scores[i] > scores[i-1] {
				t.Fatalf("Selection not in descending score order at %d: %v", i, scores)
			}
		}
		if got[0].ItemName != "Meal 00" {
			t.Errorf("Expected highest-scoring 'Meal 00' first, got '%s'", got[0].ItemName)
		}
	})

	t.Run("LargePoolsDrawFromFinalists", func(t *testing.T) {
		pool := distinctPool(30)
		top := make(map[string]bool)
		for _, m := range Rank(pool)[:MinFinalists] {
			top[m.ItemName] = true
		}
		for seed := int64(1); seed <= 50; seed++ {
			s := NewSelector(PolicyTolerant, rand.New(rand.NewSource(seed)))
			got, err := s.Select(meal.Lunch, pool, DaysPerWeek)
			if err != nil {
				t.Fatalf("seed %d: unexpected error %v", seed, err)
			}
			if len(got) != DaysPerWeek {
				t.Fatalf("seed %d: expected %d meals, got %d", seed, DaysPerWeek, len(got))
			}
			assertNoRepeats(t, got)
			for _, m := range got {
				if !top[m.ItemName] {
					t.Fatalf("seed %d: '%s' is not a finalist", seed, m.ItemName)
				}
			}
		}
	})

	t.Run("PoolBetweenCountAndFinalists", func(t *testing.T) {
		pool := distinctPool(10)
		s := NewSelector(PolicyTolerant, rand.New(rand.NewSource(7)))
		got, err := s.Select(meal.Lunch, pool, DaysPerWeek)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(got) != DaysPerWeek {
			t.Fatalf("Expected %d meals, got %d", DaysPerWeek, len(got))
		}
		assertNoRepeats(t, got)
	})

	t.Run("SeededSelectionIsReproducible", func(t *testing.T) {
		pool := distinctPool(25)
		a, _ := NewSelector(PolicyTolerant, rand.New(rand.NewSource(99))).Select(meal.Lunch, pool, DaysPerWeek)
		b, _ := NewSelector(PolicyTolerant, rand.New(rand.NewSource(99))).Select(meal.Lunch, pool, DaysPerWeek)
		for i := range a {
			if a[i].ItemName != b[i].ItemName {
				t.Fatalf("Same seed produced different selections: %s vs %s", a[i].ItemName, b[i].ItemName)
			}
		}
	})

	t.Run("StrictShortPool", func(t *testing.T) {
		s := NewSelector(PolicyStrict, panicRand{t})
		_, err := s.Select(meal.Snack, distinctPool(5), DaysPerWeek)
		if !errors.Is(err, ErrInsufficientCategoryPool) {
			t.Fatalf("Expected ErrInsufficientCategoryPool, got %v", err)
		}
		var poolErr *PoolError
		if !errors.As(err, &poolErr) {
			t.Fatalf("Expected a *PoolError, got %T", err)
		}
		if poolErr.Category != meal.Snack || poolErr.Need != DaysPerWeek || poolErr.Have != 5 {
			t.Errorf("Unexpected pool error details: %+v", poolErr)
		}
	})

	t.Run("StrictExactAndLargePools", func(t *testing.T) {
		s := NewSelector(PolicyStrict, rand.New(rand.NewSource(3)))
		got, err := s.Select(meal.Snack, distinctPool(DaysPerWeek), DaysPerWeek)
		if err != nil || len(got) != DaysPerWeek {
			t.Fatalf("Expected %d meals and no error, got %d, %v", DaysPerWeek, len(got), err)
		}
		got, err = s.Select(meal.Snack, distinctPool(20), DaysPerWeek)
		if err != nil || len(got) != DaysPerWeek {
			t.Fatalf("Expected %d meals and no error, got %d, %v", DaysPerWeek, len(got), err)
		}
	})
}

func TestParsePolicy(t *testing.T) {
	cases := map[string]Policy{"": PolicyTolerant, "tolerant": PolicyTolerant, "STRICT": PolicyStrict}
	for in, want := range cases {
		got, err := ParsePolicy(in)
		if err != nil {
			t.Fatalf("ParsePolicy(%q) failed: %v", in, err)
		}
		if got != want {
			t.Errorf("ParsePolicy(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParsePolicy("lenient"); err == nil {
		t.Error("Expected an error for an unknown policy")
	}
}
