package planner

import (
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"weekly-meal-planner/internal/meal"
)

func samplePlan(t *testing.T) *WeeklyPlan {
	t.Helper()
	rows := catalogue(map[string]int{"breakfast": 9, "lunch": 12, "dinner": 7, "snack": 4})
	rows = append(rows, meal.Row{
		ItemName:    "Shakshuka",
		Category:    "breakfast",
		Ingredients: "Egg, tomato, breakfast-base",
		Notes:       "https://example.com/shakshuka",
	})
	plan, err := NewBuilder(NewSelector(PolicyTolerant, rand.New(rand.NewSource(21))), nil).Build(rows)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return plan
}

func TestCodecRoundTrip(t *testing.T) {
	t.Run("Structural", func(t *testing.T) {
		plan := samplePlan(t)
		restored, err := Deserialize(Serialize(plan))
		if err != nil {
			t.Fatalf("Deserialize failed: %v", err)
		}
		if !plan.Equal(restored) {
			t.Error("Round trip changed the plan")
		}
	})

	t.Run("JSON", func(t *testing.T) {
		plan := samplePlan(t)
		data, err := MarshalPlan(plan)
		if err != nil {
			t.Fatalf("MarshalPlan failed: %v", err)
		}
		restored, err := UnmarshalPlan(data)
		if err != nil {
			t.Fatalf("UnmarshalPlan failed: %v", err)
		}
		if !plan.Equal(restored) {
			t.Error("JSON round trip changed the plan")
		}
		if restored.Complete() {
			t.Error("Expected the short snack category to survive as empty cells")
		}
	})

	t.Run("IngredientsComeBackAsSet", func(t *testing.T) {
		plan := NewWeeklyPlan()
		plan.Set(Monday, meal.Breakfast, meal.Record{
			ItemName:    "Scrambled eggs",
			Category:    meal.Breakfast,
			Ingredients: meal.NewIngredientSet("egg", "milk"),
		})

		for _, order := range []string{`["egg","milk"]`, `["milk","egg"]`} {
			data := `{"0":{"breakfast":{"item_name":"Scrambled eggs","category":"breakfast","ingredients":` + order + `,"notes":""}}}`
			restored, err := UnmarshalPlan([]byte(data))
			if err != nil {
				t.Fatalf("UnmarshalPlan failed: %v", err)
			}
			rec, ok := restored.Meal(Monday, meal.Breakfast)
			if !ok {
				t.Fatal("Expected Monday breakfast after decoding")
			}
			if !rec.Ingredients.Equal(meal.NewIngredientSet("egg", "milk")) {
				t.Errorf("Expected {egg, milk}, got %v", rec.Ingredients.Sorted())
			}
			if !plan.Equal(restored) {
				t.Errorf("Decoded plan differs for ingredient order %s", order)
			}
		}
	})

	t.Run("EmptyPlan", func(t *testing.T) {
		restored, err := Deserialize(Serialize(NewWeeklyPlan()))
		if err != nil {
			t.Fatalf("Deserialize failed: %v", err)
		}
		if restored.MealCount() != 0 {
			t.Errorf("Expected an empty plan, got %d meals", restored.MealCount())
		}
	})
}

func TestSerialize(t *testing.T) {
	plan := samplePlan(t)
	payload := Serialize(plan)
	if len(payload) != DaysPerWeek {
		t.Fatalf("Expected %d day keys, got %d", DaysPerWeek, len(payload))
	}
	for _, key := range []string{"0", "1", "2", "3", "4", "5", "6"} {
		if _, ok := payload[key]; !ok {
			t.Errorf("Missing day key %q", key)
		}
	}
	for _, day := range payload {
		for _, m := range day {
			for i := 1; i < len(m.Ingredients); i++ {
				if m.Ingredients[i-1] >= m.Ingredients[i] {
					t.Fatalf("Ingredients not sorted: %v", m.Ingredients)
				}
			}
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"item_name"`) || !strings.Contains(string(data), `"notes"`) {
		t.Errorf("Payload missing expected keys: %s", data)
	}
}

func TestDeserializeMalformed(t *testing.T) {
	valid := `"item_name":"Toast","category":"breakfast","ingredients":["bread"],"notes":""`
	cases := []struct {
		name string
		json string
	}{
		{"NonIntegerDay", `{"monday":{"breakfast":{` + valid + `}}}`},
		{"DayOutOfRange", `{"7":{"breakfast":{` + valid + `}}}`},
		{"NegativeDay", `{"-1":{"breakfast":{` + valid + `}}}`},
		{"MissingItemName", `{"0":{"breakfast":{"category":"breakfast","ingredients":["bread"],"notes":""}}}`},
		{"MissingCategory", `{"0":{"breakfast":{"item_name":"Toast","ingredients":["bread"],"notes":""}}}`},
		{"MissingIngredients", `{"0":{"breakfast":{"item_name":"Toast","category":"breakfast","notes":""}}}`},
		{"NullIngredients", `{"0":{"breakfast":{"item_name":"Toast","category":"breakfast","ingredients":null,"notes":""}}}`},
		{"MissingNotes", `{"0":{"breakfast":{"item_name":"Toast","category":"breakfast","ingredients":["bread"]}}}`},
		{"NullMeal", `{"0":{"breakfast":null}}`},
		{"NotJSON", `this is not json`},
		{"WrongType", `{"0":{"breakfast":{"item_name":5,"category":"breakfast","ingredients":[],"notes":""}}}`},
		{"Null", `null`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := UnmarshalPlan([]byte(tc.json))
			if !errors.Is(err, ErrMalformedPayload) {
				t.Fatalf("Expected ErrMalformedPayload, got %v", err)
			}
			var mpe *MalformedPayloadError
			if !errors.As(err, &mpe) {
				t.Fatalf("Expected *MalformedPayloadError, got %T", err)
			}
		})
	}

	t.Run("NullNotesAllowed", func(t *testing.T) {
		data := `{"3":{"dinner":{"item_name":"Stew","category":"dinner","ingredients":["beef"],"notes":null}}}`
		plan, err := UnmarshalPlan([]byte(data))
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		rec, ok := plan.Meal(Thursday, meal.Dinner)
		if !ok || rec.Notes != "" {
			t.Errorf("Expected Thursday dinner with empty notes, got %+v (%v)", rec, ok)
		}
	})
}
