package planner

import (
	"bytes"
	"encoding/json"
	"strconv"

	"weekly-meal-planner/internal/meal"
)

// MealPayload is the persisted shape of one planned meal. Pointer fields let decoding
// tell a missing field apart from an empty one.
type MealPayload struct {
	ItemName    *string  `json:"item_name"`
	Category    *string  `json:"category"`
	Ingredients []string `json:"ingredients"`
	Notes       *string  `json:"notes"`
}

// Payload is the persisted shape of a plan: day index (as a string) -> category -> meal.
type Payload map[string]map[string]MealPayload

// UnmarshalJSON records which fields are present. A null notes value counts as empty notes.
func (m *MealPayload) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = MealPayload{}

	str := func(key string, nullable bool) (*string, error) {
		v, ok := raw[key]
		if !ok {
			return nil, nil
		}
		if isNull(v) {
			if nullable {
				empty := ""
				return &empty, nil
			}
			return nil, nil
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, err
		}
		return &s, nil
	}

	var err error
	if m.ItemName, err = str("item_name", false); err != nil {
		return err
	}
	if m.Category, err = str("category", false); err != nil {
		return err
	}
	if m.Notes, err = str("notes", true); err != nil {
		return err
	}
	if v, ok := raw["ingredients"]; ok && !isNull(v) {
		var list []string
		if err := json.Unmarshal(v, &list); err != nil {
			return err
		}
		if list == nil {
			list = []string{}
		}
		m.Ingredients = list
	}
	return nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// Serialize converts a plan to its persisted shape. Every day is emitted, even when empty,
// and ingredients are written in sorted order so payloads are stable.
func Serialize(plan *WeeklyPlan) Payload {
	payload := make(Payload, DaysPerWeek)
	for d := Monday; d <= Sunday; d++ {
		day := make(map[string]MealPayload, len(plan.Days[d]))
		for c, rec := range plan.Days[d] {
			name := rec.ItemName
			category := string(rec.Category)
			notes := rec.Notes
			day[string(c)] = MealPayload{
				ItemName:    &name,
				Category:    &category,
				Ingredients: rec.Ingredients.Sorted(),
				Notes:       &notes,
			}
		}
		payload[strconv.Itoa(int(d))] = day
	}
	return payload
}

// Deserialize rebuilds a plan from its persisted shape. Day keys must be integers in 0..6
// and every meal must carry item_name, category, ingredients and notes.
func Deserialize(payload Payload) (*WeeklyPlan, error) {
	plan := NewWeeklyPlan()
	seen := make(map[Day]bool, len(payload))

	for key, meals := range payload {
		n, err := strconv.Atoi(key)
		if err != nil {
			return nil, &MalformedPayloadError{Day: key, Reason: "day key is not an integer"}
		}
		day := Day(n)
		if !day.Valid() {
			return nil, &MalformedPayloadError{Day: key, Reason: "day key out of range 0-6"}
		}
		if seen[day] {
			return nil, &MalformedPayloadError{Day: key, Reason: "duplicate day key"}
		}
		seen[day] = true

		for category, m := range meals {
			field := ""
			switch {
			case m.ItemName == nil:
				field = "item_name"
			case m.Category == nil:
				field = "category"
			case m.Ingredients == nil:
				field = "ingredients"
			case m.Notes == nil:
				field = "notes"
			}
			if field != "" {
				return nil, &MalformedPayloadError{Day: key, Category: category, Reason: "missing field " + field}
			}
			plan.Set(day, meal.ParseCategory(category), meal.Record{
				ItemName:    *m.ItemName,
				Category:    meal.ParseCategory(*m.Category),
				Ingredients: meal.NewIngredientSet(m.Ingredients...),
				Notes:       *m.Notes,
			})
		}
	}
	return plan, nil
}

// MarshalPlan encodes a plan as the JSON string stored with saved plans.
func MarshalPlan(plan *WeeklyPlan) ([]byte, error) {
	return json.Marshal(Serialize(plan))
}

// UnmarshalPlan decodes a stored JSON plan.
func UnmarshalPlan(data []byte) (*WeeklyPlan, error) {
	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &MalformedPayloadError{Reason: err.Error()}
	}
	if payload == nil {
		return nil, &MalformedPayloadError{Reason: "payload is empty"}
	}
	return Deserialize(payload)
}
