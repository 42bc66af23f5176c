package planner

import (
	"sort"

	"weekly-meal-planner/internal/meal"
)

// DaysPerWeek is the length of a plan and the default selection count per category.
const DaysPerWeek = 7

// Day identifies a day of the plan, Monday=0 through Sunday=6.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = [DaysPerWeek]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Valid reports whether d is within 0..6.
func (d Day) Valid() bool {
	return d >= Monday && d <= Sunday
}

func (d Day) String() string {
	if !d.Valid() {
		return "Unknown"
	}
	return dayNames[d]
}

// DayPlan holds at most one meal per category for a single day.
type DayPlan map[meal.Category]meal.Record

// Categories returns the day's categories in display order: required categories first,
// then any others alphabetically.
func (dp DayPlan) Categories() []meal.Category {
	cats := make([]meal.Category, 0, len(dp))
	for c := range dp {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		oi, oj := cats[i].Order(), cats[j].Order()
		if oi != oj {
			return oi < oj
		}
		return cats[i] < cats[j]
	})
	return cats
}

// WeeklyPlan is the 7-day schedule. Cells may be empty when a category pool ran short.
type WeeklyPlan struct {
	Days [DaysPerWeek]DayPlan
}

// Slot addresses one cell of the plan.
type Slot struct {
	Day      Day
	Category meal.Category
}

// NewWeeklyPlan returns a plan with seven empty days.
func NewWeeklyPlan() *WeeklyPlan {
	p := &WeeklyPlan{}
	for i := range p.Days {
		p.Days[i] = make(DayPlan)
	}
	return p
}

// Set assigns rec to the given day and category.
func (p *WeeklyPlan) Set(day Day, category meal.Category, rec meal.Record) {
	if p.Days[day] == nil {
		p.Days[day] = make(DayPlan)
	}
	p.Days[day][category] = rec
}

// Meal returns the meal for a cell, if any.
func (p *WeeklyPlan) Meal(day Day, category meal.Category) (meal.Record, bool) {
	if !day.Valid() {
		return meal.Record{}, false
	}
	rec, ok := p.Days[day][category]
	return rec, ok
}

// Each visits every filled cell, days in order and categories in display order.
func (p *WeeklyPlan) Each(fn func(day Day, category meal.Category, rec meal.Record)) {
	for d := Monday; d <= Sunday; d++ {
		dp := p.Days[d]
		for _, c := range dp.Categories() {
			fn(d, c, dp[c])
		}
	}
}

// Missing lists the required cells that have no meal.
func (p *WeeklyPlan) Missing() []Slot {
	var missing []Slot
	for d := Monday; d <= Sunday; d++ {
		for _, c := range meal.RequiredCategories {
			if _, ok := p.Days[d][c]; !ok {
				missing = append(missing, Slot{Day: d, Category: c})
			}
		}
	}
	return missing
}

// Complete reports whether every day has every required category.
func (p *WeeklyPlan) Complete() bool {
	return len(p.Missing()) == 0
}

// MealCount returns the number of filled cells.
func (p *WeeklyPlan) MealCount() int {
	n := 0
	for _, dp := range p.Days {
		n += len(dp)
	}
	return n
}

// Equal compares plans cell by cell, with ingredients compared as sets.
func (p *WeeklyPlan) Equal(other *WeeklyPlan) bool {
	if p == nil || other == nil {
		return p == other
	}
	for d := range p.Days {
		a, b := p.Days[d], other.Days[d]
		if len(a) != len(b) {
			return false
		}
		for c, rec := range a {
			o, ok := b[c]
			if !ok || !rec.Equal(o) {
				return false
			}
		}
	}
	return true
}
