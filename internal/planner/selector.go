package planner

import (
	"fmt"
	"sort"
	"strings"

	"weekly-meal-planner/internal/meal"
)

// MinFinalists is the smallest finalist pool random sampling draws from.
const MinFinalists = 15

// Policy decides what happens when a category cannot fill every day.
type Policy int

const (
	// PolicyTolerant returns whatever the pool offers and leaves the rest of the week empty.
	PolicyTolerant Policy = iota
	// PolicyStrict fails when a pool has fewer meals than requested.
	PolicyStrict
)

func (p Policy) String() string {
	if p == PolicyStrict {
		return "strict"
	}
	return "tolerant"
}

// ParsePolicy accepts "tolerant" or "strict" (case-insensitive). Empty means tolerant.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tolerant":
		return PolicyTolerant, nil
	case "strict":
		return PolicyStrict, nil
	default:
		return PolicyTolerant, fmt.Errorf("unknown selection policy %q", s)
	}
}

// Selector picks a week's worth of meals from one category, favouring ingredient reuse.
type Selector struct {
	policy Policy
	rnd    Rand
}

// NewSelector creates a Selector. rnd drives finalist sampling.
func NewSelector(policy Policy, rnd Rand) *Selector {
	if rnd == nil {
		rnd = NewLockedRand(0)
	}
	return &Selector{policy: policy, rnd: rnd}
}

// Policy returns the selector's shortage policy.
func (s *Selector) Policy() Policy { return s.policy }

// Scores returns each meal's reuse score, keyed by its index in pool: the sum over its
// ingredients of how many meals in the pool use that ingredient.
func Scores(pool []meal.Record) map[int]int {
	freq := make(map[string]int)
	for _, m := range pool {
		for ing := range m.Ingredients {
			freq[ing]++
		}
	}
	scores := make(map[int]int, len(pool))
	for i, m := range pool {
		total := 0
		for ing := range m.Ingredients {
			total += freq[ing]
		}
		scores[i] = total
	}
	return scores
}

// Rank orders the pool by descending score; equal scores keep pool order.
func Rank(pool []meal.Record) []meal.Record {
	scores := Scores(pool)
	order := make([]int, len(pool))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	ranked := make([]meal.Record, len(pool))
	for i, idx := range order {
		ranked[i] = pool[idx]
	}
	return ranked
}

// Select returns up to count meals for category.
//
// Pools no larger than count come back whole, in rank order. Larger pools are cut to
// the top max(MinFinalists, count) finalists and count of them are drawn uniformly
// without replacement. Under PolicyStrict a pool smaller than count is an error.
func (s *Selector) Select(category meal.Category, pool []meal.Record, count int) ([]meal.Record, error) {
	if len(pool) == 0 {
		if s.policy == PolicyStrict && count > 0 {
			return nil, &PoolError{Category: category, Need: count, Have: 0, Err: ErrEmptyCategoryPool}
		}
		return []meal.Record{}, nil
	}
	if s.policy == PolicyStrict && len(pool) < count {
		return nil, &PoolError{Category: category, Need: count, Have: len(pool), Err: ErrInsufficientCategoryPool}
	}

	ranked := Rank(pool)
	if len(ranked) <= count {
		return ranked, nil
	}

	finalists := ranked[:min(max(MinFinalists, count), len(ranked))]
	return s.sample(finalists, count), nil
}

// sample draws count meals uniformly without replacement (partial Fisher-Yates).
func (s *Selector) sample(finalists []meal.Record, count int) []meal.Record {
	picked := make([]meal.Record, len(finalists))
	copy(picked, finalists)
	for i := 0; i < count; i++ {
		j := i + s.rnd.Intn(len(picked)-i)
		picked[i], picked[j] = picked[j], picked[i]
	}
	return picked[:count]
}
