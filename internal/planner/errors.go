package planner

import (
	"errors"
	"fmt"

	"weekly-meal-planner/internal/meal"
)

var (
	// ErrEmptyCategoryPool means a category had no candidate meals at all.
	ErrEmptyCategoryPool = errors.New("empty category pool")
	// ErrInsufficientCategoryPool means a category had fewer candidates than days to fill.
	ErrInsufficientCategoryPool = errors.New("insufficient category pool")
	// ErrMalformedPayload is returned when a stored plan cannot be decoded.
	ErrMalformedPayload = errors.New("malformed plan payload")
)

// PoolError reports a short category pool under the strict policy.
type PoolError struct {
	Category meal.Category
	Need     int
	Have     int
	Err      error
}

func (e *PoolError) Error() string {
	return fmt.Sprintf("%v for %q: needed %d, found %d", e.Err, e.Category, e.Need, e.Have)
}

func (e *PoolError) Unwrap() error { return e.Err }

// MalformedPayloadError pinpoints what was wrong with a stored plan.
type MalformedPayloadError struct {
	Day      string
	Category string
	Reason   string
}

func (e *MalformedPayloadError) Error() string {
	switch {
	case e.Category != "":
		return fmt.Sprintf("%v: day %q, category %q: %s", ErrMalformedPayload, e.Day, e.Category, e.Reason)
	case e.Day != "":
		return fmt.Sprintf("%v: day %q: %s", ErrMalformedPayload, e.Day, e.Reason)
	default:
		return fmt.Sprintf("%v: %s", ErrMalformedPayload, e.Reason)
	}
}

func (e *MalformedPayloadError) Unwrap() error { return ErrMalformedPayload }
