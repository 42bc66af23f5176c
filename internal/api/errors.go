package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"weekly-meal-planner/internal/app"
	"weekly-meal-planner/internal/clipper"
	"weekly-meal-planner/internal/meal"
	"weekly-meal-planner/internal/planner"
)

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIError carries the HTTP status and code an error should be reported with.
type APIError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.Err }

func badRequest(code, message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: code, Message: message}
}

// classify maps domain errors to API errors. Unknown errors become 500s.
func classify(err error) *APIError {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, planner.ErrMalformedPayload):
		return &APIError{Status: http.StatusBadRequest, Code: "MALFORMED_PAYLOAD", Message: err.Error(), Err: err}
	case errors.Is(err, meal.ErrMissingItemName):
		return &APIError{Status: http.StatusBadRequest, Code: "INVALID_MEAL", Message: err.Error(), Err: err}
	case errors.Is(err, app.ErrUnknownIngredient):
		return &APIError{Status: http.StatusBadRequest, Code: "UNKNOWN_INGREDIENT", Message: err.Error(), Err: err}
	case errors.Is(err, app.ErrPlanNotFound):
		return &APIError{Status: http.StatusNotFound, Code: "PLAN_NOT_FOUND", Message: err.Error(), Err: err}
	case errors.Is(err, planner.ErrEmptyCategoryPool), errors.Is(err, planner.ErrInsufficientCategoryPool):
		return &APIError{Status: http.StatusUnprocessableEntity, Code: "INSUFFICIENT_CATALOGUE", Message: err.Error(), Err: err}
	case errors.Is(err, clipper.ErrNoRecipeFound):
		return &APIError{Status: http.StatusUnprocessableEntity, Code: "NO_RECIPE_FOUND", Message: err.Error(), Err: err}
	case errors.Is(err, app.ErrGhostDisabled):
		return &APIError{Status: http.StatusServiceUnavailable, Code: "GHOST_DISABLED", Message: err.Error(), Err: err}
	default:
		return &APIError{Status: http.StatusInternalServerError, Code: "INTERNAL_ERROR", Message: "internal server error", Err: err}
	}
}

// abort records err on the context for the logger and writes the error response.
func abort(c *gin.Context, err error) {
	apiErr := classify(err)
	c.Error(err)
	c.AbortWithStatusJSON(apiErr.Status, ErrorResponse{Code: apiErr.Code, Message: apiErr.Message})
}
