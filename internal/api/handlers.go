package api

import (
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"weekly-meal-planner/internal/app"
	"weekly-meal-planner/internal/catalogue"
	"weekly-meal-planner/internal/export"
	"weekly-meal-planner/internal/logger"
	"weekly-meal-planner/internal/meal"
	"weekly-meal-planner/internal/planner"
	"weekly-meal-planner/internal/shopping"
)

type handlers struct {
	app *app.App
	log *logger.Logger
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abort(c, badRequest("INVALID_ID", fmt.Sprintf("invalid id %q", c.Param("id"))))
		return 0, false
	}
	return id, true
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"timestamp":  time.Now().UTC(),
		"goroutines": runtime.NumGoroutine(),
	})
}

// --- meals ---

type mealResponse struct {
	ID          int64     `json:"id"`
	ItemName    string    `json:"item_name"`
	Category    string    `json:"category"`
	Ingredients []string  `json:"ingredients"`
	Notes       string    `json:"notes"`
	Source      string    `json:"source,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toMealResponse(e catalogue.Entry) mealResponse {
	return mealResponse{
		ID:          e.ID,
		ItemName:    e.Row.ItemName,
		Category:    e.Row.Category,
		Ingredients: meal.ParseIngredients(e.Row.Ingredients).Sorted(),
		Notes:       e.Row.Notes,
		Source:      e.Source,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (h *handlers) listMeals(c *gin.Context) {
	var category meal.Category
	if raw := c.Query("category"); raw != "" {
		category = meal.ParseCategory(raw)
	}
	entries, err := h.app.ListMeals(c.Request.Context(), category)
	if err != nil {
		abort(c, err)
		return
	}
	out := make([]mealResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toMealResponse(e))
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) addMeal(c *gin.Context) {
	var row meal.Row
	if err := c.ShouldBindJSON(&row); err != nil {
		abort(c, badRequest("INVALID_REQUEST", err.Error()))
		return
	}
	id, err := h.app.AddMeal(c.Request.Context(), row)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

type clipRequest struct {
	URL      string `json:"url" binding:"required,url"`
	Category string `json:"category" binding:"required"`
}

func (h *handlers) clipMeal(c *gin.Context) {
	var req clipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, badRequest("INVALID_REQUEST", err.Error()))
		return
	}
	category := meal.ParseCategory(req.Category)
	if !category.IsRequired() {
		abort(c, badRequest("INVALID_CATEGORY", fmt.Sprintf("unknown meal category %q", req.Category)))
		return
	}
	rec, id, err := h.app.ClipMeal(c.Request.Context(), req.URL, category)
	if err != nil {
		abort(c, err)
		return
	}
	row := rec.Row(category)
	c.JSON(http.StatusCreated, gin.H{
		"id":          id,
		"item_name":   row.ItemName,
		"category":    row.Category,
		"ingredients": meal.ParseIngredients(row.Ingredients).Sorted(),
		"notes":       row.Notes,
		"method":      rec.Method,
	})
}

func (h *handlers) deleteMeal(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.app.DeleteMeal(c.Request.Context(), id); err != nil {
		abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- plans ---

type planResponse struct {
	ID           int64                    `json:"id,omitempty"`
	Name         string                   `json:"name,omitempty"`
	CreatedAt    *time.Time               `json:"created_at,omitempty"`
	Plan         planner.Payload          `json:"plan"`
	Grocery      []string                 `json:"grocery"`
	Index        shopping.IngredientIndex `json:"ingredient_index"`
	MissingSlots int                      `json:"missing_slots"`
}

func newPlanResponse(plan *planner.WeeklyPlan) planResponse {
	return planResponse{
		Plan:         planner.Serialize(plan),
		Grocery:      shopping.GroceryList(plan),
		Index:        shopping.BuildIngredientIndex(plan),
		MissingSlots: len(plan.Missing()),
	}
}

// generatePlan builds a plan; with ?save=<name> it is stored straight away.
func (h *handlers) generatePlan(c *gin.Context) {
	ctx := c.Request.Context()
	plan, err := h.app.GeneratePlan(ctx)
	if err != nil {
		abort(c, err)
		return
	}
	resp := newPlanResponse(plan)
	if name := strings.TrimSpace(c.Query("save")); name != "" {
		id, err := h.app.SavePlan(ctx, name, plan)
		if err != nil {
			abort(c, err)
			return
		}
		resp.ID, resp.Name = id, name
	}
	c.JSON(http.StatusOK, resp)
}

type savePlanRequest struct {
	Name string          `json:"name" binding:"required"`
	Plan planner.Payload `json:"plan" binding:"required"`
}

func (h *handlers) savePlan(c *gin.Context) {
	var req savePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, badRequest("INVALID_REQUEST", err.Error()))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		abort(c, badRequest("INVALID_REQUEST", "name must not be blank"))
		return
	}
	plan, err := planner.Deserialize(req.Plan)
	if err != nil {
		abort(c, err)
		return
	}
	id, err := h.app.SavePlan(c.Request.Context(), req.Name, plan)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

type savedPlanSummary struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *handlers) listPlans(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			abort(c, badRequest("INVALID_LIMIT", "limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	plans, err := h.app.ListSavedPlans(c.Request.Context(), limit)
	if err != nil {
		abort(c, err)
		return
	}
	out := make([]savedPlanSummary, 0, len(plans))
	for _, p := range plans {
		out = append(out, savedPlanSummary{ID: p.ID, Name: p.Name, CreatedAt: p.CreatedAt})
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) getPlan(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	saved, plan, err := h.app.LoadPlan(c.Request.Context(), id)
	if err != nil {
		abort(c, err)
		return
	}
	resp := newPlanResponse(plan)
	resp.ID, resp.Name, resp.CreatedAt = saved.ID, saved.Name, &saved.CreatedAt
	c.JSON(http.StatusOK, resp)
}

func (h *handlers) deletePlan(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.app.DeletePlan(c.Request.Context(), id); err != nil {
		abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) checklist(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	items, err := h.app.Checklist(c.Request.Context(), id)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

type checkRequest struct {
	Checked *bool `json:"checked" binding:"required"`
}

func (h *handlers) setChecked(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, badRequest("INVALID_REQUEST", err.Error()))
		return
	}
	if err := h.app.SetChecked(c.Request.Context(), id, c.Param("ingredient"), *req.Checked); err != nil {
		abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) exportPlan(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	format, err := export.ParseFormat(c.DefaultQuery("format", string(export.FormatHTML)))
	if err != nil {
		abort(c, badRequest("INVALID_FORMAT", err.Error()))
		return
	}
	data, r, _, err := h.app.ExportSaved(c.Request.Context(), id, format)
	if err != nil {
		abort(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="meal-plan-%d%s"`, id, r.Extension()))
	c.Data(http.StatusOK, r.ContentType(), data)
}

type publishRequest struct {
	Publish bool `json:"publish"`
}

func (h *handlers) publishPlan(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req publishRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abort(c, badRequest("INVALID_REQUEST", err.Error()))
			return
		}
	}
	post, err := h.app.PublishPlan(c.Request.Context(), id, req.Publish)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": post.ID, "url": post.URL})
}

// --- admin ---

func (h *handlers) syncGhost(c *gin.Context) {
	res, err := h.app.SyncFromGhost(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": res.Imported, "unchanged": res.Unchanged, "skipped": res.Skipped})
}

func (h *handlers) metrics(c *gin.Context) {
	days := 7
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			abort(c, badRequest("INVALID_DAYS", "days must be a positive integer"))
			return
		}
		days = n
	}
	report, err := h.app.Report(c.Request.Context(), days)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
