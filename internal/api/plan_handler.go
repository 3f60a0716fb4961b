package api

import (
	"net/http"

	"alcyxob/workout-coach/internal/domain"
	"alcyxob/workout-coach/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanHandler serves workout plans and their exercise entries.
type PlanHandler struct {
	planService service.WorkoutPlanService
}

func NewPlanHandler(planService service.WorkoutPlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

type PlanRequest struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	ExperienceLevel string `json:"experienceLevel"`
	Goal            string `json:"goal"`
}

// EntryRequest is one exercise row of a plan. RestSeconds defaults to 60.
type EntryRequest struct {
	PlanID      string   `json:"workoutPlanId" binding:"required"`
	ExerciseID  string   `json:"exerciseId" binding:"required"`
	Sets        int      `json:"sets" binding:"required,gt=0"`
	Reps        int      `json:"reps" binding:"required,gt=0"`
	OrderIndex  int      `json:"orderIndex" binding:"gte=0"`
	RestSeconds *int     `json:"restSeconds" binding:"omitempty,gte=0"`
	Weight      *float64 `json:"weight" binding:"omitempty,gte=0"`
}

func (r PlanRequest) input() service.PlanInput {
	return service.PlanInput{
		Name:            r.Name,
		Description:     r.Description,
		ExperienceLevel: r.ExperienceLevel,
		Goal:            r.Goal,
	}
}

func (r EntryRequest) input(c *gin.Context) (service.EntryInput, bool) {
	planID, err := primitive.ObjectIDFromHex(r.PlanID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workoutPlanId format.")
		return service.EntryInput{}, false
	}
	exerciseID, err := primitive.ObjectIDFromHex(r.ExerciseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exerciseId format.")
		return service.EntryInput{}, false
	}
	return service.EntryInput{
		PlanID:      planID,
		ExerciseID:  exerciseID,
		Sets:        r.Sets,
		Reps:        r.Reps,
		OrderIndex:  r.OrderIndex,
		RestSeconds: r.RestSeconds,
		Weight:      r.Weight,
	}, true
}

// === Plans ===

// @Router /workout-plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	plans, err := h.planService.ListPlans(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve workout plans.")
		return
	}
	if plans == nil {
		plans = []domain.WorkoutPlan{}
	}
	c.JSON(http.StatusOK, plans)
}

// CreatePlan godoc
// @Summary Create a workout plan
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body PlanRequest true "Plan details"
// @Success 201 {object} domain.WorkoutPlan
// @Failure 400 {object} gin.H "Invalid input"
// @Router /workout-plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req PlanRequest
	if !bindJSON(c, &req) {
		return
	}
	plan, err := h.planService.CreatePlan(c.Request.Context(), userID, req.input())
	if err != nil {
		respondError(c, err, "Failed to create workout plan.")
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// @Router /workout-plans/{id} [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	planID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	plan, err := h.planService.GetPlan(c.Request.Context(), userID, planID)
	if err != nil {
		respondError(c, err, "Failed to retrieve workout plan.")
		return
	}
	c.JSON(http.StatusOK, plan)
}

// @Router /workout-plans/{id} [put]
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	planID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req PlanRequest
	if !bindJSON(c, &req) {
		return
	}
	plan, err := h.planService.UpdatePlan(c.Request.Context(), userID, planID, req.input())
	if err != nil {
		respondError(c, err, "Failed to update workout plan.")
		return
	}
	c.JSON(http.StatusOK, plan)
}

// DeletePlan removes the plan together with its entries.
// @Router /workout-plans/{id} [delete]
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	planID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.planService.DeletePlan(c.Request.Context(), userID, planID); err != nil {
		respondError(c, err, "Failed to delete workout plan.")
		return
	}
	c.Status(http.StatusNoContent)
}

// === Entries ===

// ListEntries returns a plan's entries sorted by orderIndex.
// @Router /workout-exercises/{planId} [get]
func (h *PlanHandler) ListEntries(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	planID, ok := objectIDParam(c, "planId")
	if !ok {
		return
	}
	entries, err := h.planService.ListEntries(c.Request.Context(), userID, planID)
	if err != nil {
		respondError(c, err, "Failed to retrieve workout exercises.")
		return
	}
	if entries == nil {
		entries = []domain.WorkoutExercise{}
	}
	c.JSON(http.StatusOK, entries)
}

// @Router /workout-exercises [post]
func (h *PlanHandler) AddEntry(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req EntryRequest
	if !bindJSON(c, &req) {
		return
	}
	input, ok := req.input(c)
	if !ok {
		return
	}
	entry, err := h.planService.AddEntry(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err, "Failed to add workout exercise.")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// @Router /workout-exercises/{id} [put]
func (h *PlanHandler) UpdateEntry(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	entryID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req EntryRequest
	if !bindJSON(c, &req) {
		return
	}
	input, ok := req.input(c)
	if !ok {
		return
	}
	entry, err := h.planService.UpdateEntry(c.Request.Context(), userID, entryID, input)
	if err != nil {
		respondError(c, err, "Failed to update workout exercise.")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// @Router /workout-exercises/{id} [delete]
func (h *PlanHandler) DeleteEntry(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	entryID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.planService.DeleteEntry(c.Request.Context(), userID, entryID); err != nil {
		respondError(c, err, "Failed to delete workout exercise.")
		return
	}
	c.Status(http.StatusNoContent)
}
