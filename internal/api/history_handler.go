package api

import (
	"net/http"
	"time"

	"alcyxob/workout-coach/internal/domain"
	"alcyxob/workout-coach/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HistoryHandler records finished workouts and their per-set performance.
type HistoryHandler struct {
	historyService service.HistoryService
}

func NewHistoryHandler(historyService service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

type HistoryRequest struct {
	ID          string     `json:"id" binding:"omitempty,uuid"`
	PlanID      string     `json:"workoutPlanId" binding:"required"`
	CompletedAt *time.Time `json:"completedAt"`
}

type PerformanceRequest struct {
	ID            string   `json:"id" binding:"omitempty,uuid"`
	HistoryID     string   `json:"workoutHistoryId" binding:"required,uuid"`
	ExerciseID    string   `json:"exerciseId" binding:"required"`
	SetsCompleted int      `json:"setsCompleted" binding:"gte=0"`
	RepsCompleted int      `json:"repsCompleted" binding:"gte=0"`
	WeightUsed    *float64 `json:"weightUsed" binding:"omitempty,gte=0"`
}

// CreateHistory godoc
// @Summary Record a finished workout
// @Tags History
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param history body HistoryRequest true "Finished workout"
// @Success 201 {object} domain.WorkoutHistory
// @Failure 409 {object} gin.H "History ID already used"
// @Router /workout-history [post]
func (h *HistoryHandler) CreateHistory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req HistoryRequest
	if !bindJSON(c, &req) {
		return
	}
	planID, err := primitive.ObjectIDFromHex(req.PlanID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workoutPlanId format.")
		return
	}

	history, err := h.historyService.RecordWorkout(c.Request.Context(), userID, service.HistoryInput{
		ID:          req.ID,
		PlanID:      planID,
		CompletedAt: req.CompletedAt,
	})
	if err != nil {
		respondError(c, err, "Failed to record workout.")
		return
	}
	c.JSON(http.StatusCreated, history)
}

// @Router /workout-history/{id} [get]
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	history, err := h.historyService.GetHistory(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve workout history.")
		return
	}
	c.JSON(http.StatusOK, history)
}

// @Router /workout-performance [post]
func (h *HistoryHandler) CreatePerformance(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req PerformanceRequest
	if !bindJSON(c, &req) {
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(req.ExerciseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exerciseId format.")
		return
	}

	perf, err := h.historyService.RecordPerformance(c.Request.Context(), userID, service.PerformanceInput{
		ID:            req.ID,
		HistoryID:     req.HistoryID,
		ExerciseID:    exerciseID,
		SetsCompleted: req.SetsCompleted,
		RepsCompleted: req.RepsCompleted,
		WeightUsed:    req.WeightUsed,
	})
	if err != nil {
		respondError(c, err, "Failed to record performance.")
		return
	}
	c.JSON(http.StatusCreated, perf)
}

// @Router /workout-performance/{historyId} [get]
func (h *HistoryHandler) ListPerformance(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	records, err := h.historyService.ListPerformance(c.Request.Context(), userID, c.Param("historyId"))
	if err != nil {
		respondError(c, err, "Failed to retrieve performance.")
		return
	}
	if records == nil {
		records = []domain.WorkoutPerformance{}
	}
	c.JSON(http.StatusOK, records)
}

// ExportCSV godoc
// @Summary Export a workout as CSV
// @Description Uploads a CSV of the workout's sets and returns a temporary download link.
// @Tags History
// @Security BearerAuth
// @Param id path string true "History ID"
// @Success 200 {object} service.ExportResponse
// @Failure 502 {object} gin.H "Storage unavailable"
// @Router /workout-history/{id}/export [post]
func (h *HistoryHandler) ExportCSV(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	resp, err := h.historyService.ExportCSV(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to export workout.")
		return
	}
	c.JSON(http.StatusOK, resp)
}
