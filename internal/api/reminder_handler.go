package api

import (
	"net/http"

	"alcyxob/workout-coach/internal/domain"
	"alcyxob/workout-coach/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReminderHandler struct {
	reminderService service.ReminderService
}

func NewReminderHandler(reminderService service.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService}
}

// ReminderRequest: time is "HH:MM", days are ISO weekdays.
type ReminderRequest struct {
	Time       string  `json:"time" binding:"required"`
	DaysOfWeek []int   `json:"daysOfWeek" binding:"required,min=1,dive,min=1,max=7"`
	PlanID     *string `json:"workoutPlanId"`
	Enabled    bool    `json:"enabled"`
}

func (r ReminderRequest) input(c *gin.Context) (service.ReminderInput, bool) {
	in := service.ReminderInput{Time: r.Time, DaysOfWeek: r.DaysOfWeek, Enabled: r.Enabled}
	if r.PlanID != nil && *r.PlanID != "" {
		planID, err := primitive.ObjectIDFromHex(*r.PlanID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid workoutPlanId format.")
			return in, false
		}
		in.PlanID = &planID
	}
	return in, true
}

// @Router /reminders [get]
func (h *ReminderHandler) ListReminders(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	reminders, err := h.reminderService.ListReminders(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve reminders.")
		return
	}
	if reminders == nil {
		reminders = []domain.Reminder{}
	}
	c.JSON(http.StatusOK, reminders)
}

// @Router /reminders [post]
func (h *ReminderHandler) CreateReminder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req ReminderRequest
	if !bindJSON(c, &req) {
		return
	}
	input, ok := req.input(c)
	if !ok {
		return
	}
	reminder, err := h.reminderService.CreateReminder(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err, "Failed to create reminder.")
		return
	}
	c.JSON(http.StatusCreated, reminder)
}

// @Router /reminders/{id} [put]
func (h *ReminderHandler) UpdateReminder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	reminderID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req ReminderRequest
	if !bindJSON(c, &req) {
		return
	}
	input, ok := req.input(c)
	if !ok {
		return
	}
	reminder, err := h.reminderService.UpdateReminder(c.Request.Context(), userID, reminderID, input)
	if err != nil {
		respondError(c, err, "Failed to update reminder.")
		return
	}
	c.JSON(http.StatusOK, reminder)
}

// @Router /reminders/{id} [delete]
func (h *ReminderHandler) DeleteReminder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	reminderID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.reminderService.DeleteReminder(c.Request.Context(), userID, reminderID); err != nil {
		respondError(c, err, "Failed to delete reminder.")
		return
	}
	c.Status(http.StatusNoContent)
}
