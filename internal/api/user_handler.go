package api

import (
	"net/http"

	"alcyxob/workout-coach/internal/domain"
	"alcyxob/workout-coach/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the caller's own profile, history and badges.
type UserHandler struct {
	userService    service.UserService
	historyService service.HistoryService
}

func NewUserHandler(userService service.UserService, historyService service.HistoryService) *UserHandler {
	return &UserHandler{userService: userService, historyService: historyService}
}

type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type UpdateGoalRequest struct {
	Goal string `json:"goal" binding:"required"`
}

type UpdateWeightRequest struct {
	Weight float64 `json:"weight" binding:"required,gt=0"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// GetMe returns the authenticated user's profile.
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve profile.")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// @Router /users/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, req.Name, req.Email)
	h.respondUser(c, user, err)
}

// @Router /users/me/goal [put]
func (h *UserHandler) UpdateGoal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req UpdateGoalRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userService.UpdateGoal(c.Request.Context(), userID, req.Goal)
	h.respondUser(c, user, err)
}

// @Router /users/me/weight [put]
func (h *UserHandler) UpdateWeight(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req UpdateWeightRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userService.UpdateWeight(c.Request.Context(), userID, req.Weight)
	h.respondUser(c, user, err)
}

// ChangePassword godoc
// @Summary Change password
// @Description Replaces the password after checking the current one.
// @Tags Users
// @Security BearerAuth
// @Success 204 "Password changed"
// @Failure 403 {object} gin.H "Current password is wrong"
// @Router /users/me/password [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.userService.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err, "Failed to change password.")
		return
	}
	c.Status(http.StatusNoContent)
}

// History lists finished workouts, newest first unless sort=oldest.
// @Router /users/me/history [get]
func (h *UserHandler) History(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	newestFirst := true
	switch c.DefaultQuery("sort", "newest") {
	case "newest":
	case "oldest":
		newestFirst = false
	default:
		abortWithError(c, http.StatusBadRequest, "sort must be newest or oldest")
		return
	}

	history, err := h.historyService.ListHistory(c.Request.Context(), userID, newestFirst)
	if err != nil {
		respondError(c, err, "Failed to retrieve workout history.")
		return
	}
	if history == nil {
		history = []domain.WorkoutHistory{}
	}
	c.JSON(http.StatusOK, history)
}

// @Router /users/me/badges [get]
func (h *UserHandler) Badges(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	badges, err := h.historyService.Badges(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to compute badges.")
		return
	}
	c.JSON(http.StatusOK, badges)
}

func (h *UserHandler) respondUser(c *gin.Context, user *domain.User, err error) {
	if err != nil {
		respondError(c, err, "Failed to update profile.")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}
