package api

import (
	"net/http"
	"strconv"

	"alcyxob/workout-coach/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionHandler drives guided workout sessions. Clients poll GET with the
// last narration sequence they have seen.
type SessionHandler struct {
	sessionService service.SessionService
}

func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

type StartSessionRequest struct {
	PlanID string `json:"planId" binding:"required"`
}

type RestDurationRequest struct {
	Seconds *int `json:"seconds" binding:"required"`
}

// StartSession godoc
// @Summary Load a workout plan into a new session
// @Description Returns the session in the overview phase.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body StartSessionRequest true "Plan to run"
// @Success 201 {object} service.SessionView
// @Failure 404 {object} gin.H "Plan not found"
// @Failure 422 {object} gin.H "Plan has no exercises"
// @Failure 502 {object} gin.H "Plan or exercise data unavailable"
// @Router /sessions [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req StartSessionRequest
	if !bindJSON(c, &req) {
		return
	}
	planID, err := primitive.ObjectIDFromHex(req.PlanID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid planId format.")
		return
	}

	view, err := h.sessionService.StartSession(c.Request.Context(), userID, planID)
	if err != nil {
		respondError(c, err, "Failed to start session.")
		return
	}
	c.JSON(http.StatusCreated, view)
}

// GetSession returns the state and the narration after ?since=N.
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	since, ok := sinceQuery(c)
	if !ok {
		return
	}
	view, err := h.sessionService.GetSession(userID, c.Param("id"), since)
	if err != nil {
		respondError(c, err, "Failed to retrieve session.")
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Router /sessions/{id}/rest [put]
func (h *SessionHandler) SetRestDuration(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req RestDurationRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.sessionService.SetRestDuration(userID, c.Param("id"), *req.Seconds)
	if err != nil {
		respondError(c, err, "Failed to set rest duration.")
		return
	}
	c.JSON(http.StatusOK, view)
}

// Act returns a handler applying action to the session in the path.
func (h *SessionHandler) Act(action service.SessionAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		since, ok := sinceQuery(c)
		if !ok {
			return
		}
		view, err := h.sessionService.Act(userID, c.Param("id"), action, since)
		if err != nil {
			respondError(c, err, "Failed to update session.")
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func sinceQuery(c *gin.Context) (uint64, bool) {
	raw := c.Query("since")
	if raw == "" {
		return 0, true
	}
	since, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "since must be a non-negative integer")
		return 0, false
	}
	return since, true
}
