package api

import (
	"net/http"
	"time"

	"alcyxob/workout-coach/internal/domain"
	"alcyxob/workout-coach/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
	historyService  service.HistoryService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService, historyService service.HistoryService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService, historyService: historyService}
}

// --- DTOs for API (Data Transfer Objects) ---

// ExerciseRequest defines the expected JSON for creating or updating an exercise.
type ExerciseRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	MuscleGroup string `json:"muscleGroup" binding:"omitempty"` // e.g., "Chest", "Legs"
	Difficulty  string `json:"difficulty" binding:"omitempty"`  // e.g., "Beginner", "Advanced"
	ImageURL    string `json:"imageUrl" binding:"omitempty,url"`
}

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ID          string    `json:"id"`
	CreatedBy   string    `json:"createdBy"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	MuscleGroup string    `json:"muscleGroup,omitempty"`
	Difficulty  string    `json:"difficulty,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type UploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmUploadRequest struct {
	ObjectKey   string `json:"objectKey" binding:"required"`
	FileName    string `json:"fileName" binding:"required"`
	Size        int64  `json:"size" binding:"required,gt=0"`
	ContentType string `json:"contentType" binding:"required"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	return ExerciseResponse{
		ID:          ex.ID.Hex(),
		CreatedBy:   ex.CreatedBy.Hex(),
		Name:        ex.Name,
		Description: ex.Description,
		MuscleGroup: ex.MuscleGroup,
		Difficulty:  ex.Difficulty,
		ImageURL:    ex.ImageURL,
		CreatedAt:   ex.CreatedAt,
		UpdatedAt:   ex.UpdatedAt,
	}
}

// MapExercisesToResponse converts a slice of domain.Exercise to a slice of ExerciseResponse DTO.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i])
	}
	return responses
}

func (r ExerciseRequest) input() service.ExerciseInput {
	return service.ExerciseInput{
		Name:        r.Name,
		Description: r.Description,
		MuscleGroup: r.MuscleGroup,
		Difficulty:  r.Difficulty,
		ImageURL:    r.ImageURL,
	}
}

// --- Handler Methods ---

// CreateExercise godoc
// @Summary Create a new exercise
// @Description Adds an exercise to the catalog, owned by the authenticated user.
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body ExerciseRequest true "Exercise details"
// @Success 201 {object} ExerciseResponse "Exercise created successfully"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req ExerciseRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), userID, req.input())
	if err != nil {
		respondError(c, err, "Failed to create exercise.")
		return
	}

	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise))
}

// ListExercises godoc
// @Summary List the exercise catalog
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ExerciseResponse "List of exercises"
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	exercises, err := h.exerciseService.ListExercises(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve exercises.")
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// @Router /exercises/{id} [get]
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exerciseID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	exercise, err := h.exerciseService.GetExerciseByID(c.Request.Context(), exerciseID)
	if err != nil {
		respondError(c, err, "Failed to retrieve exercise.")
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// UpdateExercise godoc
// @Summary Update an exercise
// @Description Only the creator may update an exercise.
// @Tags Exercises
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 200 {object} ExerciseResponse
// @Failure 403 {object} gin.H "Not the creator"
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /exercises/{id} [put]
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	exerciseID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req ExerciseRequest
	if !bindJSON(c, &req) {
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), userID, exerciseID, req.input())
	if err != nil {
		respondError(c, err, "Failed to update exercise.")
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// @Router /exercises/{id} [delete]
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	exerciseID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.exerciseService.DeleteExercise(c.Request.Context(), userID, exerciseID); err != nil {
		respondError(c, err, "Failed to delete exercise.")
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestImageUploadURL godoc
// @Summary Get a presigned URL for an exercise image
// @Tags Exercises
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 200 {object} service.UploadURLResponse
// @Router /exercises/{id}/image-upload-url [post]
func (h *ExerciseHandler) RequestImageUploadURL(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	exerciseID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req UploadURLRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.exerciseService.RequestImageUploadURL(c.Request.Context(), userID, exerciseID, req.ContentType)
	if err != nil {
		respondError(c, err, "Failed to generate upload URL.")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmImageUpload links a finished upload to the exercise.
// @Router /exercises/{id}/image [post]
func (h *ExerciseHandler) ConfirmImageUpload(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	exerciseID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req ConfirmUploadRequest
	if !bindJSON(c, &req) {
		return
	}

	exercise, err := h.exerciseService.ConfirmImageUpload(c.Request.Context(), userID, exerciseID, req.ObjectKey, req.FileName, req.Size, req.ContentType)
	if err != nil {
		respondError(c, err, "Failed to confirm upload.")
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// ExercisePerformance lists the caller's logged sets for one exercise.
// @Router /exercises/{id}/performance [get]
func (h *ExerciseHandler) ExercisePerformance(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	exerciseID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	records, err := h.historyService.ExercisePerformance(c.Request.Context(), userID, exerciseID)
	if err != nil {
		respondError(c, err, "Failed to retrieve performance.")
		return
	}
	if records == nil {
		records = []domain.WorkoutPerformance{}
	}
	c.JSON(http.StatusOK, records)
}
