package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs for API (Data Transfer Objects) ---

// CreateExerciseRequest defines the expected JSON for creating an exercise.
type CreateExerciseRequest struct {
	Name         string              `json:"name" binding:"required,max=255"`
	Description  string              `json:"description"`
	ExerciseType domain.ExerciseType `json:"exerciseType" binding:"required,oneof=WEIGHT_BASED TIME_BASED"`
	MuscleGroup  string              `json:"muscleGroup" binding:"omitempty,max=100"` // e.g., "Chest", "Legs"
	Equipment    string              `json:"equipment" binding:"omitempty,max=100"`
	Instructions string              `json:"instructions"`
	IsActive     *bool               `json:"isActive"` // defaults to true
}

// UpdateExerciseRequest changes only the fields present.
type UpdateExerciseRequest struct {
	Name         *string              `json:"name" binding:"omitempty,max=255"`
	Description  *string              `json:"description"`
	ExerciseType *domain.ExerciseType `json:"exerciseType" binding:"omitempty,oneof=WEIGHT_BASED TIME_BASED"`
	MuscleGroup  *string              `json:"muscleGroup" binding:"omitempty,max=100"`
	Equipment    *string              `json:"equipment" binding:"omitempty,max=100"`
	Instructions *string              `json:"instructions"`
	IsActive     *bool                `json:"isActive"`
}

type MediaUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type AttachMediaRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

type MediaURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ID           uint                `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description,omitempty"`
	ExerciseType domain.ExerciseType `json:"exerciseType"`
	MuscleGroup  string              `json:"muscleGroup,omitempty"`
	Equipment    string              `json:"equipment,omitempty"`
	Instructions string              `json:"instructions,omitempty"`
	HasMedia     bool                `json:"hasMedia"`
	IsActive     bool                `json:"isActive"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	return ExerciseResponse{
		ID:           ex.ID,
		Name:         ex.Name,
		Description:  ex.Description,
		ExerciseType: ex.Type,
		MuscleGroup:  ex.MuscleGroup,
		Equipment:    ex.Equipment,
		Instructions: ex.Instructions,
		HasMedia:     ex.HasMedia(),
		IsActive:     ex.IsActive,
		CreatedAt:    ex.CreatedAt,
		UpdatedAt:    ex.UpdatedAt,
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

// --- Handler Methods ---

// ListExercises godoc
// @Summary List catalog exercises
// @Description Active exercises, optionally filtered by muscle group. Admins may pass includeInactive=true.
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param muscleGroup query string false "Muscle group filter"
// @Param skip query int false "Offset"
// @Param limit query int false "Page size"
// @Success 200 {array} ExerciseResponse
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}
	page, ok := bindPage(c)
	if !ok {
		return
	}
	includeInactive, _ := strconv.ParseBool(c.Query("includeInactive"))
	exercises, err := h.exerciseService.List(
		c.Request.Context(),
		c.Query("muscleGroup"),
		includeInactive && user.IsAdmin,
		page.Skip,
		page.Limit,
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	exercise, err := h.exerciseService.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// CreateExercise godoc
// @Summary Create a new exercise
// @Description Adds an exercise to the shared catalog.
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body CreateExerciseRequest true "Exercise details"
// @Success 201 {object} ExerciseResponse "Exercise created successfully"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 403 {object} gin.H "Forbidden (not an admin)"
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req CreateExerciseRequest
	if !bindJSON(c, &req) {
		return
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	exercise, err := h.exerciseService.Create(c.Request.Context(), service.CreateExerciseInput{
		Name:         req.Name,
		Description:  req.Description,
		Type:         req.ExerciseType,
		MuscleGroup:  req.MuscleGroup,
		Equipment:    req.Equipment,
		Instructions: req.Instructions,
		IsActive:     isActive,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise))
}

func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateExerciseRequest
	if !bindJSON(c, &req) {
		return
	}
	exercise, err := h.exerciseService.Update(c.Request.Context(), id, domain.ExerciseUpdate{
		Name:         req.Name,
		Description:  req.Description,
		Type:         req.ExerciseType,
		MuscleGroup:  req.MuscleGroup,
		Equipment:    req.Equipment,
		Instructions: req.Instructions,
		IsActive:     req.IsActive,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// DeleteExercise godoc
// @Summary Delete an exercise
// @Description Fails with 409 while any template or workout uses the exercise; deactivate it instead.
// @Tags Exercises
// @Security BearerAuth
// @Param id path int true "Exercise ID"
// @Success 204
// @Failure 404 {object} gin.H "Exercise not found"
// @Failure 409 {object} gin.H "Exercise in use"
// @Router /exercises/{id} [delete]
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.exerciseService.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestMediaUpload godoc
// @Summary Get a presigned upload URL for exercise media
// @Description The client PUTs the file to uploadUrl with the same Content-Type, then confirms the objectKey via PUT /exercises/{id}/media.
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exercise ID"
// @Param body body MediaUploadRequest true "Content type of the file"
// @Success 200 {object} service.MediaUpload
// @Failure 503 {object} gin.H "Media storage not configured"
// @Router /exercises/{id}/media/upload-url [post]
func (h *ExerciseHandler) RequestMediaUpload(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req MediaUploadRequest
	if !bindJSON(c, &req) {
		return
	}
	upload, err := h.exerciseService.RequestMediaUpload(c.Request.Context(), id, req.ContentType)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}

func (h *ExerciseHandler) AttachMedia(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req AttachMediaRequest
	if !bindJSON(c, &req) {
		return
	}
	exercise, err := h.exerciseService.AttachMedia(c.Request.Context(), id, req.ObjectKey)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

func (h *ExerciseHandler) GetMediaURL(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	url, expiresAt, err := h.exerciseService.MediaURL(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, MediaURLResponse{URL: url, ExpiresAt: expiresAt})
}
