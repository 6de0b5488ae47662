package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"
)

// TemplateHandler serves workout templates and instantiating workouts from
// them.
type TemplateHandler struct {
	templateService service.TemplateService
	workoutService  service.WorkoutService
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(templateService service.TemplateService, workoutService service.WorkoutService) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
		workoutService:  workoutService,
	}
}

type TemplateExerciseRequest struct {
	ExerciseID        uint     `json:"exerciseId" binding:"required"`
	OrderIndex        int      `json:"orderIndex" binding:"min=0"`
	SuggestedSets     *int     `json:"suggestedSets" binding:"omitempty,min=1,max=50"`
	SuggestedReps     *int     `json:"suggestedReps" binding:"omitempty,min=0"`
	SuggestedWeight   *float64 `json:"suggestedWeight" binding:"omitempty,min=0"`
	SuggestedDuration *int     `json:"suggestedDuration" binding:"omitempty,min=0"`
}

type CreateTemplateRequest struct {
	Name        string                    `json:"name" binding:"required,max=255"`
	Description string                    `json:"description"`
	IsPublic    bool                      `json:"isPublic"`
	Exercises   []TemplateExerciseRequest `json:"exercises" binding:"dive"`
}

type UpdateTemplateRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"isPublic"`
}

type ReplaceTemplateExercisesRequest struct {
	Exercises []TemplateExerciseRequest `json:"exercises" binding:"dive"`
}

// StartWorkoutRequest optionally overrides the name and notes copied from the
// template.
type StartWorkoutRequest struct {
	Name  *string `json:"name" binding:"omitempty,max=255"`
	Notes *string `json:"notes"`
}

func (r TemplateExerciseRequest) toInput() service.TemplateExerciseInput {
	return service.TemplateExerciseInput{
		ExerciseID:        r.ExerciseID,
		OrderIndex:        r.OrderIndex,
		SuggestedSets:     r.SuggestedSets,
		SuggestedReps:     r.SuggestedReps,
		SuggestedWeight:   r.SuggestedWeight,
		SuggestedDuration: r.SuggestedDuration,
	}
}

func toTemplateExerciseInputs(reqs []TemplateExerciseRequest) []service.TemplateExerciseInput {
	inputs := make([]service.TemplateExerciseInput, len(reqs))
	for i, r := range reqs {
		inputs[i] = r.toInput()
	}
	return inputs
}

// CreateTemplate godoc
// @Summary Create a workout template
// @Description Creates the template and its exercises in one transaction.
// @Tags Templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param template body CreateTemplateRequest true "Template details"
// @Success 201 {object} domain.WorkoutTemplate
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Unknown exercise"
// @Router /templates [post]
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}
	var req CreateTemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	template, err := h.templateService.Create(c.Request.Context(), service.CallerFor(user), service.CreateTemplateInput{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		Exercises:   toTemplateExerciseInputs(req.Exercises),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, template)
}

// ListTemplates returns the caller's templates and all public ones.
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}
	page, ok := bindPage(c)
	if !ok {
		return
	}
	templates, err := h.templateService.ListVisible(c.Request.Context(), service.CallerFor(user), page.Skip, page.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

// ListAllTemplates is the admin listing regardless of visibility.
func (h *TemplateHandler) ListAllTemplates(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	templates, err := h.templateService.ListAll(c.Request.Context(), page.Skip, page.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	template, err := h.templateService.Get(c.Request.Context(), service.CallerFor(user), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateTemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	template, err := h.templateService.Update(c.Request.Context(), service.CallerFor(user), id, domain.TemplateUpdate{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

// ReplaceExercises godoc
// @Summary Replace all exercises of a template
// @Tags Templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Template ID"
// @Param body body ReplaceTemplateExercisesRequest true "New exercise list"
// @Success 200 {object} domain.WorkoutTemplate
// @Failure 403 {object} gin.H "Not the owner"
// @Router /templates/{id}/exercises [put]
func (h *TemplateHandler) ReplaceExercises(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ReplaceTemplateExercisesRequest
	if !bindJSON(c, &req) {
		return
	}
	template, err := h.templateService.UpdateExercises(c.Request.Context(), service.CallerFor(user), id, toTemplateExerciseInputs(req.Exercises))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

func (h *TemplateHandler) AddExercise(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req TemplateExerciseRequest
	if !bindJSON(c, &req) {
		return
	}
	template, err := h.templateService.AddExercise(c.Request.Context(), service.CallerFor(user), id, req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, template)
}

func (h *TemplateHandler) RemoveExercise(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	templateExerciseID, ok := parseIDParam(c, "templateExerciseId")
	if !ok {
		return
	}
	if err := h.templateService.RemoveExercise(c.Request.Context(), service.CallerFor(user), id, templateExerciseID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.templateService.Delete(c.Request.Context(), service.CallerFor(user), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// StartWorkout godoc
// @Summary Start a workout from a template
// @Description Copies the template's exercises into a new open workout, one set per suggested set.
// @Tags Templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Template ID"
// @Param body body StartWorkoutRequest false "Optional name and notes"
// @Success 201 {object} domain.Workout
// @Failure 403 {object} gin.H "Template not visible"
// @Failure 404 {object} gin.H "Template not found"
// @Failure 409 {object} gin.H "An active workout already exists"
// @Router /templates/{id}/workouts [post]
func (h *TemplateHandler) StartWorkout(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req StartWorkoutRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	workout, err := h.workoutService.CreateFromTemplate(c.Request.Context(), service.CallerFor(user), id, req.Name, req.Notes)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, workout)
}
