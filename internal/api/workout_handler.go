package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"
)

// WorkoutHandler serves the workout session endpoints. Every route acts on
// the authenticated user's own workouts.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

type CreateWorkoutRequest struct {
	Name  *string `json:"name" binding:"omitempty,max=255"`
	Notes *string `json:"notes"`
}

type UpdateWorkoutRequest struct {
	Name  *string `json:"name" binding:"omitempty,max=255"`
	Notes *string `json:"notes"`
}

type SetRequest struct {
	SetNumber    int      `json:"setNumber" binding:"required,min=1"`
	Reps         *int     `json:"reps" binding:"omitempty,min=0"`
	Weight       *float64 `json:"weight" binding:"omitempty,min=0"`
	Duration     *int     `json:"duration" binding:"omitempty,min=0"`
	RestDuration *int     `json:"restDuration" binding:"omitempty,min=0"`
	Completed    bool     `json:"completed"`
}

type UpdateSetRequest struct {
	SetNumber    *int     `json:"setNumber" binding:"omitempty,min=1"`
	Reps         *int     `json:"reps" binding:"omitempty,min=0"`
	Weight       *float64 `json:"weight" binding:"omitempty,min=0"`
	Duration     *int     `json:"duration" binding:"omitempty,min=0"`
	RestDuration *int     `json:"restDuration" binding:"omitempty,min=0"`
	Completed    *bool    `json:"completed"`
}

type AddWorkoutExerciseRequest struct {
	ExerciseID uint         `json:"exerciseId" binding:"required"`
	OrderIndex int          `json:"orderIndex" binding:"min=0"`
	Notes      string       `json:"notes"`
	Sets       []SetRequest `json:"sets" binding:"dive"`
}

type ExerciseNotesRequest struct {
	Notes string `json:"notes"`
}

type progressionQuery struct {
	Limit int `form:"limit" binding:"min=0,max=100"`
}

func (r SetRequest) toInput() service.SetInput {
	return service.SetInput{
		SetNumber:    r.SetNumber,
		Reps:         r.Reps,
		Weight:       r.Weight,
		Duration:     r.Duration,
		RestDuration: r.RestDuration,
		Completed:    r.Completed,
	}
}

// CreateWorkout godoc
// @Summary Start a blank workout
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateWorkoutRequest false "Optional name and notes"
// @Success 201 {object} domain.Workout
// @Failure 409 {object} gin.H "An active workout already exists"
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}
	var req CreateWorkoutRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	workout, err := h.workoutService.CreateBlank(c.Request.Context(), user.ID, service.CreateWorkoutInput{
		Name:  req.Name,
		Notes: req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, workout)
}

func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}
	page, ok := bindPage(c)
	if !ok {
		return
	}
	workouts, err := h.workoutService.List(c.Request.Context(), user.ID, page.Skip, page.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, workouts)
}

// GetActiveWorkout returns the open workout or 404.
func (h *WorkoutHandler) GetActiveWorkout(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}
	workout, err := h.workoutService.GetActive(c.Request.Context(), user.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

func (h *WorkoutHandler) GetHistory(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}
	page, ok := bindPage(c)
	if !ok {
		return
	}
	workouts, err := h.workoutService.GetHistory(c.Request.Context(), user.ID, page.Skip, page.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, workouts)
}

// GetProgression godoc
// @Summary Past performances of one exercise
// @Description Completed workouts containing the exercise, newest first, with their sets.
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param exerciseId path int true "Exercise ID"
// @Param limit query int false "Maximum entries (default 10, max 100)"
// @Success 200 {array} domain.ProgressionEntry
// @Router /workouts/progression/{exerciseId} [get]
func (h *WorkoutHandler) GetProgression(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}
	exerciseID, ok := parseIDParam(c, "exerciseId")
	if !ok {
		return
	}
	var q progressionQuery
	if errBind := c.ShouldBindQuery(&q); errBind != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid limit: "+errBind.Error())
		return
	}
	entries, err := h.workoutService.GetProgression(c.Request.Context(), user.ID, exerciseID, q.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	workout, err := h.workoutService.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateWorkoutRequest
	if !bindJSON(c, &req) {
		return
	}
	workout, err := h.workoutService.Update(c.Request.Context(), user.ID, id, domain.WorkoutUpdate{
		Name:  req.Name,
		Notes: req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

// CompleteWorkout godoc
// @Summary Complete a workout
// @Description Sets the completion time. Exercises and sets are frozen afterwards.
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Workout ID"
// @Success 200 {object} domain.Workout
// @Failure 409 {object} gin.H "Already completed"
// @Router /workouts/{id}/complete [put]
func (h *WorkoutHandler) CompleteWorkout(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	workout, err := h.workoutService.Complete(c.Request.Context(), user.ID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

// CancelWorkout deletes an open workout with everything logged in it.
func (h *WorkoutHandler) CancelWorkout(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.workoutService.Cancel(c.Request.Context(), user.ID, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WorkoutHandler) AddExercise(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req AddWorkoutExerciseRequest
	if !bindJSON(c, &req) {
		return
	}
	in := service.AddExerciseInput{
		ExerciseID: req.ExerciseID,
		OrderIndex: req.OrderIndex,
		Notes:      req.Notes,
	}
	for _, set := range req.Sets {
		in.Sets = append(in.Sets, set.toInput())
	}
	exercise, err := h.workoutService.AddExercise(c.Request.Context(), user.ID, id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

func (h *WorkoutHandler) UpdateExerciseNotes(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	workoutExerciseID, ok := parseIDParam(c, "workoutExerciseId")
	if !ok {
		return
	}
	var req ExerciseNotesRequest
	if !bindJSON(c, &req) {
		return
	}
	exercise, err := h.workoutService.UpdateExerciseNotes(c.Request.Context(), user.ID, id, workoutExerciseID, req.Notes)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

func (h *WorkoutHandler) RemoveExercise(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	workoutExerciseID, ok := parseIDParam(c, "workoutExerciseId")
	if !ok {
		return
	}
	if err := h.workoutService.RemoveExercise(c.Request.Context(), user.ID, id, workoutExerciseID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddSet godoc
// @Summary Log a set
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Workout ID"
// @Param workoutExerciseId path int true "Workout exercise ID"
// @Param set body SetRequest true "Set metrics"
// @Success 201 {object} domain.ExerciseSet
// @Failure 404 {object} gin.H "Workout exercise not found in this workout"
// @Failure 409 {object} gin.H "Workout already completed"
// @Router /workouts/{id}/exercises/{workoutExerciseId}/sets [post]
func (h *WorkoutHandler) AddSet(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	workoutExerciseID, ok := parseIDParam(c, "workoutExerciseId")
	if !ok {
		return
	}
	var req SetRequest
	if !bindJSON(c, &req) {
		return
	}
	set, err := h.workoutService.AddSet(c.Request.Context(), user.ID, id, workoutExerciseID, req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, set)
}

func (h *WorkoutHandler) UpdateSet(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	workoutExerciseID, ok := parseIDParam(c, "workoutExerciseId")
	if !ok {
		return
	}
	setID, ok := parseIDParam(c, "setId")
	if !ok {
		return
	}
	var req UpdateSetRequest
	if !bindJSON(c, &req) {
		return
	}
	set, err := h.workoutService.UpdateSet(c.Request.Context(), user.ID, id, workoutExerciseID, setID, domain.SetUpdate{
		SetNumber:    req.SetNumber,
		Reps:         req.Reps,
		Weight:       req.Weight,
		Duration:     req.Duration,
		RestDuration: req.RestDuration,
		Completed:    req.Completed,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, set)
}

func (h *WorkoutHandler) DeleteSet(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	workoutExerciseID, ok := parseIDParam(c, "workoutExerciseId")
	if !ok {
		return
	}
	setID, ok := parseIDParam(c, "setId")
	if !ok {
		return
	}
	if err := h.workoutService.DeleteSet(c.Request.Context(), user.ID, id, workoutExerciseID, setID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
