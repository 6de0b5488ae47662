package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"
)

// UserHandler serves the self-service profile and the admin user endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"fullName" binding:"max=255"`
	IsActive *bool  `json:"isActive"`
	IsAdmin  bool   `json:"isAdmin"`
}

// UpdateMeRequest carries the fields a user may change on their own account.
type UpdateMeRequest struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	Username *string `json:"username" binding:"omitempty,max=100"`
	FullName *string `json:"fullName" binding:"omitempty,max=255"`
	Password *string `json:"password" binding:"omitempty,min=8"`
}

type UpdateUserRequest struct {
	UpdateMeRequest
	IsActive *bool `json:"isActive"`
	IsAdmin  *bool `json:"isAdmin"`
}

func (r UpdateMeRequest) toUpdate() domain.UserUpdate {
	return domain.UserUpdate{
		Email:    r.Email,
		Username: r.Username,
		FullName: r.FullName,
		Password: r.Password,
	}
}

// GetMe returns the authenticated user's profile.
func (h *UserHandler) GetMe(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// UpdateMe godoc
// @Summary Update own profile
// @Description Changes email, username, full name or password of the authenticated user. Active and admin flags are not writable here.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body UpdateMeRequest true "Fields to change"
// @Success 200 {object} UserResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 409 {object} gin.H "Email or username already in use"
// @Router /users/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}
	var req UpdateMeRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.userService.UpdateMe(c.Request.Context(), user.ID, req.toUpdate())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(updated))
}

// CreateUser godoc
// @Summary Create a user account (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body CreateUserRequest true "Account details"
// @Success 201 {object} UserResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 403 {object} gin.H "Admin privileges required"
// @Failure 409 {object} gin.H "Email or username already in use"
// @Router /admin/users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	user, err := h.userService.Create(c.Request.Context(), service.CreateUserInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		IsActive: isActive,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapUserToResponse(user))
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	users, err := h.userService.List(c.Request.Context(), page.Skip, page.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUsersToResponse(users))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	update := req.toUpdate()
	update.IsActive = req.IsActive
	update.IsAdmin = req.IsAdmin
	user, err := h.userService.Update(c.Request.Context(), id, update)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// DeleteUser godoc
// @Summary Delete a user account (admin)
// @Description Removes the user together with all of their workouts and templates.
// @Tags Admin
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204
// @Failure 404 {object} gin.H "User not found"
// @Failure 409 {object} gin.H "Cannot delete own account"
// @Router /admin/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	admin, ok := getCurrentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.userService.Delete(c.Request.Context(), admin.ID, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
