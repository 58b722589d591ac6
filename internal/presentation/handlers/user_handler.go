package handlers

import (
	"net/http"

	"gitcollab/internal/application/dto"
	"gitcollab/internal/application/service"

	"github.com/gin-gonic/gin"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService    *service.UserService
	profileService *service.ProfileService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService, profileService *service.ProfileService) *UserHandler {
	return &UserHandler{
		userService:    userService,
		profileService: profileService,
	}
}

// GetCurrentUser handles GET /auth/me
// @Summary Get current user information
// @Description Returns information about the currently authenticated user
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	response, err := h.userService.GetUserByID(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// UpdateCurrentUser handles PUT /auth/me
// @Summary Update current user
// @Tags Authentication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body dto.UpdateUserRequest true "User data"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/me [put]
func (h *UserHandler) UpdateCurrentUser(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	response, err := h.userService.UpdateUser(c.Request.Context(), user.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListUsers handles GET /users
// @Summary List users
// @Tags Users
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} dto.UserListResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, limit := pageParams(c)

	response, err := h.userService.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetReadme handles GET /users/:username/readme
// @Summary Profile README gist
// @Description The first 200 characters of the user's GitHub profile README
// @Tags Users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} dto.ReadmeGistResponse
// @Failure 400 {object} ErrorResponse
// @Router /users/{username}/readme [get]
func (h *UserHandler) GetReadme(c *gin.Context) {
	response, err := h.profileService.GetReadmeGist(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
