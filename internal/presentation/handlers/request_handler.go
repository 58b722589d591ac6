package handlers

import (
	"net/http"

	"gitcollab/internal/application/dto"
	"gitcollab/internal/application/service"

	"github.com/gin-gonic/gin"
)

// RequestHandler handles contributor requests and owner decisions
type RequestHandler struct {
	requestService    *service.RequestService
	invitationService *service.InvitationService
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(requestService *service.RequestService, invitationService *service.InvitationService) *RequestHandler {
	return &RequestHandler{
		requestService:    requestService,
		invitationService: invitationService,
	}
}

// Join handles POST /projects/:id/requests
// @Summary Request to join a project
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 201 {object} dto.ContributorRequestResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /projects/{id}/requests [post]
func (h *RequestHandler) Join(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	response, err := h.requestService.Join(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ListProjectPending handles GET /projects/:id/requests
// @Summary List a project's pending requests
// @Description Owner only; earliest first
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} dto.ContributorRequestListResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /projects/{id}/requests [get]
func (h *RequestHandler) ListProjectPending(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	response, err := h.requestService.ListPendingForProject(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListPending handles GET /requests/pending
// @Summary Pending requests across my projects
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ContributorRequestListResponse
// @Router /requests/pending [get]
func (h *RequestHandler) ListPending(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	response, err := h.requestService.ListPendingForOwner(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListMine handles GET /requests/mine
// @Summary Requests I have filed
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ContributorRequestListResponse
// @Router /requests/mine [get]
func (h *RequestHandler) ListMine(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	response, err := h.requestService.ListMine(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Decide handles POST /requests/decision
// @Summary Accept or reject a pending request
// @Description Accepting adds the requester as a collaborator on GitHub before committing
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param decision body dto.DecisionRequest true "Decision"
// @Success 200 {object} dto.DecisionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 504 {object} ErrorResponse
// @Router /requests/decision [post]
func (h *RequestHandler) Decide(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	response, err := h.invitationService.Decide(c.Request.Context(), user.ID, req.RequestID, req.Action)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
