package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clientbridge/crm/internal/constants"
	"github.com/clientbridge/crm/internal/dto"
	apperrors "github.com/clientbridge/crm/internal/errors"
	"github.com/clientbridge/crm/internal/middleware"
	"github.com/clientbridge/crm/internal/service"
)

// InteractionHandler exposes interaction tracking nested under a client
type InteractionHandler struct {
	interactions *service.InteractionService
}

func NewInteractionHandler(interactions *service.InteractionService) *InteractionHandler {
	return &InteractionHandler{interactions: interactions}
}

// List handles GET /api/clients/:id/interactions
func (h *InteractionHandler) List(c *gin.Context) {
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	params := constants.ParsePaginationParams(c)

	var filter dto.InteractionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondValidationError(c, err)
		return
	}

	interactions, total, err := h.interactions.List(c.Request.Context(), clientID, params.Limit, params.Offset, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildListResponse(total, params.Page, pageTotal(total, params.Limit), interactions))
}

// Create handles POST /api/clients/:id/interactions
func (h *InteractionHandler) Create(c *gin.Context) {
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CreateInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	interaction, err := h.interactions.Create(c.Request.Context(), clientID, req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    interaction,
	})
}

// Update handles PUT /api/clients/:id/interactions/:interactionId
func (h *InteractionHandler) Update(c *gin.Context) {
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	interactionID, ok := parseIDParam(c, "interactionId")
	if !ok {
		return
	}

	var req dto.UpdateInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	interaction, err := h.interactions.Update(c.Request.Context(), clientID, interactionID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    interaction,
	})
}

// Delete handles DELETE /api/clients/:id/interactions/:interactionId
func (h *InteractionHandler) Delete(c *gin.Context) {
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	interactionID, ok := parseIDParam(c, "interactionId")
	if !ok {
		return
	}

	if err := h.interactions.Delete(c.Request.Context(), clientID, interactionID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Interaction deleted"))
}
