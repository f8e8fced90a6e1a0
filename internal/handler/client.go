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

// ClientHandler exposes client company CRUD
type ClientHandler struct {
	clients   *service.ClientService
	documents *service.DocumentService
}

func NewClientHandler(clients *service.ClientService, documents *service.DocumentService) *ClientHandler {
	return &ClientHandler{clients: clients, documents: documents}
}

// List handles GET /api/clients
func (h *ClientHandler) List(c *gin.Context) {
	params := constants.ParsePaginationParams(c)

	var filter dto.ClientFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondValidationError(c, err)
		return
	}
	filter.Search = params.Search

	clients, total, err := h.clients.List(c.Request.Context(), params.Limit, params.Offset, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildListResponse(total, params.Page, pageTotal(total, params.Limit), clients))
}

// Get handles GET /api/clients/:id
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	client, err := h.clients.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    client,
	})
}

// Create handles POST /api/clients
func (h *ClientHandler) Create(c *gin.Context) {
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	client, err := h.clients.Create(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    client,
	})
}

// Update handles PUT /api/clients/:id
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	client, err := h.clients.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    client,
	})
}

// Delete handles DELETE /api/clients/:id
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.clients.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Client deleted"))
}

// Stats handles GET /api/clients/stats
func (h *ClientHandler) Stats(c *gin.Context) {
	counts, err := h.clients.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    counts,
	})
}

// Documents handles GET /api/clients/:id/documents
func (h *ClientHandler) Documents(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	docs, err := h.documents.ListByClient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    docs,
	})
}
