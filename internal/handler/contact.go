package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clientbridge/crm/internal/constants"
	"github.com/clientbridge/crm/internal/dto"
	"github.com/clientbridge/crm/internal/service"
)

// ContactHandler exposes contact management nested under a client
type ContactHandler struct {
	contacts *service.ContactService
}

func NewContactHandler(contacts *service.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// List handles GET /api/clients/:id/contacts
func (h *ContactHandler) List(c *gin.Context) {
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	activeOnly := c.DefaultQuery("activeOnly", "true") != "false"

	contacts, err := h.contacts.List(c.Request.Context(), clientID, activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    contacts,
	})
}

// GetPrimary handles GET /api/clients/:id/contacts/primary
func (h *ContactHandler) GetPrimary(c *gin.Context) {
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	contact, err := h.contacts.GetPrimary(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    contact,
	})
}

// Create handles POST /api/clients/:id/contacts
func (h *ContactHandler) Create(c *gin.Context) {
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	contact, err := h.contacts.Create(c.Request.Context(), clientID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    contact,
	})
}

// Update handles PUT /api/clients/:id/contacts/:contactId
func (h *ContactHandler) Update(c *gin.Context) {
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	contactID, ok := parseIDParam(c, "contactId")
	if !ok {
		return
	}

	var req dto.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	contact, err := h.contacts.Update(c.Request.Context(), clientID, contactID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    contact,
	})
}

// SetPrimary handles PUT /api/clients/:id/contacts/:contactId/primary
func (h *ContactHandler) SetPrimary(c *gin.Context) {
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	contactID, ok := parseIDParam(c, "contactId")
	if !ok {
		return
	}

	contact, err := h.contacts.SetPrimary(c.Request.Context(), clientID, contactID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    contact,
	})
}

// Deactivate handles DELETE /api/clients/:id/contacts/:contactId
func (h *ContactHandler) Deactivate(c *gin.Context) {
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	contactID, ok := parseIDParam(c, "contactId")
	if !ok {
		return
	}

	if err := h.contacts.Deactivate(c.Request.Context(), clientID, contactID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Contact deactivated"))
}
