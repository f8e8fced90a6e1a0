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

// JobHandler exposes job posting CRUD. Listing and reading are public;
// mutations require a session.
type JobHandler struct {
	jobs *service.JobService
}

func NewJobHandler(jobs *service.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// List handles GET /api/jobs
func (h *JobHandler) List(c *gin.Context) {
	params := constants.ParsePaginationParams(c)

	var filter dto.JobFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondValidationError(c, err)
		return
	}
	filter.Search = params.Search

	jobs, total, err := h.jobs.List(c.Request.Context(), params.Limit, params.Offset, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildListResponse(total, params.Page, pageTotal(total, params.Limit), jobs))
}

// ListMine handles GET /api/jobs/mine
func (h *JobHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	params := constants.ParsePaginationParams(c)

	jobs, total, err := h.jobs.ListMine(c.Request.Context(), userID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildListResponse(total, params.Page, pageTotal(total, params.Limit), jobs))
}

// Get handles GET /api/jobs/:id
func (h *JobHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	job, err := h.jobs.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    job,
	})
}

// Create handles POST /api/jobs
func (h *JobHandler) Create(c *gin.Context) {
	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	job, err := h.jobs.Create(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    job,
	})
}

// Update handles PUT /api/jobs/:id
func (h *JobHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	claims, ok := middleware.GetClaims(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	job, err := h.jobs.Update(c.Request.Context(), id, req, claims.UserID, claims.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    job,
	})
}

// Delete handles DELETE /api/jobs/:id
func (h *JobHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	claims, ok := middleware.GetClaims(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	if err := h.jobs.Delete(c.Request.Context(), id, claims.UserID, claims.Role); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Job deleted"))
}
