package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/matricula-admin/internal/service"
	appErrors "github.com/noah-isme/matricula-admin/pkg/errors"
	"github.com/noah-isme/matricula-admin/pkg/response"
)

// EnrollmentHandler exposes registration and per-record endpoints.
type EnrollmentHandler struct {
	registrations *service.RegistrationService
	listings      *service.ListingService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(registrations *service.RegistrationService, listings *service.ListingService) *EnrollmentHandler {
	return &EnrollmentHandler{registrations: registrations, listings: listings}
}

// Create godoc
// @Summary Register enrollment
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body service.RegistrationRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req service.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.registrations.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result.Enrollment, map[string]interface{}{
		"redirect_to":       result.RedirectTo,
		"redirect_after_ms": result.RedirectMs,
	})
}

// Summary godoc
// @Summary Preview registration summary
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body service.RegistrationRequest true "Partial registration payload"
// @Success 200 {object} response.Envelope
// @Router /registrations/summary [post]
func (h *EnrollmentHandler) Summary(c *gin.Context) {
	var req service.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	response.JSON(c, http.StatusOK, h.registrations.Summary(req), nil)
}

// Get godoc
// @Summary Get enrollment details
// @Tags Enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /enrollments/{id} [get]
func (h *EnrollmentHandler) Get(c *gin.Context) {
	record, err := h.listings.Details(c.Request.Context(), listingSession(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Update godoc
// @Summary Edit enrollment (not available)
// @Tags Enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /enrollments/{id} [put]
func (h *EnrollmentHandler) Update(c *gin.Context) {
	err := h.listings.Edit(c.Request.Context(), listingSession(c), c.Param("id"))
	if errors.Is(err, appErrors.ErrNotImplemented) {
		response.JSON(c, http.StatusOK, nil, nil, map[string]interface{}{
			"notice": appErrors.ErrNotImplemented.Message,
			"code":   appErrors.ErrNotImplemented.Code,
		})
		return
	}
	response.Error(c, err)
}

// Delete godoc
// @Summary Delete enrollment
// @Tags Enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /enrollments/{id} [delete]
func (h *EnrollmentHandler) Delete(c *gin.Context) {
	view, err := h.listings.Delete(c.Request.Context(), listingSession(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondView(c, view)
}
