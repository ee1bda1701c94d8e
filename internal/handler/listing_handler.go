package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/matricula-admin/internal/service"
	appErrors "github.com/noah-isme/matricula-admin/pkg/errors"
	"github.com/noah-isme/matricula-admin/pkg/response"
)

// PageRequest moves the listing cursor. Direction "next" or "prev" takes
// precedence over Page.
type PageRequest struct {
	Page      int    `json:"page"`
	Direction string `json:"direction"`
}

// PageSizeRequest changes the number of rows per page.
type PageSizeRequest struct {
	PageSize int `json:"page_size"`
}

// ListingHandler exposes the session listing pipeline as JSON.
type ListingHandler struct {
	listings *service.ListingService
}

// NewListingHandler constructs ListingHandler.
func NewListingHandler(listings *service.ListingService) *ListingHandler {
	return &ListingHandler{listings: listings}
}

// Get godoc
// @Summary Current listing page
// @Tags Listing
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /listing [get]
func (h *ListingHandler) Get(c *gin.Context) {
	respondView(c, h.listings.View(c.Request.Context(), listingSession(c)))
}

// Reload godoc
// @Summary Re-read storage keeping the active filter
// @Tags Listing
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /listing/reload [post]
func (h *ListingHandler) Reload(c *gin.Context) {
	respondView(c, h.listings.Reload(c.Request.Context(), listingSession(c)))
}

// Filter godoc
// @Summary Apply search, status and course filters
// @Tags Listing
// @Accept json
// @Produce json
// @Param payload body service.FilterCriteria true "Filter criteria"
// @Success 200 {object} response.Envelope
// @Router /listing/filter [post]
func (h *ListingHandler) Filter(c *gin.Context) {
	var criteria service.FilterCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	respondView(c, h.listings.Filter(c.Request.Context(), listingSession(c), criteria))
}

// Clear godoc
// @Summary Clear the filters
// @Tags Listing
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /listing/clear [post]
func (h *ListingHandler) Clear(c *gin.Context) {
	respondView(c, h.listings.Clear(c.Request.Context(), listingSession(c)))
}

// Page godoc
// @Summary Move to a page
// @Tags Listing
// @Accept json
// @Produce json
// @Param payload body PageRequest true "Target page"
// @Success 200 {object} response.Envelope
// @Router /listing/page [post]
func (h *ListingHandler) Page(c *gin.Context) {
	var req PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	ctx := c.Request.Context()
	sid := listingSession(c)

	var (
		view    service.ListingView
		changed bool
	)
	switch strings.ToLower(req.Direction) {
	case "":
		view, changed = h.listings.GoToPage(ctx, sid, req.Page)
	case "next":
		view, changed = h.listings.Step(ctx, sid, 1)
	case "prev", "previous":
		view, changed = h.listings.Step(ctx, sid, -1)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "direction must be next or prev"))
		return
	}
	response.JSON(c, http.StatusOK, view, &view.Pagination, map[string]interface{}{"changed": changed})
}

// PageSize godoc
// @Summary Change the page size
// @Tags Listing
// @Accept json
// @Produce json
// @Param payload body PageSizeRequest true "Page size"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /listing/page-size [post]
func (h *ListingHandler) PageSize(c *gin.Context) {
	var req PageSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	view, err := h.listings.SetPageSize(c.Request.Context(), listingSession(c), req.PageSize)
	if err != nil {
		response.Error(c, appErrors.WithDetails(appErrors.FromError(err), map[string]string{"allowed": joinInts(view.PageSizes)}))
		return
	}
	respondView(c, view)
}

// Stats godoc
// @Summary Statistics of the filtered view
// @Tags Listing
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /listing/stats [get]
func (h *ListingHandler) Stats(c *gin.Context) {
	view := h.listings.View(c.Request.Context(), listingSession(c))
	response.JSON(c, http.StatusOK, view.Stats, nil)
}

// Export godoc
// @Summary Download the filtered view
// @Tags Listing
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 422 {object} response.Envelope
// @Router /listing/export [get]
func (h *ListingHandler) Export(c *gin.Context) {
	file, err := h.listings.Export(c.Request.Context(), listingSession(c), strings.ToLower(c.DefaultQuery("format", service.FormatCSV)))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}

// Print godoc
// @Summary Printable html document of the filtered view
// @Tags Listing
// @Produce html
// @Success 200 {string} string
// @Router /listing/print [get]
func (h *ListingHandler) Print(c *gin.Context) {
	doc, err := h.listings.Print(c.Request.Context(), listingSession(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", doc)
}

func respondView(c *gin.Context, view service.ListingView) {
	response.JSON(c, http.StatusOK, view, &view.Pagination)
}

func joinInts(values []int) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, strconv.Itoa(v))
	}
	return strings.Join(parts, ",")
}
