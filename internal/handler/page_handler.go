package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/matricula-admin/internal/models"
	"github.com/noah-isme/matricula-admin/internal/presentation"
	"github.com/noah-isme/matricula-admin/internal/service"
	appErrors "github.com/noah-isme/matricula-admin/pkg/errors"
	"github.com/noah-isme/matricula-admin/pkg/response"
)

// Flash lifetimes: listing notices go away faster than the generic ones.
const (
	listingFlashDuration = 3 * time.Second
	genericFlashDuration = 5 * time.Second
)

const (
	msgRegistered = "¡Matrícula registrada exitosamente! Redirigiendo al listado..."
	msgDeleted    = "Matrícula eliminada exitosamente"
	msgFormErrors = "Por favor, corrija los errores del formulario"
)

// Landing page showcase figures.
var landingFigures = []struct {
	id     string
	label  string
	value  int
	suffix string
}{
	{"totalStudents", "Estudiantes", 1247, ""},
	{"totalCourses", "Cursos", 18, ""},
	{"successRate", "Tasa de éxito", 92, "%"},
	{"satisfactionRate", "Satisfacción", 96, "%"},
}

type statTile struct {
	Label   string
	Counter presentation.Counter
}

type redirect struct {
	To      string
	Seconds int
}

type pageData struct {
	Title       string
	Nav         string
	Flash       *presentation.Flash
	Redirect    *redirect
	Counters    []statTile
	StoredTotal int
	Form        service.RegistrationRequest
	Errors      map[string]string
	Summary     service.RegistrationSummary
	SummaryURL  string
	Listing     service.ListingView
	Record      *models.Enrollment
}

// PageHandler renders the server-side html pages.
type PageHandler struct {
	registrations *service.RegistrationService
	listings      *service.ListingService
	apiPrefix     string
}

// NewPageHandler constructs PageHandler.
func NewPageHandler(registrations *service.RegistrationService, listings *service.ListingService, apiPrefix string) *PageHandler {
	return &PageHandler{registrations: registrations, listings: listings, apiPrefix: apiPrefix}
}

// Landing renders the home page with the animated statistics.
func (h *PageHandler) Landing(c *gin.Context) {
	data := h.page(c, "Inicio", "inicio")
	for _, fig := range landingFigures {
		data.Counters = append(data.Counters, statTile{
			Label:   fig.label,
			Counter: presentation.AnimateCounter(fig.id, fig.value, fig.suffix, presentation.LandingCounterSteps, presentation.LandingCounterDuration),
		})
	}
	data.StoredTotal = h.listings.StoredCount(c.Request.Context())
	c.HTML(http.StatusOK, "index", data)
}

// RegistrationForm renders an empty registration form.
func (h *PageHandler) RegistrationForm(c *gin.Context) {
	data := h.page(c, "Registro", "registro")
	data.Summary = h.registrations.Summary(data.Form)
	c.HTML(http.StatusOK, "registro", data)
}

// Register handles the form submission. Invalid input re-renders the form
// with one message per field; success shows a notice and navigates to the
// listing after the configured delay.
func (h *PageHandler) Register(c *gin.Context) {
	data := h.page(c, "Registro", "registro")

	var req service.RegistrationRequest
	if err := c.ShouldBind(&req); err != nil {
		data.Form = req.Trimmed()
		data.Flash = &presentation.Flash{Kind: presentation.FlashError, Message: msgFormErrors, DismissMs: msFor(genericFlashDuration)}
		data.Summary = h.registrations.Summary(req)
		c.HTML(http.StatusBadRequest, "registro", data)
		return
	}

	result, err := h.registrations.Register(c.Request.Context(), req)
	if err != nil {
		appErr := appErrors.FromError(err)
		data.Form = req.Trimmed()
		data.Summary = h.registrations.Summary(req)
		data.Errors = appErr.Details
		message := msgFormErrors
		if !errors.Is(err, appErrors.ErrValidation) {
			message = "Error al guardar la matrícula: " + appErr.Message
		}
		data.Flash = &presentation.Flash{Kind: presentation.FlashError, Message: message, DismissMs: msFor(genericFlashDuration)}
		c.HTML(statusFor(appErr), "registro", data)
		return
	}

	data.Summary = h.registrations.Summary(service.RegistrationRequest{})
	data.Flash = &presentation.Flash{Kind: presentation.FlashSuccess, Message: msgRegistered, DismissMs: msFor(result.RedirectAfter)}
	data.Redirect = &redirect{To: result.RedirectTo, Seconds: int(math.Ceil(result.RedirectAfter.Seconds()))}
	c.HTML(http.StatusOK, "registro", data)
}

// Listing renders the session's listing. The collection is re-read from
// storage on every visit, then the query parameters are reconciled with the
// session state: limpiar clears, q/estado/curso filter, tamano changes the
// page size and pagina moves to a page.
func (h *PageHandler) Listing(c *gin.Context) {
	ctx := c.Request.Context()
	sid := listingSession(c)
	data := h.page(c, "Listado", "listado")

	view := h.listings.Reload(ctx, sid)
	query := c.Request.URL.Query()

	if query.Has("limpiar") {
		view = h.listings.Clear(ctx, sid)
	} else if criteria, changed := criteriaFromQuery(c, view.Criteria); changed || query.Has("filtrar") {
		view = h.listings.Filter(ctx, sid, criteria)
	}

	if raw := query.Get("tamano"); raw != "" {
		size, _ := strconv.Atoi(raw)
		next, err := h.listings.SetPageSize(ctx, sid, size)
		if err != nil {
			data.Flash = &presentation.Flash{Kind: presentation.FlashError, Message: appErrors.FromError(err).Message, DismissMs: msFor(listingFlashDuration)}
		}
		view = next
	}

	if raw := query.Get("pagina"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			view, _ = h.listings.GoToPage(ctx, sid, n)
		}
	}

	data.Listing = view
	data.Counters = listingCounters(view.Stats)
	c.HTML(http.StatusOK, "listado", data)
}

// Details renders one enrollment.
func (h *PageHandler) Details(c *gin.Context) {
	record, err := h.listings.Details(c.Request.Context(), listingSession(c), c.Param("id"))
	if err != nil {
		h.redirectWithError(c, err)
		return
	}
	data := h.page(c, "Detalle de matrícula", "listado")
	data.Record = record
	c.HTML(http.StatusOK, "detalle", data)
}

// Delete removes an enrollment and returns to the listing with a notice.
func (h *PageHandler) Delete(c *gin.Context) {
	_, err := h.listings.Delete(c.Request.Context(), listingSession(c), c.Param("id"))
	if err != nil {
		h.redirectWithError(c, err)
		return
	}
	presentation.ShowTransientMessage(c, presentation.FlashSuccess, msgDeleted, listingFlashDuration)
	c.Redirect(http.StatusSeeOther, service.ListingPath)
}

// Edit answers with the placeholder notice.
func (h *PageHandler) Edit(c *gin.Context) {
	err := h.listings.Edit(c.Request.Context(), listingSession(c), c.Param("id"))
	if errors.Is(err, appErrors.ErrNotImplemented) {
		presentation.ShowTransientMessage(c, presentation.FlashInfo, appErrors.ErrNotImplemented.Message, listingFlashDuration)
		c.Redirect(http.StatusSeeOther, service.ListingPath)
		return
	}
	h.redirectWithError(c, err)
}

// ExportCSV downloads the filtered view as CSV.
func (h *PageHandler) ExportCSV(c *gin.Context) {
	h.export(c, service.FormatCSV)
}

// ExportPDF downloads the filtered view as PDF.
func (h *PageHandler) ExportPDF(c *gin.Context) {
	h.export(c, service.FormatPDF)
}

// Print renders the printable document for the filtered view.
func (h *PageHandler) Print(c *gin.Context) {
	doc, err := h.listings.Print(c.Request.Context(), listingSession(c))
	if err != nil {
		h.redirectWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", doc)
}

func (h *PageHandler) export(c *gin.Context, format string) {
	file, err := h.listings.Export(c.Request.Context(), listingSession(c), format)
	if err != nil {
		h.redirectWithError(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}

func (h *PageHandler) redirectWithError(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	if appErr.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	presentation.ShowTransientMessage(c, presentation.FlashError, appErr.Message, listingFlashDuration)
	c.Redirect(http.StatusSeeOther, service.ListingPath)
}

func (h *PageHandler) page(c *gin.Context, title, nav string) pageData {
	return pageData{
		Title:      title,
		Nav:        nav,
		Flash:      presentation.PopFlash(c),
		SummaryURL: h.apiPrefix + "/registrations/summary",
	}
}

// criteriaFromQuery overlays the filter parameters present in the query on
// current. changed reports whether the result differs from current.
func criteriaFromQuery(c *gin.Context, current service.FilterCriteria) (service.FilterCriteria, bool) {
	next := current
	if v, ok := c.GetQuery("q"); ok {
		next.Search = v
	}
	if v, ok := c.GetQuery("estado"); ok {
		next.Status = v
	}
	if v, ok := c.GetQuery("curso"); ok {
		next.Course = v
	}
	next = next.Normalized()
	return next, next != current.Normalized()
}

func listingCounters(stats service.Stats) []statTile {
	tile := func(id, label string, value int, suffix string) statTile {
		return statTile{
			Label:   label,
			Counter: presentation.AnimateCounter(id, value, suffix, presentation.ListingCounterSteps, presentation.ListingCounterDuration),
		}
	}
	return []statTile{
		tile("statTotal", "Total", stats.Total, ""),
		tile("statActive", "Activas", stats.Active, ""),
		tile("statPending", "Pendientes", stats.Pending, ""),
		tile("statCompleted", "Completadas", stats.Completed, ""),
		tile("statCompletion", "Tasa de finalización", stats.CompletionRate, "%"),
	}
}

func statusFor(err *appErrors.Error) int {
	if err.Status == http.StatusBadRequest {
		return http.StatusUnprocessableEntity
	}
	return err.Status
}

func msFor(d time.Duration) int {
	return int(d / time.Millisecond)
}
