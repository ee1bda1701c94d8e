package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/matricula-admin/internal/models"
	"github.com/noah-isme/matricula-admin/internal/repository"
	"github.com/noah-isme/matricula-admin/internal/service"
	"github.com/noah-isme/matricula-admin/internal/web"
)

const testCollection = "matriculas"

type testApp struct {
	router *gin.Engine
	store  *repository.RecordStore
}

func newTestApp(t *testing.T, seed []models.Enrollment, checks map[string]ReadinessCheck) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewRecordStore(repository.NewMemoryKeyValue(), zap.NewNop(), nil)
	if seed != nil {
		require.True(t, store.Save(context.Background(), testCollection, seed))
	}
	templates, err := web.Templates()
	require.NoError(t, err)

	registrations := service.NewRegistrationService(store, nil, service.RegistrationConfig{Collection: testCollection}, nil, zap.NewNop())
	exports := service.NewExportService(templates, 0, nil, zap.NewNop(), nil, nil)
	listings := service.NewListingService(store, exports, service.ListingConfig{Collection: testCollection}, nil, zap.NewNop())

	router := NewRouter(RouterConfig{
		Templates:     templates,
		Static:        web.Static(),
		Registrations: registrations,
		Listings:      listings,
		Readiness:     checks,
	})
	return &testApp{router: router, store: store}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) stored(t *testing.T) []models.Enrollment {
	t.Helper()
	return a.store.Load(context.Background(), testCollection)
}

func seedRecords() []models.Enrollment {
	mk := func(id, first, last, dni, course string, status models.EnrollmentStatus) models.Enrollment {
		return models.Enrollment{
			ID:           id,
			RegisteredAt: time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
			Status:       status,
			Student: models.Student{
				FirstNames: first,
				LastNames:  last,
				NationalID: dni,
				BirthDate:  "1990-05-01",
				Email:      strings.ToLower(first) + "@example.com",
				Phone:      "987654321",
				Address:    "Calle 1",
			},
			Details: models.EnrollmentInfo{Course: course, Modality: "virtual", StartDate: "2025-02-01"},
		}
	}
	return []models.Enrollment{
		mk("rec-1", "Ana", "Pérez", "11111111", "matematicas", models.EnrollmentStatusActive),
		mk("rec-2", "Luis", "Gómez", "22222222", "ciencias", models.EnrollmentStatusPending),
		mk("rec-3", "Marta", "Ruiz", "33333333", "arte", models.EnrollmentStatusCompleted),
	}
}

func validForm() url.Values {
	now := time.Now().UTC()
	return url.Values{
		"nombres":         {"Ana"},
		"apellidos":       {"Pérez"},
		"dni":             {"12345678"},
		"fechaNacimiento": {now.AddDate(-25, 0, 0).Format(models.DateLayout)},
		"genero":          {"femenino"},
		"email":           {"ana@example.com"},
		"telefono":        {"987654321"},
		"direccion":       {"Av. Principal 100"},
		"curso":           {"matematicas"},
		"modalidad":       {"presencial"},
		"fechaInicio":     {now.AddDate(0, 0, 14).Format(models.DateLayout)},
		"terminos":        {"true"},
	}
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func postJSON(path string, body interface{}, sessionID string) *http.Request {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(sessionHeader, sessionID)
	}
	return req
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Pagination *models.Pagination     `json:"pagination"`
	Meta       map[string]interface{} `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestLandingPage(t *testing.T) {
	app := newTestApp(t, seedRecords(), nil)

	w := app.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `id="totalStudents"`)
	assert.Contains(t, body, `id="satisfactionRate"`)
	assert.Contains(t, body, "data-frames=")
}

func TestRegisterPageValidationErrors(t *testing.T) {
	app := newTestApp(t, nil, nil)

	form := validForm()
	form.Set("dni", "12ab")
	form.Del("terminos")
	w := app.do(postForm("/registro", form))

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Por favor, corrija los errores del formulario")
	assert.Contains(t, body, "has-error")
	assert.Contains(t, body, `value="ana@example.com"`)
	assert.Empty(t, app.stored(t))
}

func TestRegisterPageBindErrorKeepsInput(t *testing.T) {
	app := newTestApp(t, nil, nil)

	form := validForm()
	form.Set("terminos", "quizas")
	w := app.do(postForm("/registro", form))

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Por favor, corrija los errores del formulario")
	assert.Contains(t, body, `value="ana@example.com"`)
	assert.Contains(t, body, `value="12345678"`)
	assert.Empty(t, app.stored(t))
}

func TestRegisterPageSuccess(t *testing.T) {
	app := newTestApp(t, nil, nil)

	w := app.do(postForm("/registro", validForm()))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http-equiv="refresh"`)
	assert.Contains(t, w.Body.String(), "Matrícula registrada exitosamente")

	stored := app.stored(t)
	require.Len(t, stored, 1)
	assert.Equal(t, models.EnrollmentStatusPending, stored[0].Status)
	assert.Equal(t, "12345678", stored[0].Student.NationalID)
}

func TestListingPageFilterQuery(t *testing.T) {
	app := newTestApp(t, seedRecords(), nil)

	w := app.do(httptest.NewRequest(http.MethodGet, "/listado?q=luis", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "22222222")
	assert.NotContains(t, body, "11111111")
	assert.NotContains(t, body, "33333333")
}

func TestListingPageEmptyState(t *testing.T) {
	app := newTestApp(t, nil, nil)

	w := app.do(httptest.NewRequest(http.MethodGet, "/listado", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Aún no hay matrículas registradas.")
}

func TestListingPageDeleteRedirectsWithFlash(t *testing.T) {
	app := newTestApp(t, seedRecords(), nil)

	w := app.do(postForm("/listado/rec-2/eliminar", url.Values{}))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, service.ListingPath, w.Header().Get("Location"))
	assert.Contains(t, strings.Join(w.Header().Values("Set-Cookie"), "\n"), "matricula_flash=")

	stored := app.stored(t)
	require.Len(t, stored, 2)
	for _, rec := range stored {
		assert.NotEqual(t, "rec-2", rec.ID)
	}
}

func TestListingPageDeleteUnknown(t *testing.T) {
	app := newTestApp(t, seedRecords(), nil)

	w := app.do(postForm("/listado/missing/eliminar", url.Values{}))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Len(t, app.stored(t), 3)
}

func TestListingPageDetails(t *testing.T) {
	app := newTestApp(t, seedRecords(), nil)

	w := app.do(httptest.NewRequest(http.MethodGet, "/listado/rec-3", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Marta Ruiz")

	w = app.do(httptest.NewRequest(http.MethodGet, "/listado/missing", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestAPIRegisterAndList(t *testing.T) {
	app := newTestApp(t, nil, nil)
	now := time.Now().UTC()

	payload := map[string]interface{}{
		"nombres":         "Ana",
		"apellidos":       "Pérez",
		"dni":             "12345678",
		"fechaNacimiento": now.AddDate(-30, 0, 0).Format(models.DateLayout),
		"email":           "ana@example.com",
		"telefono":        "987654321",
		"direccion":       "Av. Principal 100",
		"curso":           "idiomas",
		"modalidad":       "hibrida",
		"fechaInicio":     now.AddDate(0, 1, 0).Format(models.DateLayout),
		"terminos":        true,
	}
	w := app.do(postJSON("/api/v1/enrollments", payload, ""))
	require.Equal(t, http.StatusCreated, w.Code)
	env := decode(t, w)
	assert.Equal(t, service.ListingPath, env.Meta["redirect_to"])
	assert.EqualValues(t, 2000, env.Meta["redirect_after_ms"])

	req := httptest.NewRequest(http.MethodGet, "/api/v1/listing", nil)
	req.Header.Set(sessionHeader, "api-session")
	w = app.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	env = decode(t, w)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 1, env.Pagination.TotalCount)
}

func TestAPIRegisterValidationDetails(t *testing.T) {
	app := newTestApp(t, nil, nil)

	w := app.do(postJSON("/api/v1/enrollments", map[string]interface{}{"nombres": "Ana"}, ""))
	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "dni")
	assert.Contains(t, env.Error.Details, "terminos")
	assert.NotContains(t, env.Error.Details, "nombres")
}

func TestAPIListingPageSizeRejected(t *testing.T) {
	app := newTestApp(t, seedRecords(), nil)

	w := app.do(postJSON("/api/v1/listing/page-size", PageSizeRequest{PageSize: 7}, "s1"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_PAGE_SIZE", env.Error.Code)
	assert.Equal(t, "5,10,25,50", env.Error.Details["allowed"])
}

func TestAPIListingFilterAndPage(t *testing.T) {
	app := newTestApp(t, seedRecords(), nil)

	w := app.do(postJSON("/api/v1/listing/page-size", PageSizeRequest{PageSize: 5}, "s1"))
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(postJSON("/api/v1/listing/filter", service.FilterCriteria{Status: "pending"}, "s1"))
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, 1, env.Pagination.TotalCount)

	w = app.do(postJSON("/api/v1/listing/page", PageRequest{Direction: "next"}, "s1"))
	require.Equal(t, http.StatusOK, w.Code)
	env = decode(t, w)
	assert.Equal(t, false, env.Meta["changed"])
	assert.Equal(t, 1, env.Pagination.Page)

	w = app.do(postJSON("/api/v1/listing/page", PageRequest{Direction: "sideways"}, "s1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIExportEmpty(t *testing.T) {
	app := newTestApp(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/listing/export?format=csv", nil)
	req.Header.Set(sessionHeader, "s1")
	w := app.do(req)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decode(t, w)
	assert.Equal(t, "EXPORT_EMPTY", env.Error.Code)
}

func TestAPIExportCSV(t *testing.T) {
	app := newTestApp(t, seedRecords(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/listing/export", nil)
	req.Header.Set(sessionHeader, "s1")
	w := app.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "matriculas_")
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "11111111")
}

func TestAPIEditPlaceholder(t *testing.T) {
	app := newTestApp(t, seedRecords(), nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/enrollments/rec-1", nil)
	w := app.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, "NOT_IMPLEMENTED", env.Meta["code"])

	req = httptest.NewRequest(http.MethodPut, "/api/v1/enrollments/missing", nil)
	w = app.do(req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthAndReadiness(t *testing.T) {
	app := newTestApp(t, nil, map[string]ReadinessCheck{
		"store": func(ctx context.Context) error { return errors.New("connection refused") },
	})

	w := app.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}
