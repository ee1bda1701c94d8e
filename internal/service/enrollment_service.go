package service

import (
	"context"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/matricula-admin/internal/models"
	"github.com/noah-isme/matricula-admin/internal/presentation"
	appErrors "github.com/noah-isme/matricula-admin/pkg/errors"
)

type recordStore interface {
	Load(ctx context.Context, collection string) []models.Enrollment
	LoadForUpdate(ctx context.Context, collection string) ([]models.Enrollment, bool)
	Save(ctx context.Context, collection string, records []models.Enrollment) bool
}

// ListingPath is where a successful registration navigates to.
const ListingPath = "/listado"

const summaryPlaceholder = "---"

var (
	dniPattern   = regexp.MustCompile(`^\d{8,12}$`)
	phonePattern = regexp.MustCompile(`^\d{9,15}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

var validationMessages = map[string]string{
	"required":        "Este campo es obligatorio",
	"email_basic":     "Ingrese un correo electrónico válido",
	"dni":             "Ingrese un número de documento válido (8-12 dígitos)",
	"phone":           "Ingrese un número de teléfono válido",
	"adult":           "Debe ser mayor de 18 años",
	"course":          "Seleccione un curso válido",
	"modality":        "Seleccione una modalidad válida",
	"gender":          "Seleccione un género válido",
	"not_past":        "La fecha de inicio no puede ser anterior a hoy",
	"end_after_start": "La fecha de fin debe ser posterior a la fecha de inicio",
}

const termsMessage = "Debe aceptar los términos y condiciones"

// RegistrationRequest is the registration form payload.
type RegistrationRequest struct {
	FirstNames  string `json:"nombres" form:"nombres" validate:"required"`
	LastNames   string `json:"apellidos" form:"apellidos" validate:"required"`
	NationalID  string `json:"dni" form:"dni" validate:"required,dni"`
	BirthDate   string `json:"fechaNacimiento" form:"fechaNacimiento" validate:"required,adult"`
	Gender      string `json:"genero" form:"genero" validate:"omitempty,gender"`
	Email       string `json:"email" form:"email" validate:"required,email_basic"`
	Phone       string `json:"telefono" form:"telefono" validate:"required,phone"`
	Address     string `json:"direccion" form:"direccion" validate:"required"`
	Course      string `json:"curso" form:"curso" validate:"required,course"`
	Modality    string `json:"modalidad" form:"modalidad" validate:"required,modality"`
	StartDate   string `json:"fechaInicio" form:"fechaInicio" validate:"required,not_past"`
	EndDate     string `json:"fechaFin" form:"fechaFin"`
	Notes       string `json:"observaciones" form:"observaciones"`
	AcceptTerms bool   `json:"terminos" form:"terminos" validate:"required"`
}

// Trimmed returns a copy with surrounding whitespace removed from every text
// field.
func (r RegistrationRequest) Trimmed() RegistrationRequest {
	for _, field := range []*string{
		&r.FirstNames, &r.LastNames, &r.NationalID, &r.BirthDate, &r.Gender, &r.Email,
		&r.Phone, &r.Address, &r.Course, &r.Modality, &r.StartDate, &r.EndDate, &r.Notes,
	} {
		*field = strings.TrimSpace(*field)
	}
	return r
}

// RegistrationResult is returned after a registration is persisted.
type RegistrationResult struct {
	Enrollment    models.Enrollment `json:"enrollment"`
	RedirectTo    string            `json:"redirect_to"`
	RedirectAfter time.Duration     `json:"-"`
	RedirectMs    int64             `json:"redirect_after_ms"`
}

// RegistrationSummary is the live preview shown next to the form.
type RegistrationSummary struct {
	FullName   string `json:"nombre"`
	NationalID string `json:"dni"`
	Course     string `json:"curso"`
	Modality   string `json:"modalidad"`
	StartDate  string `json:"fechaInicio"`
}

// RegistrationConfig tunes RegistrationService.
type RegistrationConfig struct {
	Collection    string
	RedirectDelay time.Duration
}

// RegistrationService validates form submissions and appends them to the
// stored collection.
type RegistrationService struct {
	store     recordStore
	validator *validator.Validate
	cfg       RegistrationConfig
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
}

// NewRegistrationService constructs RegistrationService and registers the
// custom validation rules on validate.
func NewRegistrationService(store recordStore, validate *validator.Validate, cfg RegistrationConfig, metrics *MetricsService, logger *zap.Logger) *RegistrationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Collection == "" {
		cfg.Collection = "matriculas"
	}
	if cfg.RedirectDelay <= 0 {
		cfg.RedirectDelay = 2 * time.Second
	}
	svc := &RegistrationService{
		store:     store,
		validator: validate,
		cfg:       cfg,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
	svc.registerRules()
	return svc
}

// WithClock overrides the time source used for age and start date checks.
func (s *RegistrationService) WithClock(now func() time.Time) *RegistrationService {
	if now != nil {
		s.now = now
	}
	return s
}

// RedirectDelay is the pause before navigating to the listing page.
func (s *RegistrationService) RedirectDelay() time.Duration {
	return s.cfg.RedirectDelay
}

// Validate checks the trimmed request and returns one message per failing
// field, keyed by the form field name. An empty map means the request is
// valid.
func (s *RegistrationService) Validate(req RegistrationRequest) map[string]string {
	req = req.Trimmed()
	fields := map[string]string{}
	err := s.validator.Struct(req)
	if err == nil {
		return fields
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		fields["_"] = err.Error()
		return fields
	}
	for _, fe := range verrs {
		name := fe.Field()
		if _, seen := fields[name]; seen {
			continue
		}
		fields[name] = messageFor(name, fe.Tag())
	}
	return fields
}

// Register validates req and appends a new pending enrollment to the
// collection. Nothing is stored when validation fails.
func (s *RegistrationService) Register(ctx context.Context, req RegistrationRequest) (*RegistrationResult, error) {
	req = req.Trimmed()
	if fields := s.Validate(req); len(fields) > 0 {
		return nil, appErrors.WithDetails(appErrors.ErrValidation, fields)
	}

	records, ok := s.store.LoadForUpdate(ctx, s.cfg.Collection)
	if !ok {
		return nil, appErrors.ErrStorage
	}
	enrollment := models.Enrollment{
		ID:           newRecordID(records),
		RegisteredAt: s.now().UTC(),
		Status:       models.EnrollmentStatusPending,
		Student: models.Student{
			FirstNames: req.FirstNames,
			LastNames:  req.LastNames,
			NationalID: req.NationalID,
			BirthDate:  req.BirthDate,
			Gender:     req.Gender,
			Email:      req.Email,
			Phone:      req.Phone,
			Address:    req.Address,
		},
		Details: models.EnrollmentInfo{
			Course:    req.Course,
			Modality:  req.Modality,
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
			Notes:     req.Notes,
		},
	}
	records = append(records, enrollment)
	if !s.store.Save(ctx, s.cfg.Collection, records) {
		return nil, appErrors.ErrStorage
	}

	s.metrics.RecordRegistration()
	s.logger.Info("enrollment registered",
		zap.String("enrollment_id", enrollment.ID),
		zap.String("course", enrollment.Details.Course),
		zap.Int("stored_total", len(records)),
	)
	return &RegistrationResult{
		Enrollment:    enrollment,
		RedirectTo:    ListingPath,
		RedirectAfter: s.cfg.RedirectDelay,
		RedirectMs:    s.cfg.RedirectDelay.Milliseconds(),
	}, nil
}

// Summary builds the preview for a partially filled form.
func (s *RegistrationService) Summary(req RegistrationRequest) RegistrationSummary {
	req = req.Trimmed()
	summary := RegistrationSummary{
		FullName:   strings.TrimSpace(req.FirstNames + " " + req.LastNames),
		NationalID: req.NationalID,
		Course:     summaryPlaceholder,
		Modality:   summaryPlaceholder,
		StartDate:  presentation.FormatShortDate(req.StartDate),
	}
	if summary.FullName == "" {
		summary.FullName = summaryPlaceholder
	}
	if summary.NationalID == "" {
		summary.NationalID = summaryPlaceholder
	}
	if req.Course != "" {
		summary.Course = models.CourseLabel(req.Course)
	}
	if req.Modality != "" {
		summary.Modality = models.ModalityLabel(req.Modality)
	}
	return summary
}

func (s *RegistrationService) registerRules() {
	s.validator.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	_ = s.validator.RegisterValidation("dni", matchPattern(dniPattern))
	_ = s.validator.RegisterValidation("phone", matchPattern(phonePattern))
	_ = s.validator.RegisterValidation("email_basic", matchPattern(emailPattern))
	_ = s.validator.RegisterValidation("course", func(fl validator.FieldLevel) bool {
		return models.IsCourse(fl.Field().String())
	})
	_ = s.validator.RegisterValidation("modality", func(fl validator.FieldLevel) bool {
		return models.IsModality(fl.Field().String())
	})
	_ = s.validator.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		return models.IsGender(fl.Field().String())
	})
	_ = s.validator.RegisterValidation("adult", func(fl validator.FieldLevel) bool {
		birth, ok := models.ParseDate(fl.Field().String())
		if !ok {
			return false
		}
		return !birth.AddDate(18, 0, 0).After(s.today())
	})
	_ = s.validator.RegisterValidation("not_past", func(fl validator.FieldLevel) bool {
		start, ok := models.ParseDate(fl.Field().String())
		if !ok {
			return false
		}
		return !start.Before(s.today())
	})
	s.validator.RegisterStructValidation(func(sl validator.StructLevel) {
		req := sl.Current().Interface().(RegistrationRequest)
		if req.EndDate == "" {
			return
		}
		end, ok := models.ParseDate(req.EndDate)
		if !ok {
			sl.ReportError(req.EndDate, "fechaFin", "EndDate", "end_after_start", "")
			return
		}
		if start, ok := models.ParseDate(req.StartDate); ok && end.Before(start) {
			sl.ReportError(req.EndDate, "fechaFin", "EndDate", "end_after_start", "")
		}
	}, RegistrationRequest{})
}

// today is the current calendar date at midnight UTC, comparable with
// ParseDate results.
func (s *RegistrationService) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func matchPattern(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func messageFor(field, tag string) string {
	if field == "terminos" {
		return termsMessage
	}
	if msg, ok := validationMessages[tag]; ok {
		return msg
	}
	return validationMessages["required"]
}

func newRecordID(existing []models.Enrollment) string {
	taken := make(map[string]struct{}, len(existing))
	for _, rec := range existing {
		taken[rec.ID] = struct{}{}
	}
	for {
		id := uuid.NewString()
		if _, dup := taken[id]; !dup {
			return id
		}
	}
}
