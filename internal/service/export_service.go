package service

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/matricula-admin/internal/models"
	"github.com/noah-isme/matricula-admin/internal/presentation"
	appErrors "github.com/noah-isme/matricula-admin/pkg/errors"
	"github.com/noah-isme/matricula-admin/pkg/export"
)

// Export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// CSVHeaders is the literal header row of the CSV export.
var CSVHeaders = []string{"ID", "Nombres", "Apellidos", "DNI", "Curso", "Modalidad", "Fecha Inicio", "Estado", "Email", "Teléfono"}

var pdfHeaders = []string{"Estudiante", "DNI", "Curso", "Modalidad", "Fecha Inicio", "Estado", "Email", "Teléfono"}

const printTemplateName = "print"

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type templateExecutor interface {
	ExecuteTemplate(w io.Writer, name string, data interface{}) error
}

// ExportFile is a generated download.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// PrintDocument is the data handed to the printable template.
type PrintDocument struct {
	GeneratedAt   string
	Total         int
	Records       []models.Enrollment
	SettleDelayMs int64
}

// ExportService serialises a filtered view to CSV, PDF or a printable page.
type ExportService struct {
	csv         csvRenderer
	pdf         pdfRenderer
	templates   templateExecutor
	settleDelay time.Duration
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewExportService constructs an ExportService. templates must define the
// "print" template for RenderPrintable.
func NewExportService(templates *template.Template, settleDelay time.Duration, metrics *MetricsService, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if settleDelay <= 0 {
		settleDelay = 500 * time.Millisecond
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	svc := &ExportService{
		csv:         csv,
		pdf:         pdf,
		settleDelay: settleDelay,
		metrics:     metrics,
		logger:      logger,
	}
	if templates != nil {
		svc.templates = templates
	}
	return svc
}

// ExportCSV renders records with the fixed header row. Empty input is refused
// with ErrExportEmpty.
func (s *ExportService) ExportCSV(records []models.Enrollment, now time.Time) (*ExportFile, error) {
	if len(records) == 0 {
		return nil, appErrors.ErrExportEmpty
	}
	payload, err := s.csv.Render(csvDataset(records))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	s.metrics.RecordExport(FormatCSV)
	s.logger.Info("listing exported", zap.String("format", FormatCSV), zap.Int("records", len(records)))
	return &ExportFile{
		Filename:    ExportFilename(now, FormatCSV),
		ContentType: "text/csv; charset=utf-8",
		Payload:     payload,
	}, nil
}

// ExportPDF renders records as a landscape table with catalog labels.
func (s *ExportService) ExportPDF(records []models.Enrollment, now time.Time) (*ExportFile, error) {
	if len(records) == 0 {
		return nil, appErrors.ErrExportEmpty
	}
	data := export.Dataset{
		Title: "Listado de Matrículas",
		Subtitle: []string{
			"Generado: " + presentation.FormatTimestamp(now),
			fmt.Sprintf("Total de matrículas: %d", len(records)),
		},
		Headers: pdfHeaders,
		Rows:    make([][]string, 0, len(records)),
	}
	for _, rec := range records {
		data.Rows = append(data.Rows, []string{
			rec.Student.FullName(),
			rec.Student.NationalID,
			models.CourseLabel(rec.Details.Course),
			models.ModalityLabel(rec.Details.Modality),
			presentation.FormatShortDate(rec.Details.StartDate),
			rec.Status.Label(),
			rec.Student.Email,
			rec.Student.Phone,
		})
	}
	payload, err := s.pdf.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	s.metrics.RecordExport(FormatPDF)
	s.logger.Info("listing exported", zap.String("format", FormatPDF), zap.Int("records", len(records)))
	return &ExportFile{
		Filename:    ExportFilename(now, FormatPDF),
		ContentType: "application/pdf",
		Payload:     payload,
	}, nil
}

// RenderPrintable produces the standalone printable document for records.
func (s *ExportService) RenderPrintable(records []models.Enrollment, now time.Time) ([]byte, error) {
	if s.templates == nil {
		return nil, appErrors.Wrap(fmt.Errorf("print template not configured"), appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render printable listing")
	}
	doc := PrintDocument{
		GeneratedAt:   presentation.FormatTimestamp(now),
		Total:         len(records),
		Records:       records,
		SettleDelayMs: s.settleDelay.Milliseconds(),
	}
	buf := &bytes.Buffer{}
	if err := s.templates.ExecuteTemplate(buf, printTemplateName, doc); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render printable listing")
	}
	s.metrics.RecordExport("print")
	return buf.Bytes(), nil
}

// ExportFilename returns matriculas_<YYYY-MM-DD>.<ext>.
func ExportFilename(now time.Time, ext string) string {
	return fmt.Sprintf("matriculas_%s.%s", now.Format(models.DateLayout), ext)
}

func csvDataset(records []models.Enrollment) export.Dataset {
	data := export.Dataset{Headers: CSVHeaders, Rows: make([][]string, 0, len(records))}
	for _, rec := range records {
		data.Rows = append(data.Rows, []string{
			rec.ID,
			rec.Student.FirstNames,
			rec.Student.LastNames,
			rec.Student.NationalID,
			rec.Details.Course,
			rec.Details.Modality,
			rec.Details.StartDate,
			string(rec.Status),
			rec.Student.Email,
			rec.Student.Phone,
		})
	}
	return data
}
