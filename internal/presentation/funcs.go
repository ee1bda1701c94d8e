package presentation

import (
	"html/template"
	"time"

	"github.com/noah-isme/matricula-admin/internal/models"
)

// FuncMap exposes the helpers and the label catalog to html templates.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"displayDate":   FormatDisplayDate,
		"shortDate":     FormatShortDate,
		"timestamp":     FormatTimestamp,
		"counter":       FormatCounter,
		"activeNav":     ActiveNav,
		"year":          func() int { return CurrentYear(time.Now()) },
		"courseLabel":   models.CourseLabel,
		"modalityLabel": models.ModalityLabel,
		"genderLabel":   models.GenderLabel,
		"statusLabel":   func(s models.EnrollmentStatus) string { return s.Label() },
		"statusBadge":   func(s models.EnrollmentStatus) string { return s.BadgeClass() },
		"courses":       func() []models.Option { return models.Courses },
		"modalities":    func() []models.Option { return models.Modalities },
		"genders":       func() []models.Option { return models.Genders },
		"statuses":      models.EnrollmentStatuses,
		"orDefault": func(value, fallback string) string {
			if value == "" {
				return fallback
			}
			return value
		},
		"ms":  func(d time.Duration) int64 { return d.Milliseconds() },
		"add": func(a, b int) int { return a + b },
	}
}
