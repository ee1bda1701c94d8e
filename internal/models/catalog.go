package models

// Option is a selectable enum key with its display label.
type Option struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Courses offered by the institution, in form order.
var Courses = []Option{
	{Key: "matematicas", Label: "Matemáticas Avanzadas"},
	{Key: "ciencias", Label: "Ciencias de la Computación"},
	{Key: "literatura", Label: "Literatura Contemporánea"},
	{Key: "historia", Label: "Historia Universal"},
	{Key: "idiomas", Label: "Idiomas Extranjeros"},
	{Key: "arte", Label: "Arte y Diseño"},
	{Key: "administracion", Label: "Administración de Empresas"},
	{Key: "ingenieria", Label: "Ingeniería de Software"},
}

// Modalities an enrollment can be taken in.
var Modalities = []Option{
	{Key: "presencial", Label: "Presencial"},
	{Key: "virtual", Label: "Virtual"},
	{Key: "hibrida", Label: "Híbrida"},
}

// Genders accepted by the registration form.
var Genders = []Option{
	{Key: "masculino", Label: "Masculino"},
	{Key: "femenino", Label: "Femenino"},
	{Key: "otro", Label: "Otro"},
	{Key: "prefiero-no-decir", Label: "Prefiero no decir"},
}

const unspecifiedGender = "No especificado"

// CourseLabel returns the course name, or the key itself when unknown.
func CourseLabel(key string) string {
	if label, ok := lookup(Courses, key); ok {
		return label
	}
	return key
}

// ModalityLabel returns the modality name, or the key itself when unknown.
func ModalityLabel(key string) string {
	if label, ok := lookup(Modalities, key); ok {
		return label
	}
	return key
}

// GenderLabel returns the gender name, or "No especificado".
func GenderLabel(key string) string {
	if label, ok := lookup(Genders, key); ok {
		return label
	}
	return unspecifiedGender
}

// IsCourse reports whether key names a known course.
func IsCourse(key string) bool {
	_, ok := lookup(Courses, key)
	return ok
}

// IsModality reports whether key names a known modality.
func IsModality(key string) bool {
	_, ok := lookup(Modalities, key)
	return ok
}

// IsGender reports whether key names a known gender option.
func IsGender(key string) bool {
	_, ok := lookup(Genders, key)
	return ok
}

func lookup(options []Option, key string) (string, bool) {
	for _, opt := range options {
		if opt.Key == key {
			return opt.Label, true
		}
	}
	return "", false
}
