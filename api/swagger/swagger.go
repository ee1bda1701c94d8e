package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Matrícula Admin API",
        "description": "Enrollment registration, session listing and export",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Enrollments", "description": "Registration and per-record operations"},
        {"name": "Listing", "description": "Per-session filtered and paginated view"}
    ],
    "paths": {
        "/enrollments": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Register enrollment",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/RegistrationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Storage unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/{id}": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "Get enrollment details",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Enrollments"],
                "summary": "Edit enrollment (not available)",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Placeholder notice in meta", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Enrollments"],
                "summary": "Delete enrollment",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Listing view after the delete", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Storage unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/registrations/summary": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Preview registration summary",
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/RegistrationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/listing": {
            "get": {
                "tags": ["Listing"],
                "summary": "Current listing page",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/listing/reload": {
            "post": {
                "tags": ["Listing"],
                "summary": "Re-read storage keeping the active filter",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/listing/filter": {
            "post": {
                "tags": ["Listing"],
                "summary": "Apply search, status and course filters",
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/FilterCriteria"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/listing/clear": {
            "post": {
                "tags": ["Listing"],
                "summary": "Clear the filters",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/listing/page": {
            "post": {
                "tags": ["Listing"],
                "summary": "Move to a page",
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/PageRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK, meta.changed reports whether the page moved", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/listing/page-size": {
            "post": {
                "tags": ["Listing"],
                "summary": "Change the page size",
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/PageSizeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Size not allowed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/listing/stats": {
            "get": {
                "tags": ["Listing"],
                "summary": "Statistics of the filtered view",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/listing/export": {
            "get": {
                "tags": ["Listing"],
                "summary": "Download the filtered view",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Attachment"},
                    "422": {"description": "Nothing to export", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/listing/print": {
            "get": {
                "tags": ["Listing"],
                "summary": "Printable html document of the filtered view",
                "produces": ["text/html"],
                "responses": {
                    "200": {"description": "OK"},
                    "422": {"description": "Nothing to print", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RegistrationRequest": {
            "type": "object",
            "required": ["nombres", "apellidos", "dni", "fechaNacimiento", "email", "telefono", "direccion", "curso", "modalidad", "fechaInicio", "terminos"],
            "properties": {
                "nombres": {"type": "string"},
                "apellidos": {"type": "string"},
                "dni": {"type": "string", "pattern": "^\\d{8,12}$"},
                "fechaNacimiento": {"type": "string", "format": "date"},
                "genero": {"type": "string", "enum": ["masculino", "femenino", "otro", "prefiero-no-decir"]},
                "email": {"type": "string"},
                "telefono": {"type": "string", "pattern": "^\\d{9,15}$"},
                "direccion": {"type": "string"},
                "curso": {"type": "string", "enum": ["matematicas", "ciencias", "literatura", "historia", "idiomas", "arte", "administracion", "ingenieria"]},
                "modalidad": {"type": "string", "enum": ["presencial", "virtual", "hibrida"]},
                "fechaInicio": {"type": "string", "format": "date"},
                "fechaFin": {"type": "string", "format": "date"},
                "observaciones": {"type": "string"},
                "terminos": {"type": "boolean"}
            }
        },
        "FilterCriteria": {
            "type": "object",
            "properties": {
                "search": {"type": "string"},
                "status": {"type": "string", "enum": ["all", "active", "pending", "completed", "cancelled"]},
                "course": {"type": "string"}
            }
        },
        "PageRequest": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "direction": {"type": "string", "enum": ["next", "prev"]}
            }
        },
        "PageSizeRequest": {
            "type": "object",
            "properties": {
                "page_size": {"type": "integer"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
