package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Ihsas Intake API",
        "description": "Recruitment intake back office: candidates, centers, filieres, statistics",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "auth", "description": "Admin authentication"},
        {"name": "candidates", "description": "Candidate intake and lifecycle"},
        {"name": "centers", "description": "Training centers"},
        {"name": "filieres", "description": "Training programs"},
        {"name": "stats", "description": "Dashboard statistics and reports"}
    ],
    "paths": {
        "/admin/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Authenticate an admin",
                "parameters": [
                    {"name": "credentials", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/admin/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Revoke the current access token",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "Logged out"}
                }
            }
        },
        "/candidat/add": {
            "post": {
                "tags": ["candidates"],
                "summary": "Register a candidate with CV and cover letter",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "fullName", "in": "formData", "type": "string", "required": true},
                    {"name": "linkedin", "in": "formData", "type": "string"},
                    {"name": "portfolio", "in": "formData", "type": "string"},
                    {"name": "centerId", "in": "formData", "type": "string"},
                    {"name": "filiereId", "in": "formData", "type": "string"},
                    {"name": "cv", "in": "formData", "type": "file", "required": true},
                    {"name": "cover", "in": "formData", "type": "file", "required": true}
                ],
                "responses": {
                    "201": {"description": "Candidate created"},
                    "400": {"description": "Invalid payload or document"}
                }
            }
        },
        "/candidat/all": {
            "get": {
                "tags": ["candidates"],
                "summary": "List candidates with pagination",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"},
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Page of candidates", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/candidat/filters": {
            "get": {
                "tags": ["candidates"],
                "summary": "Filter candidates by center, filiere and status",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "center", "in": "query", "type": "string"},
                    {"name": "filiere", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["Disponible", "Stage", "Emploi"]}
                ],
                "responses": {
                    "200": {"description": "Matching candidates"},
                    "400": {"description": "Invalid criteria"}
                }
            }
        },
        "/candidat/{id}/stage": {
            "put": {
                "tags": ["candidates"],
                "summary": "Move a candidate into the Internship state",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "details", "in": "body", "schema": {"$ref": "#/definitions/StageRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated candidate"},
                    "404": {"description": "Unknown candidate"},
                    "409": {"description": "Transition already in progress"}
                }
            }
        },
        "/candidat/{id}/job": {
            "put": {
                "tags": ["candidates"],
                "summary": "Move a candidate into the Employed state",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "details", "in": "body", "schema": {"$ref": "#/definitions/JobRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated candidate"},
                    "409": {"description": "Transition already in progress"}
                }
            }
        },
        "/candidat/{id}/disponible": {
            "put": {
                "tags": ["candidates"],
                "summary": "Move a candidate back to the Available state",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Updated candidate"},
                    "409": {"description": "Transition already in progress"}
                }
            }
        },
        "/center": {
            "get": {
                "tags": ["centers"],
                "summary": "List all training centers",
                "responses": {
                    "200": {"description": "Centers"}
                }
            },
            "post": {
                "tags": ["centers"],
                "summary": "Create a center",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Center created"}
                }
            }
        },
        "/filiere/by-center/{id}": {
            "get": {
                "tags": ["filieres"],
                "summary": "List the filieres attached to one center",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Filieres"},
                    "404": {"description": "Unknown center"}
                }
            }
        },
        "/stats/centers": {
            "get": {
                "tags": ["stats"],
                "summary": "Rank all centers by candidate volume",
                "responses": {
                    "200": {"description": "Centers ranking"}
                }
            }
        },
        "/stats/center/{id}": {
            "get": {
                "tags": ["stats"],
                "summary": "Status buckets of one center",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Center statistics"},
                    "404": {"description": "Unknown center"}
                }
            }
        },
        "/stats/export": {
            "post": {
                "tags": ["stats"],
                "summary": "Render the centers report and return a signed download link",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["pdf", "csv"]}
                ],
                "responses": {
                    "200": {"description": "Report reference with signed token"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "StageRequest": {
            "type": "object",
            "properties": {
                "stageCompany": {"type": "string"},
                "stageTitle": {"type": "string"},
                "stageStartDate": {"type": "string", "format": "date"},
                "stageEndDate": {"type": "string", "format": "date"},
                "stageType": {"type": "string"}
            }
        },
        "JobRequest": {
            "type": "object",
            "properties": {
                "jobCompany": {"type": "string"},
                "jobTitle": {"type": "string"},
                "jobContractType": {"type": "string"},
                "jobStartDate": {"type": "string", "format": "date"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "totalCount": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
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
