// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with `swag init -g cmd/main.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/uploads": {
            "post": {
                "description": "Stores a CSV with Date and Close columns (Volume optional) and redirects to its report",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["uploads"],
                "summary": "Upload a price file",
                "parameters": [
                    {"type": "file", "description": "CSV file", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "302": {"description": "Stored, see Location", "schema": {"$ref": "#/definitions/dto.UploadResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "413": {"description": "Payload Too Large", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/report": {
            "get": {
                "description": "Returns statistics, moving average, returns, volatility and chart data for an upload",
                "produces": ["application/json"],
                "tags": ["report"],
                "summary": "Analyze an uploaded file",
                "parameters": [
                    {"type": "string", "example": "AAPL.csv", "description": "Uploaded file name", "name": "filename", "in": "query", "required": true},
                    {"type": "integer", "example": 30, "description": "Moving-average window", "name": "window", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Success", "schema": {"$ref": "#/definitions/dto.ReportResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Same as GET /api/v1/report plus a plain-language explanation from the language model",
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["report"],
                "summary": "Analyze an upload and explain it",
                "parameters": [
                    {"type": "string", "description": "Uploaded file name", "name": "filename", "in": "formData", "required": true},
                    {"type": "integer", "description": "Moving-average window", "name": "window", "in": "formData"},
                    {"enum": ["deep", "short"], "type": "string", "description": "Explanation depth", "name": "explain", "in": "formData"},
                    {"type": "string", "description": "Ticker symbol", "name": "ticker", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "Success", "schema": {"$ref": "#/definitions/dto.ReportResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "502": {"description": "Explainer failed", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "description": "Always returns OK if the service is running",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Returns ready if the upload store and cache are reachable",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "window must be a positive integer"},
                "message": {"type": "string", "example": "invalid window"},
                "timestamp": {"type": "string", "example": "2025-09-12T15:04:05Z"}
            }
        },
        "dto.UploadResponse": {
            "type": "object",
            "properties": {
                "filename": {"type": "string", "example": "AAPL.csv"},
                "report_url": {"type": "string", "example": "/api/v1/report?filename=AAPL.csv&window=30"}
            }
        },
        "dto.ReportResponse": {
            "type": "object",
            "properties": {
                "analysis": {"$ref": "#/definitions/models.Analysis"},
                "average_volume": {"type": "integer"},
                "explanation": {"type": "string"},
                "filename": {"type": "string", "example": "AAPL.csv"},
                "price_chart": {"$ref": "#/definitions/models.Chart"},
                "rows": {"type": "integer", "example": 250},
                "ticker": {"type": "string", "example": "AAPL"},
                "volume_chart": {"$ref": "#/definitions/models.Chart"}
            }
        },
        "models.Analysis": {
            "type": "object",
            "properties": {
                "average_daily_change": {"type": "number"},
                "daily_return": {"type": "array", "items": {"type": "number"}},
                "max": {"type": "number", "example": 105},
                "mean": {"type": "number", "example": 103},
                "min": {"type": "number", "example": 101},
                "moving_average": {"type": "array", "items": {"type": "number"}},
                "percentage_change": {"type": "number", "example": 3.96},
                "trend": {"type": "string", "enum": ["upward", "downward"], "example": "upward"},
                "volatility": {"type": "number"},
                "window": {"type": "integer", "example": 30}
            }
        },
        "models.Chart": {
            "type": "object",
            "properties": {
                "labels": {"type": "array", "items": {"type": "string"}},
                "series": {"type": "array", "items": {"$ref": "#/definitions/models.ChartSeries"}},
                "title": {"type": "string"},
                "x_label": {"type": "string"},
                "y_label": {"type": "string"}
            }
        },
        "models.ChartSeries": {
            "type": "object",
            "properties": {
                "color": {"type": "string"},
                "kind": {"type": "string"},
                "name": {"type": "string"},
                "points": {"type": "array", "items": {"type": "number"}},
                "style": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "stockpulse API",
	Description:      "Upload daily price files and get statistics, moving averages, volatility, chart data and plain-language explanations.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
