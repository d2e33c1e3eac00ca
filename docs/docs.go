// Package docs registers the OpenAPI document served at /swagger. Regenerate the
// paths from the handler annotations with `swag init -g main.go`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/api/v1/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in as an employer or an employee",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.LoginInput"}}
                ],
                "responses": {"200": {"description": "OK"}, "401": {"description": "invalid credentials"}}
            }
        },
        "/api/v1/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register an employer",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"201": {"description": "Created"}, "409": {"description": "email already in use"}}
            }
        },
        "/api/v1/attendance/clock-in": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["attendance"],
                "summary": "Clock in for the current attendance day",
                "parameters": [
                    {"in": "body", "name": "body", "schema": {"$ref": "#/definitions/dto.ClockInput"}}
                ],
                "responses": {"201": {"description": "Created"}, "409": {"description": "already clocked in"}, "422": {"description": "outside the allowed radius"}}
            }
        },
        "/api/v1/attendance/clock-out": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["attendance"],
                "summary": "Clock out of the open attendance day",
                "parameters": [
                    {"in": "body", "name": "body", "schema": {"$ref": "#/definitions/dto.ClockInput"}}
                ],
                "responses": {"200": {"description": "OK"}, "409": {"description": "not clocked in"}}
            }
        },
        "/api/v1/attendance/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["attendance"],
                "summary": "Present, late and absent counts over a date window",
                "parameters": [
                    {"type": "string", "name": "startDate", "in": "query", "required": true},
                    {"type": "string", "name": "endDate", "in": "query", "required": true},
                    {"type": "string", "name": "employeeId", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/payroll": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["payroll"],
                "summary": "Compute the payroll of a month without saving it",
                "parameters": [
                    {"type": "string", "name": "month", "in": "query", "required": true},
                    {"type": "string", "name": "q", "in": "query"}
                ],
                "responses": {"200": {"description": "lines and month totals"}}
            }
        },
        "/api/v1/settings": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["employer"],
                "summary": "Create or replace the attendance policy",
                "responses": {"200": {"description": "OK"}, "400": {"description": "invalid policy"}}
            }
        }
    },
    "definitions": {
        "dto.LoginInput": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "dto.ClockInput": {
            "type": "object",
            "properties": {
                "latitude": {"type": "number"},
                "longitude": {"type": "number"},
                "qrCode": {"type": "string"},
                "notes": {"type": "string"}
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
	Title:            "Attendance API",
	Description:      "Multi-tenant attendance tracking and payroll.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
