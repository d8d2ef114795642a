// Package docs holds the OpenAPI description served at /swagger. Regenerate
// with `swag init -g server/main.go -o docs` after changing route
// annotations.
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
        "/movies": {
            "get": {
                "produces": ["application/json"],
                "tags": ["movies"],
                "summary": "List movies"
            }
        },
        "/movies/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["movies"],
                "summary": "Get a movie by id",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ]
            }
        },
        "/showings": {
            "get": {
                "produces": ["application/json"],
                "tags": ["showings"],
                "summary": "List showings"
            }
        },
        "/showings/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["showings"],
                "summary": "Get a showing by id",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ]
            }
        },
        "/showings/{id}/live": {
            "get": {
                "produces": ["text/event-stream"],
                "tags": ["realtime"],
                "summary": "Stream live seat state for a showing",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ]
            }
        },
        "/showings/{id}/seatmap": {
            "get": {
                "produces": ["application/json"],
                "tags": ["realtime"],
                "summary": "Get the current seat state of a showing",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ]
            }
        },
        "/showings/{id}/seats/select": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["realtime"],
                "summary": "Place a soft hold on a seat",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ]
            }
        },
        "/showings/{id}/seats/deselect": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["realtime"],
                "summary": "Release a held seat",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ]
            }
        },
        "/showings/{id}/seats/reset": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["realtime"],
                "summary": "Release every seat held by one customer",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ]
            }
        },
        "/bookings/confirm": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Confirm a booking"
            }
        },
        "/bookings/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Get a booking by id or reference",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ]
            }
        },
        "/bookings/{id}/cancel": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Cancel a booking",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ]
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "CineBook API",
	Description:      "Theatre seat booking backend with soft holds, live seat state and atomic confirmation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
