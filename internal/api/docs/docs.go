// Package docs registers the OpenAPI description of the carjai mock backend.
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
        "/api/auth/signup": {
            "post": {"tags": ["auth"], "summary": "Register a new user", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}
        },
        "/api/auth/signin": {
            "post": {"tags": ["auth"], "summary": "Sign in", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/auth/signout": {
            "post": {"tags": ["auth"], "summary": "Sign out", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/auth/me": {
            "get": {"tags": ["auth"], "summary": "Current user", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/auth/refresh": {
            "post": {"tags": ["auth"], "summary": "Refresh session", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/cars/search": {
            "get": {"tags": ["cars"], "summary": "Search cars", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/cars/{id}": {
            "get": {"tags": ["cars"], "summary": "Car detail", "produces": ["application/json"], "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/recent-views": {
            "get": {"tags": ["recent-views"], "summary": "Recently viewed cars", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}},
            "post": {"tags": ["recent-views"], "summary": "Record a car view", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "404": {"description": "Not Found"}}}
        },
        "/admin/auth/signin": {
            "post": {"tags": ["admin-auth"], "summary": "Admin sign in", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}}
        },
        "/admin/auth/signout": {
            "post": {"tags": ["admin-auth"], "summary": "Admin sign out", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/admin/auth/me": {
            "get": {"tags": ["admin-auth"], "summary": "Current admin", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/admin/ip-whitelist": {
            "get": {"tags": ["admin-ip"], "summary": "List whitelisted IPs", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/admin/ip-whitelist/add": {
            "post": {"tags": ["admin-ip"], "summary": "Add whitelisted IP", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}
        },
        "/admin/ip-whitelist/check": {
            "get": {"tags": ["admin-ip"], "summary": "Check whitelist removal impact", "produces": ["application/json"], "parameters": [{"type": "string", "name": "ip", "in": "query", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/admin/ip-whitelist/remove": {
            "delete": {"tags": ["admin-ip"], "summary": "Remove whitelisted IP", "produces": ["application/json"], "parameters": [{"type": "string", "name": "ip", "in": "query", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/health": {
            "get": {"tags": ["health"], "summary": "Liveness check", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "carjai mock backend",
	Description:      "Development stand-in for the marketplace REST API used by the carjai client.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
