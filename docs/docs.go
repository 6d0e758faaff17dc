// Package docs swagger-документ API в формате swag. Описаны основные
// маршруты: вход, категории, синхронизация цветов, статусы заказов, сводка.
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
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in with email and password",
                "parameters": [
                    {"description": "Credentials", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/httpapi.loginReq"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.Session"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/categories": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "List categories",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Category"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "The trimmed name becomes the document key; an existing name is rejected.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Add category",
                "parameters": [
                    {"description": "Category", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/httpapi.categoryReq"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Category"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/categories/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "A changed name moves the document to the new key.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Update or rename category",
                "parameters": [
                    {"type": "string", "description": "Current category key", "name": "id", "in": "path", "required": true},
                    {"description": "New name and optional image", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/httpapi.categoryReq"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.RenameOutcome"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Delete category",
                "parameters": [
                    {"type": "string", "description": "Category key", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "integer"}}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/colors/{id}/products": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["colors"],
                "summary": "Sync product back-references for one category",
                "parameters": [
                    {"type": "string", "description": "Color ID", "name": "id", "in": "path", "required": true},
                    {"description": "Category and selected products", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/httpapi.syncReq"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.SyncResult"}}
                }
            }
        },
        "/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Order count, revenue over all orders, product and category counts.",
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "Dashboard summary",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Stats"}}
                }
            }
        },
        "/orders/{id}/toggle-status": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Toggle order status between completed and in progress",
                "parameters": [
                    {"type": "string", "description": "Order ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Order"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "auth.Principal": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "uid": {"type": "string"}}
        },
        "auth.Session": {
            "type": "object",
            "properties": {
                "expiresAt": {"type": "string"},
                "principal": {"$ref": "#/definitions/auth.Principal"},
                "token": {"type": "string"}
            }
        },
        "domain.Category": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "imageUrl": {"type": "string"}, "name": {"type": "string"}}
        },
        "domain.Order": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "phoneNumber": {"type": "string"},
                "status": {"type": "string"},
                "total": {"type": "number"}
            }
        },
        "httpapi.categoryReq": {
            "type": "object",
            "properties": {"imageUrl": {"type": "string"}, "name": {"type": "string"}}
        },
        "httpapi.loginReq": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "httpapi.syncReq": {
            "type": "object",
            "properties": {"categoryId": {"type": "string"}, "productIds": {"type": "array", "items": {"type": "string"}}}
        },
        "service.RenameOutcome": {
            "type": "object",
            "properties": {
                "cascaded": {"type": "integer"},
                "category": {"$ref": "#/definitions/domain.Category"},
                "renamed": {"type": "boolean"}
            }
        },
        "service.Stats": {
            "type": "object",
            "properties": {
                "categories": {"type": "integer"},
                "orders": {"type": "integer"},
                "products": {"type": "integer"},
                "revenue": {"type": "number"}
            }
        },
        "service.SyncResult": {
            "type": "object",
            "properties": {
                "added": {"type": "array", "items": {"type": "string"}},
                "removed": {"type": "array", "items": {"type": "string"}},
                "unchanged": {"type": "array", "items": {"type": "string"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Store admin API",
	Description:      "Catalog, orders and storefront content of the store admin dashboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
