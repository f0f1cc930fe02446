// Package docs registers the OpenAPI document served under /swagger/.
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
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Exchange email and password for a session cookie",
                "responses": {
                    "200": {"description": "session data and bearer token"},
                    "401": {"description": "bad email or password"}
                }
            }
        },
        "/order_stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Ticketed order counts by status bucket",
                "responses": {
                    "200": {"description": "accepted and rejected counts"},
                    "403": {"description": "access denied"}
                }
            }
        },
        "/{resource}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["crud"],
                "summary": "List documents of a registered resource",
                "parameters": [
                    {"type": "string", "name": "resource", "in": "path", "required": true},
                    {"type": "string", "name": "filter", "in": "query"},
                    {"type": "string", "name": "sort", "in": "query"},
                    {"type": "string", "name": "range", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "array of documents plus Content-Range header"},
                    "403": {"description": "access denied"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["crud"],
                "summary": "Create a document of a registered resource",
                "parameters": [
                    {"type": "string", "name": "resource", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "created document including its id"},
                    "403": {"description": "access denied"}
                }
            }
        },
        "/{resource}/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["crud"],
                "summary": "Retrieve one document with references expanded",
                "parameters": [
                    {"type": "string", "name": "resource", "in": "path", "required": true},
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "the document"},
                    "403": {"description": "access denied"},
                    "404": {"description": "not found"}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["crud"],
                "summary": "Merge-patch one document",
                "parameters": [
                    {"type": "string", "name": "resource", "in": "path", "required": true},
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "the updated document"},
                    "403": {"description": "access denied"},
                    "404": {"description": "not found"}
                }
            },
            "delete": {
                "tags": ["crud"],
                "summary": "Delete one document",
                "parameters": [
                    {"type": "string", "name": "resource", "in": "path", "required": true},
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "deleted"},
                    "403": {"description": "access denied"},
                    "404": {"description": "not found"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Service Desk Admin API",
	Description:      "Administrative CRUD API for services, categories, types, orders and users.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
