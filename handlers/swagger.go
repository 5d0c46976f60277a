package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers Swagger/OpenAPI endpoints for the content API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>site-content API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// OpenAPI document for the content API.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "site-content", "version": "v1.0.0" },
  "components": {
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } },
    "schemas": {
      "Service": { "type": "object", "properties": { "name": {"type":"string"}, "description": {"type":"string"} } },
      "Content": {
        "type": "object",
        "properties": {
          "hero_title": {"type":"string"},
          "hero_subtitle": {"type":"string"},
          "hero_description": {"type":"string"},
          "about_title": {"type":"string"},
          "about_description": {"type":"string"},
          "services": { "type": "array", "items": { "$ref": "#/components/schemas/Service" } }
        }
      }
    }
  },
  "paths": {
    "/content": {
      "get": { "summary": "Public site content", "responses": { "200": { "description": "content document", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Content" } } } } } },
      "put": {
        "summary": "Update one text field",
        "security": [{ "bearer": [] }],
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"key":{"type":"string"},"value":{"type":"string"}}}}}},
        "responses": { "200": { "description": "field updated" }, "401": { "description": "missing or invalid token" }, "404": { "description": "unknown key" } }
      }
    },
    "/services": {
      "put": {
        "summary": "Replace the services list",
        "security": [{ "bearer": [] }],
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"services":{"type":"array","items":{"$ref":"#/components/schemas/Service"}}}}}}},
        "responses": { "200": { "description": "services replaced" }, "401": { "description": "missing or invalid token" } }
      }
    },
    "/content/document": {
      "put": {
        "summary": "Replace the whole content document atomically",
        "security": [{ "bearer": [] }],
        "requestBody": { "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Content" } } } },
        "responses": { "200": { "description": "stored document" }, "401": { "description": "missing or invalid token" } }
      }
    },
    "/login": {
      "post": {
        "summary": "Exchange admin credentials for a bearer token",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"username":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "200": { "description": "access_token and token_type" }, "400": { "description": "malformed body" }, "401": { "description": "bad credentials" } }
      }
    },
    "/logout": { "post": { "summary": "Revoke the presented token", "security": [{ "bearer": [] }], "responses": { "200": { "description": "logged out" } } } },
    "/me": { "get": { "summary": "Authenticated username", "security": [{ "bearer": [] }], "responses": { "200": { "description": "username" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/healthz": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "exposition" } } } }
  }
}`
