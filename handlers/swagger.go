package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
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
    <title>docdesk API - Swagger</title>
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

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "docdesk", "version": "v0.1.0" },
  "components": {
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } }
  },
  "paths": {
    "/auth/login": {
      "post": {
        "summary": "Log in with email and password",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "200": { "description": "access token and user" }, "401": { "description": "invalid credentials" } }
      }
    },
    "/auth/google": {
      "post": { "summary": "Log in with the demo Google identity", "responses": { "200": { "description": "access token and user" } } }
    },
    "/auth/register": {
      "post": {
        "summary": "Create an account and log in",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"name":{"type":"string"},"email":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "201": { "description": "access token and user" }, "409": { "description": "email already registered" } }
      }
    },
    "/auth/logout": {
      "post": { "summary": "Clear the session and revoke the bearer token", "responses": { "200": { "description": "logged out" } } }
    },
    "/auth/session": {
      "get": { "summary": "Current session view", "responses": { "200": { "description": "user, isAuthenticated, isAdmin" } } }
    },
    "/auth/me": {
      "get": { "summary": "Caller identity", "security": [{"bearer": []}], "responses": { "200": { "description": "user" }, "401": { "description": "unauthenticated" } } }
    },
    "/api/documents": {
      "get": { "summary": "List documents (q filters by title)", "responses": { "200": { "description": "documents" } } },
      "post": {
        "summary": "Upload a document and start its ingestion",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["title","type"],"properties":{"title":{"type":"string"},"type":{"type":"string"},"size":{"type":"string"},"uploadedBy":{"type":"string"},"content":{"type":"string"}}}}}},
        "responses": { "201": { "description": "document and ingestion" }, "400": { "description": "missing fields" } }
      }
    },
    "/api/documents/{id}": {
      "get": { "summary": "Get a document", "responses": { "200": { "description": "document" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete a document", "responses": { "204": { "description": "deleted" }, "404": { "description": "not found" } } }
    },
    "/api/ingestions": {
      "get": { "summary": "List ingestions (q filters by document title)", "responses": { "200": { "description": "ingestions" } } }
    },
    "/api/ingestions/{id}": {
      "get": { "summary": "Get an ingestion", "responses": { "200": { "description": "ingestion" }, "404": { "description": "not found" } } }
    },
    "/api/ingestions/{id}/retry": {
      "post": { "summary": "Retry a failed ingestion", "responses": { "202": { "description": "restarted" }, "404": { "description": "not found" }, "409": { "description": "not failed" } } }
    },
    "/api/qa": {
      "post": {
        "summary": "Ask a question about the documents",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"query":{"type":"string"}}}}}},
        "responses": { "200": { "description": "answer and sources" }, "400": { "description": "empty query" } }
      }
    },
    "/api/dashboard": {
      "get": { "summary": "Document and ingestion overview", "responses": { "200": { "description": "summary" } } }
    },
    "/api/users": {
      "get": { "summary": "List users (admin)", "security": [{"bearer": []}], "responses": { "200": { "description": "users" }, "403": { "description": "not an admin" } } },
      "post": { "summary": "Create a user (admin)", "security": [{"bearer": []}], "responses": { "201": { "description": "user" }, "400": { "description": "invalid fields" } } }
    },
    "/api/users/{id}": {
      "get": { "summary": "Get a user (admin)", "security": [{"bearer": []}], "responses": { "200": { "description": "user" }, "404": { "description": "not found" } } },
      "patch": { "summary": "Update a user (admin)", "security": [{"bearer": []}], "responses": { "200": { "description": "user" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete a user (admin)", "security": [{"bearer": []}], "responses": { "204": { "description": "deleted" }, "404": { "description": "not found" } } }
    }
  }
}`
