package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger serves a Swagger UI page and the OpenAPI document it loads.
func RegisterSwagger(r gin.IRouter) {
	r.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})
	r.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>goldData API</title>
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

// One representative path per route group.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "goldData", "version": "v1.0.0" },
  "paths": {
    "/health": { "get": { "summary": "Liveness check" } },
    "/ready": { "get": { "summary": "Readiness check with dependency map" } },
    "/metrics": { "get": { "summary": "Prometheus metrics" } },
    "/api/stocks/top-stocks": { "get": { "summary": "Market list (every stocks list shares this CRUD shape)" } },
    "/api/stocks/topgainers/{category}": { "get": { "summary": "Gainers for large, mid or small caps" } },
    "/api/bookstore/categories": { "get": { "summary": "Homepage categories" } },
    "/api/bookstore/categories/{categoryName}": { "get": { "summary": "Category page with its books" } },
    "/api/bookstore/content": { "get": { "summary": "Catalog content entries" } },
    "/api/hospital/tests/{letter}": { "get": { "summary": "Medical tests by first letter" } },
    "/api/hospital/doctors": { "get": { "summary": "Doctor cards" } },
    "/api/hospital/diseases/{letter}": { "get": { "summary": "Diseases under an alphabet letter" } },
    "/api/doctorreview/reviews": { "get": { "summary": "Doctor reviews" } },
    "/api/login/login": { "post": { "summary": "Email and password login; returns access token and sets refresh cookie" } },
    "/api/login/refresh-token": { "post": { "summary": "Rotate the refresh token" } },
    "/api/login/logout": { "post": { "summary": "Revoke the session" } },
    "/api/schedule/schedules": { "get": { "summary": "Class schedules, newest first" } },
    "/api/document/document/{id}/file": { "post": { "summary": "Upload the file of a student document" } },
    "/api/education": { "get": { "summary": "Exams" } },
    "/api/helpsupport": { "get": { "summary": "Help-support tickets" } },
    "/api/clothing": { "get": { "summary": "Clothing categories" } },
    "/api/clothing/{gender}/{categoryName}": { "get": { "summary": "Category with its dresses" } },
    "/api/ecommerce/payment-methods": { "get": { "summary": "Payment methods with masked card data" } },
    "/api/ecommerce/orders": { "post": { "summary": "Create an order; totals computed server side" } },
    "/api/fitness/bmi": { "post": { "summary": "Compute BMI and store a food plan" } },
    "/api/contact": { "post": { "summary": "Send a contact form mail" } }
  }
}`
