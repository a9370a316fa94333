// Package docs registers the OpenAPI document served under /swagger.
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
        "Bearer": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/register": {"post": {"summary": "Register a customer", "tags": ["auth"], "responses": {"201": {"description": "Created"}, "409": {"description": "Duplicate username"}}}},
        "/auth/login": {"post": {"summary": "Exchange credentials for a bearer token", "tags": ["auth"], "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}}}},
        "/categories": {"get": {"summary": "List categories", "tags": ["catalog"], "responses": {"200": {"description": "OK"}}}},
        "/categories/{name}/products": {"get": {"summary": "List products of a category", "tags": ["catalog"], "parameters": [{"name": "name", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Unknown category"}}}},
        "/products/{name}": {"get": {"summary": "Product details", "tags": ["catalog"], "parameters": [{"name": "name", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Unknown product"}}}},
        "/me": {"get": {"summary": "Profile of the signed-in user", "tags": ["auth"], "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}, "404": {"description": "Account no longer exists"}}}},
        "/cart": {"get": {"summary": "View the cart and its total", "tags": ["cart"], "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}}},
        "/cart/items": {"post": {"summary": "Add a product to the cart", "tags": ["cart"], "security": [{"Bearer": []}], "responses": {"201": {"description": "Added"}, "200": {"description": "Already in cart"}, "404": {"description": "Unknown product"}}}},
        "/cart/items/{product}": {"delete": {"summary": "Remove a product from the cart", "tags": ["cart"], "security": [{"Bearer": []}], "parameters": [{"name": "product", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "Removed"}, "404": {"description": "Not in cart"}}}},
        "/orders": {"post": {"summary": "Summarize the cart into an order", "tags": ["orders"], "security": [{"Bearer": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Cart is empty"}}}},
        "/orders/{id}": {"get": {"summary": "Show an order summary", "tags": ["orders"], "security": [{"Bearer": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Unknown order"}}}},
        "/orders/{id}/checkout": {"post": {"summary": "Confirm the order and issue its bill", "tags": ["orders"], "security": [{"Bearer": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"201": {"description": "Bill issued"}, "409": {"description": "Order cannot be checked out"}}}},
        "/admin/categories": {"post": {"summary": "Add a category", "tags": ["admin"], "security": [{"Bearer": []}], "responses": {"201": {"description": "Created"}}}},
        "/admin/products": {"post": {"summary": "Add a product", "tags": ["admin"], "security": [{"Bearer": []}], "responses": {"201": {"description": "Created"}}}},
        "/admin/carts": {"get": {"summary": "Carts per user", "tags": ["admin"], "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/bills": {"get": {"summary": "Bills of confirmed orders", "tags": ["admin"], "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/orders/{id}/audit": {"get": {"summary": "Audit trail of an order", "tags": ["admin"], "security": [{"Bearer": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Retail Shop API",
	Description:      "Catalog, cart, order and bill endpoints.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
