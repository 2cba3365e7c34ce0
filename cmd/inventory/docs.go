package main

// @title Inventory Service API
// @version 1.0
// @description Inventory reconciliation service: items, orders, stock transactions and alerts
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/tair/smart-inventory
// @contact.email support@example.com

// @license.name MIT
// @license.url https://github.com/tair/smart-inventory/blob/main/LICENSE

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Items
// @tag.description Stock-keeping items

// @tag.name Orders
// @tag.description Purchase and sale orders

// @tag.name Transactions
// @tag.description Manual stock movements

// @tag.name Alerts
// @tag.description Low-stock and expiry alerts

// @tag.name Health
// @tag.description Health check endpoints

// @tag.name Swagger
// @tag.description Swagger documentation endpoints
