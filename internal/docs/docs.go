// Package docs registers one OpenAPI document per service with swag, each
// under its own instance name so gin-swagger serves the right one. Keep
// them in sync with the annotations in cmd/<service>-service/handlers.go.
package docs
