// Package handler is the HTTP entry point of the business logic.
//
// Handlers bind and validate requests through the validation package,
// resolve the caller and delegate to the service layer.
package handler
